package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/gopayurself/internal/ledger"
	"github.com/mmynk/gopayurself/internal/models"
	"github.com/mmynk/gopayurself/internal/storage"
	"github.com/mmynk/gopayurself/pkg/api"
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store  storage.Store
	ledger *ledger.Ledger
}

// NewGroupService creates a GroupService on top of the store and ledger.
func NewGroupService(store storage.Store, l *ledger.Ledger) *GroupService {
	return &GroupService{store: store, ledger: l}
}

// CreateGroup creates a group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberEmails),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if err := requireField("name", name); err != nil {
		return nil, toConnectError(err)
	}

	members, err := s.resolveEmails(ctx, req.Msg.MemberEmails)
	if err != nil {
		return nil, toConnectError(err)
	}

	group := &models.Group{Name: name, OwnerID: userID, Members: members}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID, "owner", userID)

	apiGroup, err := s.describe(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateGroupResponse{Group: apiGroup}), nil
}

// GetGroup returns a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := ledger.RequireMember(group, userID); err != nil {
		return nil, toConnectError(err)
	}

	apiGroup, err := s.describe(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: apiGroup}), nil
}

// ListGroups returns every group the caller owns or belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		if out[i], err = s.describe(ctx, group); err != nil {
			return nil, toConnectError(err)
		}
	}

	slog.Debug("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddMember invites an existing account by email.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireField("email", req.Msg.Email); err != nil {
		return nil, toConnectError(err)
	}

	member, err := s.store.GetUserByEmail(ctx, req.Msg.Email)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.ledger.AddMember(ctx, req.Msg.GroupID, userID, member.ID); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "group_id", req.Msg.GroupID, "member", member.ID)

	apiGroup, err := s.reload(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AddMemberResponse{Group: apiGroup}), nil
}

// RemoveMember removes a settled-up member.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.RemoveMember(ctx, req.Msg.GroupID, userID, req.Msg.UserID); err != nil {
		return nil, toConnectError(err)
	}

	apiGroup, err := s.reload(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RemoveMemberResponse{Group: apiGroup}), nil
}

// DeleteGroup removes a group with its whole ledger.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.DeleteGroup(ctx, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// GetGroupBalances derives every member's balance from the group's ledger.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.GroupID
	if err := requireField("group_id", groupID); err != nil {
		return nil, toConnectError(err)
	}

	report, err := s.ledger.GroupBalances(ctx, groupID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	ids := make([]string, len(report.Members))
	for i, m := range report.Members {
		ids[i] = m.MemberID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"members_count", len(report.Members),
		"transfers_count", len(report.Suggested),
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		Balances:             toAPIBalances(report.Members, users),
		PayableTo:            toAPIPayables(report.Payable),
		SuggestedSettlements: toAPITransfers(report.Suggested),
		TotalSpent:           report.TotalSpent.Decimal(),
	}), nil
}

// resolveEmails maps invitee emails to user IDs. Unknown emails fail the call.
func (s *GroupService) resolveEmails(ctx context.Context, emails []string) ([]string, error) {
	seen := make(map[string]bool, len(emails))
	ids := make([]string, 0, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true

		user, err := s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		ids = append(ids, user.ID)
	}
	return ids, nil
}

func (s *GroupService) reload(ctx context.Context, groupID string) (*api.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, group)
}

func (s *GroupService) describe(ctx context.Context, group *models.Group) (*api.Group, error) {
	users, err := s.store.GetUsersByIDs(ctx, group.EffectiveMembers())
	if err != nil {
		return nil, err
	}
	return toAPIGroup(group, users), nil
}

