package ledger

import (
	"context"
	"log/slog"

	"github.com/mmynk/gopayurself/internal/calculator"
	"github.com/mmynk/gopayurself/internal/notify"
)

// AddMember invites member into the group. Only the owner may do this.
func (l *Ledger) AddMember(ctx context.Context, groupID, requester, member string) error {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := CheckMemberAddition(group, requester, member); err != nil {
		return err
	}
	if _, err := l.store.GetUserByID(ctx, member); err != nil {
		return err
	}
	return l.store.AddGroupMember(ctx, groupID, member)
}

// RemoveMember removes a settled-up member from the group.
func (l *Ledger) RemoveMember(ctx context.Context, groupID, requester, member string) error {
	snap, err := l.store.GetLedger(ctx, groupID)
	if err != nil {
		return err
	}
	balances, err := calculator.CalculateBalances(snap.Group.EffectiveMembers(), Entries(snap.Expenses))
	if err != nil {
		l.integrityFailure(ctx, groupID, err)
		return err
	}
	if err := CheckMemberRemoval(snap.Group, balances, requester, member); err != nil {
		return err
	}
	if err := l.store.RemoveGroupMember(ctx, groupID, member); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Member removed", "group_id", groupID, "member", member)
	return nil
}

// DeleteGroup removes the group and its whole ledger. Only the owner may do this.
func (l *Ledger) DeleteGroup(ctx context.Context, groupID, requester string) error {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := RequireOwner(group, requester); err != nil {
		return err
	}
	if err := l.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Group deleted", "group_id", groupID, "owner", requester)
	event := notify.Event{
		Type:       notify.GroupDeleted,
		GroupID:    groupID,
		ActorID:    requester,
		OccurredAt: l.now().UTC(),
	}
	if err := l.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event", "type", event.Type, "group_id", groupID, "error", err)
	}
	return nil
}
