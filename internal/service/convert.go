package service

import (
	"github.com/mmynk/gopayurself/internal/calculator"
	"github.com/mmynk/gopayurself/internal/models"
	"github.com/mmynk/gopayurself/pkg/api"
)

func toAPIUser(user *models.User) *api.User {
	return &api.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}

// toAPIGroup lists the owner first. Members without an account row (which
// the schema prevents) are shown by ID only.
func toAPIGroup(group *models.Group, users map[string]*models.User) *api.Group {
	ids := group.EffectiveMembers()
	members := make([]*api.Member, len(ids))
	for i, id := range ids {
		m := &api.Member{UserID: id, IsOwner: group.IsOwner(id)}
		if u, ok := users[id]; ok {
			m.Email = u.Email
			m.DisplayName = u.DisplayName
		}
		members[i] = m
	}
	return &api.Group{
		ID:        group.ID,
		Name:      group.Name,
		OwnerID:   group.OwnerID,
		Members:   members,
		CreatedAt: group.CreatedAt,
	}
}

func toAPIExpense(expense *models.Expense) *api.Expense {
	splits := make([]*api.Split, len(expense.Splits))
	for i, s := range expense.Splits {
		splits[i] = &api.Split{UserID: s.UserID, Amount: s.Amount.Decimal()}
	}
	return &api.Expense{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		Kind:        string(expense.Kind),
		Description: expense.Description,
		Amount:      expense.Amount.Decimal(),
		PayerID:     expense.PayerID,
		Splits:      splits,
		CreatedAt:   expense.CreatedAt,
		CreatedBy:   expense.CreatedBy,
	}
}

func fromAPISplits(splits []*api.Split) ([]models.Split, error) {
	out := make([]models.Split, 0, len(splits))
	for _, s := range splits {
		if s == nil {
			continue
		}
		amount, err := toCents("split amount", s.Amount)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Split{UserID: s.UserID, Amount: amount})
	}
	return out, nil
}

func toAPIBalances(members []calculator.MemberBalance, users map[string]*models.User) []*api.MemberBalance {
	out := make([]*api.MemberBalance, len(members))
	for i, m := range members {
		b := &api.MemberBalance{
			UserID:     m.MemberID,
			NetBalance: m.NetBalance.Decimal(),
			TotalPaid:  m.TotalPaid.Decimal(),
			TotalOwed:  m.TotalOwed.Decimal(),
		}
		if u, ok := users[m.MemberID]; ok {
			b.DisplayName = u.DisplayName
		}
		out[i] = b
	}
	return out
}

func toAPITransfers(edges []calculator.DebtEdge) []*api.Transfer {
	out := make([]*api.Transfer, len(edges))
	for i, e := range edges {
		out[i] = &api.Transfer{FromUserID: e.From, ToUserID: e.To, Amount: e.Amount.Decimal()}
	}
	return out
}

func toAPIPayables(payables []calculator.Payable) []*api.Payable {
	out := make([]*api.Payable, len(payables))
	for i, p := range payables {
		out[i] = &api.Payable{UserID: p.MemberID, Amount: p.Amount.Decimal()}
	}
	return out
}
