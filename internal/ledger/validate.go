package ledger

import (
	"github.com/mmynk/gopayurself/internal/apperr"
	"github.com/mmynk/gopayurself/internal/calculator"
	"github.com/mmynk/gopayurself/internal/models"
	"github.com/mmynk/gopayurself/internal/money"
)

// ExpenseRequest asks for an expense split equally across participants.
type ExpenseRequest struct {
	GroupID      string
	Description  string
	Amount       money.Cents
	PayerID      string
	Participants []string
	CreatedBy    string
}

// SplitExpenseRequest asks for an expense with explicit per-participant amounts.
type SplitExpenseRequest struct {
	GroupID     string
	Description string
	Amount      money.Cents
	PayerID     string
	Splits      []models.Split
	CreatedBy   string
}

// SettlementRequest records FromUserID paying ToUserID back.
type SettlementRequest struct {
	GroupID    string
	FromUserID string
	ToUserID   string
	Amount     money.Cents
	Note       string
	CreatedBy  string
}

// BuildExpense validates req against group and returns the normalized record,
// without ID or timestamp. Duplicate participants collapse to their first occurrence.
func BuildExpense(group *models.Group, req ExpenseRequest) (*models.Expense, error) {
	if err := checkAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	participants := dedupe(req.Participants)
	if len(participants) == 0 {
		return nil, apperr.Validation(apperr.EmptyParticipants, "at least one participant is required")
	}
	if err := checkMembers(group, req.PayerID, participants); err != nil {
		return nil, err
	}

	shares, err := calculator.EqualShares(req.Amount, participants)
	if err != nil {
		return nil, apperr.Validation(apperr.EmptyParticipants, "%v", err)
	}

	return &models.Expense{
		GroupID:     group.ID,
		Kind:        models.KindExpense,
		Description: req.Description,
		Amount:      req.Amount,
		PayerID:     req.PayerID,
		Splits:      toSplits(shares),
		CreatedBy:   req.CreatedBy,
	}, nil
}

// BuildSplitExpense validates an explicit split. The splits must add up to the
// amount to the cent.
func BuildSplitExpense(group *models.Group, req SplitExpenseRequest) (*models.Expense, error) {
	if err := checkAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	if len(req.Splits) == 0 {
		return nil, apperr.Validation(apperr.EmptyParticipants, "at least one split is required")
	}

	seen := make(map[string]bool, len(req.Splits))
	participants := make([]string, 0, len(req.Splits))
	for _, s := range req.Splits {
		if err := checkAmount("split for "+s.UserID, s.Amount); err != nil {
			return nil, err
		}
		if seen[s.UserID] {
			return nil, apperr.Validation(apperr.DuplicateParticipant, "%s appears in more than one split", s.UserID)
		}
		seen[s.UserID] = true
		participants = append(participants, s.UserID)
	}
	if err := checkMembers(group, req.PayerID, participants); err != nil {
		return nil, err
	}

	shares := make([]calculator.Share, len(req.Splits))
	for i, s := range req.Splits {
		shares[i] = calculator.Share{UserID: s.UserID, Amount: s.Amount}
	}
	if err := calculator.CheckShares(req.Amount, shares); err != nil {
		return nil, apperr.Validation(apperr.SplitMismatch, "%v", err)
	}

	return &models.Expense{
		GroupID:     group.ID,
		Kind:        models.KindExpense,
		Description: req.Description,
		Amount:      req.Amount,
		PayerID:     req.PayerID,
		Splits:      toSplits(shares),
		CreatedBy:   req.CreatedBy,
	}, nil
}

// BuildSettlement turns a debt payment into a one-participant record:
// payer = debtor, the only split = creditor.
func BuildSettlement(group *models.Group, req SettlementRequest) (*models.Expense, error) {
	if req.Amount <= 0 {
		return nil, apperr.Validation(apperr.NonPositiveSettlement, "settlement must be positive, got %s", req.Amount)
	}
	if req.FromUserID != "" && req.FromUserID == req.ToUserID {
		return nil, apperr.Validation(apperr.SelfSettlement, "cannot settle with yourself")
	}

	expense, err := BuildExpense(group, ExpenseRequest{
		GroupID:      req.GroupID,
		Description:  req.Note,
		Amount:       req.Amount,
		PayerID:      req.FromUserID,
		Participants: nonEmpty(req.ToUserID),
		CreatedBy:    req.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	expense.Kind = models.KindSettlement
	if expense.Description == "" {
		expense.Description = "Settlement"
	}
	return expense, nil
}

// Entries converts stored records into balance engine input.
func Entries(expenses []*models.Expense) []calculator.LedgerEntry {
	entries := make([]calculator.LedgerEntry, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.Share, len(e.Splits))
		for j, s := range e.Splits {
			shares[j] = calculator.Share{UserID: s.UserID, Amount: s.Amount}
		}
		entries[i] = calculator.LedgerEntry{
			ID:      e.ID,
			PayerID: e.PayerID,
			Amount:  e.Amount,
			Shares:  shares,
		}
	}
	return entries
}

// checkAmount requires 0 < amount <= money.MaxAmount.
func checkAmount(field string, amount money.Cents) error {
	if amount <= 0 {
		return apperr.Validation(apperr.InvalidAmount, "%s must be positive, got %s", field, amount)
	}
	if amount > money.MaxAmount {
		return apperr.Validation(apperr.InvalidAmount, "%s exceeds %s", field, money.MaxAmount)
	}
	return nil
}

func checkMembers(group *models.Group, payerID string, participants []string) error {
	if !group.IsMember(payerID) {
		return apperr.Validation(apperr.NonMember, "payer %q is not a member of the group", payerID)
	}
	for _, p := range participants {
		if !group.IsMember(p) {
			return apperr.Validation(apperr.NonMember, "participant %q is not a member of the group", p)
		}
	}
	return nil
}

func toSplits(shares []calculator.Share) []models.Split {
	splits := make([]models.Split, len(shares))
	for i, s := range shares {
		splits[i] = models.Split{UserID: s.UserID, Amount: s.Amount}
	}
	return splits
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func nonEmpty(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}
