// Package ledger records expenses and settlements against a group and derives
// balances from the recorded history.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/gopayurself/internal/apperr"
	"github.com/mmynk/gopayurself/internal/calculator"
	"github.com/mmynk/gopayurself/internal/metrics"
	"github.com/mmynk/gopayurself/internal/models"
	"github.com/mmynk/gopayurself/internal/money"
	"github.com/mmynk/gopayurself/internal/notify"
	"github.com/mmynk/gopayurself/internal/storage"
)

// Ledger is the write path for expense records and the read path for balances.
type Ledger struct {
	store     storage.Store
	publisher notify.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
	newID     func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the clock used to timestamp records.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides how record IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// WithMetrics records ledger activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// New creates a Ledger. A nil publisher falls back to logging events.
func New(store storage.Store, publisher notify.Publisher, opts ...Option) *Ledger {
	if publisher == nil {
		publisher = notify.LogPublisher{}
	}
	l := &Ledger{
		store:     store,
		publisher: publisher,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BalanceReport is everything a group page needs to show who owes what.
type BalanceReport struct {
	Group      *models.Group
	Members    []calculator.MemberBalance
	Balances   calculator.Balances
	Payable    []calculator.Payable
	Suggested  []calculator.DebtEdge
	TotalSpent money.Cents
}

// AddExpense splits req.Amount equally across the participants and records it.
func (l *Ledger) AddExpense(ctx context.Context, req ExpenseRequest) (*models.Expense, error) {
	group, err := l.groupFor(ctx, req.GroupID, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	expense, err := BuildExpense(group, req)
	if err != nil {
		return nil, err
	}
	return l.record(ctx, expense, notify.ExpenseCreated)
}

// AddExpenseWithSplits records an expense with explicit per-participant amounts.
func (l *Ledger) AddExpenseWithSplits(ctx context.Context, req SplitExpenseRequest) (*models.Expense, error) {
	group, err := l.groupFor(ctx, req.GroupID, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	expense, err := BuildSplitExpense(group, req)
	if err != nil {
		return nil, err
	}
	return l.record(ctx, expense, notify.ExpenseCreated)
}

// RecordSettlement records FromUserID paying ToUserID. Paying more than is
// owed is allowed and logged.
func (l *Ledger) RecordSettlement(ctx context.Context, req SettlementRequest) (*models.Expense, error) {
	snap, err := l.store.GetLedger(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != "" {
		if err := RequireMember(snap.Group, req.CreatedBy); err != nil {
			return nil, err
		}
	}

	expense, err := BuildSettlement(snap.Group, req)
	if err != nil {
		return nil, err
	}

	balances, err := calculator.CalculateBalances(snap.Group.EffectiveMembers(), Entries(snap.Expenses))
	if err != nil {
		l.integrityFailure(ctx, req.GroupID, err)
		return nil, err
	}
	if debt := -balances.Of(req.FromUserID); req.Amount > debt {
		slog.WarnContext(ctx, "Settlement exceeds current debt",
			"group_id", req.GroupID,
			"from", req.FromUserID,
			"to", req.ToUserID,
			"amount", req.Amount.String(),
			"debt", debt.String(),
		)
	}

	return l.record(ctx, expense, notify.SettlementCreated)
}

// RemoveExpense deletes a record. Only the payer may remove it. An empty
// groupID skips the group check.
func (l *Ledger) RemoveExpense(ctx context.Context, groupID, expenseID, requester string) error {
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if groupID != "" && expense.GroupID != groupID {
		return apperr.NotFound("expense", expenseID)
	}
	if expense.PayerID != requester {
		return apperr.Forbidden(apperr.NotPayer, "only the payer can delete this expense")
	}

	if err := l.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	l.metrics.RecordDeleted()

	slog.InfoContext(ctx, "Expense deleted",
		"expense_id", expenseID,
		"group_id", expense.GroupID,
		"requester", requester,
	)
	l.publish(ctx, notify.ExpenseDeleted, expense, requester)
	return nil
}

// ListExpenses returns the group's records newest first. An empty kind
// returns every record.
func (l *Ledger) ListExpenses(ctx context.Context, groupID, requester string, kind models.ExpenseKind) ([]*models.Expense, error) {
	if _, err := l.groupFor(ctx, groupID, requester); err != nil {
		return nil, err
	}
	if kind != "" && !kind.Valid() {
		return nil, apperr.Validation(apperr.InvalidKind, "unknown expense kind %q", kind)
	}

	expenses, err := l.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		return expenses, nil
	}

	filtered := make([]*models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Kind == kind {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// GroupBalances folds the group's ledger into balances, as seen by viewer.
// An empty viewer skips the membership check.
func (l *Ledger) GroupBalances(ctx context.Context, groupID, viewer string) (*BalanceReport, error) {
	snap, err := l.store.GetLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if viewer != "" {
		if err := RequireMember(snap.Group, viewer); err != nil {
			return nil, err
		}
	}

	members, err := calculator.CalculateMemberBalances(snap.Group.EffectiveMembers(), Entries(snap.Expenses))
	if err != nil {
		l.integrityFailure(ctx, groupID, err)
		return nil, err
	}
	l.metrics.BalanceComputed()

	balances := make(calculator.Balances, len(members))
	for _, m := range members {
		balances[m.MemberID] = m.NetBalance
	}

	var spent money.Cents
	for _, e := range snap.Expenses {
		if e.Kind != models.KindExpense {
			continue
		}
		var ok bool
		if spent, ok = money.Add(spent, e.Amount); !ok {
			err := &apperr.DataIntegrityError{ExpenseID: e.ID, Detail: "group total overflows"}
			l.integrityFailure(ctx, groupID, err)
			return nil, err
		}
	}

	return &BalanceReport{
		Group:      snap.Group,
		Members:    members,
		Balances:   balances,
		Payable:    calculator.PayableTo(balances, viewer),
		Suggested:  calculator.SuggestSettlements(balances),
		TotalSpent: spent,
	}, nil
}

// groupFor loads the group and checks that actor, when set, belongs to it.
func (l *Ledger) groupFor(ctx context.Context, groupID, actor string) (*models.Group, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if actor != "" {
		if err := RequireMember(group, actor); err != nil {
			return nil, err
		}
	}
	return group, nil
}

func (l *Ledger) record(ctx context.Context, expense *models.Expense, event notify.EventType) (*models.Expense, error) {
	expense.ID = l.newID()
	expense.CreatedAt = l.now().Unix()

	if err := l.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}
	l.metrics.RecordCreated(string(expense.Kind))

	slog.InfoContext(ctx, "Ledger record created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"kind", expense.Kind,
		"amount", expense.Amount.String(),
		"participants", len(expense.Splits),
	)
	l.publish(ctx, event, expense, expense.CreatedBy)
	return expense, nil
}

// publish never fails the caller: the record is already committed.
func (l *Ledger) publish(ctx context.Context, typ notify.EventType, expense *models.Expense, actor string) {
	event := notify.Event{
		Type:         typ,
		GroupID:      expense.GroupID,
		ExpenseID:    expense.ID,
		ActorID:      actor,
		PayerID:      expense.PayerID,
		Amount:       expense.Amount.String(),
		Participants: expense.Participants(),
		OccurredAt:   l.now().UTC(),
	}
	if err := l.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"type", typ,
			"expense_id", expense.ID,
			"error", err,
		)
	}
}

func (l *Ledger) integrityFailure(ctx context.Context, groupID string, err error) {
	var integrity *apperr.DataIntegrityError
	if !errors.As(err, &integrity) {
		return
	}
	l.metrics.IntegrityFailure()
	slog.ErrorContext(ctx, "Ledger integrity violation",
		"group_id", groupID,
		"expense_id", integrity.ExpenseID,
		"error", err,
	)
}
