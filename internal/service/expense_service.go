package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/gopayurself/internal/apperr"
	"github.com/mmynk/gopayurself/internal/ledger"
	"github.com/mmynk/gopayurself/internal/models"
	"github.com/mmynk/gopayurself/pkg/api"
)

// ExpenseService implements the Connect ExpenseService on top of the ledger.
type ExpenseService struct {
	ledger *ledger.Ledger
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(l *ledger.Ledger) *ExpenseService {
	return &ExpenseService{ledger: l}
}

// CreateExpense records an expense paid by PayerID, or by the caller when
// PayerID is empty.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("CreateExpense request received",
		"group_id", msg.GroupID,
		"amount", msg.Amount.String(),
		"participants", len(msg.ParticipantIDs),
		"splits", len(msg.Splits),
	)

	if len(msg.ParticipantIDs) > 0 && len(msg.Splits) > 0 {
		return nil, toConnectError(apperr.Validation(apperr.ConflictingSplit,
			"set either participant_ids or splits, not both"))
	}
	amount, err := toCents("amount", msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	payer := msg.PayerID
	if payer == "" {
		payer = userID
	}

	var expense *models.Expense
	if len(msg.Splits) > 0 {
		splits, splitErr := fromAPISplits(msg.Splits)
		if splitErr != nil {
			return nil, toConnectError(splitErr)
		}
		expense, err = s.ledger.AddExpenseWithSplits(ctx, ledger.SplitExpenseRequest{
			GroupID:     msg.GroupID,
			Description: msg.Description,
			Amount:      amount,
			PayerID:     payer,
			Splits:      splits,
			CreatedBy:   userID,
		})
	} else {
		expense, err = s.ledger.AddExpense(ctx, ledger.ExpenseRequest{
			GroupID:      msg.GroupID,
			Description:  msg.Description,
			Amount:       amount,
			PayerID:      payer,
			Participants: msg.ParticipantIDs,
			CreatedBy:    userID,
		})
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns a group's records newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListExpenses(ctx, req.Msg.GroupID, userID, models.ExpenseKind(req.Msg.Kind))
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes a record. Only its payer may do so.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireField("expense_id", req.Msg.ExpenseID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.ledger.RemoveExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID, userID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// RecordSettlement records a debt payment. FromUserID defaults to the caller.
func (s *ExpenseService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	from := msg.FromUserID
	if from == "" {
		from = userID
	}
	amount, err := toCents("amount", msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	settlement, err := s.ledger.RecordSettlement(ctx, ledger.SettlementRequest{
		GroupID:    msg.GroupID,
		FromUserID: from,
		ToUserID:   msg.ToUserID,
		Amount:     amount,
		Note:       msg.Note,
		CreatedBy:  userID,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: toAPIExpense(settlement)}), nil
}
