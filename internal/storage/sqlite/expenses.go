package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/gopayurself/internal/apperr"
	"github.com/mmynk/gopayurself/internal/models"
	"github.com/mmynk/gopayurself/internal/money"
	"github.com/mmynk/gopayurself/internal/storage"
)

const expenseColumns = "id, group_id, kind, description, amount_cents, payer_id, created_at, created_by"

// CreateExpense persists a ledger record and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Kind == "" {
		expense.Kind = models.KindExpense
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, kind, description, amount_cents, payer_id, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, string(expense.Kind), expense.Description,
		int64(expense.Amount), expense.PayerID, expense.CreatedAt, expense.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, position, user_id, amount_cents) VALUES (?, ?, ?, ?)",
			expense.ID, i, split.UserID, int64(split.Amount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves a ledger record by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	splits, err := loadSplits(ctx, s.db, "WHERE s.expense_id = ?", expenseID)
	if err != nil {
		return nil, err
	}
	expense.Splits = splits[expense.ID]

	return expense, nil
}

// ListExpensesByGroup retrieves all records for a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return listExpenses(ctx, s.db, groupID, "DESC")
}

// DeleteExpense removes a ledger record by ID. Its splits go with it.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense splits: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("expense", expenseID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetLedger reads a group and its full ledger, oldest record first.
// Everything is read inside one transaction so concurrent writes cannot
// produce a torn snapshot.
func (s *SQLiteStore) GetLedger(ctx context.Context, groupID string) (*storage.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// read-only: never committed
	defer tx.Rollback()

	group, err := getGroup(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := listExpenses(ctx, tx, groupID, "ASC")
	if err != nil {
		return nil, err
	}

	return &storage.Snapshot{Group: group, Expenses: expenses}, nil
}

// listExpenses loads a group's records and their splits. order is ASC or DESC.
func listExpenses(ctx context.Context, q queryer, groupID, order string) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY created_at "+order+", seq "+order,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	splits, err := loadSplits(ctx, q,
		"JOIN expenses e ON e.id = s.expense_id WHERE e.group_id = ?", groupID)
	if err != nil {
		return nil, err
	}
	for _, expense := range expenses {
		expense.Splits = splits[expense.ID]
	}

	return expenses, nil
}

// loadSplits returns splits keyed by expense ID, in participant order.
func loadSplits(ctx context.Context, q queryer, where string, args ...any) (map[string][]models.Split, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT s.expense_id, s.user_id, s.amount_cents FROM expense_splits s "+where+" ORDER BY s.expense_id, s.position",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[string][]models.Split)
	for rows.Next() {
		var expenseID string
		var split models.Split
		var amount int64
		if err := rows.Scan(&expenseID, &split.UserID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		split.Amount = money.Cents(amount)
		splits[expenseID] = append(splits[expenseID], split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return splits, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var kind string
	var amount int64
	if err := row.Scan(&expense.ID, &expense.GroupID, &kind, &expense.Description,
		&amount, &expense.PayerID, &expense.CreatedAt, &expense.CreatedBy); err != nil {
		return nil, err
	}
	expense.Kind = models.ExpenseKind(kind)
	expense.Amount = money.Cents(amount)
	return expense, nil
}
