// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/gopayurself/internal/models"
)

// Snapshot is a consistent read of one group's ledger: the group with its
// members and every expense record, oldest first.
type Snapshot struct {
	Group    *models.Group
	Expenses []*models.Expense
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Lookups of missing rows return an *apperr.NotFoundError.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists a new group with its members.
	// The group.ID and group.CreatedAt fields are populated when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns the groups userID owns or belongs to.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	AddGroupMember(ctx context.Context, groupID, userID string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// DeleteGroup removes the group, its members and its whole ledger atomically.
	DeleteGroup(ctx context.Context, groupID string) error
}

// ExpenseStore persists ledger records.
type ExpenseStore interface {
	// CreateExpense persists an expense and its splits atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns the group's records, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	DeleteExpense(ctx context.Context, expenseID string) error

	// GetLedger reads the group and its records in a single read-only transaction.
	GetLedger(ctx context.Context, groupID string) (*Snapshot, error)
}
