// Package api defines the request and response messages of the gopayurself
// RPC services. Money travels as decimal strings with two fractional digits.
package api

import "github.com/shopspring/decimal"

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Member is a group member as shown to other members.
type Member struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsOwner     bool   `json:"is_owner"`
}

type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Members   []*Member `json:"members"`
	CreatedAt int64     `json:"created_at"`
}

// CreateGroupRequest creates a group owned by the caller. Members are
// invited by email and must already have an account.
type CreateGroupRequest struct {
	Name         string   `json:"name"`
	MemberEmails []string `json:"member_emails"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	Email   string `json:"email"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type RemoveMemberResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

// MemberBalance is one member's position. A positive net balance means the
// group owes the member.
type MemberBalance struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	NetBalance  decimal.Decimal `json:"net_balance"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	TotalOwed   decimal.Decimal `json:"total_owed"`
}

// Transfer is a payment that moves money from a debtor to a creditor.
type Transfer struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type Payable struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

type GetGroupBalancesResponse struct {
	Balances             []*MemberBalance `json:"balances"`
	PayableTo            []*Payable       `json:"payable_to"`
	SuggestedSettlements []*Transfer      `json:"suggested_settlements"`
	TotalSpent           decimal.Decimal  `json:"total_spent"`
}

type Split struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Expense is a ledger record. Kind is "expense" or "settlement".
type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PayerID     string          `json:"payer_id"`
	Splits      []*Split        `json:"splits"`
	CreatedAt   int64           `json:"created_at"`
	CreatedBy   string          `json:"created_by"`
}

// CreateExpenseRequest splits Amount equally across ParticipantIDs, or uses
// the explicit Splits. Exactly one of the two must be set.
type CreateExpenseRequest struct {
	GroupID        string          `json:"group_id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	PayerID        string          `json:"payer_id"`
	ParticipantIDs []string        `json:"participant_ids,omitempty"`
	Splits         []*Split        `json:"splits,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// ListExpensesRequest lists a group's records newest first. Kind filters
// by record kind when set.
type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
	Kind    string `json:"kind,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	GroupID   string `json:"group_id"`
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type RecordSettlementRequest struct {
	GroupID    string          `json:"group_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Expense `json:"settlement"`
}
