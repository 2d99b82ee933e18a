// Package models defines the core domain models for the group ledger.
//
// # Models
//
//   - User: a registered account; its ID is the member identity used everywhere else
//   - Group: an owner plus invited members sharing one ledger
//   - Expense: one ledger record, either a real expense or a settlement
//   - Split: one participant's share of an Expense
//
// # Design Principles
//
//  1. Money is stored as money.Cents, never as floats
//  2. Relationships use ID strings instead of pointers
//  3. Expenses are immutable; deletion is the only revision
//  4. Balances are not a model: they are derived from the ledger on every read
package models
