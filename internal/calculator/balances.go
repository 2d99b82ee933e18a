package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/gopayurself/internal/apperr"
	"github.com/mmynk/gopayurself/internal/money"
)

// LedgerEntry is an expense or settlement with the minimal information needed
// for balance calculations.
type LedgerEntry struct {
	ID      string
	PayerID string
	Amount  money.Cents
	Shares  []Share
}

// Balances maps a member identity to its signed net balance.
// Positive = the group owes the member, negative = the member owes the group.
type Balances map[string]money.Cents

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	MemberID   string
	NetBalance money.Cents // Positive = owed money, Negative = owes money
	TotalPaid  money.Cents // Total amount paid across all entries
	TotalOwed  money.Cents // Total of this member's shares
}

// DebtEdge represents a suggested payment from one member to another.
type DebtEdge struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount money.Cents
}

// Payable is a net creditor the viewer could pay.
type Payable struct {
	MemberID string
	Amount   money.Cents
}

// CalculateMemberBalances folds the ledger into per-member totals.
//
// Algorithm:
//   - every member starts at zero
//   - for each entry: the payer is credited the full amount, each share is debited
//   - net_balance = total_paid - total_owed
//
// Members come first in the order given; identities that only appear in the
// ledger (people removed from the group later) follow, sorted by ID.
// Malformed entries abort the computation with an apperr.DataIntegrityError.
func CalculateMemberBalances(members []string, entries []LedgerEntry) ([]MemberBalance, error) {
	balances := make(map[string]*MemberBalance, len(members))
	order := make([]string, 0, len(members))
	track := func(id string) *MemberBalance {
		if b, ok := balances[id]; ok {
			return b
		}
		b := &MemberBalance{MemberID: id}
		balances[id] = b
		order = append(order, id)
		return b
	}
	for _, m := range members {
		track(m)
	}
	known := len(order)

	for _, entry := range entries {
		if err := checkEntry(entry); err != nil {
			return nil, err
		}

		payer := track(entry.PayerID)
		paid, ok := money.Add(payer.TotalPaid, entry.Amount)
		if !ok {
			return nil, overflow(entry.ID, entry.PayerID)
		}
		payer.TotalPaid = paid
		for _, share := range entry.Shares {
			b := track(share.UserID)
			owed, ok := money.Add(b.TotalOwed, share.Amount)
			if !ok {
				return nil, overflow(entry.ID, share.UserID)
			}
			b.TotalOwed = owed
		}
	}

	// former aliases the tail of order, so this sorts order in place
	former := order[known:]
	sort.Strings(former)

	result := make([]MemberBalance, len(order))
	for i, id := range order {
		b := balances[id]
		net, ok := money.Sub(b.TotalPaid, b.TotalOwed)
		if !ok {
			return nil, overflow("", id)
		}
		b.NetBalance = net
		result[i] = *b
	}
	return result, nil
}

func overflow(entryID, member string) error {
	return &apperr.DataIntegrityError{
		ExpenseID: entryID,
		Detail:    fmt.Sprintf("totals for %s overflow", member),
	}
}

// CalculateBalances computes the net balance of every member.
// It is pure: the same members and entries always give the same result.
func CalculateBalances(members []string, entries []LedgerEntry) (Balances, error) {
	memberBalances, err := CalculateMemberBalances(members, entries)
	if err != nil {
		return nil, err
	}
	balances := make(Balances, len(memberBalances))
	for _, mb := range memberBalances {
		balances[mb.MemberID] = mb.NetBalance
	}
	return balances, nil
}

func checkEntry(entry LedgerEntry) error {
	integrity := func(format string, args ...any) error {
		return &apperr.DataIntegrityError{ExpenseID: entry.ID, Detail: fmt.Sprintf(format, args...)}
	}
	if entry.PayerID == "" {
		return integrity("missing payer")
	}
	if entry.Amount <= 0 {
		return integrity("non-positive amount %s", entry.Amount)
	}
	if entry.Amount > money.MaxAmount {
		return integrity("amount %s exceeds %s", entry.Amount, money.MaxAmount)
	}
	if len(entry.Shares) == 0 {
		return integrity("no participants")
	}
	var total money.Cents
	for _, s := range entry.Shares {
		if s.UserID == "" || s.Amount <= 0 {
			return integrity("invalid share %q=%s", s.UserID, s.Amount)
		}
		var ok bool
		if total, ok = money.Add(total, s.Amount); !ok {
			return integrity("shares overflow")
		}
	}
	if total != entry.Amount {
		return integrity("shares add up to %s, amount is %s", total, entry.Amount)
	}
	return nil
}

// Of returns member's balance; zero for unknown members.
func (b Balances) Of(member string) money.Cents {
	return b[member]
}

// Total sums every balance. It is zero for any well-formed ledger.
func (b Balances) Total() money.Cents {
	var total money.Cents
	for _, v := range b {
		total += v
	}
	return total
}

// PayableTo lists every member other than viewer with a positive balance,
// largest first. A positive balance is a net position in the group, not a
// claim on the viewer in particular; SuggestSettlements gives pairwise transfers.
func PayableTo(b Balances, viewer string) []Payable {
	var out []Payable
	for id, amount := range b {
		if id == viewer || amount <= 0 {
			continue
		}
		out = append(out, Payable{MemberID: id, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out
}

// SuggestSettlements returns transfers that bring every balance to zero.
//
// Greedy matching: the largest debtor pays the largest creditor the smaller of
// the two amounts, and whoever is cleared drops out. This yields at most n-1
// transfers. Amounts are exact because balances are in cents.
func SuggestSettlements(b Balances) []DebtEdge {
	type position struct {
		id     string
		amount money.Cents
	}
	var creditors, debtors []position
	for id, amount := range b {
		switch {
		case amount > 0:
			creditors = append(creditors, position{id, amount})
		case amount < 0:
			debtors = append(debtors, position{id, -amount})
		}
	}
	byAmount := func(p []position) func(i, j int) bool {
		return func(i, j int) bool {
			if p[i].amount != p[j].amount {
				return p[i].amount > p[j].amount
			}
			return p[i].id < p[j].id
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := min(debtors[i].amount, creditors[j].amount)
		edges = append(edges, DebtEdge{
			From:   debtors[i].id,
			To:     creditors[j].id,
			Amount: amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}
	return edges
}
