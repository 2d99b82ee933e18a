package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/gopayurself/internal/apperr"
	"github.com/mmynk/gopayurself/internal/money"
)

var abc = []string{"A", "B", "C"}

func equalEntry(t *testing.T, id, payer string, amount money.Cents, participants ...string) LedgerEntry {
	t.Helper()
	shares, err := EqualShares(amount, participants)
	require.NoError(t, err)
	return LedgerEntry{ID: id, PayerID: payer, Amount: amount, Shares: shares}
}

func TestCalculateBalances(t *testing.T) {
	tests := []struct {
		name    string
		members []string
		entries func(t *testing.T) []LedgerEntry
		want    Balances
	}{
		{
			name:    "no expenses",
			members: abc,
			entries: func(t *testing.T) []LedgerEntry { return nil },
			want:    Balances{"A": 0, "B": 0, "C": 0},
		},
		{
			name:    "single expense full split",
			members: abc,
			entries: func(t *testing.T) []LedgerEntry {
				return []LedgerEntry{equalEntry(t, "e1", "A", 3000, "A", "B", "C")}
			},
			want: Balances{"A": 2000, "B": -1000, "C": -1000},
		},
		{
			name:    "payer outside the participants",
			members: abc,
			entries: func(t *testing.T) []LedgerEntry {
				return []LedgerEntry{equalEntry(t, "e1", "A", 1000, "B", "C")}
			},
			want: Balances{"A": 1000, "B": -500, "C": -500},
		},
		{
			name:    "settlement closes a debt",
			members: []string{"A", "B"},
			entries: func(t *testing.T) []LedgerEntry {
				return []LedgerEntry{
					equalEntry(t, "e1", "A", 2000, "A", "B"),
					equalEntry(t, "s1", "B", 1000, "A"),
				}
			},
			want: Balances{"A": 0, "B": 0},
		},
		{
			name:    "ten dollars three ways",
			members: abc,
			entries: func(t *testing.T) []LedgerEntry {
				return []LedgerEntry{equalEntry(t, "e1", "B", 1000, "A", "B", "C")}
			},
			want: Balances{"A": -334, "B": 667, "C": -333},
		},
		{
			name:    "former member keeps their balance",
			members: []string{"A", "B"},
			entries: func(t *testing.T) []LedgerEntry {
				return []LedgerEntry{equalEntry(t, "e1", "A", 900, "A", "B", "Z")}
			},
			want: Balances{"A": 600, "B": -300, "Z": -300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateBalances(tt.members, tt.entries(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, money.Cents(0), got.Total())
		})
	}
}

func TestCalculateMemberBalancesBreakdown(t *testing.T) {
	entries := []LedgerEntry{
		equalEntry(t, "e1", "A", 3000, "A", "B", "C"),
		equalEntry(t, "e2", "B", 1200, "B", "C"),
		equalEntry(t, "e3", "X", 100, "A"),
	}

	got, err := CalculateMemberBalances(abc, entries)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, MemberBalance{MemberID: "A", TotalPaid: 3000, TotalOwed: 1100, NetBalance: 1900}, got[0])
	assert.Equal(t, MemberBalance{MemberID: "B", TotalPaid: 1200, TotalOwed: 1600, NetBalance: -400}, got[1])
	assert.Equal(t, MemberBalance{MemberID: "C", TotalPaid: 0, TotalOwed: 1600, NetBalance: -1600}, got[2])
	assert.Equal(t, "X", got[3].MemberID, "ledger-only identities come last")
}

func TestCalculateBalancesRejectsMalformedEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry LedgerEntry
	}{
		{"no participants", LedgerEntry{ID: "bad", PayerID: "A", Amount: 1000}},
		{"zero amount", LedgerEntry{ID: "bad", PayerID: "A", Amount: 0, Shares: []Share{{"B", 0}}}},
		{"missing payer", LedgerEntry{ID: "bad", Amount: 1000, Shares: []Share{{"B", 1000}}}},
		{"shares do not add up", LedgerEntry{ID: "bad", PayerID: "A", Amount: 1000, Shares: []Share{{"B", 333}, {"C", 333}}}},
		{"negative share", LedgerEntry{ID: "bad", PayerID: "A", Amount: 1000, Shares: []Share{{"B", 1500}, {"C", -500}}}},
		{"amount beyond limit", LedgerEntry{ID: "bad", PayerID: "A", Amount: 9e18, Shares: []Share{{"B", 9e18}}}},
		{"shares overflow", LedgerEntry{ID: "bad", PayerID: "A", Amount: 1000, Shares: []Share{{"B", math.MaxInt64}, {"C", math.MaxInt64}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := []LedgerEntry{equalEntry(t, "ok", "A", 1000, "A", "B"), tt.entry}
			balances, err := CalculateBalances(abc, entries)
			assert.Nil(t, balances)

			var integrity *apperr.DataIntegrityError
			require.True(t, errors.As(err, &integrity), "got %v", err)
			assert.Equal(t, "bad", integrity.ExpenseID)
		})
	}
}

func TestCalculateBalancesOverflow(t *testing.T) {
	// enough maximum-size entries to push A's total paid past int64
	n := int(math.MaxInt64/int64(money.MaxAmount)) + 1
	entries := make([]LedgerEntry, n)
	for i := range entries {
		entries[i] = LedgerEntry{
			ID:      fmt.Sprintf("e%d", i),
			PayerID: "A",
			Amount:  money.MaxAmount,
			Shares:  []Share{{"B", money.MaxAmount}},
		}
	}

	balances, err := CalculateBalances([]string{"A", "B"}, entries)
	assert.Nil(t, balances)

	var integrity *apperr.DataIntegrityError
	require.True(t, errors.As(err, &integrity), "got %v", err)
	assert.Equal(t, entries[n-1].ID, integrity.ExpenseID)

	// one entry fewer still fits
	balances, err = CalculateBalances([]string{"A", "B"}, entries[:n-1])
	require.NoError(t, err)
	assert.Positive(t, balances.Of("A"))
	assert.Negative(t, balances.Of("B"))
}

func TestCalculateBalancesIsDeterministic(t *testing.T) {
	entries := []LedgerEntry{
		equalEntry(t, "e1", "A", 3000, "A", "B", "C"),
		equalEntry(t, "e2", "C", 1000, "A", "B", "C"),
	}
	first, err := CalculateBalances(abc, entries)
	require.NoError(t, err)

	reversed := []LedgerEntry{entries[1], entries[0]}
	for i := 0; i < 3; i++ {
		again, err := CalculateBalances(abc, entries)
		require.NoError(t, err)
		assert.Equal(t, first, again)

		swapped, err := CalculateBalances(abc, reversed)
		require.NoError(t, err)
		assert.Equal(t, first, swapped, "fold is order independent")
	}
}

func TestDeletionRestoresBalances(t *testing.T) {
	base := []LedgerEntry{equalEntry(t, "e1", "A", 3000, "A", "B", "C")}
	extra := equalEntry(t, "e2", "B", 1000, "A", "C")

	before, err := CalculateBalances(abc, base)
	require.NoError(t, err)

	with, err := CalculateBalances(abc, append(append([]LedgerEntry{}, base...), extra))
	require.NoError(t, err)
	assert.NotEqual(t, before, with)

	after, err := CalculateBalances(abc, base)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestConservationRandomLedgers(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	members := []string{"A", "B", "C", "D", "E", "F", "G"}

	for round := 0; round < 200; round++ {
		var entries []LedgerEntry
		for i := 0; i < 1+rng.Intn(40); i++ {
			payer := members[rng.Intn(len(members))]
			perm := rng.Perm(len(members))[:1+rng.Intn(len(members))]
			participants := make([]string, len(perm))
			for k, idx := range perm {
				participants[k] = members[idx]
			}
			amount := money.Cents(1 + rng.Intn(100000))
			entries = append(entries, equalEntry(t, fmt.Sprintf("r%d-%d", round, i), payer, amount, participants...))
		}

		balances, err := CalculateBalances(members, entries)
		require.NoError(t, err)
		require.Equal(t, money.Cents(0), balances.Total(), "round %d", round)

		// applying the suggested transfers as settlements zeroes everyone
		for _, edge := range SuggestSettlements(balances) {
			entries = append(entries, LedgerEntry{
				ID:      "settle",
				PayerID: edge.From,
				Amount:  edge.Amount,
				Shares:  []Share{{UserID: edge.To, Amount: edge.Amount}},
			})
		}
		settled, err := CalculateBalances(members, entries)
		require.NoError(t, err)
		for id, v := range settled {
			require.Equal(t, money.Cents(0), v, "round %d member %s", round, id)
		}
	}
}

func TestPayableTo(t *testing.T) {
	b := Balances{"A": 1500, "B": -2000, "C": 500, "D": 1500, "E": 0}

	got := PayableTo(b, "B")
	assert.Equal(t, []Payable{
		{MemberID: "A", Amount: 1500},
		{MemberID: "D", Amount: 1500},
		{MemberID: "C", Amount: 500},
	}, got)

	got = PayableTo(b, "A")
	assert.Equal(t, []Payable{
		{MemberID: "D", Amount: 1500},
		{MemberID: "C", Amount: 500},
	}, got, "viewer is never listed")

	assert.Empty(t, PayableTo(Balances{"A": 0, "B": 0}, "A"))
}

func TestSuggestSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances Balances
		want     []DebtEdge
	}{
		{
			name:     "all settled",
			balances: Balances{"A": 0, "B": 0},
			want:     nil,
		},
		{
			name:     "one debtor two creditors",
			balances: Balances{"A": 2000, "B": -3000, "C": 1000},
			want: []DebtEdge{
				{From: "B", To: "A", Amount: 2000},
				{From: "B", To: "C", Amount: 1000},
			},
		},
		{
			name:     "two debtors one creditor",
			balances: Balances{"A": 2000, "B": -1000, "C": -1000},
			want: []DebtEdge{
				{From: "B", To: "A", Amount: 1000},
				{From: "C", To: "A", Amount: 1000},
			},
		},
		{
			name:     "chain collapses",
			balances: Balances{"A": 500, "B": 0, "C": -500},
			want:     []DebtEdge{{From: "C", To: "A", Amount: 500}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestSettlements(tt.balances))
		})
	}
}
