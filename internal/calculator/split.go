package calculator

import (
	"fmt"

	"github.com/mmynk/gopayurself/internal/money"
)

// Share is one participant's portion of a ledger entry.
type Share struct {
	UserID string
	Amount money.Cents
}

// EqualShares splits amount across participants in the order given.
// Residual cents go to the first participants, so the shares always add up
// to amount exactly (10.00 three ways is 3.34, 3.33, 3.33).
func EqualShares(amount money.Cents, participants []string) ([]Share, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	parts, err := money.SplitEqually(amount, len(participants))
	if err != nil {
		return nil, err
	}
	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p, Amount: parts[i]}
	}
	return shares, nil
}

// CheckShares verifies that explicit shares are positive and add up to amount.
func CheckShares(amount money.Cents, shares []Share) error {
	if len(shares) == 0 {
		return fmt.Errorf("must have at least one share")
	}
	var total money.Cents
	for _, s := range shares {
		if s.Amount <= 0 {
			return fmt.Errorf("share for %s must be positive, got %s", s.UserID, s.Amount)
		}
		var ok bool
		if total, ok = money.Add(total, s.Amount); !ok {
			return fmt.Errorf("shares overflow, expected %s", amount)
		}
	}
	if total != amount {
		return fmt.Errorf("shares add up to %s, expected %s", total, amount)
	}
	return nil
}
