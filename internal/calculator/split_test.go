package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/gopayurself/internal/money"
)

func TestEqualShares(t *testing.T) {
	tests := []struct {
		name         string
		amount       money.Cents
		participants []string
		wantErr      bool
		want         []money.Cents
	}{
		{
			name:         "three-person even split",
			amount:       3000,
			participants: []string{"Alice", "Bob", "Charlie"},
			want:         []money.Cents{1000, 1000, 1000},
		},
		{
			name:         "residual cent goes to first participant",
			amount:       1000,
			participants: []string{"Alice", "Bob", "Charlie"},
			want:         []money.Cents{334, 333, 333},
		},
		{
			name:         "participant order decides who absorbs the residual",
			amount:       1000,
			participants: []string{"Charlie", "Alice", "Bob"},
			want:         []money.Cents{334, 333, 333},
		},
		{
			name:         "no participants should error",
			amount:       1000,
			participants: []string{},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EqualShares(tt.amount, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EqualShares() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			var total money.Cents
			for i, s := range shares {
				if s.UserID != tt.participants[i] {
					t.Errorf("share %d user = %s, want %s", i, s.UserID, tt.participants[i])
				}
				if s.Amount != tt.want[i] {
					t.Errorf("share %d amount = %s, want %s", i, s.Amount, tt.want[i])
				}
				total += s.Amount
			}
			if total != tt.amount {
				t.Errorf("shares total = %s, want %s", total, tt.amount)
			}
		})
	}
}

func TestCheckShares(t *testing.T) {
	tests := []struct {
		name    string
		amount  money.Cents
		shares  []Share
		wantErr bool
	}{
		{
			name:   "exact match",
			amount: 2500,
			shares: []Share{{"Alice", 1500}, {"Bob", 1000}},
		},
		{
			name:    "one cent short",
			amount:  1000,
			shares:  []Share{{"Alice", 333}, {"Bob", 333}, {"Charlie", 333}},
			wantErr: true,
		},
		{
			name:    "zero share",
			amount:  1000,
			shares:  []Share{{"Alice", 1000}, {"Bob", 0}},
			wantErr: true,
		},
		{
			name:    "empty",
			amount:  1000,
			wantErr: true,
		},
		{
			name:    "overflowing shares",
			amount:  1000,
			shares:  []Share{{"Alice", math.MaxInt64}, {"Bob", math.MaxInt64}, {"Charlie", 1002}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckShares(tt.amount, tt.shares)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckShares() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
