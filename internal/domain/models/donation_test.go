package models

import (
	"testing"
	"time"
)

func TestDonation_BalanceRemaining(t *testing.T) {
	tests := []struct {
		name         string
		amount       int64
		expenditures []int64
		want         int64
	}{
		{"no expenditures", 500_000, nil, 500_000},
		{"single expenditure", 500_000, []int64{200_000}, 300_000},
		{"several expenditures", 1_000_000, []int64{250_000, 250_000, 100_000}, 400_000},
		{"fully spent", 750_000, []int64{750_000}, 0},
		{"zero amount", 0, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Donation{Amount: tt.amount}
			for i, amt := range tt.expenditures {
				d.Expenditures = append(d.Expenditures, Expenditure{
					ID:     "e" + string(rune('0'+i)),
					Amount: amt,
					Date:   time.Now(),
				})
			}
			if got := d.BalanceRemaining(); got != tt.want {
				t.Errorf("BalanceRemaining() = %d, want %d", got, tt.want)
			}
			// Invariant: balance == amount - sum(expenditures)
			if d.BalanceRemaining() != d.Amount-d.SpentTotal() {
				t.Error("balance must equal amount minus spent total")
			}
		})
	}
}

func TestValidProgramTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{ProgramPlanning, ProgramActive, true},
		{ProgramPlanning, ProgramCancelled, true},
		{ProgramPlanning, ProgramCompleted, false},
		{ProgramActive, ProgramCompleted, true},
		{ProgramActive, ProgramCancelled, true},
		{ProgramActive, ProgramPlanning, false},
		{ProgramCompleted, ProgramActive, false},
		{ProgramCancelled, ProgramActive, false},
		{ProgramActive, ProgramActive, true}, // no-op edit keeps status
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := ValidProgramTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("ValidProgramTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
