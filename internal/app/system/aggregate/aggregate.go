// internal/app/system/aggregate/aggregate.go

// Package aggregate holds the dashboard reductions. Everything here is a
// pure, synchronous function over slices the stores have already fetched;
// a filter change upstream means a full recompute, never an incremental
// update.
package aggregate

import (
	"sort"
	"time"

	"github.com/dalemusser/impacthub/internal/domain/models"
)

// Totals summarizes a set of donations.
type Totals struct {
	Amount          int64 `json:"amount"`           // minor units (kobo)
	ConfirmedAmount int64 `json:"confirmed_amount"` // minor units (kobo)
	Count           int64 `json:"count"`
}

// DonationTotals reduces donations to overall and confirmed sums.
// Cancelled donations count toward neither sum.
func DonationTotals(donations []models.Donation) Totals {
	var t Totals
	for _, d := range donations {
		if d.Status == models.DonationCancelled {
			continue
		}
		t.Amount += d.Amount
		t.Count++
		if d.Status == models.DonationConfirmed {
			t.ConfirmedAmount += d.Amount
		}
	}
	return t
}

// MonthlyPoint is one calendar month in a donation time series.
type MonthlyPoint struct {
	Month  string `json:"month"` // YYYY-MM
	Amount int64  `json:"amount"`
	Count  int64  `json:"count"`
}

// MonthKey formats a time as the YYYY-MM series key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthlySeries buckets donations by received month over [from, to],
// producing exactly one entry per calendar month in the range. Months
// with no donations appear with Amount=0, Count=0. Donations outside the
// range and cancelled donations are ignored.
func MonthlySeries(donations []models.Donation, from, to time.Time) []MonthlyPoint {
	if to.Before(from) {
		return nil
	}

	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	var series []MonthlyPoint
	index := make(map[string]int)
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		key := MonthKey(m)
		index[key] = len(series)
		series = append(series, MonthlyPoint{Month: key})
	}

	for _, d := range donations {
		if d.Status == models.DonationCancelled {
			continue
		}
		i, ok := index[MonthKey(d.ReceivedAt)]
		if !ok {
			continue // outside the requested range
		}
		series[i].Amount += d.Amount
		series[i].Count++
	}

	return series
}

// StateCount is the number of beneficiaries in one state.
type StateCount struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}

// BeneficiariesByState groups beneficiaries by address state, skipping
// archived records. Results are sorted by count descending, state name
// ascending for ties, so the chart order is stable.
func BeneficiariesByState(beneficiaries []models.Beneficiary) []StateCount {
	counts := make(map[string]int64)
	for _, b := range beneficiaries {
		if b.Status == models.BeneficiaryArchived {
			continue
		}
		counts[b.Address.State]++
	}

	out := make([]StateCount, 0, len(counts))
	for state, n := range counts {
		out = append(out, StateCount{State: state, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].State < out[j].State
	})
	return out
}

// ProgramProgress compares a program's target and actual beneficiary
// counts.
type ProgramProgress struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Target  int64  `json:"target"`
	Actual  int64  `json:"actual"`
	Percent int    `json:"percent"`
}

// ProgramsProgress derives per-program reach. Percent is 0 when the
// target is unset and caps at 100 when the target is exceeded.
func ProgramsProgress(programs []models.Program) []ProgramProgress {
	out := make([]ProgramProgress, 0, len(programs))
	for _, p := range programs {
		pp := ProgramProgress{
			ID:     p.ID.Hex(),
			Name:   p.Name,
			Status: p.Status,
			Target: p.TargetBeneficiaries,
			Actual: p.ActualBeneficiaries,
		}
		if p.TargetBeneficiaries > 0 {
			pct := p.ActualBeneficiaries * 100 / p.TargetBeneficiaries
			if pct > 100 {
				pct = 100
			}
			pp.Percent = int(pct)
		}
		out = append(out, pp)
	}
	return out
}
