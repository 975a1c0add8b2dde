// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for recurrence expansion. Each
// bill type (monthly, weekly, bi-weekly) has its own expander that
// encapsulates the rules for producing concrete occurrences inside a window.

package services

import (
	"fmt"
	"time"

	"github.com/Karlitosc01/Budget-Analysis/internal/core"
)

// Expander is the strategy interface for expanding one bill into its
// concrete occurrences inside a window. Implementations are pure: the same
// (bill, window, today) triple always yields the same occurrences.
type Expander interface {
	// Expand returns every occurrence of the bill inside the inclusive
	// window. today anchors the offset-day computation.
	Expand(bill core.Bill, window core.Window, today time.Time) []core.Occurrence
}

// MonthlyExpander implements Expander for monthly bills.
type MonthlyExpander struct{}

// Expand builds the candidate from the window's start year/month and the
// bill's day-of-month, advancing exactly one calendar month when the
// candidate precedes the window start. At most one occurrence is produced
// per query even when the window spans several months; that limitation is
// part of the observable contract.
func (MonthlyExpander) Expand(bill core.Bill, window core.Window, today time.Time) []core.Occurrence {
	candidate := time.Date(window.Start.Year(), window.Start.Month(), bill.Day, 0, 0, 0, 0, time.UTC)
	if candidate.Before(window.Start) {
		candidate = candidate.AddDate(0, 1, 0)
	}
	if !window.Contains(candidate) {
		return nil
	}
	return []core.Occurrence{{
		Date:       core.Date{Time: candidate},
		Name:       bill.Name,
		Amount:     bill.Amount,
		OffsetDays: core.CeilDays(candidate.Sub(today)),
	}}
}

// WeeklyExpander implements Expander for weekly bills.
type WeeklyExpander struct{}

// Expand walks every whole day of the window and emits an occurrence on
// each weekday match.
func (WeeklyExpander) Expand(bill core.Bill, window core.Window, today time.Time) []core.Occurrence {
	var out []core.Occurrence
	span := window.DaySpan()
	for d := 0; d <= span; d++ {
		date := window.Start.AddDate(0, 0, d)
		if int(date.Weekday()) != bill.Day {
			continue
		}
		out = append(out, core.Occurrence{
			Date:       core.Date{Time: date},
			Name:       bill.Name,
			Amount:     bill.Amount,
			OffsetDays: core.CeilDays(date.Sub(today)),
		})
	}
	return out
}

// BiWeeklyExpander implements Expander for bi-weekly paychecks.
type BiWeeklyExpander struct{}

// Expand emits an occurrence on every day whose distance from the anchor
// date is a non-negative multiple of 14. A bill without an anchor expands
// to nothing. Matches are tagged as paychecks and excluded from the
// total-needed sum by the aggregator.
func (BiWeeklyExpander) Expand(bill core.Bill, window core.Window, today time.Time) []core.Occurrence {
	if bill.LastDate.IsEmpty() {
		return nil
	}
	anchor := core.Midnight(bill.LastDate.Time)

	var out []core.Occurrence
	span := window.DaySpan()
	for d := 0; d <= span; d++ {
		date := window.Start.AddDate(0, 0, d)
		diff := int(date.Sub(anchor) / (24 * time.Hour))
		if diff < 0 || diff%14 != 0 {
			continue
		}
		out = append(out, core.Occurrence{
			Date:       core.Date{Time: date},
			Name:       core.PaycheckMarker + bill.Name,
			Amount:     bill.Amount,
			OffsetDays: core.CeilDays(date.Sub(today)),
			IsPaycheck: true,
		})
	}
	return out
}

// expansionStrategies maps bill types to their corresponding expanders.
var expansionStrategies = map[core.BillType]Expander{
	core.Monthly:  MonthlyExpander{},
	core.Weekly:   WeeklyExpander{},
	core.BiWeekly: BiWeeklyExpander{},
}

// GetExpander returns the expander for a bill type, or an error when the
// type is not supported.
func GetExpander(t core.BillType) (Expander, error) {
	exp, ok := expansionStrategies[t]
	if !ok {
		return nil, fmt.Errorf("unknown bill type: %s", t)
	}
	return exp, nil
}

// RegisterExpander registers a custom expander for a new bill type.
func RegisterExpander(t core.BillType, exp Expander) {
	expansionStrategies[t] = exp
}

// ExpandAll expands the whole catalogue over a window. A bill with an
// unknown type contributes nothing and never aborts the rest of the
// catalogue. The returned total sums the amounts of all non-paycheck
// occurrences.
func ExpandAll(bills []core.Bill, window core.Window, today time.Time) ([]core.Occurrence, core.Money) {
	var (
		occurrences []core.Occurrence
		total       core.Money
	)
	for _, bill := range bills {
		exp, err := GetExpander(bill.Type)
		if err != nil {
			continue
		}
		for _, occ := range exp.Expand(bill, window, today) {
			if !occ.IsPaycheck {
				total.Cents += occ.Amount.Cents
			}
			occurrences = append(occurrences, occ)
		}
	}
	return occurrences, total
}
