package services

import (
	"math"
	"strconv"

	"github.com/Karlitosc01/Budget-Analysis/internal/core"
)

// MaxBudgetBarInputs caps the number of named bill inputs the bar accepts.
const MaxBudgetBarInputs = 7

type BudgetStatus string

const (
	StatusDanger  BudgetStatus = "danger"
	StatusWarning BudgetStatus = "warning"
	StatusHealthy BudgetStatus = "healthy"
)

// BudgetBar is the percentage-of-income-remaining indicator. It reads raw
// numeric inputs, not bill records: the monthly snapshot and the recurring
// schedule are deliberately separate budgeting concepts.
type BudgetBar struct {
	Remaining core.Money   `json:"remaining"`
	Percent   float64      `json:"percent"`
	Status    BudgetStatus `json:"status"`
	Label     string       `json:"label"`
}

// ComputeBudgetBar computes remaining = income − Σ(bills) and the clamped
// percentage of income left. Percent is zero when income is not positive.
func ComputeBudgetBar(incomeCents int64, billCents []int64) BudgetBar {
	if len(billCents) > MaxBudgetBarInputs {
		billCents = billCents[:MaxBudgetBarInputs]
	}

	var totalBills int64
	for _, c := range billCents {
		totalBills += c
	}
	remaining := incomeCents - totalBills

	var percent float64
	if incomeCents > 0 {
		percent = float64(remaining) / float64(incomeCents) * 100
	}
	percent = math.Max(0, math.Min(100, percent))

	return BudgetBar{
		Remaining: core.Money{Cents: remaining},
		Percent:   percent,
		Status:    classifyBudget(percent),
		Label: core.FormatDollars(remaining) + " remaining (" +
			strconv.Itoa(int(math.Round(percent))) + "%)",
	}
}

func classifyBudget(percent float64) BudgetStatus {
	switch {
	case percent < 20:
		return StatusDanger
	case percent < 50:
		return StatusWarning
	default:
		return StatusHealthy
	}
}
