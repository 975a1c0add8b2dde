package google

import (
	"testing"

	"github.com/Karlitosc01/Budget-Analysis/internal/core"
)

func TestBillFromRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []any
		want    core.Bill
		wantErr bool
	}{
		{
			name: "monthly bill",
			row:  []any{"Rent", "monthly", "1200.50", "1", ""},
			want: core.Bill{
				Name:   "Rent",
				Type:   core.Monthly,
				Amount: core.Money{Cents: 120050},
				Day:    1,
			},
		},
		{
			name: "weekly bill without lastDate column",
			row:  []any{"Groceries", "weekly", "85", "3"},
			want: core.Bill{
				Name:   "Groceries",
				Type:   core.Weekly,
				Amount: core.Money{Cents: 8500},
				Day:    3,
			},
		},
		{
			name: "bi-weekly paycheck with anchor date",
			row:  []any{"Paycheck", "bi-weekly", "2000", "0", "2024-01-05"},
			want: core.Bill{
				Name:     "Paycheck",
				Type:     core.BiWeekly,
				Amount:   core.Money{Cents: 200000},
				Day:      0,
				LastDate: core.NewDate(2024, 1, 5),
			},
		},
		{
			name: "numeric cells from sheets API",
			row:  []any{"Internet", "monthly", float64(59.99), float64(12)},
			want: core.Bill{
				Name:   "Internet",
				Type:   core.Monthly,
				Amount: core.Money{Cents: 5999},
				Day:    12,
			},
		},
		{
			name:    "too few columns",
			row:     []any{"Rent", "monthly"},
			wantErr: true,
		},
		{
			name:    "bad amount",
			row:     []any{"Rent", "monthly", "lots", "1"},
			wantErr: true,
		},
		{
			name:    "bad day",
			row:     []any{"Rent", "monthly", "1200", "first"},
			wantErr: true,
		},
		{
			name:    "day out of range for monthly",
			row:     []any{"Rent", "monthly", "1200", "32"},
			wantErr: true,
		},
		{
			name:    "bad lastDate",
			row:     []any{"Paycheck", "bi-weekly", "2000", "0", "not-a-date"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := billFromRow(tt.row)
			if (err != nil) != tt.wantErr {
				t.Fatalf("billFromRow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Name != tt.want.Name || got.Type != tt.want.Type ||
				got.Amount != tt.want.Amount || got.Day != tt.want.Day {
				t.Errorf("billFromRow() = %+v, want %+v", got, tt.want)
			}
			if !got.LastDate.Equal(tt.want.LastDate.Time) {
				t.Errorf("billFromRow() LastDate = %v, want %v", got.LastDate, tt.want.LastDate)
			}
		})
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"Rent", "Rent"},
		{float64(12), "12"},
		{float64(59.99), "59.99"},
		{true, "true"},
	}

	for _, tt := range tests {
		if got := cellString(tt.in); got != tt.want {
			t.Errorf("cellString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
