package services

import (
	"testing"
	"time"

	"github.com/Karlitosc01/Budget-Analysis/internal/catalog"
	"github.com/Karlitosc01/Budget-Analysis/internal/core"
)

func TestResolveRange(t *testing.T) {
	today := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		sel       RangeSelection
		wantOK    bool
		wantStart string
		wantEnd   string
	}{
		{
			name:      "preset days",
			sel:       RangeSelection{Value: "14"},
			wantOK:    true,
			wantStart: "2024-03-10",
			wantEnd:   "2024-03-24",
		},
		{
			name:      "absent preset defaults to 7",
			sel:       RangeSelection{Value: ""},
			wantOK:    true,
			wantStart: "2024-03-10",
			wantEnd:   "2024-03-17",
		},
		{
			name:      "non-numeric preset defaults to 7",
			sel:       RangeSelection{Value: "soon"},
			wantOK:    true,
			wantStart: "2024-03-10",
			wantEnd:   "2024-03-17",
		},
		{
			name:      "custom range",
			sel:       RangeSelection{Value: CustomRange, Start: "2024-05-01", End: "2024-05-20"},
			wantOK:    true,
			wantStart: "2024-05-01",
			wantEnd:   "2024-05-20",
		},
		{
			name:   "custom missing end yields no window",
			sel:    RangeSelection{Value: CustomRange, Start: "2024-05-01"},
			wantOK: false,
		},
		{
			name:   "custom missing start yields no window",
			sel:    RangeSelection{Value: CustomRange, End: "2024-05-20"},
			wantOK: false,
		},
		{
			name:   "custom unparseable date yields no window",
			sel:    RangeSelection{Value: CustomRange, Start: "yesterday", End: "2024-05-20"},
			wantOK: false,
		},
		{
			// The resolver does not validate ordering; downstream expansion
			// over the inverted range just yields nothing.
			name:      "custom inverted range still resolves",
			sel:       RangeSelection{Value: CustomRange, Start: "2024-05-20", End: "2024-05-01"},
			wantOK:    true,
			wantStart: "2024-05-20",
			wantEnd:   "2024-05-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := ResolveRange(tt.sel, today)
			if ok != tt.wantOK {
				t.Fatalf("ResolveRange() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got := w.Start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("Start = %s, want %s", got, tt.wantStart)
			}
			if got := w.End.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("End = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestBuildScheduleSortsDescending(t *testing.T) {
	occurrences := []core.Occurrence{
		{Date: core.NewDate(2024, 3, 1), Name: "a", Amount: core.Money{Cents: 100}},
		{Date: core.NewDate(2024, 3, 29), Name: "b", Amount: core.Money{Cents: 200}},
		{Date: core.NewDate(2024, 3, 15), Name: "c", Amount: core.Money{Cents: 300}},
	}

	sched := BuildSchedule(occurrences, core.Money{Cents: 600})

	want := []string{"2024-03-29", "2024-03-15", "2024-03-01"}
	for i, occ := range sched.Occurrences {
		if got := occ.Date.Format("2006-01-02"); got != want[i] {
			t.Errorf("position %d date = %s, want %s", i, got, want[i])
		}
	}
	if sched.TotalLabel != "Total Needed: $6.00" {
		t.Errorf("TotalLabel = %q, want %q", sched.TotalLabel, "Total Needed: $6.00")
	}
	// Input slice is left untouched.
	if occurrences[0].Name != "a" {
		t.Error("BuildSchedule mutated its input")
	}
}

func TestScheduleServiceUpcoming(t *testing.T) {
	store := catalog.New()
	store.Replace([]core.Bill{
		{Name: "Rent", Type: core.Monthly, Amount: core.Money{Cents: 120000}, Day: 15},
		{Name: "Paycheck", Type: core.BiWeekly, Amount: core.Money{Cents: 150000}, LastDate: core.NewDate(2024, 3, 1)},
	}, 0)

	clock := func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	svc := NewScheduleService(store, clock)

	sched, ok := svc.Upcoming(RangeSelection{Value: "30"})
	if !ok {
		t.Fatal("Upcoming() ok = false, want true")
	}
	if len(sched.Occurrences) == 0 {
		t.Fatal("Upcoming() produced no occurrences")
	}
	// Descending order: first occurrence is the most future one.
	first := sched.Occurrences[0].Date
	last := sched.Occurrences[len(sched.Occurrences)-1].Date
	if first.Before(last.Time) {
		t.Errorf("occurrences not in descending order: first %v, last %v", first, last)
	}
	if sched.TotalNeeded.Cents != 120000 {
		t.Errorf("TotalNeeded = %d cents, want 120000", sched.TotalNeeded.Cents)
	}
}

func TestScheduleServiceIncompleteCustomRange(t *testing.T) {
	store := catalog.New()
	store.Replace([]core.Bill{
		{Name: "Rent", Type: core.Monthly, Amount: core.Money{Cents: 120000}, Day: 15},
	}, 0)
	svc := NewScheduleService(store, func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) })

	if _, ok := svc.Upcoming(RangeSelection{Value: CustomRange, Start: "2024-03-01"}); ok {
		t.Error("Upcoming() with incomplete custom range should yield no schedule")
	}
}

func TestScheduleServiceEmptyCatalogue(t *testing.T) {
	svc := NewScheduleService(catalog.New(), func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) })

	sched, ok := svc.Upcoming(RangeSelection{Value: "7"})
	if !ok {
		t.Fatal("Upcoming() ok = false, want true")
	}
	if len(sched.Occurrences) != 0 || sched.TotalNeeded.Cents != 0 {
		t.Errorf("empty catalogue schedule = %+v", sched)
	}
}
