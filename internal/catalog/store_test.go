package catalog

import (
	"testing"

	"github.com/Karlitosc01/Budget-Analysis/internal/core"
)

func TestStoreReplaceIsWholesale(t *testing.T) {
	s := New()

	first := []core.Bill{
		{Name: "Rent", Type: core.Monthly, Amount: core.Money{Cents: 120000}, Day: 1},
		{Name: "Internet", Type: core.Monthly, Amount: core.Money{Cents: 6000}, Day: 15},
	}
	snap := s.Replace(first, 0)
	if snap.Version != 1 {
		t.Errorf("first Replace version = %d, want 1", snap.Version)
	}

	second := []core.Bill{
		{Name: "Gym", Type: core.Weekly, Amount: core.Money{Cents: 2500}, Day: 2},
	}
	snap = s.Replace(second, 0)
	if snap.Version != 2 {
		t.Errorf("second Replace version = %d, want 2", snap.Version)
	}

	cur := s.Current()
	if len(cur.Bills) != 1 || cur.Bills[0].Name != "Gym" {
		t.Errorf("Current() = %+v, want only the Gym bill", cur.Bills)
	}
}

func TestStoreReplaceCopiesInput(t *testing.T) {
	s := New()
	bills := []core.Bill{{Name: "Rent", Type: core.Monthly, Amount: core.Money{Cents: 120000}, Day: 1}}
	s.Replace(bills, 7)

	bills[0].Name = "mutated"
	if got := s.Current().Bills[0].Name; got != "Rent" {
		t.Errorf("snapshot observed caller mutation: %q", got)
	}
	if got := s.Current().Version; got != 7 {
		t.Errorf("Version = %d, want 7", got)
	}
}

func TestStoreEmpty(t *testing.T) {
	s := New()
	snap := s.Current()
	if len(snap.Bills) != 0 || snap.Version != 0 {
		t.Errorf("empty store snapshot = %+v", snap)
	}
}
