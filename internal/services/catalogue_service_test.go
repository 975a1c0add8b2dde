package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Karlitosc01/Budget-Analysis/internal/catalog"
	"github.com/Karlitosc01/Budget-Analysis/internal/core"
)

type fakePersister struct {
	bills   []core.Bill
	version int64
	saveErr error
}

func (f *fakePersister) SaveCatalogue(_ context.Context, bills []core.Bill) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.bills = bills
	f.version++
	return f.version, nil
}

func (f *fakePersister) LoadCatalogue(context.Context) ([]core.Bill, int64, error) {
	return f.bills, f.version, nil
}

type fakeNotifier struct {
	published int
	version   int64
	count     int
}

func (f *fakeNotifier) PublishCatalogueReplaced(_ context.Context, version int64, billCount int) error {
	f.published++
	f.version = version
	f.count = billCount
	return nil
}

func TestReplaceFromUpload(t *testing.T) {
	store := catalog.New()
	persister := &fakePersister{}
	notifier := &fakeNotifier{}
	svc := NewCatalogueService(store, persister, notifier)

	data := []byte(`[{"name": "Rent", "type": "monthly", "amount": 1200, "day": 1}]`)
	snap, err := svc.ReplaceFromUpload(context.Background(), "bills.json", data)
	if err != nil {
		t.Fatalf("ReplaceFromUpload() error = %v", err)
	}
	if len(snap.Bills) != 1 || snap.Version != 1 {
		t.Errorf("snapshot = %+v, want one bill at version 1", snap)
	}
	if store.Len() != 1 {
		t.Errorf("store holds %d bills, want 1", store.Len())
	}
	if notifier.published != 1 || notifier.version != 1 || notifier.count != 1 {
		t.Errorf("notifier = %+v, want one publish for version 1", notifier)
	}
}

func TestReplaceFromUploadParseFailureLeavesCatalogue(t *testing.T) {
	store := catalog.New()
	store.Replace([]core.Bill{{Name: "Rent", Type: core.Monthly, Amount: core.Money{Cents: 120000}, Day: 1}}, 3)
	svc := NewCatalogueService(store, &fakePersister{}, nil)

	if _, err := svc.ReplaceFromUpload(context.Background(), "bills.json", []byte(`{broken`)); err == nil {
		t.Fatal("ReplaceFromUpload() with malformed payload should fail")
	}
	cur := store.Current()
	if cur.Version != 3 || len(cur.Bills) != 1 {
		t.Errorf("catalogue changed after failed upload: %+v", cur)
	}
}

func TestReplaceFromUploadPersistFailureLeavesCatalogue(t *testing.T) {
	store := catalog.New()
	store.Replace([]core.Bill{{Name: "Rent", Type: core.Monthly, Amount: core.Money{Cents: 120000}, Day: 1}}, 3)
	svc := NewCatalogueService(store, &fakePersister{saveErr: errors.New("disk full")}, nil)

	data := []byte(`[{"name": "Gym", "type": "weekly", "amount": 25, "day": 2}]`)
	if _, err := svc.ReplaceFromUpload(context.Background(), "bills.json", data); err == nil {
		t.Fatal("ReplaceFromUpload() with failing persister should fail")
	}
	if got := store.Current().Bills[0].Name; got != "Rent" {
		t.Errorf("catalogue swapped despite persistence failure: %q", got)
	}
}

func TestLoadSeedsStore(t *testing.T) {
	persister := &fakePersister{
		bills:   []core.Bill{{Name: "Rent", Type: core.Monthly, Amount: core.Money{Cents: 120000}, Day: 1}},
		version: 5,
	}
	store := catalog.New()
	svc := NewCatalogueService(store, persister, nil)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cur := store.Current()
	if cur.Version != 5 || len(cur.Bills) != 1 {
		t.Errorf("store after Load() = %+v, want version 5 with one bill", cur)
	}
}
