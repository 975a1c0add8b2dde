package sheets

import (
	"context"

	"github.com/Karlitosc01/Budget-Analysis/internal/core"
)

// BillSource loads a bill catalogue from an external spreadsheet. Used to
// seed the catalogue when CATALOGUE_SOURCE is "sheets".
type BillSource interface {
	LoadBills(ctx context.Context) ([]core.Bill, error)
}
