package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Karlitosc01/Budget-Analysis/internal/core"
	applog "github.com/Karlitosc01/Budget-Analysis/internal/log"
	"github.com/Karlitosc01/Budget-Analysis/internal/services"
)

// maxUploadBytes caps catalogue uploads. Catalogues are small; anything
// larger is a mistake or abuse.
const maxUploadBytes = 1 << 20

var budgetBarParams = [services.MaxBudgetBarInputs]string{
	"bill-one", "bill-two", "bill-three", "bill-four",
	"bill-five", "bill-six", "bill-seven",
}

// handleSchedule answers upcoming-payment queries. An incomplete or
// unparseable custom range yields 204: the client keeps its previous view.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	sel := services.RangeSelection{
		Value: sanitizeInput(q.Get("range")),
		Start: sanitizeInput(q.Get("start")),
		End:   sanitizeInput(q.Get("end")),
	}

	key := s.scheduleCacheKey(sel)
	if cached, found := s.scheduleCache.Get(key); found {
		applog.FromContext(r.Context()).Debug("Schedule cache hit", "key", key)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	schedule, ok := s.schedules.Upcoming(sel)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.scheduleCache.Set(key, schedule)
	writeJSON(w, http.StatusOK, schedule)
}

// scheduleCacheKey keys cached responses on the catalogue version, the
// query day and the raw selection, so neither catalogue replacements nor
// date rollover can serve a stale schedule.
func (s *Server) scheduleCacheKey(sel services.RangeSelection) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s",
		s.schedules.CatalogueVersion(),
		time.Now().UTC().Format("2006-01-02"),
		sel.Value, sel.Start, sel.End)
}

// handleCatalogueUpload replaces the whole catalogue from an uploaded JSON
// or CSV file. A malformed file leaves the current catalogue untouched.
func (s *Server) handleCatalogueUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	snap, err := s.catalogue.ReplaceFromUpload(r.Context(), header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUnsupportedExt):
			writeError(w, http.StatusUnsupportedMediaType, "unsupported file type, use .json or .csv")
		case errors.Is(err, core.ErrInvalidUpload):
			writeError(w, http.StatusUnprocessableEntity, "could not parse uploaded catalogue")
		default:
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Catalogue replacement failed",
				"file", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to store catalogue")
		}
		return
	}

	s.scheduleCache.Purge()

	writeJSON(w, http.StatusOK, map[string]any{
		"loaded":  len(snap.Bills),
		"version": snap.Version,
	})
}

// handleBudgetBar computes remaining budget from an income and up to seven
// bill amounts. Non-numeric inputs coerce to zero, mirroring the manual
// calculator this replaces.
func (s *Server) handleBudgetBar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	income := core.CoerceCents(q.Get("income"))

	bills := make([]int64, 0, len(budgetBarParams))
	for _, param := range budgetBarParams {
		bills = append(bills, core.CoerceCents(q.Get(param)))
	}

	writeJSON(w, http.StatusOK, services.ComputeBudgetBar(income, bills))
}
