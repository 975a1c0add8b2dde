package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Karlitosc01/Budget-Analysis/internal/catalog"
	"github.com/Karlitosc01/Budget-Analysis/internal/core"
)

const (
	// CustomRange marks an explicit start/end selection.
	CustomRange = "custom"

	// DefaultRangeDays is used when the preset is absent or not a number.
	DefaultRangeDays = 7
)

// RangeSelection is the raw range input of a schedule query: a day-count
// preset or the custom marker, plus the start/end strings for custom mode.
type RangeSelection struct {
	Value string
	Start string
	End   string
}

// ResolveRange turns a selection into a concrete midnight-truncated window.
// It returns false when a custom selection is incomplete (or unparseable):
// the caller must skip expansion and leave the previous result untouched.
//
// Custom bounds are taken as given; an inverted range is not an error and
// simply expands to nothing downstream.
func ResolveRange(sel RangeSelection, today time.Time) (core.Window, bool) {
	start := core.Midnight(today)

	if sel.Value == CustomRange {
		if strings.TrimSpace(sel.Start) == "" || strings.TrimSpace(sel.End) == "" {
			return core.Window{}, false
		}
		from, err := core.ParseDate(sel.Start)
		if err != nil {
			return core.Window{}, false
		}
		to, err := core.ParseDate(sel.End)
		if err != nil {
			return core.Window{}, false
		}
		return core.Window{Start: core.Midnight(from.Time), End: core.Midnight(to.Time)}, true
	}

	days, err := strconv.Atoi(strings.TrimSpace(sel.Value))
	if err != nil || days == 0 {
		days = DefaultRangeDays
	}
	return core.Window{Start: start, End: start.AddDate(0, 0, days)}, true
}

// BuildSchedule applies the display ordering and total formatting to an
// unsorted occurrence set. Pure function of its inputs.
//
// Occurrences are ordered by date descending (most future first). That is
// the observable contract of the original display, kept deliberately.
func BuildSchedule(occurrences []core.Occurrence, total core.Money) core.Schedule {
	sorted := make([]core.Occurrence, len(occurrences))
	copy(sorted, occurrences)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	return core.Schedule{
		Occurrences: sorted,
		TotalNeeded: total,
		TotalLabel:  "Total Needed: " + total.String(),
	}
}

// ScheduleService answers upcoming-schedule queries against the current
// catalogue snapshot. It holds no state of its own beyond the clock, so
// concurrent queries are safe without coordination.
type ScheduleService struct {
	catalogue *catalog.Store
	clock     func() time.Time
}

// NewScheduleService creates a schedule service. A nil clock defaults to
// time.Now; tests inject a fixed clock for deterministic output.
func NewScheduleService(store *catalog.Store, clock func() time.Time) *ScheduleService {
	if clock == nil {
		clock = time.Now
	}
	return &ScheduleService{catalogue: store, clock: clock}
}

// Upcoming resolves the selection and expands the current catalogue over
// it. The second return is false when the selection yields no window.
func (s *ScheduleService) Upcoming(sel RangeSelection) (core.Schedule, bool) {
	today := core.Midnight(s.clock())
	window, ok := ResolveRange(sel, today)
	if !ok {
		return core.Schedule{}, false
	}
	occurrences, total := ExpandAll(s.catalogue.Current().Bills, window, today)
	return BuildSchedule(occurrences, total), true
}

// CatalogueVersion exposes the current snapshot version, used by callers
// that key caches on the catalogue generation.
func (s *ScheduleService) CatalogueVersion() int64 {
	return s.catalogue.Current().Version
}
