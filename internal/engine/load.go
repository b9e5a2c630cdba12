package engine

import (
	"math"

	"github.com/campusops/faculty-loading-api/internal/models"
)

// BaselineUnits is the institutional full load before release units.
const BaselineUnits = 24.0

// AggregateLoad totals one instructor's units over their rows after
// collapsing duplicates. One physical class spanning multiple rooms or
// days appears as several rows, so rows identical in (code, normalized
// section, term, time key) count once.
func AggregateLoad(rows []*models.ScheduleEntry, loadReleaseUnits float64) models.LoadSummary {
	seen := make(map[string]bool, len(rows))
	var load float64
	var count int
	for _, e := range rows {
		term := normalizeTerm(e.Term)
		if term == "" {
			term = "n/a"
		}
		interval := EntryInterval(e)
		key := e.Code + "|" + normalizeToken(e.Section) + "|" + term + "|" + timeKey(conflictRow{
			rawFold:  normalizeTerm(e.TimeRaw),
			interval: interval,
		})
		if seen[key] {
			continue
		}
		seen[key] = true
		count++
		units := e.Unit
		if units == 0 {
			units = e.Hours
		}
		load += units
	}

	baseline := math.Max(0, BaselineUnits-loadReleaseUnits)
	return models.LoadSummary{
		LoadUnits:     load,
		Baseline:      baseline,
		OverloadUnits: math.Max(0, load-baseline),
		CourseCount:   count,
	}
}
