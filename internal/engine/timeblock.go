// Package engine implements the conflict-detection and faculty-fitness
// scoring core. Everything in this package is pure: functions take
// in-memory schedule and faculty collections and return plain result
// structures, with no I/O and no shared mutable state.
package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/campusops/faculty-loading-api/internal/models"
)

// TimeInterval is a half-open clock window in minutes since midnight.
// Both fields are NaN when the source string could not be parsed.
type TimeInterval struct {
	Start float64
	End   float64
}

// Valid reports whether the interval carries a usable numeric range.
func (t TimeInterval) Valid() bool {
	return !math.IsNaN(t.Start) && !math.IsNaN(t.End) && t.Start < t.End &&
		t.Start >= 0 && t.End < 24*60
}

// Overlaps applies the open-interval overlap rule max(sA,sB) < min(eA,eB).
func (t TimeInterval) Overlaps(o TimeInterval) bool {
	if !t.Valid() || !o.Valid() {
		return false
	}
	return math.Max(t.Start, o.Start) < math.Min(t.End, o.End)
}

var invalidInterval = TimeInterval{Start: math.NaN(), End: math.NaN()}

var timeHalfPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(AM|PM|NN)?$`)

// ParseTimeBlock converts registrar time strings like "8-9AM",
// "11-12NN", "1-3PM" or "16:00-17:00" into minutes since midnight.
// A trailing meridiem applies to both halves unless the first half has
// its own; NN means 12:00; a bare hour defaults minutes to zero. When
// no meridiem appears anywhere the hours are taken as written (the
// documented assume-AM ambiguity). Unparseable input, including "TBA"
// and the empty string, yields a NaN interval and never an error.
func ParseTimeBlock(raw string) TimeInterval {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	if cleaned == "" || cleaned == "TBA" {
		return invalidInterval
	}

	parts := strings.SplitN(cleaned, "-", 2)
	if len(parts) != 2 {
		return invalidInterval
	}

	startHour, startMin, startMer, ok := parseTimeHalf(parts[0])
	if !ok {
		return invalidInterval
	}
	endHour, endMin, endMer, ok := parseTimeHalf(parts[1])
	if !ok {
		return invalidInterval
	}

	if startMer == "" {
		startMer = endMer
	}

	start := toMinutes(startHour, startMin, startMer)
	end := toMinutes(endHour, endMin, endMer)
	if start < 0 || end < 0 || end <= start {
		return invalidInterval
	}
	return TimeInterval{Start: float64(start), End: float64(end)}
}

func parseTimeHalf(half string) (hour, minute int, meridiem string, ok bool) {
	m := timeHalfPattern.FindStringSubmatch(strings.TrimSpace(half))
	if m == nil {
		return 0, 0, "", false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour > 23 || minute > 59 {
		return 0, 0, "", false
	}
	return hour, minute, m[3], true
}

// toMinutes resolves a clock reading against its meridiem. NN pins noon
// without shifting earlier hours, so "11-12NN" reads as 11:00-12:00.
func toMinutes(hour, minute int, meridiem string) int {
	switch meridiem {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 {
		return -1
	}
	return hour*60 + minute
}

// EntryInterval reads the sanitized minute fields of an entry, falling
// back to re-parsing the raw string when they were never populated.
func EntryInterval(e *models.ScheduleEntry) TimeInterval {
	if e.HasTime() {
		return TimeInterval{Start: float64(*e.TimeStartMin), End: float64(*e.TimeEndMin)}
	}
	return ParseTimeBlock(e.TimeRaw)
}
