package engine

import (
	"regexp"
	"strings"
)

// Weekday is a canonical day index, Monday first.
type Weekday int

// Week order used for all day output.
const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// String returns the canonical three-letter label.
func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "?"
	}
	return weekdayNames[d]
}

var dayTokens = map[string]Weekday{
	"M": Monday, "MO": Monday, "MON": Monday, "MONDAY": Monday,
	"T": Tuesday, "TU": Tuesday, "TUE": Tuesday, "TUES": Tuesday, "TUESDAY": Tuesday,
	"W": Wednesday, "WE": Wednesday, "WED": Wednesday, "WEDNESDAY": Wednesday,
	"TH": Thursday, "THU": Thursday, "THUR": Thursday, "THURS": Thursday, "THURSDAY": Thursday,
	"F": Friday, "FR": Friday, "FRI": Friday, "FRIDAY": Friday,
	"S": Saturday, "SA": Saturday, "SAT": Saturday, "SATURDAY": Saturday,
	"SU": Sunday, "SUN": Sunday, "SUNDAY": Sunday,
}

var daySplitPattern = regexp.MustCompile(`[,/;&\s]+`)

// ParseDays expands free-text day notation into the canonical weekday
// set, always emitted in fixed week order regardless of input order.
// Ranges like "MON-FRI" expand to the slice between the endpoints and
// unknown tokens are dropped.
func ParseDays(raw string) []Weekday {
	seen := [7]bool{}
	for _, token := range daySplitPattern.Split(strings.ToUpper(strings.TrimSpace(raw)), -1) {
		if token == "" {
			continue
		}
		if strings.Contains(token, "-") {
			ends := strings.SplitN(token, "-", 2)
			from, okFrom := dayTokens[strings.TrimSpace(ends[0])]
			to, okTo := dayTokens[strings.TrimSpace(ends[1])]
			if okFrom && okTo && from <= to {
				for d := from; d <= to; d++ {
					seen[d] = true
				}
			}
			continue
		}
		if d, ok := dayTokens[token]; ok {
			seen[d] = true
		}
	}

	var days []Weekday
	for d := Monday; d <= Sunday; d++ {
		if seen[d] {
			days = append(days, d)
		}
	}
	return days
}

// DayStrings renders a weekday set with canonical labels, for API output.
func DayStrings(days []Weekday) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	return out
}
