package engine

import (
	"math"
	"strings"

	"github.com/campusops/faculty-loading-api/internal/models"
)

// SessionBand is the coarse time-of-day bucket a meeting falls in.
type SessionBand int

// Bands split at noon and 17:00.
const (
	BandMorning SessionBand = iota
	BandAfternoon
	BandEvening
)

// SessionBandOf classifies a minutes-since-midnight reading.
func SessionBandOf(minutes float64) SessionBand {
	switch {
	case minutes < 12*60:
		return BandMorning
	case minutes < 17*60:
		return BandAfternoon
	default:
		return BandEvening
	}
}

const (
	neutralTimeScore = 0.7
	kdeBandwidth     = 60.0
	stddevFloor      = 45.0
	nearestRange     = 240.0
	recencyDecay     = 0.75
	decayFloor       = 0.25
	minObsWeight     = 0.5
)

type timeObs struct {
	day      Weekday
	band     SessionBand
	mid      float64
	weight   float64
	sameTerm bool
}

// TimePreferenceModel captures one instructor's historical time-of-day
// distribution as weighted observations, one per F2F day of each row.
// Recent terms weigh more; rows after the candidate's term are excluded.
type TimePreferenceModel struct {
	obs       []timeObs
	topDay    Weekday
	hasTopDay bool
}

// NewTimePreferenceModel builds the model from an instructor's full
// history, scoped to terms at or before the candidate's term.
func NewTimePreferenceModel(history []models.ScheduleEntry, candidateTerm string) *TimePreferenceModel {
	m := &TimePreferenceModel{}
	candOrd := termOrdinal(candidateTerm)
	candNorm := normalizeTerm(candidateTerm)

	dayWeight := make(map[Weekday]float64)
	for i := range history {
		row := &history[i]
		rowOrd := termOrdinal(row.Term)
		if candOrd > 0 && rowOrd > 0 && rowOrd > candOrd {
			continue
		}
		interval := EntryInterval(row)
		if !interval.Valid() {
			continue
		}

		distance := 1
		if candOrd > 0 && rowOrd > 0 {
			distance = candOrd - rowOrd
		}
		decay := math.Max(decayFloor, math.Pow(recencyDecay, float64(distance)))
		weight := math.Max(minObsWeight, row.Unit) * decay

		mid := (interval.Start + interval.End) / 2
		band := SessionBandOf(mid)
		sameTerm := candNorm != "" && normalizeTerm(row.Term) == candNorm
		for _, day := range ParseDays(row.DayRaw) {
			m.obs = append(m.obs, timeObs{day: day, band: band, mid: mid, weight: weight, sameTerm: sameTerm})
			dayWeight[day] += weight
		}
	}

	var best float64
	for day, w := range dayWeight {
		if w > best || (w == best && m.hasTopDay && day < m.topDay) {
			best = w
			m.topDay = day
			m.hasTopDay = true
		}
	}
	return m
}

// Score rates how well the candidate meeting time fits the historical
// distribution, in [0,1]. A faculty with no usable history scores the
// neutral 0.7 exactly: sparse history must not read as a bad fit.
func (m *TimePreferenceModel) Score(candidate *models.ScheduleEntry) float64 {
	if len(m.obs) == 0 {
		return neutralTimeScore
	}
	interval := EntryInterval(candidate)
	if !interval.Valid() {
		return neutralTimeScore
	}
	mid := (interval.Start + interval.End) / 2
	band := SessionBandOf(mid)
	days := ParseDays(candidate.DayRaw)

	var total float64
	if len(days) == 0 {
		total = m.scoreForDay(mid, band, -1)
	} else {
		for _, day := range days {
			total += m.scoreForDay(mid, band, day)
		}
		total /= float64(len(days))
	}
	score := clamp01(total)

	if m.hasTopDay {
		for _, day := range days {
			if day == m.topDay {
				score = math.Min(1, score+0.05)
				break
			}
		}
	}
	return score
}

func (m *TimePreferenceModel) scoreForDay(mid float64, band SessionBand, day Weekday) float64 {
	selected := m.selectObs(day, band)

	gaussian := gaussianLikelihood(selected, mid)
	kde := kdeLikelihood(selected, mid)
	nearest := m.nearestCloseness(mid)
	session := m.sessionMatchRatio(band)

	return 0.40*kde + 0.25*gaussian + 0.20*nearest + 0.15*session
}

// selectObs narrows to (day, band) observations, falling back to the
// day alone, then to the whole history.
func (m *TimePreferenceModel) selectObs(day Weekday, band SessionBand) []timeObs {
	if day >= 0 {
		var exact []timeObs
		for _, o := range m.obs {
			if o.day == day && o.band == band {
				exact = append(exact, o)
			}
		}
		if len(exact) > 0 {
			return exact
		}
		var sameDay []timeObs
		for _, o := range m.obs {
			if o.day == day {
				sameDay = append(sameDay, o)
			}
		}
		if len(sameDay) > 0 {
			return sameDay
		}
	} else {
		var sameBand []timeObs
		for _, o := range m.obs {
			if o.band == band {
				sameBand = append(sameBand, o)
			}
		}
		if len(sameBand) > 0 {
			return sameBand
		}
	}
	return m.obs
}

func gaussianLikelihood(obs []timeObs, mid float64) float64 {
	mean, stddev, ok := weightedMoments(obs)
	if !ok {
		return 0
	}
	if stddev < stddevFloor {
		stddev = stddevFloor
	}
	z := (mid - mean) / stddev
	return math.Exp(-0.5 * z * z)
}

func kdeLikelihood(obs []timeObs, mid float64) float64 {
	var sum, total float64
	for _, o := range obs {
		u := (mid - o.mid) / kdeBandwidth
		sum += o.weight * math.Exp(-0.5*u*u)
		total += o.weight
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func (m *TimePreferenceModel) nearestCloseness(mid float64) float64 {
	best := math.Inf(1)
	for _, o := range m.obs {
		if !o.sameTerm {
			continue
		}
		if d := math.Abs(mid - o.mid); d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return math.Max(0, 1-best/nearestRange)
}

func (m *TimePreferenceModel) sessionMatchRatio(band SessionBand) float64 {
	var matched, total float64
	for _, o := range m.obs {
		total += o.weight
		if o.band == band {
			matched += o.weight
		}
	}
	if total == 0 {
		return 0
	}
	return matched / total
}

func weightedMoments(obs []timeObs) (mean, stddev float64, ok bool) {
	var sum, total float64
	for _, o := range obs {
		sum += o.weight * o.mid
		total += o.weight
	}
	if total == 0 {
		return 0, 0, false
	}
	mean = sum / total

	var variance float64
	for _, o := range obs {
		d := o.mid - mean
		variance += o.weight * d * d
	}
	variance /= total
	return mean, math.Sqrt(variance), true
}

// termOrdinal ranks the registrar's term labels so recency decay has a
// distance to work with. Unknown labels rank 0 and fall back to a
// one-step distance.
func termOrdinal(term string) int {
	t := strings.ToLower(term)
	switch {
	case strings.Contains(t, "1st") || strings.Contains(t, "first"):
		return 1
	case strings.Contains(t, "2nd") || strings.Contains(t, "second"):
		return 2
	case strings.Contains(t, "3rd") || strings.Contains(t, "third"):
		return 3
	case strings.Contains(t, "sem") || strings.Contains(t, "summer"):
		return 4
	default:
		return 0
	}
}
