package engine

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"

	"github.com/campusops/faculty-loading-api/internal/models"
)

// Component weights of the overall fitness score. They sum to 1.00;
// attendance and grades arrive pre-computed from external systems and
// are reported but never weighted in.
const (
	weightDepartment = 0.15
	weightEmployment = 0.05
	weightDegree     = 0.22
	weightTime       = 0.18
	weightLoad       = 0.10
	weightOverload   = 0.04
	weightTermExp    = 0.08
	weightMatch      = 0.18

	jitterMagnitude = 0.03
)

// ScoreInput bundles everything the scorer reads for one candidate.
// History holds every schedule row attributed to the faculty member,
// across all terms.
type ScoreInput struct {
	Schedule   *models.ScheduleEntry
	Faculty    *models.FacultyProfile
	History    []models.ScheduleEntry
	Attendance *float64
	Grades     *float64
}

// ScoreCandidate rates how well one instructor fits an unassigned (or
// reassignable) class, returning every component in [0,1] and an
// overall score in [1,10]. The function is pure; scoring the same pair
// twice yields a bit-identical result.
func ScoreCandidate(in ScoreInput) models.ScoreBreakdown {
	schedule, faculty := in.Schedule, in.Faculty

	components := models.ScoreComponents{
		Department: departmentScore(schedule, faculty, in.History),
		Employment: employmentScore(faculty.Employment),
		Degree:     CredentialScore(faculty.Name),
		Time:       NewTimePreferenceModel(in.History, schedule.Term).Score(schedule),
		Attendance: externalComponent(in.Attendance),
		Grades:     externalComponent(in.Grades),
	}

	load := AggregateLoad(termScopedRows(in.History, schedule.Term), faculty.LoadReleaseUnits)
	components.Load = loadScore(load)
	components.Overload = clamp01(1 - load.OverloadUnits/6)
	components.TermExp = math.Min(1, float64(SimilarTermCount(schedule.Code, schedule.Title, in.History))/8)
	components.Match = CourseSimilarity(schedule.Code, schedule.Title, in.History)

	overall := 10 * (weightDepartment*components.Department +
		weightEmployment*components.Employment +
		weightDegree*components.Degree +
		weightTime*components.Time +
		weightLoad*components.Load +
		weightOverload*components.Overload +
		weightTermExp*components.TermExp +
		weightMatch*components.Match)

	overall += tieBreakJitter(scheduleIdentity(schedule), facultyIdentity(faculty))
	overall = math.Max(1, math.Min(10, overall))

	return models.ScoreBreakdown{
		FacultyID:  faculty.ID,
		Overall:    overall,
		Components: components,
	}
}

// departmentScore blends recency-weighted historical program-match
// frequency (Laplace-smoothed so an empty history reads 0.5) with a
// static program/department alignment bonus.
func departmentScore(schedule *models.ScheduleEntry, faculty *models.FacultyProfile, history []models.ScheduleEntry) float64 {
	program := normalizeToken(schedule.Program)
	candOrd := termOrdinal(schedule.Term)

	var matched, total float64
	for i := range history {
		row := &history[i]
		distance := 1
		if rowOrd := termOrdinal(row.Term); candOrd > 0 && rowOrd > 0 {
			distance = candOrd - rowOrd
			if distance < 0 {
				distance = -distance
			}
		}
		weight := math.Max(decayFloor, math.Pow(recencyDecay, float64(distance)))
		total += weight
		if program != "" && normalizeToken(row.Program) == program {
			matched += weight
		}
	}
	frequency := (matched + 1) / (total + 2)

	department := normalizeToken(faculty.Department)
	alignment := 0.6
	switch {
	case program != "" && department != "" && strings.Contains(department, program):
		alignment = 1.0
	case program != "" && program == department:
		alignment = 0.85
	}

	return clamp01(0.75*frequency + 0.25*alignment)
}

func employmentScore(employment string) float64 {
	e := normalizeToken(employment)
	switch {
	case strings.Contains(e, "full"):
		return 1.0
	case strings.Contains(e, "inhouse"), strings.Contains(e, "adjunct"):
		return 0.85
	case strings.Contains(e, "part"):
		return 0.7
	default:
		return 0.6
	}
}

// loadScore leaves the component at 1.0 until the load ratio passes
// 0.8 of baseline, then decays linearly to 0 at ratio 1.6.
func loadScore(load models.LoadSummary) float64 {
	if load.Baseline <= 0 {
		if load.LoadUnits > 0 {
			return 0
		}
		return 1
	}
	ratio := load.LoadUnits / load.Baseline
	if ratio <= 0.8 {
		return 1
	}
	return clamp01(1 - (ratio-0.8)/0.8)
}

func externalComponent(value *float64) float64 {
	if value == nil {
		return 0.5
	}
	return clamp01(*value)
}

func termScopedRows(history []models.ScheduleEntry, term string) []*models.ScheduleEntry {
	norm := normalizeTerm(term)
	rows := make([]*models.ScheduleEntry, 0, len(history))
	for i := range history {
		if norm == "" || normalizeTerm(history[i].Term) == norm {
			rows = append(rows, &history[i])
		}
	}
	return rows
}

// tieBreakJitter derives a stable perturbation in [-0.03, 0.03] from
// the pair identity, so near-ties order deterministically across calls
// without depending on input order or wall-clock.
func tieBreakJitter(scheduleID, facultyID string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(scheduleID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(facultyID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	return (rng.Float64()*2 - 1) * jitterMagnitude
}

func scheduleIdentity(e *models.ScheduleEntry) string {
	if e.ID != "" {
		return e.ID
	}
	return strings.Join([]string{e.Code, normalizeToken(e.Section), normalizeTerm(e.Term), strings.ToLower(e.TimeRaw)}, "|")
}

func facultyIdentity(f *models.FacultyProfile) string {
	if f.ID != "" {
		return f.ID
	}
	return normalizeToken(f.Name)
}
