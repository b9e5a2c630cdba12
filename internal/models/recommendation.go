package models

import "time"

// ScoreComponents carries every per-factor score in [0,1]. Attendance
// and Grades are supplied by external systems and passed through; they
// do not enter the weighted overall.
type ScoreComponents struct {
	Department float64 `json:"department"`
	Employment float64 `json:"employment"`
	Degree     float64 `json:"degree"`
	Time       float64 `json:"time"`
	Load       float64 `json:"load"`
	Overload   float64 `json:"overload"`
	TermExp    float64 `json:"term_exp"`
	Match      float64 `json:"match"`
	Attendance float64 `json:"attendance"`
	Grades     float64 `json:"grades"`
}

// ScoreBreakdown is the recommender verdict for one faculty candidate.
type ScoreBreakdown struct {
	FacultyID  string          `json:"faculty_id"`
	Overall    float64         `json:"overall"`
	Components ScoreComponents `json:"components"`
}

// RankedFaculty pairs a candidate with their breakdown, sorted by
// overall score descending in recommendation responses.
type RankedFaculty struct {
	Faculty   FacultyProfile `json:"faculty"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// RecommendationResult is the ranked candidate list for one schedule entry.
type RecommendationResult struct {
	ScheduleID  string          `json:"schedule_id"`
	Candidates  []RankedFaculty `json:"candidates"`
	Considered  int             `json:"considered"`
	Skipped     int             `json:"skipped"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// EligibilityResult is the verdict of the availability probe for one
// schedule entry and faculty pair. FailOpen marks verdicts granted
// because the entry carried no usable time or term.
type EligibilityResult struct {
	ScheduleID string `json:"schedule_id"`
	FacultyID  string `json:"faculty_id"`
	Eligible   bool   `json:"eligible"`
	FailOpen   bool   `json:"fail_open,omitempty"`
}

// LoadSummary is the deduplicated unit total for one instructor.
type LoadSummary struct {
	LoadUnits     float64 `json:"load_units"`
	Baseline      float64 `json:"baseline"`
	OverloadUnits float64 `json:"overload_units"`
	CourseCount   int     `json:"course_count"`
}

// KeyDisagreement surfaces a row whose id-based and name-based faculty
// resolution point at different instructors.
type KeyDisagreement struct {
	ScheduleID  string `json:"schedule_id"`
	FacultyID   string `json:"faculty_id"`
	FacultyName string `json:"faculty_name"`
	IDKey       string `json:"id_key"`
	NameKey     string `json:"name_key"`
}
