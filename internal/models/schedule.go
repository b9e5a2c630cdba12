package models

import "time"

// ScheduleEntry represents one class-meeting row in the faculty loading sheet.
// Day and time are kept in their raw free-text form alongside the parsed
// canonical fields; nil minute pointers mean the time string was unparseable.
type ScheduleEntry struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Title        string    `db:"title" json:"title"`
	Section      string    `db:"section" json:"section"`
	Term         string    `db:"term" json:"term"`
	Unit         float64   `db:"unit" json:"unit"`
	Hours        float64   `db:"hours" json:"hours"`
	FacultyID    *string   `db:"faculty_id" json:"faculty_id,omitempty"`
	FacultyName  string    `db:"faculty_name" json:"faculty_name"`
	DayRaw       string    `db:"day_raw" json:"day"`
	F2FDays      []string  `db:"-" json:"f2f_days,omitempty"`
	TimeRaw      string    `db:"time_raw" json:"time"`
	TimeStartMin *int      `db:"time_start_min" json:"time_start_min,omitempty"`
	TimeEndMin   *int      `db:"time_end_min" json:"time_end_min,omitempty"`
	Room         string    `db:"room" json:"room"`
	Session      string    `db:"session" json:"session"`
	Program      string    `db:"program" json:"program"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// HasTime reports whether both parsed minute fields are present.
func (e *ScheduleEntry) HasTime() bool {
	return e.TimeStartMin != nil && e.TimeEndMin != nil
}

// ScheduleFilter describes query params for listing schedule entries.
type ScheduleFilter struct {
	Term      string
	Program   string
	Section   string
	FacultyID string
	Room      string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
