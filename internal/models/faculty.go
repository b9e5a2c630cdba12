package models

import "time"

// Employment type labels recognised by the recommender.
const (
	EmploymentFullTime = "FULL_TIME"
	EmploymentInHouse  = "IN_HOUSE"
	EmploymentAdjunct  = "ADJUNCT"
	EmploymentPartTime = "PART_TIME"
)

// FacultyProfile represents an instructor record. Name carries the
// "Lastname, Credentials" display form the registrar exports, so the
// credential suffix is parsed from it rather than a separate column.
type FacultyProfile struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Department       string    `db:"department" json:"department"`
	Employment       string    `db:"employment" json:"employment"`
	LoadReleaseUnits float64   `db:"load_release_units" json:"load_release_units"`
	Active           bool      `db:"active" json:"active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// FacultyFilter captures filtering options for listing faculty.
type FacultyFilter struct {
	Search     string
	Department string
	Employment string
	Active     *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
