package models

import "time"

// ConflictReason labels why a group of schedule entries collide.
type ConflictReason string

const (
	// ReasonFacultyOverlap marks two meetings of one instructor whose
	// clock times overlap, regardless of which F2F days are recorded.
	ReasonFacultyOverlap ConflictReason = "Double-booked: overlapping time"
	// ReasonSectionOverlap marks overlapping meetings inside one
	// section and term across different (or missing) instructors.
	ReasonSectionOverlap ConflictReason = "Section double-booked: overlapping time in same section and term"
	// ReasonSameTermTime marks distinct sections of one instructor that
	// land on the exact same term and time bucket.
	ReasonSameTermTime ConflictReason = "Double-booked: same term and time (ignoring F2F day)"
)

// ConflictGroup is a deduplicated set of colliding schedule entries.
// No kept group's item-id-set is a subset of another kept group with
// the same reason.
type ConflictGroup struct {
	Reason ConflictReason  `json:"reason"`
	Key    string          `json:"key"`
	Items  []ScheduleEntry `json:"items"`
}

// ConflictReport is the full detection result over the current
// schedule collection. It is what gets cached and served.
type ConflictReport struct {
	Groups        []ConflictGroup   `json:"groups"`
	Disagreements []KeyDisagreement `json:"disagreements,omitempty"`
	TotalEntries  int               `json:"total_entries"`
	TotalGroups   int               `json:"total_groups"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// ConflictCheck is the per-entry verdict returned by the single-entry
// conflict probe.
type ConflictCheck struct {
	EntryID     string          `json:"entry_id"`
	HasConflict bool            `json:"has_conflict"`
	Groups      []ConflictGroup `json:"groups"`
}
