package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-loading-api/internal/models"
)

func TestDetectConflictsFacultyOverlap(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("s1", "CS101", "BSCS-1A", "1st", "Dela Cruz, Juan", "Mon Wed", "8-9AM"),
		entry("s2", "CS205", "BSCS-2A", "1st", "Dela Cruz, Juan", "Mon Wed Fri", "8-9AM"),
	}
	groups := DetectConflicts(entries)

	require.NotEmpty(t, groups)
	found := false
	for _, g := range groups {
		if g.Reason == models.ReasonFacultyOverlap {
			assert.ElementsMatch(t, []string{"s1", "s2"}, groupIDs(g))
			found = true
		}
	}
	assert.True(t, found, "expected a faculty overlap group")
}

func TestDetectConflictsIgnoresDays(t *testing.T) {
	// Same clock window on disjoint recorded days still conflicts: an
	// instructor cannot hold two overlapping meetings.
	entries := []models.ScheduleEntry{
		entry("s1", "CS101", "A", "1st", "Reyes, Maria", "Mon", "9-10AM"),
		entry("s2", "CS102", "B", "1st", "Reyes, Maria", "Tue", "9:30-10:30AM"),
	}
	groups := DetectConflicts(entries)
	require.NotEmpty(t, groups)
}

func TestDetectConflictsIdempotent(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("s1", "CS101", "A", "1st", "Reyes, Maria", "Mon", "8-9AM"),
		entry("s2", "CS102", "B", "1st", "Reyes, Maria", "Mon", "8-9AM"),
		entry("s3", "GE3", "C", "1st", "Santos, Ana", "Tue", "1-3PM"),
	}
	first := DetectConflicts(entries)
	second := DetectConflicts(entries)
	assert.Equal(t, first, second)
}

func TestDetectConflictsSubsetSuppression(t *testing.T) {
	// B overlaps both A and C, but A and C do not overlap each other:
	// the {A,B} and {B,C} views are subsets of {A,B,C} and are dropped.
	entries := []models.ScheduleEntry{
		entry("a", "CS101", "A", "1st", "Reyes, Maria", "Mon", "8-9AM"),
		entry("b", "CS102", "B", "1st", "Reyes, Maria", "Mon", "8:45-9:45AM"),
		entry("c", "CS103", "C", "1st", "Reyes, Maria", "Mon", "9:30-10:30AM"),
	}
	groups := DetectConflicts(entries)

	var overlapGroups []models.ConflictGroup
	for _, g := range groups {
		if g.Reason == models.ReasonFacultyOverlap {
			overlapGroups = append(overlapGroups, g)
		}
	}
	require.Len(t, overlapGroups, 1)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, groupIDs(overlapGroups[0]))
}

func TestDetectConflictsMergedDuplicates(t *testing.T) {
	// One physical class recorded twice for two rooms must not
	// conflict with itself.
	entries := []models.ScheduleEntry{
		entry("s1", "CS101", "A", "1st", "Reyes, Maria", "Mon", "8-9AM", withRoom("R201")),
		entry("s2", "CS101", "A", "1st", "Reyes, Maria", "Mon", "8-9AM", withRoom("R202")),
	}
	assert.Empty(t, DetectConflicts(entries))
}

func TestDetectConflictsNoSelfConflict(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("s1", "CS101", "A", "1st", "Reyes, Maria", "Mon", "8-9AM"),
	}
	assert.Empty(t, DetectConflicts(entries))
}

func TestDetectConflictsCrossFacultySection(t *testing.T) {
	// Same section and term, different instructors, overlapping time:
	// a data-entry error the section pass catches.
	entries := []models.ScheduleEntry{
		entry("s1", "CS101", "BSCS-1A", "1st", "Reyes, Maria", "Mon", "8-10AM"),
		entry("s2", "GE1", "BSCS-1A", "1st", "Santos, Ana", "Mon", "9-11AM"),
	}
	groups := DetectConflicts(entries)

	found := false
	for _, g := range groups {
		if g.Reason == models.ReasonSectionOverlap {
			assert.ElementsMatch(t, []string{"s1", "s2"}, groupIDs(g))
			found = true
		}
	}
	assert.True(t, found, "expected a section overlap group")
}

func TestDetectConflictsSameTermTimeDistinctSections(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("s1", "CS101", "BSCS-1A", "1st", "Reyes, Maria", "Mon", "8-9AM"),
		entry("s2", "CS101", "BSCS-1B", "1st", "Reyes, Maria", "Wed", "8-9AM"),
	}
	groups := DetectConflicts(entries)

	found := false
	for _, g := range groups {
		if g.Reason == models.ReasonSameTermTime {
			assert.ElementsMatch(t, []string{"s1", "s2"}, groupIDs(g))
			found = true
		}
	}
	assert.True(t, found, "expected a same-term-time group")
}

func TestDetectConflictsUnparseableTimesByRawEquality(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("s1", "CS101", "A", "1st", "Reyes, Maria", "Mon", "TBA-ish"),
		entry("s2", "CS102", "B", "1st", "Reyes, Maria", "Wed", "tba-ish"),
	}
	groups := DetectConflicts(entries)
	require.NotEmpty(t, groups, "matching raw strings should still collide")
}

func TestDetectConflictsForReportDropsPlaceholderFaculty(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("s1", "CS101", "BSCS-1A", "1st", "TBA", "Mon", "8-10AM"),
		entry("s2", "GE1", "BSCS-1A", "1st", "unassigned", "Mon", "9-11AM"),
	}

	assert.NotEmpty(t, DetectConflicts(entries), "raw detection keeps unknown-faculty groups")
	assert.Empty(t, DetectConflictsForReport(entries), "report view drops them")
}
