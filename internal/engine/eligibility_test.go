package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusops/faculty-loading-api/internal/models"
)

func TestIsEligibleFailsOpenOnUnparseableTime(t *testing.T) {
	existing := []models.ScheduleEntry{
		entry("s1", "CS101", "A", "1st", "Reyes, Maria", "Mon", "8-9AM"),
	}
	idx := BuildIndex(existing)

	candidate := entry("new", "CS500", "Z", "1st", "", "Mon", "TBA")
	assert.True(t, IsEligible(idx, &candidate, "nm:reyesmaria"))
}

func TestIsEligibleFailsOpenOnMissingTerm(t *testing.T) {
	existing := []models.ScheduleEntry{
		entry("s1", "CS101", "A", "1st", "Reyes, Maria", "Mon", "8-9AM"),
	}
	idx := BuildIndex(existing)

	candidate := entry("new", "CS500", "Z", "", "", "Mon", "8-9AM")
	assert.True(t, IsEligible(idx, &candidate, "nm:reyesmaria"))
}

func TestIsEligibleRejectsSameTermOverlap(t *testing.T) {
	existing := []models.ScheduleEntry{
		entry("s1", "CS101", "A", "1st", "Reyes, Maria", "Mon Wed", "8-9AM"),
	}
	idx := BuildIndex(existing)

	candidate := entry("new", "CS500", "Z", "1st", "", "Mon Wed Fri", "8-9AM")
	assert.False(t, IsEligible(idx, &candidate, "nm:reyesmaria"))

	// A clear afternoon slot is fine.
	candidate = entry("new2", "CS500", "Z", "1st", "", "Mon", "1-3PM")
	assert.True(t, IsEligible(idx, &candidate, "nm:reyesmaria"))
}

func TestIsEligibleIgnoresOtherTerms(t *testing.T) {
	existing := []models.ScheduleEntry{
		entry("s1", "CS101", "A", "2nd", "Reyes, Maria", "Mon", "8-9AM"),
	}
	idx := BuildIndex(existing)

	candidate := entry("new", "CS500", "Z", "1st", "", "Mon", "8-9AM")
	assert.True(t, IsEligible(idx, &candidate, "nm:reyesmaria"))
}

func TestIsEligibleRejectsSectionBucketOverlap(t *testing.T) {
	// The section already meets at that time under someone else.
	existing := []models.ScheduleEntry{
		entry("s1", "GE1", "BSCS-1A", "1st", "Santos, Ana", "Mon", "8-10AM"),
	}
	idx := BuildIndex(existing)

	candidate := entry("new", "CS101", "BSCS-1A", "1st", "", "Mon", "9-11AM")
	assert.False(t, IsEligible(idx, &candidate, "nm:reyesmaria"))
}

func TestIsEligibleExcludesTheEntryItself(t *testing.T) {
	existing := []models.ScheduleEntry{
		entry("s1", "CS101", "BSCS-1A", "1st", "Reyes, Maria", "Mon", "8-9AM"),
	}
	idx := BuildIndex(existing)

	// Re-checking the row already on the books must not self-collide.
	self := existing[0]
	assert.True(t, IsEligible(idx, &self, "nm:reyesmaria"))
}
