package engine

import (
	"strings"

	"github.com/campusops/faculty-loading-api/internal/models"
)

// IsEligible answers whether a faculty member can take the candidate
// entry without colliding with anything already on the books.
//
// Unparseable term or time fails open: bad data must never block an
// assignment, it only stops surfacing as a conflict. The caller is
// expected to flag the degraded check to its operators.
func IsEligible(idx *Index, candidate *models.ScheduleEntry, facultyKey string) bool {
	interval := EntryInterval(candidate)
	if !interval.Valid() || strings.TrimSpace(candidate.Term) == "" {
		return true
	}
	term := normalizeTerm(candidate.Term)

	// Same instructor, same term, colliding time.
	for _, other := range idx.ByFaculty(facultyKey) {
		if other.ID == candidate.ID {
			continue
		}
		if normalizeTerm(other.Term) != term {
			continue
		}
		if TimesCollide(candidate.TimeRaw, interval, other.TimeRaw, EntryInterval(other)) {
			return false
		}
	}

	// Another row in the same section+term bucket overlapping in time,
	// regardless of who teaches it.
	for _, other := range idx.BySectionTerm(SectionTermKey(candidate)) {
		if other.ID == candidate.ID {
			continue
		}
		if interval.Overlaps(EntryInterval(other)) {
			return false
		}
	}
	return true
}
