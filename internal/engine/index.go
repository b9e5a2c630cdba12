package engine

import (
	"strings"

	"github.com/campusops/faculty-loading-api/internal/models"
)

// Index holds the lookup maps the detector, eligibility filter and
// recommender all read. It is immutable once built; callers rebuild it
// whenever the schedule collection changes.
type Index struct {
	byFaculty     map[string][]*models.ScheduleEntry
	bySectionTerm map[string][]*models.ScheduleEntry
	disagreements []models.KeyDisagreement
}

// BuildIndex constructs faculty-key and section+term lookup maps over
// the given rows. Rows carrying both an id and a name are indexed under
// both keys so id- or name-based lookups find them.
func BuildIndex(entries []models.ScheduleEntry) *Index {
	idx := &Index{
		byFaculty:     make(map[string][]*models.ScheduleEntry),
		bySectionTerm: make(map[string][]*models.ScheduleEntry),
	}
	nameToID := make(map[string]string)

	for i := range entries {
		e := &entries[i]

		idKey := facultyIDKey(e)
		nameKey := facultyNameKey(e)
		if idKey != "" {
			idx.byFaculty[idKey] = append(idx.byFaculty[idKey], e)
		}
		if nameKey != "" && nameKey != idKey {
			idx.byFaculty[nameKey] = append(idx.byFaculty[nameKey], e)
		}

		if idKey != "" && nameKey != "" {
			id := strings.TrimPrefix(idKey, "id:")
			if prior, ok := nameToID[nameKey]; ok && prior != id {
				idx.disagreements = append(idx.disagreements, models.KeyDisagreement{
					ScheduleID:  e.ID,
					FacultyID:   id,
					FacultyName: e.FacultyName,
					IDKey:       idKey,
					NameKey:     nameKey,
				})
			} else {
				nameToID[nameKey] = id
			}
		}

		if key := SectionTermKey(e); key != "|" {
			idx.bySectionTerm[key] = append(idx.bySectionTerm[key], e)
		}
	}
	return idx
}

// ByFaculty returns the rows indexed under a resolved faculty key.
func (idx *Index) ByFaculty(key string) []*models.ScheduleEntry {
	return idx.byFaculty[key]
}

// BySectionTerm returns the rows sharing a section+term bucket.
func (idx *Index) BySectionTerm(key string) []*models.ScheduleEntry {
	return idx.bySectionTerm[key]
}

// Disagreements lists rows whose id-based and name-based resolution
// point at different instructors. These are surfaced, never silently
// merged.
func (idx *Index) Disagreements() []models.KeyDisagreement {
	return idx.disagreements
}

// FacultyKey resolves the preferred lookup key for a row: the id key
// when an id is recorded, otherwise the normalized-name key. Empty when
// the row names nobody.
func FacultyKey(e *models.ScheduleEntry) string {
	if key := facultyIDKey(e); key != "" {
		return key
	}
	return facultyNameKey(e)
}

// FacultyProfileKey resolves the same key space for a roster profile.
func FacultyProfileKey(f *models.FacultyProfile) string {
	if f.ID != "" {
		return "id:" + strings.ToLower(strings.TrimSpace(f.ID))
	}
	if norm := normalizeToken(f.Name); norm != "" {
		return "nm:" + norm
	}
	return ""
}

func facultyIDKey(e *models.ScheduleEntry) string {
	if e.FacultyID == nil {
		return ""
	}
	id := strings.ToLower(strings.TrimSpace(*e.FacultyID))
	if id == "" {
		return ""
	}
	return "id:" + id
}

func facultyNameKey(e *models.ScheduleEntry) string {
	norm := normalizeToken(e.FacultyName)
	if norm == "" {
		return ""
	}
	return "nm:" + norm
}

// SectionTermKey buckets rows by normalized section and term.
func SectionTermKey(e *models.ScheduleEntry) string {
	return normalizeToken(e.Section) + "|" + normalizeTerm(e.Term)
}

// normalizeToken lowercases and strips everything outside [a-z0-9],
// absorbing the spacing and punctuation noise in hand-entered data.
func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
