package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/campusops/faculty-loading-api/internal/models"
)

// conflictRow caches the derived keys a schedule entry is compared by.
type conflictRow struct {
	entry    *models.ScheduleEntry
	faculty  string
	term     string
	section  string
	timeKey  string
	rawFold  string
	interval TimeInterval
}

// TimesCollide is the base pair rule: two meetings collide when their
// raw time strings match case-insensitively or their numeric ranges
// overlap. Day-of-week is intentionally ignored; an instructor cannot
// be in two rooms at an overlapping clock time whatever days the rows
// record.
func TimesCollide(rawA string, a TimeInterval, rawB string, b TimeInterval) bool {
	foldA := strings.ToLower(strings.TrimSpace(rawA))
	foldB := strings.ToLower(strings.TrimSpace(rawB))
	if foldA != "" && foldA == foldB {
		return true
	}
	return a.Overlaps(b)
}

// DetectConflicts runs the full multi-pass policy over the given rows
// and returns deduplicated conflict groups. The function is pure and
// idempotent: the same sanitized dataset always yields the same set.
func DetectConflicts(entries []models.ScheduleEntry) []models.ConflictGroup {
	rows := prepareRows(entries)

	var groups []models.ConflictGroup
	groups = append(groups, facultyOverlapGroups(rows)...)
	groups = append(groups, sectionOverlapGroups(rows)...)
	groups = append(groups, sameTermTimeGroups(rows)...)
	return suppressSubsets(groups)
}

// DetectConflictsForReport additionally drops groups whose instructor
// label is a blank or placeholder value. Aggregate report views only;
// per-entry checks keep unknown-faculty groups so data-entry errors
// still surface.
func DetectConflictsForReport(entries []models.ScheduleEntry) []models.ConflictGroup {
	groups := DetectConflicts(entries)
	kept := groups[:0]
	for _, g := range groups {
		if len(g.Items) > 0 && isPlaceholderFaculty(&g.Items[0]) {
			continue
		}
		kept = append(kept, g)
	}
	return kept
}

// prepareRows sanitizes entries and collapses merge-duplicates: rows
// identical in (faculty key, term, time key, section) are the same
// physical meeting recorded twice, e.g. one class split over two rooms,
// and must not be compared against each other.
func prepareRows(entries []models.ScheduleEntry) []conflictRow {
	rows := make([]conflictRow, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		e := &entries[i]
		row := conflictRow{
			entry:    e,
			faculty:  FacultyKey(e),
			term:     normalizeTerm(e.Term),
			section:  normalizeToken(e.Section),
			rawFold:  strings.ToLower(strings.TrimSpace(e.TimeRaw)),
			interval: EntryInterval(e),
		}
		row.timeKey = timeKey(row)
		mergeKey := row.faculty + "|" + row.term + "|" + row.timeKey + "|" + row.section
		if seen[mergeKey] {
			continue
		}
		seen[mergeKey] = true
		rows = append(rows, row)
	}
	return rows
}

func timeKey(row conflictRow) string {
	if row.interval.Valid() {
		return fmt.Sprintf("%d-%d", int(row.interval.Start), int(row.interval.End))
	}
	return row.rawFold
}

func rowsCollide(a, b conflictRow) bool {
	if a.rawFold != "" && a.rawFold == b.rawFold {
		return true
	}
	return a.interval.Overlaps(b.interval)
}

// facultyOverlapGroups flags same-instructor rows whose times collide.
func facultyOverlapGroups(rows []conflictRow) []models.ConflictGroup {
	buckets := make(map[string][]conflictRow)
	for _, row := range rows {
		if row.faculty == "" {
			continue
		}
		buckets[row.faculty] = append(buckets[row.faculty], row)
	}
	return anchorGroups(buckets, models.ReasonFacultyOverlap)
}

// sectionOverlapGroups flags overlapping rows inside one section+term
// bucket even when faculty identity differs or is missing. Catches
// double-encoded sections and data-entry errors.
func sectionOverlapGroups(rows []conflictRow) []models.ConflictGroup {
	buckets := make(map[string][]conflictRow)
	for _, row := range rows {
		if row.section == "" {
			continue
		}
		key := row.section + "|" + row.term
		buckets[key] = append(buckets[key], row)
	}
	return anchorGroups(buckets, models.ReasonSectionOverlap)
}

// sameTermTimeGroups buckets strictly by (faculty, term, exact time
// key): two or more distinct sections in one bucket means the same
// instructor is loaded twice at an identical time.
func sameTermTimeGroups(rows []conflictRow) []models.ConflictGroup {
	buckets := make(map[string][]conflictRow)
	for _, row := range rows {
		if row.faculty == "" || row.timeKey == "" {
			continue
		}
		key := row.faculty + "|" + row.term + "|" + row.timeKey
		buckets[key] = append(buckets[key], row)
	}

	var groups []models.ConflictGroup
	for _, bucket := range buckets {
		sections := make(map[string]bool)
		for _, row := range bucket {
			sections[row.section] = true
		}
		if len(sections) < 2 {
			continue
		}
		groups = append(groups, newGroup(models.ReasonSameTermTime, bucket))
	}
	return groups
}

// anchorGroups emits, for every row, the set of bucket-mates colliding
// with it. Redundant anchor views of the same collision cluster are
// removed later by subset suppression.
func anchorGroups(buckets map[string][]conflictRow, reason models.ConflictReason) []models.ConflictGroup {
	var groups []models.ConflictGroup
	for _, bucket := range buckets {
		for i, anchor := range bucket {
			members := []conflictRow{anchor}
			for j, other := range bucket {
				if i == j || other.entry.ID == anchor.entry.ID {
					continue
				}
				if rowsCollide(anchor, other) {
					members = append(members, other)
				}
			}
			if len(members) >= 2 {
				groups = append(groups, newGroup(reason, members))
			}
		}
	}
	return groups
}

func newGroup(reason models.ConflictReason, rows []conflictRow) models.ConflictGroup {
	ids := make([]string, 0, len(rows))
	items := make([]models.ScheduleEntry, 0, len(rows))
	sorted := make([]conflictRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].entry.ID < sorted[j].entry.ID })
	for _, row := range sorted {
		ids = append(ids, row.entry.ID)
		items = append(items, *row.entry)
	}
	return models.ConflictGroup{
		Reason: reason,
		Key:    string(reason) + "|" + strings.Join(ids, ","),
		Items:  items,
	}
}

// suppressSubsets drops, per reason, any group whose item-id-set is a
// subset of an already-kept larger group's set. Bigger groups win.
func suppressSubsets(groups []models.ConflictGroup) []models.ConflictGroup {
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Items) != len(groups[j].Items) {
			return len(groups[i].Items) > len(groups[j].Items)
		}
		return groups[i].Key < groups[j].Key
	})

	keptSets := make(map[models.ConflictReason][]map[string]bool)
	var kept []models.ConflictGroup
	seen := make(map[string]bool)
	for _, g := range groups {
		if seen[g.Key] {
			continue
		}
		set := make(map[string]bool, len(g.Items))
		for _, item := range g.Items {
			set[item.ID] = true
		}
		redundant := false
		for _, prior := range keptSets[g.Reason] {
			if isSubset(set, prior) {
				redundant = true
				break
			}
		}
		if redundant {
			continue
		}
		seen[g.Key] = true
		keptSets[g.Reason] = append(keptSets[g.Reason], set)
		kept = append(kept, g)
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Reason != kept[j].Reason {
			return kept[i].Reason < kept[j].Reason
		}
		return kept[i].Key < kept[j].Key
	})
	return kept
}

func isSubset(set, super map[string]bool) bool {
	if len(set) > len(super) {
		return false
	}
	for id := range set {
		if !super[id] {
			return false
		}
	}
	return true
}

var placeholderFacultyLabels = map[string]bool{
	"":             true,
	"unknown":      true,
	"unassigned":   true,
	"not assigned": true,
	"tba":          true,
	"tbd":          true,
	"n/a":          true,
	"na":           true,
	"none":         true,
	"-":            true,
	"--":           true,
}

func isPlaceholderFaculty(e *models.ScheduleEntry) bool {
	if e.FacultyID != nil && strings.TrimSpace(*e.FacultyID) != "" {
		return false
	}
	return placeholderFacultyLabels[strings.ToLower(strings.TrimSpace(e.FacultyName))]
}
