package engine

import "github.com/campusops/faculty-loading-api/internal/models"

// entryOpt mutates a fixture entry.
type entryOpt func(*models.ScheduleEntry)

func withFacultyID(id string) entryOpt {
	return func(e *models.ScheduleEntry) { e.FacultyID = &id }
}

func withRoom(room string) entryOpt {
	return func(e *models.ScheduleEntry) { e.Room = room }
}

func withProgram(program string) entryOpt {
	return func(e *models.ScheduleEntry) { e.Program = program }
}

func withUnits(units float64) entryOpt {
	return func(e *models.ScheduleEntry) { e.Unit = units }
}

func withTitle(title string) entryOpt {
	return func(e *models.ScheduleEntry) { e.Title = title }
}

func entry(id, code, section, term, facultyName, day, timeRaw string, opts ...entryOpt) models.ScheduleEntry {
	e := models.ScheduleEntry{
		ID:          id,
		Code:        code,
		Title:       code,
		Section:     section,
		Term:        term,
		Unit:        3,
		FacultyName: facultyName,
		DayRaw:      day,
		TimeRaw:     timeRaw,
	}
	if interval := ParseTimeBlock(timeRaw); interval.Valid() {
		start, end := int(interval.Start), int(interval.End)
		e.TimeStartMin, e.TimeEndMin = &start, &end
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func groupIDs(g models.ConflictGroup) []string {
	ids := make([]string, 0, len(g.Items))
	for _, item := range g.Items {
		ids = append(ids, item.ID)
	}
	return ids
}
