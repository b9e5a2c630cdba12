package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-loading-api/internal/models"
)

func strPtr(v string) *string { return &v }

func recommendationFixture() (*mockScheduleRepo, *mockFacultyRepo) {
	candidateTerm := "1st Sem"
	schedules := &mockScheduleRepo{items: map[string]*models.ScheduleEntry{
		"target": {
			ID: "target", Code: "CS101", Title: "Intro to Computing", Section: "1A",
			Term: candidateTerm, Unit: 3, Program: "BSCS",
			TimeRaw: "8:00-9:00AM", TimeStartMin: minutes(480), TimeEndMin: minutes(540),
		},
		// busy has an overlapping same-term row, so they are ineligible.
		"busy-row": {
			ID: "busy-row", Code: "CS200", Section: "2A", Term: candidateTerm,
			FacultyID: strPtr("busy"), FacultyName: "REYES, PEDRO, PHD",
			TimeRaw: "8:30-9:30AM", TimeStartMin: minutes(510), TimeEndMin: minutes(570), Unit: 3,
		},
		// free taught the same course before, in a clear time slot.
		"free-row": {
			ID: "free-row", Code: "CS101", Title: "Intro to Computing", Section: "3A", Term: "2nd Sem",
			FacultyID: strPtr("free"), FacultyName: "SANTOS, MARIA, MSCS",
			TimeRaw: "8:00-9:00AM", TimeStartMin: minutes(480), TimeEndMin: minutes(540), Unit: 3, Program: "BSCS",
		},
	}}
	faculty := &mockFacultyRepo{items: map[string]*models.FacultyProfile{
		"busy": {ID: "busy", Name: "REYES, PEDRO, PHD", Department: "CS", Employment: models.EmploymentFullTime, Active: true},
		"free": {ID: "free", Name: "SANTOS, MARIA, MSCS", Department: "CS", Employment: models.EmploymentFullTime, Active: true},
		"off":  {ID: "off", Name: "INACTIVE, ANA, MBA", Department: "CS", Employment: models.EmploymentFullTime, Active: false},
	}}
	return schedules, faculty
}

func TestRecommendExcludesBusyAndInactive(t *testing.T) {
	schedules, faculty := recommendationFixture()
	svc := NewRecommendationService(schedules, NewIndexProvider(schedules), faculty, nil, NewMetricsService(), time.Minute, 10, 50, nil)

	result, err := svc.Recommend(context.Background(), "target", RecommendOptions{})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "free", result.Candidates[0].Faculty.ID)
	assert.Equal(t, 2, result.Considered)
}

func TestRecommendRanksByOverallDescending(t *testing.T) {
	schedules, faculty := recommendationFixture()
	delete(schedules.items, "busy-row")
	svc := NewRecommendationService(schedules, NewIndexProvider(schedules), faculty, nil, NewMetricsService(), time.Minute, 10, 50, nil)

	result, err := svc.Recommend(context.Background(), "target", RecommendOptions{})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	assert.GreaterOrEqual(t, result.Candidates[0].Breakdown.Overall, result.Candidates[1].Breakdown.Overall)
	// The candidate who already taught CS101 should outrank the one without history.
	assert.Equal(t, "free", result.Candidates[0].Faculty.ID)
}

func TestRecommendTopClampedToMax(t *testing.T) {
	schedules, faculty := recommendationFixture()
	svc := NewRecommendationService(schedules, NewIndexProvider(schedules), faculty, nil, NewMetricsService(), time.Minute, 10, 1, nil)

	result, err := svc.Recommend(context.Background(), "target", RecommendOptions{Top: 99})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Candidates), 1)
}

func TestRecommendCachesDefaultRuns(t *testing.T) {
	schedules, faculty := recommendationFixture()
	cache := &mockCache{}
	svc := NewRecommendationService(schedules, NewIndexProvider(schedules), faculty, cache, NewMetricsService(), time.Minute, 10, 50, nil)

	_, err := svc.Recommend(context.Background(), "target", RecommendOptions{})
	require.NoError(t, err)
	assert.Contains(t, cache.setKeys, "recommend:target:10")
}

func TestRecommendSkipsCacheWithExternalInputs(t *testing.T) {
	schedules, faculty := recommendationFixture()
	cache := &mockCache{}
	svc := NewRecommendationService(schedules, NewIndexProvider(schedules), faculty, cache, NewMetricsService(), time.Minute, 10, 50, nil)

	result, err := svc.Recommend(context.Background(), "target", RecommendOptions{
		Attendance: map[string]float64{"free": 0.9},
	})
	require.NoError(t, err)
	assert.Empty(t, cache.setKeys)

	for _, ranked := range result.Candidates {
		if ranked.Faculty.ID == "free" {
			assert.InDelta(t, 0.9, ranked.Breakdown.Components.Attendance, 1e-9)
		}
	}
}

func TestRecommendMissingSchedule(t *testing.T) {
	schedules, faculty := recommendationFixture()
	svc := NewRecommendationService(schedules, NewIndexProvider(schedules), faculty, nil, NewMetricsService(), time.Minute, 10, 50, nil)

	_, err := svc.Recommend(context.Background(), "missing", RecommendOptions{})
	assert.Error(t, err)
}

func TestEligibilityBusyFaculty(t *testing.T) {
	schedules, faculty := recommendationFixture()
	svc := NewRecommendationService(schedules, NewIndexProvider(schedules), faculty, nil, NewMetricsService(), time.Minute, 10, 50, nil)

	verdict, err := svc.Eligibility(context.Background(), "target", "busy")
	require.NoError(t, err)
	assert.False(t, verdict.Eligible)
	assert.False(t, verdict.FailOpen)

	verdict, err = svc.Eligibility(context.Background(), "target", "free")
	require.NoError(t, err)
	assert.True(t, verdict.Eligible)
	assert.False(t, verdict.FailOpen)
}

func TestEligibilityFailsOpenWithoutTime(t *testing.T) {
	schedules, faculty := recommendationFixture()
	schedules.items["untimed"] = &models.ScheduleEntry{
		ID: "untimed", Code: "CS300", Section: "4A", Term: "1st Sem", TimeRaw: "TBA",
	}
	svc := NewRecommendationService(schedules, NewIndexProvider(schedules), faculty, nil, NewMetricsService(), time.Minute, 10, 50, nil)

	verdict, err := svc.Eligibility(context.Background(), "untimed", "busy")
	require.NoError(t, err)
	assert.True(t, verdict.Eligible)
	assert.True(t, verdict.FailOpen)
}
