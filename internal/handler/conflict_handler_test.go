package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-loading-api/internal/models"
	"github.com/campusops/faculty-loading-api/internal/service"
	"github.com/campusops/faculty-loading-api/pkg/response"
)

type scheduleSourceStub struct {
	entries []models.ScheduleEntry
}

func (s *scheduleSourceStub) ListAll(ctx context.Context) ([]models.ScheduleEntry, error) {
	return s.entries, nil
}

func (s *scheduleSourceStub) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return &s.entries[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func overlappingPair() []models.ScheduleEntry {
	start1, end1 := 480, 540
	start2, end2 := 510, 570
	return []models.ScheduleEntry{
		{ID: "a", Code: "CS101", Section: "1A", Term: "1st Sem", FacultyName: "DELA CRUZ, JUAN",
			TimeRaw: "8:00-9:00AM", TimeStartMin: &start1, TimeEndMin: &end1},
		{ID: "b", Code: "CS102", Section: "1B", Term: "1st Sem", FacultyName: "DELA CRUZ, JUAN",
			TimeRaw: "8:30-9:30AM", TimeStartMin: &start2, TimeEndMin: &end2},
	}
}

func newConflictRouter(entries []models.ScheduleEntry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	source := &scheduleSourceStub{entries: entries}
	svc := service.NewConflictService(source, service.NewIndexProvider(source), nil, service.NewMetricsService(), time.Minute, nil)
	h := NewConflictHandler(svc)
	r := gin.New()
	r.GET("/conflicts", h.Report)
	r.GET("/schedules/:id/conflicts", h.Check)
	return r
}

func TestConflictHandlerReport(t *testing.T) {
	r := newConflictRouter(overlappingPair())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/conflicts", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var report models.ConflictReport
	require.NoError(t, json.Unmarshal(payload, &report))
	assert.Equal(t, 1, report.TotalGroups)
	assert.Equal(t, 2, report.TotalEntries)
}

func TestConflictHandlerCheckNotFound(t *testing.T) {
	r := newConflictRouter(overlappingPair())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/schedules/missing/conflicts", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConflictHandlerCheckHit(t *testing.T) {
	r := newConflictRouter(overlappingPair())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/schedules/a/conflicts", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var check models.ConflictCheck
	require.NoError(t, json.Unmarshal(payload, &check))
	assert.True(t, check.HasConflict)
}
