package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-loading-api/internal/models"
	appErrors "github.com/campusops/faculty-loading-api/pkg/errors"
	"github.com/campusops/faculty-loading-api/pkg/jobs"
)

type mockScheduleRepo struct {
	items      map[string]*models.ScheduleEntry
	listResult []models.ScheduleEntry
	listTotal  int
	listErr    error
	allErr     error
}

func (m *mockScheduleRepo) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockScheduleRepo) ListAll(ctx context.Context) ([]models.ScheduleEntry, error) {
	if m.allErr != nil {
		return nil, m.allErr
	}
	out := make([]models.ScheduleEntry, 0, len(m.items))
	for _, e := range m.items {
		out = append(out, *e)
	}
	if m.listResult != nil {
		out = append(out, m.listResult...)
	}
	return out, nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	if e, ok := m.items[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if m.items == nil {
		m.items = make(map[string]*models.ScheduleEntry)
	}
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("generated-%d", len(m.items))
	}
	cp := *entry
	m.items[entry.ID] = &cp
	return nil
}

func (m *mockScheduleRepo) BulkCreate(ctx context.Context, entries []models.ScheduleEntry) error {
	for i := range entries {
		if err := m.Create(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	if _, ok := m.items[entry.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *entry
	m.items[entry.ID] = &cp
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockCache struct {
	store    map[string][]byte
	patterns []string
	getFn    func(key string, dest interface{}) error
	setKeys  []string
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getFn != nil {
		return m.getFn(key, dest)
	}
	return appErrors.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setKeys = append(m.setKeys, key)
	return nil
}

func (m *mockCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

type mockQueue struct {
	enqueued []jobs.Job
	err      error
}

func (m *mockQueue) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

func TestScheduleServiceCreateParsesTimeAndDays(t *testing.T) {
	repo := &mockScheduleRepo{}
	cache := &mockCache{}
	queue := &mockQueue{}
	svc := NewScheduleService(repo, cache, nil, NewMetricsService(), queue, true, nil, nil)

	entry, err := svc.Create(context.Background(), ScheduleEntryRequest{
		Code:    "CS101",
		Section: "BSCS-1A",
		Term:    "1st Sem",
		Unit:    3,
		Day:     "M/W/F",
		Time:    "8:00-9:30AM",
	})
	require.NoError(t, err)
	require.NotNil(t, entry.TimeStartMin)
	require.NotNil(t, entry.TimeEndMin)
	assert.Equal(t, 480, *entry.TimeStartMin)
	assert.Equal(t, 570, *entry.TimeEndMin)
	assert.Equal(t, []string{"Mon", "Wed", "Fri"}, entry.F2FDays)
}

func TestScheduleServiceCreateKeepsUnparseableTimeRaw(t *testing.T) {
	repo := &mockScheduleRepo{}
	svc := NewScheduleService(repo, &mockCache{}, nil, NewMetricsService(), nil, false, nil, nil)

	entry, err := svc.Create(context.Background(), ScheduleEntryRequest{
		Code:    "CS101",
		Section: "BSCS-1A",
		Time:    "TBA",
	})
	require.NoError(t, err)
	assert.Nil(t, entry.TimeStartMin)
	assert.Nil(t, entry.TimeEndMin)
	assert.Equal(t, "TBA", entry.TimeRaw)
}

func TestScheduleServiceCreateRejectsMissingCode(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, &mockCache{}, nil, NewMetricsService(), nil, false, nil, nil)

	_, err := svc.Create(context.Background(), ScheduleEntryRequest{Section: "BSCS-1A"})
	assert.Error(t, err)
}

func TestScheduleServiceMutationInvalidatesAndWarms(t *testing.T) {
	repo := &mockScheduleRepo{}
	cache := &mockCache{}
	queue := &mockQueue{}
	index := NewIndexProvider(repo)
	_, _, err := index.Snapshot(context.Background())
	require.NoError(t, err)
	svc := NewScheduleService(repo, cache, index, NewMetricsService(), queue, true, nil, nil)

	_, err = svc.Create(context.Background(), ScheduleEntryRequest{Code: "CS101", Section: "BSCS-1A"})
	require.NoError(t, err)

	assert.Contains(t, cache.patterns, "conflicts:*")
	assert.Contains(t, cache.patterns, "recommend:*")
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "conflict-report-warm", queue.enqueued[0].Type)

	// The shared index must see the new entry on the next snapshot.
	entries, _, err := index.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "CS101", entries[0].Code)
}

func TestScheduleServiceWarmDisabled(t *testing.T) {
	repo := &mockScheduleRepo{}
	queue := &mockQueue{}
	svc := NewScheduleService(repo, &mockCache{}, nil, NewMetricsService(), queue, false, nil, nil)

	_, err := svc.Create(context.Background(), ScheduleEntryRequest{Code: "CS101", Section: "BSCS-1A"})
	require.NoError(t, err)
	assert.Empty(t, queue.enqueued)
}

func TestScheduleServiceUpdateMissing(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, &mockCache{}, nil, NewMetricsService(), nil, false, nil, nil)

	_, err := svc.Update(context.Background(), "missing", ScheduleEntryRequest{Code: "CS101", Section: "A"})
	assert.Error(t, err)
}

func TestScheduleServiceUpdateReparses(t *testing.T) {
	repo := &mockScheduleRepo{}
	svc := NewScheduleService(repo, &mockCache{}, nil, NewMetricsService(), nil, false, nil, nil)

	created, err := svc.Create(context.Background(), ScheduleEntryRequest{Code: "CS101", Section: "A", Time: "8:00-9:00AM"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, ScheduleEntryRequest{Code: "CS101", Section: "A", Time: "1:00-2:30PM"})
	require.NoError(t, err)
	require.NotNil(t, updated.TimeStartMin)
	assert.Equal(t, 780, *updated.TimeStartMin)
	assert.Equal(t, 870, *updated.TimeEndMin)
}

func TestScheduleServiceBulkCreate(t *testing.T) {
	repo := &mockScheduleRepo{}
	svc := NewScheduleService(repo, &mockCache{}, nil, NewMetricsService(), nil, false, nil, nil)

	entries, err := svc.BulkCreate(context.Background(), BulkScheduleRequest{Entries: []ScheduleEntryRequest{
		{Code: "CS101", Section: "A", Time: "8:00-9:00AM"},
		{Code: "CS102", Section: "B", Time: "9:00-10:00AM"},
	}})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Len(t, repo.items, 2)
}

func TestScheduleServiceBulkCreateRejectsEmpty(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, &mockCache{}, nil, NewMetricsService(), nil, false, nil, nil)

	_, err := svc.BulkCreate(context.Background(), BulkScheduleRequest{})
	assert.Error(t, err)
}
