package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-loading-api/internal/models"
)

type mockFacultyRepo struct {
	items      map[string]*models.FacultyProfile
	listResult []models.FacultyProfile
	listTotal  int
	listErr    error
}

func (m *mockFacultyRepo) List(ctx context.Context, filter models.FacultyFilter) ([]models.FacultyProfile, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockFacultyRepo) ListActive(ctx context.Context) ([]models.FacultyProfile, error) {
	var out []models.FacultyProfile
	for _, p := range m.items {
		if p.Active {
			out = append(out, *p)
		}
	}
	out = append(out, m.listResult...)
	return out, nil
}

func (m *mockFacultyRepo) FindByID(ctx context.Context, id string) (*models.FacultyProfile, error) {
	if p, ok := m.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFacultyRepo) Create(ctx context.Context, profile *models.FacultyProfile) error {
	if m.items == nil {
		m.items = make(map[string]*models.FacultyProfile)
	}
	if profile.ID == "" {
		profile.ID = "generated"
	}
	cp := *profile
	m.items[profile.ID] = &cp
	return nil
}

func (m *mockFacultyRepo) Update(ctx context.Context, profile *models.FacultyProfile) error {
	if _, ok := m.items[profile.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *profile
	m.items[profile.ID] = &cp
	return nil
}

func (m *mockFacultyRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func TestFacultyServiceCreateDefaults(t *testing.T) {
	repo := &mockFacultyRepo{}
	svc := NewFacultyService(repo, &mockCache{}, nil, nil)

	profile, err := svc.Create(context.Background(), FacultyRequest{Name: "DELA CRUZ, JUAN, MSIT"})
	require.NoError(t, err)
	assert.Equal(t, models.EmploymentFullTime, profile.Employment)
	assert.True(t, profile.Active)
}

func TestFacultyServiceCreateRejectsBadEmployment(t *testing.T) {
	svc := NewFacultyService(&mockFacultyRepo{}, &mockCache{}, nil, nil)

	_, err := svc.Create(context.Background(), FacultyRequest{Name: "X", Employment: "CONTRACTOR"})
	assert.Error(t, err)
}

func TestFacultyServiceCreateRejectsReleaseAboveBaseline(t *testing.T) {
	svc := NewFacultyService(&mockFacultyRepo{}, &mockCache{}, nil, nil)

	_, err := svc.Create(context.Background(), FacultyRequest{Name: "X", LoadReleaseUnits: 30})
	assert.Error(t, err)
}

func TestFacultyServiceMutationInvalidatesRecommendCache(t *testing.T) {
	cache := &mockCache{}
	svc := NewFacultyService(&mockFacultyRepo{}, cache, nil, nil)

	_, err := svc.Create(context.Background(), FacultyRequest{Name: "DELA CRUZ, JUAN, MSIT"})
	require.NoError(t, err)
	assert.Contains(t, cache.patterns, "recommend:*")
	assert.NotContains(t, cache.patterns, "conflicts:*")
}

func TestFacultyServiceUpdatePreservesActiveWhenOmitted(t *testing.T) {
	repo := &mockFacultyRepo{}
	svc := NewFacultyService(repo, &mockCache{}, nil, nil)

	inactive := false
	created, err := svc.Create(context.Background(), FacultyRequest{Name: "X", Active: &inactive})
	require.NoError(t, err)
	require.False(t, created.Active)

	updated, err := svc.Update(context.Background(), created.ID, FacultyRequest{Name: "X", Department: "CS"})
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestFacultyServiceGetMissing(t *testing.T) {
	svc := NewFacultyService(&mockFacultyRepo{}, &mockCache{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.Error(t, err)
}
