package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusops/faculty-loading-api/internal/models"
	appErrors "github.com/campusops/faculty-loading-api/pkg/errors"
)

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.FacultyProfile, int, error)
	FindByID(ctx context.Context, id string) (*models.FacultyProfile, error)
	Create(ctx context.Context, profile *models.FacultyProfile) error
	Update(ctx context.Context, profile *models.FacultyProfile) error
	Delete(ctx context.Context, id string) error
}

// FacultyRequest represents payload for creating or updating faculty profiles.
// Name carries the credential-bearing display form, e.g. "DELA CRUZ, JUAN, MSIT".
type FacultyRequest struct {
	Name             string  `json:"name" validate:"required,max=255"`
	Department       string  `json:"department" validate:"max=100"`
	Employment       string  `json:"employment" validate:"omitempty,oneof=FULL_TIME IN_HOUSE ADJUNCT PART_TIME"`
	LoadReleaseUnits float64 `json:"load_release_units" validate:"gte=0,lte=24"`
	Active           *bool   `json:"active"`
}

// FacultyService orchestrates faculty profile operations.
type FacultyService struct {
	repo      facultyRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService constructs a FacultyService.
func NewFacultyService(repo facultyRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns faculty profiles plus pagination data.
func (s *FacultyService) List(ctx context.Context, filter models.FacultyFilter) ([]models.FacultyProfile, *models.Pagination, error) {
	profiles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return profiles, pagination, nil
}

// Get returns a faculty profile by id.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.FacultyProfile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch faculty profile")
	}
	return profile, nil
}

// Create validates and persists a new faculty profile.
func (s *FacultyService) Create(ctx context.Context, req FacultyRequest) (*models.FacultyProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	profile := buildProfile(req)
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty profile")
	}
	s.invalidate(ctx)
	return profile, nil
}

// Update validates and persists changes to a faculty profile.
func (s *FacultyService) Update(ctx context.Context, id string, req FacultyRequest) (*models.FacultyProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch faculty profile")
	}

	profile := buildProfile(req)
	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	if req.Active == nil {
		profile.Active = existing.Active
	}
	if err := s.repo.Update(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty profile")
	}
	s.invalidate(ctx)
	return profile, nil
}

// Delete removes a faculty profile.
func (s *FacultyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty profile not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty profile")
	}
	s.invalidate(ctx)
	return nil
}

// invalidate drops recommendation caches after a profile change. The
// conflict report never reads profiles so it stays cached.
func (s *FacultyService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "recommend:*"); err != nil {
		s.logger.Warn("failed to invalidate recommendation cache", zap.Error(err))
	}
}

func buildProfile(req FacultyRequest) *models.FacultyProfile {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	employment := req.Employment
	if employment == "" {
		employment = models.EmploymentFullTime
	}
	return &models.FacultyProfile{
		Name:             strings.TrimSpace(req.Name),
		Department:       strings.TrimSpace(req.Department),
		Employment:       employment,
		LoadReleaseUnits: req.LoadReleaseUnits,
		Active:           active,
	}
}
