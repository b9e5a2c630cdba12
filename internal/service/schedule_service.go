package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusops/faculty-loading-api/internal/engine"
	"github.com/campusops/faculty-loading-api/internal/models"
	appErrors "github.com/campusops/faculty-loading-api/pkg/errors"
	"github.com/campusops/faculty-loading-api/pkg/jobs"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, int, error)
	ListAll(ctx context.Context) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	BulkCreate(ctx context.Context, entries []models.ScheduleEntry) error
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type warmQueue interface {
	Enqueue(job jobs.Job) error
}

type indexInvalidator interface {
	Invalidate()
}

// ScheduleEntryRequest represents payload for creating or updating schedule entries.
type ScheduleEntryRequest struct {
	Code        string  `json:"code" validate:"required,max=50"`
	Title       string  `json:"title" validate:"max=255"`
	Section     string  `json:"section" validate:"required,max=50"`
	Term        string  `json:"term" validate:"max=50"`
	Unit        float64 `json:"unit" validate:"gte=0"`
	Hours       float64 `json:"hours" validate:"gte=0"`
	FacultyID   *string `json:"faculty_id" validate:"omitempty,max=64"`
	FacultyName string  `json:"faculty_name" validate:"max=255"`
	Day         string  `json:"day" validate:"max=100"`
	Time        string  `json:"time" validate:"max=100"`
	Room        string  `json:"room" validate:"max=50"`
	Session     string  `json:"session" validate:"max=50"`
	Program     string  `json:"program" validate:"max=100"`
}

// BulkScheduleRequest wraps a batch of entries, typically one uploaded loading sheet.
type BulkScheduleRequest struct {
	Entries []ScheduleEntryRequest `json:"entries" validate:"required,min=1,max=2000,dive"`
}

// ScheduleService orchestrates schedule entry operations. Every mutation
// invalidates derived conflict and recommendation caches.
type ScheduleService struct {
	repo      scheduleRepository
	cache     cacheInvalidator
	index     indexInvalidator
	metrics   *MetricsService
	queue     warmQueue
	warm      bool
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, cache cacheInvalidator, index indexInvalidator, metrics *MetricsService, queue warmQueue, warmOnMutation bool, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, cache: cache, index: index, metrics: metrics, queue: queue, warm: warmOnMutation, validator: validate, logger: logger}
}

// List returns schedule entries plus pagination data.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, *models.Pagination, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	for i := range entries {
		decorateEntry(&entries[i])
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
	return entries, pagination, nil
}

// Get returns one schedule entry by id.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch schedule entry")
	}
	decorateEntry(entry)
	return entry, nil
}

// Create validates, parses and persists a new schedule entry.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	entry := s.buildEntry(req)
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	s.afterMutation(ctx)
	decorateEntry(entry)
	return entry, nil
}

// BulkCreate persists an uploaded batch of schedule entries in one transaction.
func (s *ScheduleService) BulkCreate(ctx context.Context, req BulkScheduleRequest) ([]models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk schedule payload")
	}
	entries := make([]models.ScheduleEntry, 0, len(req.Entries))
	for _, item := range req.Entries {
		entries = append(entries, *s.buildEntry(item))
	}
	if err := s.repo.BulkCreate(ctx, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bulk create schedule entries")
	}
	s.afterMutation(ctx)
	for i := range entries {
		decorateEntry(&entries[i])
	}
	return entries, nil
}

// Update validates, re-parses and persists changes to a schedule entry.
func (s *ScheduleService) Update(ctx context.Context, id string, req ScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch schedule entry")
	}

	entry := s.buildEntry(req)
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}
	s.afterMutation(ctx)
	decorateEntry(entry)
	return entry, nil
}

// Delete removes a schedule entry.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	s.afterMutation(ctx)
	return nil
}

// buildEntry converts a request payload into a model, parsing the raw
// day and time strings once at write time. Unparseable strings are kept
// verbatim with nil minute fields.
func (s *ScheduleService) buildEntry(req ScheduleEntryRequest) *models.ScheduleEntry {
	entry := &models.ScheduleEntry{
		Code:        strings.TrimSpace(req.Code),
		Title:       strings.TrimSpace(req.Title),
		Section:     strings.TrimSpace(req.Section),
		Term:        strings.TrimSpace(req.Term),
		Unit:        req.Unit,
		Hours:       req.Hours,
		FacultyID:   req.FacultyID,
		FacultyName: strings.TrimSpace(req.FacultyName),
		DayRaw:      strings.TrimSpace(req.Day),
		TimeRaw:     strings.TrimSpace(req.Time),
		Room:        strings.TrimSpace(req.Room),
		Session:     strings.TrimSpace(req.Session),
		Program:     strings.TrimSpace(req.Program),
	}
	if entry.FacultyID != nil && strings.TrimSpace(*entry.FacultyID) == "" {
		entry.FacultyID = nil
	}

	interval := engine.ParseTimeBlock(entry.TimeRaw)
	if interval.Valid() {
		start := int(interval.Start)
		end := int(interval.End)
		entry.TimeStartMin = &start
		entry.TimeEndMin = &end
	} else if entry.TimeRaw != "" {
		s.metrics.RecordUnparseableTime()
		s.logger.Debug("unparseable time block kept as raw text",
			zap.String("code", entry.Code),
			zap.String("time", entry.TimeRaw))
	}
	return entry
}

// afterMutation drops the shared index and derived caches, and
// optionally queues a cache warm run.
func (s *ScheduleService) afterMutation(ctx context.Context) {
	if s.index != nil {
		s.index.Invalidate()
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "conflicts:*"); err != nil {
			s.logger.Warn("failed to invalidate conflict cache", zap.Error(err))
		}
		if err := s.cache.DeleteByPattern(ctx, "recommend:*"); err != nil {
			s.logger.Warn("failed to invalidate recommendation cache", zap.Error(err))
		}
	}
	if s.warm && s.queue != nil {
		job := jobs.Job{ID: uuid.NewString(), Type: "conflict-report-warm"}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue conflict warm job", zap.Error(err))
		}
	}
}

// decorateEntry fills derived read-only fields from the raw columns.
func decorateEntry(entry *models.ScheduleEntry) {
	entry.F2FDays = engine.DayStrings(engine.ParseDays(entry.DayRaw))
}
