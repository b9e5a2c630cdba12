package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campusops/faculty-loading-api/internal/engine"
	"github.com/campusops/faculty-loading-api/internal/models"
	appErrors "github.com/campusops/faculty-loading-api/pkg/errors"
)

const conflictReportCacheKey = "conflicts:report"

type conflictCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type scheduleReader interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
}

// ConflictService runs conflict detection over the schedule collection
// and caches the resulting report.
type ConflictService struct {
	schedules scheduleReader
	index     *IndexProvider
	cache     conflictCache
	metrics   *MetricsService
	ttl       time.Duration
	logger    *zap.Logger
}

// NewConflictService constructs a ConflictService.
func NewConflictService(schedules scheduleReader, index *IndexProvider, cache conflictCache, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *ConflictService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{schedules: schedules, index: index, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Report returns the current conflict report, serving from cache when
// fresh. Placeholder-led groups (TBA, vacant and friends) are excluded.
func (s *ConflictService) Report(ctx context.Context) (*models.ConflictReport, bool, error) {
	if s.cache != nil {
		started := time.Now()
		var cached models.ConflictReport
		err := s.cache.Get(ctx, conflictReportCacheKey, &cached)
		if err == nil {
			s.metrics.RecordCacheOperation(true, time.Since(started))
			return &cached, true, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("conflict report cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false, time.Since(started))
	}

	report, err := s.computeReport(ctx)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, conflictReportCacheKey, report, s.ttl); err != nil {
			s.logger.Warn("conflict report cache write failed", zap.Error(err))
		}
	}
	return report, false, nil
}

// WarmCache recomputes the report and refreshes the cache. The job
// queue calls this after schedule mutations.
func (s *ConflictService) WarmCache(ctx context.Context) error {
	report, err := s.computeReport(ctx)
	if err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, conflictReportCacheKey, report, s.ttl)
}

// Check runs detection scoped to one schedule entry and returns only
// the groups that contain it.
func (s *ConflictService) Check(ctx context.Context, entryID string) (*models.ConflictCheck, error) {
	if _, err := s.schedules.FindByID(ctx, entryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch schedule entry")
	}

	entries, _, err := s.index.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	groups := engine.DetectConflicts(entries)
	var hits []models.ConflictGroup
	for _, group := range groups {
		for i := range group.Items {
			if group.Items[i].ID == entryID {
				hits = append(hits, group)
				break
			}
		}
	}

	return &models.ConflictCheck{
		EntryID:     entryID,
		HasConflict: len(hits) > 0,
		Groups:      hits,
	}, nil
}

func (s *ConflictService) computeReport(ctx context.Context) (*models.ConflictReport, error) {
	entries, idx, err := s.index.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	started := time.Now()
	groups := engine.DetectConflictsForReport(entries)
	s.metrics.ObserveConflictRun(len(groups), time.Since(started))

	return &models.ConflictReport{
		Groups:        groups,
		Disagreements: idx.Disagreements(),
		TotalEntries:  len(entries),
		TotalGroups:   len(groups),
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
