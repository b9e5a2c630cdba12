package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/campusops/faculty-loading-api/internal/engine"
	"github.com/campusops/faculty-loading-api/internal/models"
	appErrors "github.com/campusops/faculty-loading-api/pkg/errors"
)

type facultyCandidateSource interface {
	ListActive(ctx context.Context) ([]models.FacultyProfile, error)
	FindByID(ctx context.Context, id string) (*models.FacultyProfile, error)
}

// RecommendOptions tunes one recommendation run. Attendance and Grades
// carry optional externally-sourced scores in [0,1] keyed by faculty id;
// they are reported per candidate but never enter the weighted overall.
type RecommendOptions struct {
	Top        int
	Attendance map[string]float64
	Grades     map[string]float64
}

// RecommendationService ranks faculty candidates for a schedule entry.
type RecommendationService struct {
	schedules  scheduleReader
	index      *IndexProvider
	faculty    facultyCandidateSource
	cache      conflictCache
	metrics    *MetricsService
	ttl        time.Duration
	defaultTop int
	maxTop     int
	logger     *zap.Logger
}

// NewRecommendationService constructs a RecommendationService.
func NewRecommendationService(schedules scheduleReader, index *IndexProvider, faculty facultyCandidateSource, cache conflictCache, metrics *MetricsService, ttl time.Duration, defaultTop, maxTop int, logger *zap.Logger) *RecommendationService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if defaultTop <= 0 {
		defaultTop = 10
	}
	if maxTop <= 0 {
		maxTop = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		schedules:  schedules,
		index:      index,
		faculty:    faculty,
		cache:      cache,
		metrics:    metrics,
		ttl:        ttl,
		defaultTop: defaultTop,
		maxTop:     maxTop,
		logger:     logger,
	}
}

// Recommend ranks every active, available faculty member for the given
// schedule entry and returns the top N. Results are cached per entry
// unless external attendance or grade inputs are supplied.
func (s *RecommendationService) Recommend(ctx context.Context, scheduleID string, opts RecommendOptions) (*models.RecommendationResult, error) {
	top := opts.Top
	if top <= 0 {
		top = s.defaultTop
	}
	if top > s.maxTop {
		top = s.maxTop
	}

	cacheable := len(opts.Attendance) == 0 && len(opts.Grades) == 0
	cacheKey := fmt.Sprintf("recommend:%s:%d", scheduleID, top)
	if cacheable && s.cache != nil {
		started := time.Now()
		var cached models.RecommendationResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true, time.Since(started))
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false, time.Since(started))
	}

	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch schedule entry")
	}

	_, idx, err := s.index.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}
	candidates, err := s.faculty.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty candidates")
	}

	started := time.Now()
	ranked := make([]models.RankedFaculty, 0, len(candidates))
	skipped := 0

	for i := range candidates {
		candidate := candidates[i]
		key := engine.FacultyProfileKey(&candidate)
		if !engine.IsEligible(idx, schedule, key) {
			continue
		}

		breakdown, ok := s.scoreOne(schedule, &candidate, idx.ByFaculty(key), opts)
		if !ok {
			skipped++
			continue
		}
		ranked = append(ranked, models.RankedFaculty{Faculty: candidate, Breakdown: breakdown})
	}
	s.metrics.ObserveScoringRun(len(ranked), skipped, time.Since(started))

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Breakdown.Overall > ranked[j].Breakdown.Overall
	})
	if len(ranked) > top {
		ranked = ranked[:top]
	}

	result := &models.RecommendationResult{
		ScheduleID:  scheduleID,
		Candidates:  ranked,
		Considered:  len(candidates),
		Skipped:     skipped,
		GeneratedAt: time.Now().UTC(),
	}

	if cacheable && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.ttl); err != nil {
			s.logger.Warn("recommendation cache write failed", zap.Error(err))
		}
	}
	return result, nil
}

// Eligibility probes whether one faculty member can take one schedule
// entry without a clash. Entries without a usable time or term pass
// open by design of the detector; those verdicts get flagged and logged.
func (s *RecommendationService) Eligibility(ctx context.Context, scheduleID, facultyID string) (*models.EligibilityResult, error) {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch schedule entry")
	}
	profile, err := s.faculty.FindByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch faculty profile")
	}

	_, idx, err := s.index.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	eligible := engine.IsEligible(idx, schedule, engine.FacultyProfileKey(profile))

	failOpen := !engine.EntryInterval(schedule).Valid() || schedule.Term == ""
	if failOpen {
		s.logger.Warn("eligibility granted without time or term data",
			zap.String("schedule_id", scheduleID),
			zap.String("faculty_id", facultyID),
			zap.String("time", schedule.TimeRaw),
			zap.String("term", schedule.Term))
	}

	return &models.EligibilityResult{
		ScheduleID: scheduleID,
		FacultyID:  facultyID,
		Eligible:   eligible,
		FailOpen:   failOpen && eligible,
	}, nil
}

// scoreOne scores a single candidate, recovering from panics so one bad
// row cannot sink the whole ranking.
func (s *RecommendationService) scoreOne(schedule *models.ScheduleEntry, candidate *models.FacultyProfile, historyRefs []*models.ScheduleEntry, opts RecommendOptions) (breakdown models.ScoreBreakdown, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("candidate scoring panicked, skipping",
				zap.String("faculty_id", candidate.ID),
				zap.Any("panic", r))
			ok = false
		}
	}()

	history := make([]models.ScheduleEntry, 0, len(historyRefs))
	for _, ref := range historyRefs {
		history = append(history, *ref)
	}

	in := engine.ScoreInput{Schedule: schedule, Faculty: candidate, History: history}
	if v, found := opts.Attendance[candidate.ID]; found {
		in.Attendance = &v
	}
	if v, found := opts.Grades[candidate.ID]; found {
		in.Grades = &v
	}
	return engine.ScoreCandidate(in), true
}
