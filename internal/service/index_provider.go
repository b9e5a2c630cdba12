package service

import (
	"context"
	"sync"

	"github.com/campusops/faculty-loading-api/internal/engine"
	"github.com/campusops/faculty-loading-api/internal/models"
)

type scheduleCollection interface {
	ListAll(ctx context.Context) ([]models.ScheduleEntry, error)
}

// IndexProvider holds the shared schedule snapshot and its engine index,
// rebuilt lazily after an explicit invalidation. Reads between mutations
// reuse the same build instead of re-indexing per request.
type IndexProvider struct {
	source scheduleCollection

	mu      sync.RWMutex
	entries []models.ScheduleEntry
	idx     *engine.Index
	valid   bool
}

// NewIndexProvider constructs an IndexProvider over the given source.
func NewIndexProvider(source scheduleCollection) *IndexProvider {
	return &IndexProvider{source: source}
}

// Snapshot returns the current entry slice and index, rebuilding both
// when a mutation has invalidated the cached pair. Callers must treat
// the returned values as read-only.
func (p *IndexProvider) Snapshot(ctx context.Context) ([]models.ScheduleEntry, *engine.Index, error) {
	p.mu.RLock()
	if p.valid {
		entries, idx := p.entries, p.idx
		p.mu.RUnlock()
		return entries, idx, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.valid {
		return p.entries, p.idx, nil
	}

	entries, err := p.source.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	p.entries = entries
	p.idx = engine.BuildIndex(entries)
	p.valid = true
	return p.entries, p.idx, nil
}

// Invalidate drops the cached snapshot. The next Snapshot call rebuilds.
func (p *IndexProvider) Invalidate() {
	p.mu.Lock()
	p.entries = nil
	p.idx = nil
	p.valid = false
	p.mu.Unlock()
}
