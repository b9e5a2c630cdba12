package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot of runtime counters
// exposed on the health surface.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ConflictRuns             uint64    `json:"conflict_runs"`
	RecommendationRuns       uint64    `json:"recommendation_runs"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
