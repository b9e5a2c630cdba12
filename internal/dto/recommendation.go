package dto

// RecommendRequest carries optional tuning for a recommendation run.
// Attendance and Grades hold externally-sourced scores in [0,1] keyed
// by faculty id; they are echoed per candidate without affecting rank.
type RecommendRequest struct {
	Top        int                `json:"top" validate:"omitempty,gte=1"`
	Attendance map[string]float64 `json:"attendance" validate:"omitempty,dive,gte=0,lte=1"`
	Grades     map[string]float64 `json:"grades" validate:"omitempty,dive,gte=0,lte=1"`
}
