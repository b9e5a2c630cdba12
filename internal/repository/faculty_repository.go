package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusops/faculty-loading-api/internal/models"
)

const facultyColumns = "id, name, department, employment, load_release_units, active, created_at, updated_at"

// FacultyRepository provides persistence for faculty profiles.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository creates a new faculty repository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns faculty profiles with optional filtering and pagination.
func (r *FacultyRepository) List(ctx context.Context, filter models.FacultyFilter) ([]models.FacultyProfile, int, error) {
	base := "FROM faculty_profiles WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Employment != "" {
		conditions = append(conditions, fmt.Sprintf("employment = $%d", len(args)+1))
		args = append(args, filter.Employment)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", facultyColumns, base, size, offset)
	var profiles []models.FacultyProfile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := "SELECT COUNT(*) " + base
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// ListActive returns every active faculty profile, the recommender's
// candidate pool.
func (r *FacultyRepository) ListActive(ctx context.Context) ([]models.FacultyProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty_profiles WHERE active = TRUE ORDER BY name", facultyColumns)
	var profiles []models.FacultyProfile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindByID fetches a single faculty profile.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.FacultyProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty_profiles WHERE id = $1", facultyColumns)
	var profile models.FacultyProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create inserts a faculty profile, generating its id when absent.
func (r *FacultyRepository) Create(ctx context.Context, profile *models.FacultyProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `INSERT INTO faculty_profiles (id, name, department, employment, load_release_units, active, created_at, updated_at)
		VALUES (:id, :name, :department, :employment, :load_release_units, :active, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, profile)
	return err
}

// Update rewrites a faculty profile in place.
func (r *FacultyRepository) Update(ctx context.Context, profile *models.FacultyProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	query := `UPDATE faculty_profiles SET name = :name, department = :department, employment = :employment,
		load_release_units = :load_release_units, active = :active, updated_at = :updated_at
		WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a faculty profile.
func (r *FacultyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM faculty_profiles WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
