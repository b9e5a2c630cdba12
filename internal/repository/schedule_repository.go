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

const scheduleColumns = "id, code, title, section, term, unit, hours, faculty_id, faculty_name, day_raw, time_raw, time_start_min, time_end_min, room, session, program, created_at, updated_at"

// ScheduleRepository provides persistence for schedule entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedule entries with optional filtering and pagination.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, int, error) {
	base := "FROM schedule_entries WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Term != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(TRIM(term)) = LOWER(TRIM($%d))", len(args)+1))
		args = append(args, filter.Term)
	}
	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("program = $%d", len(args)+1))
		args = append(args, filter.Program)
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("section = $%d", len(args)+1))
		args = append(args, filter.Section)
	}
	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.Room != "" {
		conditions = append(conditions, fmt.Sprintf("room = $%d", len(args)+1))
		args = append(args, filter.Room)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR title ILIKE $%d OR faculty_name ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"code":       true,
		"section":    true,
		"term":       true,
		"room":       true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "code"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", scheduleColumns, base, sortBy, order, size, offset)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := "SELECT COUNT(*) " + base
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// ListAll returns every schedule entry. The conflict detector and the
// recommender both work over the full collection.
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]models.ScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries ORDER BY code, section", scheduleColumns)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByFaculty returns the rows attributed to a faculty member by id
// or by exact display name, covering rows that never got an id.
func (r *ScheduleRepository) ListByFaculty(ctx context.Context, facultyID, facultyName string) ([]models.ScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE faculty_id = $1 OR faculty_name = $2 ORDER BY term, code", scheduleColumns)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, facultyID, facultyName); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByID fetches a single schedule entry.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE id = $1", scheduleColumns)
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a schedule entry, generating its id when absent.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `INSERT INTO schedule_entries (id, code, title, section, term, unit, hours, faculty_id, faculty_name, day_raw, time_raw, time_start_min, time_end_min, room, session, program, created_at, updated_at)
		VALUES (:id, :code, :title, :section, :term, :unit, :hours, :faculty_id, :faculty_name, :day_raw, :time_raw, :time_start_min, :time_end_min, :room, :session, :program, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}

// BulkCreate inserts many entries inside one transaction.
func (r *ScheduleRepository) BulkCreate(ctx context.Context, entries []models.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	query := `INSERT INTO schedule_entries (id, code, title, section, term, unit, hours, faculty_id, faculty_name, day_raw, time_raw, time_start_min, time_end_min, room, session, program, created_at, updated_at)
		VALUES (:id, :code, :title, :section, :term, :unit, :hours, :faculty_id, :faculty_name, :day_raw, :time_raw, :time_start_min, :time_end_min, :room, :session, :program, :created_at, :updated_at)`
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].CreatedAt = now
		entries[i].UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, &entries[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update rewrites a schedule entry in place.
func (r *ScheduleRepository) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	query := `UPDATE schedule_entries SET code = :code, title = :title, section = :section, term = :term, unit = :unit, hours = :hours,
		faculty_id = :faculty_id, faculty_name = :faculty_name, day_raw = :day_raw, time_raw = :time_raw,
		time_start_min = :time_start_min, time_end_min = :time_end_min, room = :room, session = :session, program = :program, updated_at = :updated_at
		WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a schedule entry.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM schedule_entries WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
