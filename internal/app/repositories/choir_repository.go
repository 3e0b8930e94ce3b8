package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choirdinated/backend/internal/app/models"
)

// Choir error types
var (
	ErrChoirNotFound = errors.New("choir not found")
)

// ChoirCascadeCounts reports how many dependent rows a choir delete would remove
type ChoirCascadeCounts struct {
	Members    int64 `json:"members"`
	Events     int64 `json:"events"`
	Attendance int64 `json:"attendance"`
	Taxonomy   int64 `json:"taxonomy"`
	Holidays   int64 `json:"holidays"`
}

// ChoirRepository handles database operations for choirs
type ChoirRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewChoirRepository creates a new choir repository
func NewChoirRepository(db *pgxpool.Pool) *ChoirRepository {
	return &ChoirRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new choir and sets its ID. Runs on the caller's Querier
// so creation can share a transaction with taxonomy seeding.
func (r *ChoirRepository) Create(ctx context.Context, q Querier, choir *models.Choir) error {
	query, args, err := r.sb.Insert("choirs").
		Columns("name", "description", "organization_number", "attendance_mode", "holiday_region").
		Values(choir.Name, choir.Description, choir.OrganizationNumber, choir.AttendanceMode, choir.HolidayRegion).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building choir insert: %w", err)
	}

	err = q.QueryRow(ctx, query, args...).Scan(&choir.ID, &choir.CreatedAt, &choir.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating choir: %w", err)
	}
	return nil
}

// GetByID retrieves a choir by ID
func (r *ChoirRepository) GetByID(ctx context.Context, id int64) (*models.Choir, error) {
	query, args, err := r.sb.Select(
		"id", "name", "description", "organization_number", "attendance_mode", "holiday_region",
		"created_at", "updated_at").
		From("choirs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building choir query: %w", err)
	}

	var choir models.Choir
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&choir.ID, &choir.Name, &choir.Description, &choir.OrganizationNumber,
		&choir.AttendanceMode, &choir.HolidayRegion, &choir.CreatedAt, &choir.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChoirNotFound
		}
		return nil, fmt.Errorf("error retrieving choir: %w", err)
	}

	return &choir, nil
}

// List retrieves all choirs ordered by name
func (r *ChoirRepository) List(ctx context.Context) ([]*models.Choir, error) {
	query, args, err := r.sb.Select(
		"id", "name", "description", "organization_number", "attendance_mode", "holiday_region",
		"created_at", "updated_at").
		From("choirs").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building choir list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing choirs: %w", err)
	}
	defer rows.Close()

	return scanChoirs(rows)
}

// ListByUserID retrieves all choirs where the user has a membership
func (r *ChoirRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Choir, error) {
	query, args, err := r.sb.Select(
		"c.id", "c.name", "c.description", "c.organization_number", "c.attendance_mode",
		"c.holiday_region", "c.created_at", "c.updated_at").
		From("choirs c").
		Join("members m ON m.choir_id = c.id").
		Where(squirrel.Eq{"m.user_id": userID}).
		OrderBy("c.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building user choirs query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing user choirs: %w", err)
	}
	defer rows.Close()

	return scanChoirs(rows)
}

// Update updates a choir's details
func (r *ChoirRepository) Update(ctx context.Context, choir *models.Choir) error {
	query, args, err := r.sb.Update("choirs").
		Set("name", choir.Name).
		Set("description", choir.Description).
		Set("organization_number", choir.OrganizationNumber).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": choir.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building choir update: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating choir: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrChoirNotFound
	}
	return nil
}

// UpdateSettings updates a choir's attendance mode and holiday region
func (r *ChoirRepository) UpdateSettings(ctx context.Context, choirID int64, mode models.AttendanceMode, holidayRegion string) error {
	query, args, err := r.sb.Update("choirs").
		Set("attendance_mode", mode).
		Set("holiday_region", holidayRegion).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": choirID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building settings update: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating choir settings: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrChoirNotFound
	}
	return nil
}

// CascadeCounts counts the dependent rows a delete of this choir would remove
func (r *ChoirRepository) CascadeCounts(ctx context.Context, choirID int64) (*ChoirCascadeCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM members WHERE choir_id = $1),
			(SELECT COUNT(*) FROM events WHERE choir_id = $1),
			(SELECT COUNT(*) FROM event_attendance ea JOIN events e ON e.id = ea.event_id WHERE e.choir_id = $1),
			(SELECT COUNT(*) FROM list_of_values WHERE choir_id = $1),
			(SELECT COUNT(*) FROM holidays WHERE choir_id = $1)
	`

	var counts ChoirCascadeCounts
	err := r.db.QueryRow(ctx, query, choirID).Scan(
		&counts.Members, &counts.Events, &counts.Attendance, &counts.Taxonomy, &counts.Holidays,
	)
	if err != nil {
		return nil, fmt.Errorf("error counting choir dependents: %w", err)
	}
	return &counts, nil
}

// Delete removes a choir. Dependent rows go with it via ON DELETE CASCADE.
func (r *ChoirRepository) Delete(ctx context.Context, tx pgx.Tx, choirID int64) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM choirs WHERE id = $1`, choirID)
	if err != nil {
		return fmt.Errorf("error deleting choir: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrChoirNotFound
	}
	return nil
}

func scanChoirs(rows pgx.Rows) ([]*models.Choir, error) {
	var choirs []*models.Choir
	for rows.Next() {
		var choir models.Choir
		if err := rows.Scan(
			&choir.ID, &choir.Name, &choir.Description, &choir.OrganizationNumber,
			&choir.AttendanceMode, &choir.HolidayRegion, &choir.CreatedAt, &choir.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning choir: %w", err)
		}
		choirs = append(choirs, &choir)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choirs: %w", err)
	}
	return choirs, nil
}
