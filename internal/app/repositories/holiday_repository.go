package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/pkg/dberrors"
)

// Holiday error types
var (
	ErrHolidayNotFound      = errors.New("holiday not found")
	ErrHolidayAlreadyExists = errors.New("holiday already exists for that date")
)

// HolidayRepository handles database operations for choir holiday calendars
type HolidayRepository struct {
	db *pgxpool.Pool
}

// NewHolidayRepository creates a new holiday repository
func NewHolidayRepository(db *pgxpool.Pool) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// Create inserts a holiday for a choir
func (r *HolidayRepository) Create(ctx context.Context, holiday *models.Holiday) error {
	query := `
		INSERT INTO holidays (choir_id, holiday_date, name, region)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		holiday.ChoirID, holiday.Date, holiday.Name, holiday.Region,
	).Scan(&holiday.ID, &holiday.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return ErrHolidayAlreadyExists
		}
		return fmt.Errorf("error creating holiday: %w", err)
	}
	return nil
}

// ListByChoir retrieves all holidays for a choir ordered by date
func (r *HolidayRepository) ListByChoir(ctx context.Context, choirID int64) ([]*models.Holiday, error) {
	query := `
		SELECT id, choir_id, holiday_date, name, region, created_at
		FROM holidays
		WHERE choir_id = $1
		ORDER BY holiday_date ASC
	`

	rows, err := r.db.Query(ctx, query, choirID)
	if err != nil {
		return nil, fmt.Errorf("error listing holidays: %w", err)
	}
	defer rows.Close()

	var holidays []*models.Holiday
	for rows.Next() {
		var h models.Holiday
		if err := rows.Scan(&h.ID, &h.ChoirID, &h.Date, &h.Name, &h.Region, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning holiday: %w", err)
		}
		holidays = append(holidays, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holidays: %w", err)
	}
	return holidays, nil
}

// ListDates retrieves only the holiday dates for a choir
func (r *HolidayRepository) ListDates(ctx context.Context, choirID int64) ([]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT holiday_date FROM holidays WHERE choir_id = $1 ORDER BY holiday_date ASC`, choirID)
	if err != nil {
		return nil, fmt.Errorf("error listing holiday dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("error scanning holiday date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holiday dates: %w", err)
	}
	return dates, nil
}

// Delete removes a holiday scoped to a choir
func (r *HolidayRepository) Delete(ctx context.Context, choirID, holidayID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM holidays WHERE id = $1 AND choir_id = $2`, holidayID, choirID)
	if err != nil {
		return fmt.Errorf("error deleting holiday: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrHolidayNotFound
	}
	return nil
}
