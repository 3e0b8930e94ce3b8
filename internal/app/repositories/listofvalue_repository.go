package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/pkg/dberrors"
)

// List-of-values error types
var (
	ErrValueNotFound      = errors.New("list value not found")
	ErrValueAlreadyExists = errors.New("list value already exists")
)

// ListOfValueRepository handles database operations for choir taxonomy entries
type ListOfValueRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewListOfValueRepository creates a new list-of-values repository
func NewListOfValueRepository(db *pgxpool.Pool) *ListOfValueRepository {
	return &ListOfValueRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a taxonomy entry and sets its ID
func (r *ListOfValueRepository) Create(ctx context.Context, q Querier, lov *models.ListOfValue) error {
	query, args, err := r.sb.Insert("list_of_values").
		Columns("choir_id", "category", "value", "display_name", "parent_id", "sort_order", "active").
		Values(lov.ChoirID, lov.Category, lov.Value, lov.DisplayName, lov.ParentID, lov.SortOrder, lov.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building list value insert: %w", err)
	}

	err = q.QueryRow(ctx, query, args...).Scan(&lov.ID, &lov.CreatedAt, &lov.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return ErrValueAlreadyExists
		}
		return fmt.Errorf("error creating list value: %w", err)
	}
	return nil
}

// GetByID retrieves a taxonomy entry scoped to a choir
func (r *ListOfValueRepository) GetByID(ctx context.Context, choirID, id int64) (*models.ListOfValue, error) {
	query, args, err := r.lovSelect().
		Where(squirrel.Eq{"id": id, "choir_id": choirID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list value query: %w", err)
	}

	var lov models.ListOfValue
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&lov.ID, &lov.ChoirID, &lov.Category, &lov.Value, &lov.DisplayName,
		&lov.ParentID, &lov.SortOrder, &lov.Active, &lov.CreatedAt, &lov.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrValueNotFound
		}
		return nil, fmt.Errorf("error retrieving list value: %w", err)
	}
	return &lov, nil
}

// ListByCategory retrieves all entries of one category for a choir
func (r *ListOfValueRepository) ListByCategory(ctx context.Context, choirID int64, category models.LovCategory) ([]*models.ListOfValue, error) {
	query, args, err := r.lovSelect().
		Where(squirrel.Eq{"choir_id": choirID, "category": category}).
		OrderBy("sort_order ASC", "display_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building category query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing values by category: %w", err)
	}
	defer rows.Close()

	return scanListOfValues(rows)
}

// FindByLabel matches an entry by value or display name, case-insensitively.
// Returns nil without error when nothing matches.
func (r *ListOfValueRepository) FindByLabel(ctx context.Context, choirID int64, category models.LovCategory, label string) (*models.ListOfValue, error) {
	query, args, err := r.lovSelect().
		Where(squirrel.Eq{"choir_id": choirID, "category": category}).
		Where(squirrel.Or{
			squirrel.Expr("LOWER(value) = LOWER(?)", label),
			squirrel.Expr("LOWER(display_name) = LOWER(?)", label),
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building label query: %w", err)
	}

	var lov models.ListOfValue
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&lov.ID, &lov.ChoirID, &lov.Category, &lov.Value, &lov.DisplayName,
		&lov.ParentID, &lov.SortOrder, &lov.Active, &lov.CreatedAt, &lov.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding value by label: %w", err)
	}
	return &lov, nil
}

// Update updates a taxonomy entry scoped to a choir
func (r *ListOfValueRepository) Update(ctx context.Context, lov *models.ListOfValue) error {
	query, args, err := r.sb.Update("list_of_values").
		Set("value", lov.Value).
		Set("display_name", lov.DisplayName).
		Set("parent_id", lov.ParentID).
		Set("sort_order", lov.SortOrder).
		Set("active", lov.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": lov.ID, "choir_id": lov.ChoirID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building list value update: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return ErrValueAlreadyExists
		}
		return fmt.Errorf("error updating list value: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrValueNotFound
	}
	return nil
}

// InUse reports whether any member or event still references the entry
func (r *ListOfValueRepository) InUse(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM members WHERE membership_type_id = $1 OR voice_group_id = $1 OR voice_type_id = $1
			UNION ALL
			SELECT 1 FROM events WHERE event_type_id = $1
			UNION ALL
			SELECT 1 FROM list_of_values WHERE parent_id = $1
		)
	`

	var inUse bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&inUse); err != nil {
		return false, fmt.Errorf("error checking value usage: %w", err)
	}
	return inUse, nil
}

// Delete removes a taxonomy entry scoped to a choir
func (r *ListOfValueRepository) Delete(ctx context.Context, choirID, id int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM list_of_values WHERE id = $1 AND choir_id = $2`, id, choirID)
	if err != nil {
		return fmt.Errorf("error deleting list value: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrValueNotFound
	}
	return nil
}

// ListOrphanVoiceTypes finds voice types whose parent voice group is missing or unset
func (r *ListOfValueRepository) ListOrphanVoiceTypes(ctx context.Context, choirID int64) ([]*models.ListOfValue, error) {
	query := `
		SELECT vt.id, vt.choir_id, vt.category, vt.value, vt.display_name,
		       vt.parent_id, vt.sort_order, vt.active, vt.created_at, vt.updated_at
		FROM list_of_values vt
		LEFT JOIN list_of_values vg ON vg.id = vt.parent_id
		WHERE vt.choir_id = $1
		  AND vt.category = 'voice_type'
		  AND (vt.parent_id IS NULL OR vg.id IS NULL)
		ORDER BY vt.display_name ASC
	`

	rows, err := r.db.Query(ctx, query, choirID)
	if err != nil {
		return nil, fmt.Errorf("error listing orphan voice types: %w", err)
	}
	defer rows.Close()

	return scanListOfValues(rows)
}

// CountByCategory tallies entries per category for a choir
func (r *ListOfValueRepository) CountByCategory(ctx context.Context, choirID int64) (map[string]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category, COUNT(*) FROM list_of_values WHERE choir_id = $1 GROUP BY category`, choirID)
	if err != nil {
		return nil, fmt.Errorf("error counting values by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("error scanning category count: %w", err)
		}
		counts[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category counts: %w", err)
	}
	return counts, nil
}

func (r *ListOfValueRepository) lovSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"id", "choir_id", "category", "value", "display_name",
		"parent_id", "sort_order", "active", "created_at", "updated_at").
		From("list_of_values")
}

func scanListOfValues(rows pgx.Rows) ([]*models.ListOfValue, error) {
	var values []*models.ListOfValue
	for rows.Next() {
		var lov models.ListOfValue
		if err := rows.Scan(
			&lov.ID, &lov.ChoirID, &lov.Category, &lov.Value, &lov.DisplayName,
			&lov.ParentID, &lov.SortOrder, &lov.Active, &lov.CreatedAt, &lov.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning list value: %w", err)
		}
		values = append(values, &lov)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating list values: %w", err)
	}
	return values, nil
}
