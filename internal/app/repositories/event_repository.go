package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choirdinated/backend/internal/app/models"
)

// Event error types
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// OrphanInstance is a recurring instance whose parent event is missing
type OrphanInstance struct {
	EventID       int64     `json:"eventId"`
	ChoirID       int64     `json:"choirId"`
	ParentEventID int64     `json:"parentEventId"`
	StartTime     time.Time `json:"startTime"`
}

// EventRepository handles database operations for events and attendance
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an event and sets its ID
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query, args, err := r.sb.Insert("events").
		Columns("choir_id", "title", "description", "location", "start_time", "end_time",
			"event_type_id", "attendance_mode", "is_recurring", "recurrence_rule",
			"parent_event_id", "created_by").
		Values(event.ChoirID, event.Title, event.Description, event.Location,
			event.StartTime, event.EndTime, event.EventTypeID, event.AttendanceMode,
			event.IsRecurring, event.RecurrenceRule, event.ParentEventID, event.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building event insert: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event scoped to a choir
func (r *EventRepository) GetByID(ctx context.Context, choirID, eventID int64) (*models.Event, error) {
	query, args, err := r.eventSelect().
		Where(squirrel.Eq{"id": eventID, "choir_id": choirID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building event query: %w", err)
	}

	event, err := scanEventRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return event, nil
}

// List retrieves a page of events for a choir, optionally bounded by a time
// window, ordered by start time
func (r *EventRepository) List(ctx context.Context, choirID int64, from, to *time.Time, limit, offset uint64) ([]*models.Event, int64, error) {
	where := squirrel.And{squirrel.Eq{"choir_id": choirID}}
	if from != nil {
		where = append(where, squirrel.GtOrEq{"start_time": *from})
	}
	if to != nil {
		where = append(where, squirrel.Lt{"start_time": *to})
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("events").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building event count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	query, args, err := r.eventSelect().
		Where(where).
		OrderBy("start_time ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building event list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEventRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating events: %w", err)
	}

	return events, total, nil
}

// ListInstances retrieves the generated instances of a recurring parent
func (r *EventRepository) ListInstances(ctx context.Context, parentEventID int64) ([]*models.Event, error) {
	query, args, err := r.eventSelect().
		Where(squirrel.Eq{"parent_event_id": parentEventID}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building instances query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing event instances: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEventRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event instance: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event instances: %w", err)
	}
	return events, nil
}

// SetParentEventID back-references an instance (or the parent itself) to the
// series parent
func (r *EventRepository) SetParentEventID(ctx context.Context, eventID, parentEventID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE events SET parent_event_id = $1 WHERE id = $2`, parentEventID, eventID)
	if err != nil {
		return fmt.Errorf("error setting parent event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Update updates an event's editable fields
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query, args, err := r.sb.Update("events").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("location", event.Location).
		Set("start_time", event.StartTime).
		Set("end_time", event.EndTime).
		Set("event_type_id", event.EventTypeID).
		Set("attendance_mode", event.AttendanceMode).
		Set("recurrence_rule", event.RecurrenceRule).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": event.ID, "choir_id": event.ChoirID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building event update: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Delete removes an event scoped to a choir. When cascade is set, generated
// instances of a recurring parent are removed as well.
func (r *EventRepository) Delete(ctx context.Context, choirID, eventID int64, cascade bool) error {
	if cascade {
		if _, err := r.db.Exec(ctx,
			`DELETE FROM events WHERE parent_event_id = $1 AND choir_id = $2`, eventID, choirID); err != nil {
			return fmt.Errorf("error deleting event instances: %w", err)
		}
	}

	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM events WHERE id = $1 AND choir_id = $2`, eventID, choirID)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// UpsertIntent records or replaces a member's intended attendance
func (r *EventRepository) UpsertIntent(ctx context.Context, att *models.EventAttendance) error {
	query := `
		INSERT INTO event_attendance (event_id, member_id, intended_status, responded_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (event_id, member_id)
		DO UPDATE SET intended_status = EXCLUDED.intended_status,
		              responded_at = NOW(),
		              updated_at = NOW()
		RETURNING id, responded_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, att.EventID, att.MemberID, att.IntendedStatus).
		Scan(&att.ID, &att.RespondedAt, &att.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting attendance intent: %w", err)
	}
	return nil
}

// RecordActual sets the organizer-recorded outcome for a member. Creates the
// attendance row if the member never responded.
func (r *EventRepository) RecordActual(ctx context.Context, att *models.EventAttendance) error {
	query := `
		INSERT INTO event_attendance (event_id, member_id, intended_status, actual_status, recorded_by)
		VALUES ($1, $2, 'not_responded', $3, $4)
		ON CONFLICT (event_id, member_id)
		DO UPDATE SET actual_status = EXCLUDED.actual_status,
		              recorded_by = EXCLUDED.recorded_by,
		              updated_at = NOW()
		RETURNING id, intended_status, updated_at
	`

	err := r.db.QueryRow(ctx, query, att.EventID, att.MemberID, att.ActualStatus, att.RecordedBy).
		Scan(&att.ID, &att.IntendedStatus, &att.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error recording actual attendance: %w", err)
	}
	return nil
}

// GetAttendance retrieves one member's attendance row for an event
func (r *EventRepository) GetAttendance(ctx context.Context, eventID, memberID int64) (*models.EventAttendance, error) {
	query := `
		SELECT id, event_id, member_id, intended_status, actual_status, responded_at, recorded_by, updated_at
		FROM event_attendance
		WHERE event_id = $1 AND member_id = $2
	`

	var att models.EventAttendance
	err := r.db.QueryRow(ctx, query, eventID, memberID).Scan(
		&att.ID, &att.EventID, &att.MemberID, &att.IntendedStatus,
		&att.ActualStatus, &att.RespondedAt, &att.RecordedBy, &att.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("error retrieving attendance: %w", err)
	}
	return &att, nil
}

// ListAttendance retrieves all attendance rows for an event with member names
func (r *EventRepository) ListAttendance(ctx context.Context, eventID int64) ([]*models.EventAttendance, error) {
	query := `
		SELECT ea.id, ea.event_id, ea.member_id, ea.intended_status, ea.actual_status,
		       ea.responded_at, ea.recorded_by, ea.updated_at,
		       m.choir_id, m.user_id, u.first_name, u.last_name, u.email
		FROM event_attendance ea
		JOIN members m ON m.id = ea.member_id
		JOIN users u ON u.id = m.user_id
		WHERE ea.event_id = $1
		ORDER BY u.last_name ASC, u.first_name ASC
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.EventAttendance
	for rows.Next() {
		var att models.EventAttendance
		var member models.Member
		var user models.User
		if err := rows.Scan(
			&att.ID, &att.EventID, &att.MemberID, &att.IntendedStatus, &att.ActualStatus,
			&att.RespondedAt, &att.RecordedBy, &att.UpdatedAt,
			&member.ChoirID, &member.UserID, &user.FirstName, &user.LastName, &user.Email,
		); err != nil {
			return nil, fmt.Errorf("error scanning attendance: %w", err)
		}
		member.ID = att.MemberID
		user.ID = member.UserID
		member.User = &user
		att.Member = &member
		records = append(records, &att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}
	return records, nil
}

// CountActiveMembers counts members of the event's choir holding an open
// membership period, the denominator for attendance summaries
func (r *EventRepository) CountActiveMembers(ctx context.Context, choirID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM members m
		WHERE m.choir_id = $1
		  AND EXISTS (
			SELECT 1 FROM membership_periods p
			WHERE p.member_id = m.id AND p.end_date IS NULL
		  )
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, choirID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting active members: %w", err)
	}
	return count, nil
}

// ListOrphanInstances finds instances whose parent event no longer exists
func (r *EventRepository) ListOrphanInstances(ctx context.Context) ([]*OrphanInstance, error) {
	query := `
		SELECT e.id, e.choir_id, e.parent_event_id, e.start_time
		FROM events e
		LEFT JOIN events p ON p.id = e.parent_event_id
		WHERE e.parent_event_id IS NOT NULL
		  AND e.parent_event_id <> e.id
		  AND p.id IS NULL
		ORDER BY e.choir_id, e.start_time
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing orphan instances: %w", err)
	}
	defer rows.Close()

	var orphans []*OrphanInstance
	for rows.Next() {
		var o OrphanInstance
		if err := rows.Scan(&o.EventID, &o.ChoirID, &o.ParentEventID, &o.StartTime); err != nil {
			return nil, fmt.Errorf("error scanning orphan instance: %w", err)
		}
		orphans = append(orphans, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orphan instances: %w", err)
	}
	return orphans, nil
}

// DetachInstance clears the dangling parent reference on an orphan instance
func (r *EventRepository) DetachInstance(ctx context.Context, eventID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE events SET parent_event_id = NULL, is_recurring = FALSE WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("error detaching instance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) eventSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"id", "choir_id", "title", "description", "location", "start_time", "end_time",
		"event_type_id", "attendance_mode", "is_recurring", "recurrence_rule",
		"parent_event_id", "created_by", "created_at", "updated_at").
		From("events")
}

func scanEventRow(row pgx.Row) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID, &event.ChoirID, &event.Title, &event.Description, &event.Location,
		&event.StartTime, &event.EndTime, &event.EventTypeID, &event.AttendanceMode,
		&event.IsRecurring, &event.RecurrenceRule, &event.ParentEventID,
		&event.CreatedBy, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
