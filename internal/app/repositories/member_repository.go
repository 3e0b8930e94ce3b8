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
	"github.com/choirdinated/backend/internal/pkg/dberrors"
)

// Member error types
var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member already exists in choir")
	ErrNoOpenPeriod        = errors.New("member has no open membership period")
	ErrOpenPeriodExists    = errors.New("member already has an open membership period")
	ErrLeaveNotFound       = errors.New("leave not found")
)

// OrphanMember is a member row whose user account no longer exists
type OrphanMember struct {
	MemberID int64 `json:"memberId"`
	ChoirID  int64 `json:"choirId"`
	UserID   int64 `json:"userId"`
}

// MemberRepository handles database operations for choir members, their
// membership periods and their leaves
type MemberRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a member row. The opening membership period is created
// separately so both can share a transaction.
func (r *MemberRepository) Create(ctx context.Context, q Querier, member *models.Member) error {
	query, args, err := r.sb.Insert("members").
		Columns("choir_id", "user_id", "membership_type_id", "voice_group_id", "voice_type_id", "role").
		Values(member.ChoirID, member.UserID, member.MembershipTypeID,
			member.VoiceGroupID, member.VoiceTypeID, member.Role).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building member insert: %w", err)
	}

	err = q.QueryRow(ctx, query, args...).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return ErrMemberAlreadyExists
		}
		return fmt.Errorf("error creating member: %w", err)
	}
	return nil
}

// GetByID retrieves a member scoped to a choir, with its user row attached
func (r *MemberRepository) GetByID(ctx context.Context, choirID, memberID int64) (*models.Member, error) {
	query, args, err := r.memberSelect().
		Where(squirrel.Eq{"m.id": memberID, "m.choir_id": choirID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building member query: %w", err)
	}

	member, err := r.scanMemberRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("error retrieving member: %w", err)
	}
	return member, nil
}

// GetByUserAndChoir retrieves the caller's own membership in a choir
func (r *MemberRepository) GetByUserAndChoir(ctx context.Context, userID, choirID int64) (*models.Member, error) {
	query, args, err := r.memberSelect().
		Where(squirrel.Eq{"m.user_id": userID, "m.choir_id": choirID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building membership query: %w", err)
	}

	member, err := r.scanMemberRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("error retrieving membership: %w", err)
	}
	return member, nil
}

// List retrieves a page of members for a choir with user rows attached
func (r *MemberRepository) List(ctx context.Context, choirID int64, limit, offset uint64) ([]*models.Member, int64, error) {
	countQuery, countArgs, err := r.sb.Select("COUNT(*)").
		From("members m").
		Where(squirrel.Eq{"m.choir_id": choirID}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building member count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting members: %w", err)
	}

	query, args, err := r.memberSelect().
		Where(squirrel.Eq{"m.choir_id": choirID}).
		OrderBy("u.last_name ASC", "u.first_name ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building member list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member, err := r.scanMemberRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating members: %w", err)
	}

	return members, total, nil
}

// Update updates a member's taxonomy assignments and role
func (r *MemberRepository) Update(ctx context.Context, member *models.Member) error {
	query, args, err := r.sb.Update("members").
		Set("membership_type_id", member.MembershipTypeID).
		Set("voice_group_id", member.VoiceGroupID).
		Set("voice_type_id", member.VoiceTypeID).
		Set("role", member.Role).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": member.ID, "choir_id": member.ChoirID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building member update: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating member: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// CreatePeriod opens or records a membership period
func (r *MemberRepository) CreatePeriod(ctx context.Context, q Querier, period *models.MembershipPeriod) error {
	query := `
		INSERT INTO membership_periods (member_id, start_date, end_date, end_reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		period.MemberID, period.StartDate, period.EndDate, period.EndReason,
	).Scan(&period.ID)
	if err != nil {
		return fmt.Errorf("error creating membership period: %w", err)
	}
	return nil
}

// GetOpenPeriod retrieves the member's period with a null end date, if any.
// Returns nil without error when the member has no open period.
func (r *MemberRepository) GetOpenPeriod(ctx context.Context, memberID int64) (*models.MembershipPeriod, error) {
	query := `
		SELECT id, member_id, start_date, end_date, end_reason
		FROM membership_periods
		WHERE member_id = $1 AND end_date IS NULL
	`

	var p models.MembershipPeriod
	err := r.db.QueryRow(ctx, query, memberID).Scan(
		&p.ID, &p.MemberID, &p.StartDate, &p.EndDate, &p.EndReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving open period: %w", err)
	}
	return &p, nil
}

// EndOpenPeriod closes the member's open period
func (r *MemberRepository) EndOpenPeriod(ctx context.Context, memberID int64, endDate time.Time, endReason string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE membership_periods
		SET end_date = $1, end_reason = $2
		WHERE member_id = $3 AND end_date IS NULL`,
		endDate, endReason, memberID)
	if err != nil {
		return fmt.Errorf("error ending membership period: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNoOpenPeriod
	}
	return nil
}

// ListPeriods retrieves all periods for a member, newest first
func (r *MemberRepository) ListPeriods(ctx context.Context, memberID int64) ([]*models.MembershipPeriod, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, member_id, start_date, end_date, end_reason
		FROM membership_periods
		WHERE member_id = $1
		ORDER BY start_date DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("error listing membership periods: %w", err)
	}
	defer rows.Close()

	var periods []*models.MembershipPeriod
	for rows.Next() {
		var p models.MembershipPeriod
		if err := rows.Scan(&p.ID, &p.MemberID, &p.StartDate, &p.EndDate, &p.EndReason); err != nil {
			return nil, fmt.Errorf("error scanning membership period: %w", err)
		}
		periods = append(periods, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership periods: %w", err)
	}
	return periods, nil
}

// CreateLeave records a leave request in pending state
func (r *MemberRepository) CreateLeave(ctx context.Context, leave *models.MembershipLeave) error {
	query := `
		INSERT INTO membership_leaves (member_id, from_date, to_date, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		leave.MemberID, leave.FromDate, leave.ToDate, leave.Reason, leave.Status,
	).Scan(&leave.ID, &leave.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating leave: %w", err)
	}
	return nil
}

// GetLeave retrieves a leave scoped to a member
func (r *MemberRepository) GetLeave(ctx context.Context, memberID, leaveID int64) (*models.MembershipLeave, error) {
	query := `
		SELECT id, member_id, from_date, to_date, reason, status, created_at
		FROM membership_leaves
		WHERE id = $1 AND member_id = $2
	`

	var l models.MembershipLeave
	err := r.db.QueryRow(ctx, query, leaveID, memberID).Scan(
		&l.ID, &l.MemberID, &l.FromDate, &l.ToDate, &l.Reason, &l.Status, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeaveNotFound
		}
		return nil, fmt.Errorf("error retrieving leave: %w", err)
	}
	return &l, nil
}

// UpdateLeaveStatus sets the decision on a leave request
func (r *MemberRepository) UpdateLeaveStatus(ctx context.Context, leaveID int64, status models.LeaveStatus) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE membership_leaves SET status = $1 WHERE id = $2`, status, leaveID)
	if err != nil {
		return fmt.Errorf("error updating leave status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrLeaveNotFound
	}
	return nil
}

// ListLeaves retrieves all leaves for a member, newest first
func (r *MemberRepository) ListLeaves(ctx context.Context, memberID int64) ([]*models.MembershipLeave, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, member_id, from_date, to_date, reason, status, created_at
		FROM membership_leaves
		WHERE member_id = $1
		ORDER BY from_date DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("error listing leaves: %w", err)
	}
	defer rows.Close()

	var leaves []*models.MembershipLeave
	for rows.Next() {
		var l models.MembershipLeave
		if err := rows.Scan(&l.ID, &l.MemberID, &l.FromDate, &l.ToDate, &l.Reason, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning leave: %w", err)
		}
		leaves = append(leaves, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaves: %w", err)
	}
	return leaves, nil
}

// ListOrphans finds member rows whose user account has been deleted
func (r *MemberRepository) ListOrphans(ctx context.Context) ([]*OrphanMember, error) {
	query := `
		SELECT m.id, m.choir_id, m.user_id
		FROM members m
		LEFT JOIN users u ON u.id = m.user_id
		WHERE u.id IS NULL
		ORDER BY m.choir_id, m.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing orphan members: %w", err)
	}
	defer rows.Close()

	var orphans []*OrphanMember
	for rows.Next() {
		var o OrphanMember
		if err := rows.Scan(&o.MemberID, &o.ChoirID, &o.UserID); err != nil {
			return nil, fmt.Errorf("error scanning orphan member: %w", err)
		}
		orphans = append(orphans, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orphan members: %w", err)
	}
	return orphans, nil
}

// Delete removes a member scoped to a choir. Periods, leaves and attendance
// rows go with it via ON DELETE CASCADE.
func (r *MemberRepository) Delete(ctx context.Context, choirID, memberID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM members WHERE id = $1 AND choir_id = $2`, memberID, choirID)
	if err != nil {
		return fmt.Errorf("error deleting member: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) memberSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"m.id", "m.choir_id", "m.user_id", "m.membership_type_id",
		"m.voice_group_id", "m.voice_type_id", "m.role", "m.created_at", "m.updated_at",
		"u.email", "u.first_name", "u.last_name", "u.phone", "u.birth_date").
		From("members m").
		Join("users u ON u.id = m.user_id")
}

func (r *MemberRepository) scanMemberRow(row pgx.Row) (*models.Member, error) {
	var member models.Member
	var user models.User
	err := row.Scan(
		&member.ID, &member.ChoirID, &member.UserID, &member.MembershipTypeID,
		&member.VoiceGroupID, &member.VoiceTypeID, &member.Role, &member.CreatedAt, &member.UpdatedAt,
		&user.Email, &user.FirstName, &user.LastName, &user.Phone, &user.BirthDate,
	)
	if err != nil {
		return nil, err
	}
	user.ID = member.UserID
	member.User = &user
	return &member, nil
}
