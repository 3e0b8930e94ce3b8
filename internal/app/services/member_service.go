package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/repositories"
	"github.com/choirdinated/backend/internal/db"
	"github.com/choirdinated/backend/internal/pkg/apperrors"
	"github.com/choirdinated/backend/internal/pkg/helpers"
	"github.com/choirdinated/backend/internal/pkg/logger"
)

// MemberService handles members, membership periods and leaves
type MemberService struct {
	database   *db.PostgresDB
	memberRepo *repositories.MemberRepository
	userRepo   *repositories.UserRepository
	lovRepo    *repositories.ListOfValueRepository
}

// NewMemberService creates a new member service instance
func NewMemberService(
	database *db.PostgresDB,
	memberRepo *repositories.MemberRepository,
	userRepo *repositories.UserRepository,
	lovRepo *repositories.ListOfValueRepository,
) *MemberService {
	return &MemberService{
		database:   database,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		lovRepo:    lovRepo,
	}
}

// CreateMember enrolls an existing user into the choir and opens its first
// membership period in the same transaction
func (s *MemberService) CreateMember(ctx context.Context, choirID int64, req *dto.CreateMemberRequest) (*models.Member, error) {
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error checking user: %w", err)
	}

	if err := s.validateTaxonomyRefs(ctx, choirID, req.MembershipTypeID, req.VoiceGroupID, req.VoiceTypeID); err != nil {
		return nil, err
	}

	role := models.RoleMember
	if req.Role != "" {
		role = models.RoleType(req.Role)
	}

	member := &models.Member{
		ChoirID:          choirID,
		UserID:           req.UserID,
		MembershipTypeID: req.MembershipTypeID,
		VoiceGroupID:     req.VoiceGroupID,
		VoiceTypeID:      req.VoiceTypeID,
		Role:             role,
	}

	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.memberRepo.Create(ctx, tx, member); err != nil {
			return err
		}
		period := &models.MembershipPeriod{
			MemberID:  member.ID,
			StartDate: helpers.DateOnly(req.StartDate),
		}
		return s.memberRepo.CreatePeriod(ctx, tx, period)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrMemberAlreadyExists) {
			return nil, apperrors.ErrMemberAlreadyExists
		}
		return nil, fmt.Errorf("error creating member: %w", err)
	}

	logger.Info().Int64("choirId", choirID).Int64("memberId", member.ID).Msg("Member created")
	return s.GetMember(ctx, choirID, member.ID)
}

// GetMember retrieves a member with periods, leaves and computed status
func (s *MemberService) GetMember(ctx context.Context, choirID, memberID int64) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, choirID, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("error retrieving member: %w", err)
	}

	if err := s.attachLifecycle(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// ListMembers retrieves a page of members with computed statuses
func (s *MemberService) ListMembers(ctx context.Context, choirID int64, page, size int) ([]*models.Member, int64, error) {
	members, total, err := s.memberRepo.List(ctx, choirID, uint64(size), helpers.Offset(page, size))
	if err != nil {
		return nil, 0, fmt.Errorf("error listing members: %w", err)
	}

	for _, member := range members {
		if err := s.attachLifecycle(ctx, member); err != nil {
			return nil, 0, err
		}
	}
	return members, total, nil
}

// UpdateMember changes voice assignment, membership type and role
func (s *MemberService) UpdateMember(ctx context.Context, choirID, memberID int64, req *dto.UpdateMemberRequest) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, choirID, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("error retrieving member: %w", err)
	}

	if err := s.validateTaxonomyRefs(ctx, choirID, req.MembershipTypeID, req.VoiceGroupID, req.VoiceTypeID); err != nil {
		return nil, err
	}

	member.MembershipTypeID = req.MembershipTypeID
	member.VoiceGroupID = req.VoiceGroupID
	member.VoiceTypeID = req.VoiceTypeID
	if req.Role != "" {
		member.Role = models.RoleType(req.Role)
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("error updating member: %w", err)
	}
	return s.GetMember(ctx, choirID, memberID)
}

// DeleteMember removes a member and its lifecycle rows
func (s *MemberService) DeleteMember(ctx context.Context, choirID, memberID int64) error {
	if err := s.memberRepo.Delete(ctx, choirID, memberID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return fmt.Errorf("error deleting member: %w", err)
	}
	return nil
}

// StartPeriod opens a new membership period for a previously inactive member
func (s *MemberService) StartPeriod(ctx context.Context, choirID, memberID int64, req *dto.StartPeriodRequest) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, choirID, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("error retrieving member: %w", err)
	}

	open, err := s.memberRepo.GetOpenPeriod(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking open period: %w", err)
	}
	if open != nil {
		return nil, apperrors.ErrOpenPeriodExists
	}

	period := &models.MembershipPeriod{
		MemberID:  member.ID,
		StartDate: helpers.DateOnly(req.StartDate),
	}
	if err := s.memberRepo.CreatePeriod(ctx, s.database.Pool, period); err != nil {
		return nil, fmt.Errorf("error starting period: %w", err)
	}
	return s.GetMember(ctx, choirID, memberID)
}

// EndPeriod closes the member's open period, making the member inactive
func (s *MemberService) EndPeriod(ctx context.Context, choirID, memberID int64, req *dto.EndPeriodRequest) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, choirID, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("error retrieving member: %w", err)
	}

	err = s.memberRepo.EndOpenPeriod(ctx, member.ID, helpers.DateOnly(req.EndDate), req.EndReason)
	if err != nil {
		if errors.Is(err, repositories.ErrNoOpenPeriod) {
			return nil, apperrors.ErrNoOpenPeriod
		}
		return nil, fmt.Errorf("error ending period: %w", err)
	}
	return s.GetMember(ctx, choirID, memberID)
}

// CreateLeave files a leave request in pending state. Members file for their
// own membership only; admins may file for any member of the choir.
func (s *MemberService) CreateLeave(ctx context.Context, caller *models.Member, memberID int64, req *dto.CreateLeaveRequest) (*models.MembershipLeave, error) {
	if !canFileLeaveFor(caller, memberID) {
		return nil, apperrors.NewForbiddenError("Leave requests can only be filed for your own membership")
	}

	member, err := s.memberRepo.GetByID(ctx, caller.ChoirID, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("error retrieving member: %w", err)
	}

	if req.ToDate.Before(req.FromDate) {
		return nil, apperrors.ErrInvalidLeaveDates
	}

	leave := &models.MembershipLeave{
		MemberID: member.ID,
		FromDate: helpers.DateOnly(req.FromDate),
		ToDate:   helpers.DateOnly(req.ToDate),
		Reason:   req.Reason,
		Status:   models.LeavePending,
	}
	if err := s.memberRepo.CreateLeave(ctx, leave); err != nil {
		return nil, fmt.Errorf("error creating leave: %w", err)
	}
	return leave, nil
}

// canFileLeaveFor reports whether the caller may file a leave request for the
// given member
func canFileLeaveFor(caller *models.Member, memberID int64) bool {
	if caller == nil {
		return false
	}
	return caller.ID == memberID || caller.Role == models.RoleAdmin
}

// DecideLeave approves or rejects a pending leave request
func (s *MemberService) DecideLeave(ctx context.Context, choirID, memberID, leaveID int64, approve bool) (*models.MembershipLeave, error) {
	member, err := s.memberRepo.GetByID(ctx, choirID, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("error retrieving member: %w", err)
	}

	leave, err := s.memberRepo.GetLeave(ctx, member.ID, leaveID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeaveNotFound) {
			return nil, apperrors.ErrLeaveNotFound
		}
		return nil, fmt.Errorf("error retrieving leave: %w", err)
	}

	if leave.Status != models.LeavePending {
		return nil, apperrors.ErrLeaveAlreadyDecided
	}

	status := models.LeaveRejected
	if approve {
		status = models.LeaveApproved
	}
	if err := s.memberRepo.UpdateLeaveStatus(ctx, leave.ID, status); err != nil {
		return nil, fmt.Errorf("error deciding leave: %w", err)
	}

	leave.Status = status
	return leave, nil
}

// attachLifecycle loads periods and leaves and computes the displayed status
func (s *MemberService) attachLifecycle(ctx context.Context, member *models.Member) error {
	periods, err := s.memberRepo.ListPeriods(ctx, member.ID)
	if err != nil {
		return fmt.Errorf("error retrieving periods: %w", err)
	}
	leaves, err := s.memberRepo.ListLeaves(ctx, member.ID)
	if err != nil {
		return fmt.Errorf("error retrieving leaves: %w", err)
	}

	member.Periods = periods
	member.Leaves = leaves
	member.Status = ComputeMemberStatus(periods, leaves, time.Now())
	return nil
}

// validateTaxonomyRefs checks that the referenced taxonomy entries belong to
// the choir and carry the expected categories
func (s *MemberService) validateTaxonomyRefs(ctx context.Context, choirID, membershipTypeID int64, voiceGroupID, voiceTypeID *int64) error {
	checks := []struct {
		id       *int64
		category models.LovCategory
	}{
		{&membershipTypeID, models.CategoryMembershipType},
		{voiceGroupID, models.CategoryVoiceGroup},
		{voiceTypeID, models.CategoryVoiceType},
	}

	for _, check := range checks {
		if check.id == nil {
			continue
		}
		lov, err := s.lovRepo.GetByID(ctx, choirID, *check.id)
		if err != nil {
			if errors.Is(err, repositories.ErrValueNotFound) {
				return apperrors.NewBadRequestError(fmt.Sprintf("unknown %s reference", check.category))
			}
			return fmt.Errorf("error checking taxonomy reference: %w", err)
		}
		if lov.Category != check.category {
			return apperrors.NewBadRequestError(fmt.Sprintf("value %d is not a %s", lov.ID, check.category))
		}
	}
	return nil
}
