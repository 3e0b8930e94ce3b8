package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/repositories"
	"github.com/choirdinated/backend/internal/db"
	"github.com/choirdinated/backend/internal/pkg/apperrors"
	"github.com/choirdinated/backend/internal/pkg/brreg"
	"github.com/choirdinated/backend/internal/pkg/helpers"
	"github.com/choirdinated/backend/internal/pkg/logger"
	"github.com/choirdinated/backend/internal/seed"
)

// DefaultHolidayRegion applies when a choir is created without one
const DefaultHolidayRegion = "NO"

// ChoirService handles choir lifecycle, settings and holiday calendars
type ChoirService struct {
	database    *db.PostgresDB
	choirRepo   *repositories.ChoirRepository
	holidayRepo *repositories.HolidayRepository
	lovRepo     *repositories.ListOfValueRepository
	memberRepo  *repositories.MemberRepository
}

// NewChoirService creates a new choir service instance
func NewChoirService(
	database *db.PostgresDB,
	choirRepo *repositories.ChoirRepository,
	holidayRepo *repositories.HolidayRepository,
	lovRepo *repositories.ListOfValueRepository,
	memberRepo *repositories.MemberRepository,
) *ChoirService {
	return &ChoirService{
		database:    database,
		choirRepo:   choirRepo,
		holidayRepo: holidayRepo,
		lovRepo:     lovRepo,
		memberRepo:  memberRepo,
	}
}

// CreateChoir creates a choir, seeds its default taxonomy and enrolls the
// creator as an active admin member, all within one transaction.
func (s *ChoirService) CreateChoir(ctx context.Context, creatorUserID int64, req *dto.CreateChoirRequest) (*models.Choir, error) {
	orgNumber, err := normalizeOptionalOrgNumber(req.OrganizationNumber)
	if err != nil {
		return nil, err
	}

	mode := models.AttendanceOptOut
	if req.AttendanceMode != "" {
		mode = models.AttendanceMode(req.AttendanceMode)
	}
	region := req.HolidayRegion
	if region == "" {
		region = DefaultHolidayRegion
	}

	choir := &models.Choir{
		Name:               strings.TrimSpace(req.Name),
		Description:        req.Description,
		OrganizationNumber: orgNumber,
		AttendanceMode:     mode,
		HolidayRegion:      region,
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.choirRepo.Create(ctx, tx, choir); err != nil {
			return err
		}

		membershipTypeID, err := s.seedTaxonomy(ctx, tx, choir.ID)
		if err != nil {
			return err
		}

		admin := &models.Member{
			ChoirID:          choir.ID,
			UserID:           creatorUserID,
			MembershipTypeID: membershipTypeID,
			Role:             models.RoleAdmin,
		}
		if err := s.memberRepo.Create(ctx, tx, admin); err != nil {
			return err
		}

		period := &models.MembershipPeriod{
			MemberID:  admin.ID,
			StartDate: helpers.DateOnly(time.Now()),
		}
		return s.memberRepo.CreatePeriod(ctx, tx, period)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating choir: %w", err)
	}

	logger.Info().Int64("choirId", choir.ID).Int64("createdBy", creatorUserID).Msg("Choir created")
	return choir, nil
}

// seedTaxonomy inserts the default list-of-values rows and returns the ID of
// the default membership type used for the creator's admin membership
func (s *ChoirService) seedTaxonomy(ctx context.Context, tx pgx.Tx, choirID int64) (int64, error) {
	roots, children := seed.DefaultTaxonomy(choirID)

	var membershipTypeID int64
	groupIDs := make(map[string]int64)

	for _, lov := range roots {
		if err := s.lovRepo.Create(ctx, tx, lov); err != nil {
			return 0, fmt.Errorf("error seeding taxonomy: %w", err)
		}
		if lov.Category == models.CategoryVoiceGroup {
			groupIDs[lov.Value] = lov.ID
		}
		if lov.Category == models.CategoryMembershipType && membershipTypeID == 0 {
			membershipTypeID = lov.ID
		}
	}

	for parentValue, types := range children {
		parentID, ok := groupIDs[parentValue]
		if !ok {
			return 0, fmt.Errorf("error seeding taxonomy: unknown voice group %q", parentValue)
		}
		for _, lov := range types {
			lov.ParentID = &parentID
			if err := s.lovRepo.Create(ctx, tx, lov); err != nil {
				return 0, fmt.Errorf("error seeding taxonomy: %w", err)
			}
		}
	}

	if membershipTypeID == 0 {
		return 0, fmt.Errorf("error seeding taxonomy: no membership type seeded")
	}
	return membershipTypeID, nil
}

// GetChoir retrieves a choir by ID
func (s *ChoirService) GetChoir(ctx context.Context, choirID int64) (*models.Choir, error) {
	choir, err := s.choirRepo.GetByID(ctx, choirID)
	if err != nil {
		if errors.Is(err, repositories.ErrChoirNotFound) {
			return nil, apperrors.ErrChoirNotFound
		}
		return nil, fmt.Errorf("error retrieving choir: %w", err)
	}
	return choir, nil
}

// ListMyChoirs lists the choirs the user is a member of
func (s *ChoirService) ListMyChoirs(ctx context.Context, userID int64) ([]*models.Choir, error) {
	choirs, err := s.choirRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing choirs: %w", err)
	}
	return choirs, nil
}

// UpdateChoir updates name, description and organization number
func (s *ChoirService) UpdateChoir(ctx context.Context, choirID int64, req *dto.UpdateChoirRequest) (*models.Choir, error) {
	choir, err := s.GetChoir(ctx, choirID)
	if err != nil {
		return nil, err
	}

	orgNumber, err := normalizeOptionalOrgNumber(req.OrganizationNumber)
	if err != nil {
		return nil, err
	}

	choir.Name = strings.TrimSpace(req.Name)
	choir.Description = req.Description
	choir.OrganizationNumber = orgNumber

	if err := s.choirRepo.Update(ctx, choir); err != nil {
		if errors.Is(err, repositories.ErrChoirNotFound) {
			return nil, apperrors.ErrChoirNotFound
		}
		return nil, fmt.Errorf("error updating choir: %w", err)
	}
	return choir, nil
}

// UpdateSettings updates the attendance default and holiday region
func (s *ChoirService) UpdateSettings(ctx context.Context, choirID int64, req *dto.UpdateChoirSettingsRequest) (*models.Choir, error) {
	err := s.choirRepo.UpdateSettings(ctx, choirID, models.AttendanceMode(req.AttendanceMode), req.HolidayRegion)
	if err != nil {
		if errors.Is(err, repositories.ErrChoirNotFound) {
			return nil, apperrors.ErrChoirNotFound
		}
		return nil, fmt.Errorf("error updating choir settings: %w", err)
	}
	return s.GetChoir(ctx, choirID)
}

// AddHoliday adds a date to the choir's holiday calendar
func (s *ChoirService) AddHoliday(ctx context.Context, choirID int64, req *dto.CreateHolidayRequest) (*models.Holiday, error) {
	choir, err := s.GetChoir(ctx, choirID)
	if err != nil {
		return nil, err
	}

	region := req.Region
	if region == "" {
		region = choir.HolidayRegion
	}

	holiday := &models.Holiday{
		ChoirID: choirID,
		Date:    helpers.DateOnly(req.Date),
		Name:    strings.TrimSpace(req.Name),
		Region:  region,
	}
	if err := s.holidayRepo.Create(ctx, holiday); err != nil {
		if errors.Is(err, repositories.ErrHolidayAlreadyExists) {
			return nil, apperrors.NewConflictError("a holiday already exists on that date")
		}
		return nil, fmt.Errorf("error adding holiday: %w", err)
	}
	return holiday, nil
}

// ListHolidays lists the choir's holiday calendar
func (s *ChoirService) ListHolidays(ctx context.Context, choirID int64) ([]*models.Holiday, error) {
	holidays, err := s.holidayRepo.ListByChoir(ctx, choirID)
	if err != nil {
		return nil, fmt.Errorf("error listing holidays: %w", err)
	}
	return holidays, nil
}

// DeleteHoliday removes a holiday from the choir's calendar
func (s *ChoirService) DeleteHoliday(ctx context.Context, choirID, holidayID int64) error {
	if err := s.holidayRepo.Delete(ctx, choirID, holidayID); err != nil {
		if errors.Is(err, repositories.ErrHolidayNotFound) {
			return apperrors.NewResourceNotFoundError("holiday not found")
		}
		return fmt.Errorf("error deleting holiday: %w", err)
	}
	return nil
}

// PreviewDelete reports the cascade impact of deleting a choir
func (s *ChoirService) PreviewDelete(ctx context.Context, choirID int64) (*repositories.ChoirCascadeCounts, error) {
	if _, err := s.GetChoir(ctx, choirID); err != nil {
		return nil, err
	}
	counts, err := s.choirRepo.CascadeCounts(ctx, choirID)
	if err != nil {
		return nil, fmt.Errorf("error previewing choir delete: %w", err)
	}
	return counts, nil
}

// DeleteChoir removes a choir and all of its tenant-scoped data
func (s *ChoirService) DeleteChoir(ctx context.Context, choirID int64) error {
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.choirRepo.Delete(ctx, tx, choirID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrChoirNotFound) {
			return apperrors.ErrChoirNotFound
		}
		return fmt.Errorf("error deleting choir: %w", err)
	}

	logger.Warn().Int64("choirId", choirID).Msg("Choir deleted")
	return nil
}

// normalizeOptionalOrgNumber validates and canonicalizes an optional
// Brønnøysund organization number
func normalizeOptionalOrgNumber(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	normalized, err := brreg.NormalizeOrganizationNumber(*raw)
	if err != nil {
		return nil, apperrors.ErrInvalidOrganizationNumber
	}
	if err := brreg.ValidateOrganizationNumber(normalized); err != nil {
		return nil, apperrors.ErrInvalidOrganizationNumber
	}
	return &normalized, nil
}
