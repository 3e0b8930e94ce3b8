package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/repositories"
	"github.com/choirdinated/backend/internal/db"
	"github.com/choirdinated/backend/internal/pkg/auth"
	"github.com/choirdinated/backend/internal/pkg/helpers"
	"github.com/choirdinated/backend/internal/pkg/logger"
)

// defaultMembershipType is assigned to imported rows without one
const defaultMembershipType = "regular"

// ImportService imports member spreadsheets with taxonomy mapping
type ImportService struct {
	database   *db.PostgresDB
	userRepo   *repositories.UserRepository
	memberRepo *repositories.MemberRepository
	lovRepo    *repositories.ListOfValueRepository
}

// NewImportService creates a new import service instance
func NewImportService(
	database *db.PostgresDB,
	userRepo *repositories.UserRepository,
	memberRepo *repositories.MemberRepository,
	lovRepo *repositories.ListOfValueRepository,
) *ImportService {
	return &ImportService{
		database:   database,
		userRepo:   userRepo,
		memberRepo: memberRepo,
		lovRepo:    lovRepo,
	}
}

// Preview maps the batch's taxonomy labels and reports what an execute
// would do, without writing anything
func (s *ImportService) Preview(ctx context.Context, choirID int64, req *dto.ImportRequest) (*dto.ImportPreview, error) {
	preview := &dto.ImportPreview{RowCount: len(req.Rows)}

	groups, types, membershipTypes := distinctLabels(req.Rows)

	for _, raw := range groups {
		mapping, err := s.resolveMapping(ctx, choirID, models.CategoryVoiceGroup, raw)
		if err != nil {
			return nil, err
		}
		preview.VoiceGroups = append(preview.VoiceGroups, mapping)
	}
	for _, raw := range types {
		mapping, err := s.resolveMapping(ctx, choirID, models.CategoryVoiceType, raw)
		if err != nil {
			return nil, err
		}
		preview.VoiceTypes = append(preview.VoiceTypes, mapping)
	}
	for _, raw := range membershipTypes {
		mapping, err := s.resolveMapping(ctx, choirID, models.CategoryMembershipType, raw)
		if err != nil {
			return nil, err
		}
		preview.MembershipTypes = append(preview.MembershipTypes, mapping)
	}

	for _, mapping := range preview.VoiceGroups {
		if mapping.WouldCreate {
			preview.NewTaxonomyValues++
		}
	}
	for _, mapping := range preview.VoiceTypes {
		if mapping.WouldCreate {
			preview.NewTaxonomyValues++
		}
	}
	for _, mapping := range preview.MembershipTypes {
		if mapping.WouldCreate {
			preview.NewTaxonomyValues++
		}
	}

	for _, row := range req.Rows {
		exists, err := s.userRepo.ExistsByEmail(ctx, row.Email)
		if err != nil {
			return nil, fmt.Errorf("error checking email: %w", err)
		}
		if exists {
			preview.ExistingEmails = append(preview.ExistingEmails, strings.ToLower(row.Email))
		}
	}

	return preview, nil
}

// Execute performs the import. Taxonomy entries are resolved or created
// first, then each row creates a user account with a generated password, a
// member and an open membership period atomically. Rows whose email already
// has an account are skipped and reported.
func (s *ImportService) Execute(ctx context.Context, choirID int64, req *dto.ImportRequest) (*dto.ImportResult, error) {
	result := &dto.ImportResult{}

	resolve := func(category models.LovCategory, raw string) (*int64, error) {
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		id, created, err := s.resolveOrCreate(ctx, choirID, category, raw)
		if err != nil {
			return nil, err
		}
		if created {
			result.CreatedTaxonomy++
		}
		return &id, nil
	}

	startDate := helpers.DateOnly(time.Now())

	for _, row := range req.Rows {
		exists, err := s.userRepo.ExistsByEmail(ctx, row.Email)
		if err != nil {
			return nil, fmt.Errorf("error checking email: %w", err)
		}
		if exists {
			result.SkippedEmails = append(result.SkippedEmails, strings.ToLower(row.Email))
			continue
		}

		voiceGroupID, err := resolve(models.CategoryVoiceGroup, row.VoiceGroup)
		if err != nil {
			return nil, err
		}
		voiceTypeID, err := resolve(models.CategoryVoiceType, row.VoiceType)
		if err != nil {
			return nil, err
		}

		membershipLabel := row.MembershipType
		if strings.TrimSpace(membershipLabel) == "" {
			membershipLabel = defaultMembershipType
		}
		membershipTypeID, err := resolve(models.CategoryMembershipType, membershipLabel)
		if err != nil {
			return nil, err
		}

		password, err := auth.GeneratePassword()
		if err != nil {
			return nil, fmt.Errorf("error generating password: %w", err)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}

		var phone *string
		if strings.TrimSpace(row.Phone) != "" {
			p := strings.TrimSpace(row.Phone)
			phone = &p
		}

		user := &models.User{
			Email:        strings.ToLower(strings.TrimSpace(row.Email)),
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(row.FirstName),
			LastName:     strings.TrimSpace(row.LastName),
			Phone:        phone,
		}

		err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			if err := s.userRepo.Create(ctx, tx, user); err != nil {
				return err
			}
			member := &models.Member{
				ChoirID:          choirID,
				UserID:           user.ID,
				MembershipTypeID: *membershipTypeID,
				VoiceGroupID:     voiceGroupID,
				VoiceTypeID:      voiceTypeID,
				Role:             models.RoleMember,
			}
			if err := s.memberRepo.Create(ctx, tx, member); err != nil {
				return err
			}
			period := &models.MembershipPeriod{MemberID: member.ID, StartDate: startDate}
			return s.memberRepo.CreatePeriod(ctx, tx, period)
		})
		if err != nil {
			return nil, fmt.Errorf("error importing row for %s: %w", user.Email, err)
		}

		result.CreatedUsers++
		result.CreatedMembers++
	}

	logger.Info().
		Int64("choirId", choirID).
		Int("createdMembers", result.CreatedMembers).
		Int("createdTaxonomy", result.CreatedTaxonomy).
		Int("skipped", len(result.SkippedEmails)).
		Msg("Member import executed")

	return result, nil
}

// canonicalLabel applies the mapping heuristics for a category. Unmatched
// labels pass through unchanged.
func canonicalLabel(category models.LovCategory, raw string) string {
	switch category {
	case models.CategoryVoiceGroup:
		if mapped, ok := MapVoiceGroup(raw); ok {
			return mapped
		}
	case models.CategoryVoiceType:
		if mapped, ok := MapVoiceType(raw); ok {
			return mapped
		}
	}
	return strings.TrimSpace(raw)
}

// resolveMapping builds the preview entry for one raw label
func (s *ImportService) resolveMapping(ctx context.Context, choirID int64, category models.LovCategory, raw string) (dto.ValueMapping, error) {
	canonical := canonicalLabel(category, raw)

	existing, err := s.lovRepo.FindByLabel(ctx, choirID, category, canonical)
	if err != nil {
		return dto.ValueMapping{}, fmt.Errorf("error matching label: %w", err)
	}

	return dto.ValueMapping{
		Raw:         raw,
		Canonical:   canonical,
		Matched:     existing != nil,
		WouldCreate: existing == nil,
	}, nil
}

// resolveOrCreate returns the taxonomy ID for a label, creating the entry
// when no stored value or display name matches case-insensitively
func (s *ImportService) resolveOrCreate(ctx context.Context, choirID int64, category models.LovCategory, raw string) (int64, bool, error) {
	canonical := canonicalLabel(category, raw)

	existing, err := s.lovRepo.FindByLabel(ctx, choirID, category, canonical)
	if err != nil {
		return 0, false, fmt.Errorf("error matching label: %w", err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	lov := &models.ListOfValue{
		ChoirID:     choirID,
		Category:    category,
		Value:       strings.ToLower(canonical),
		DisplayName: canonical,
		Active:      true,
	}
	if err := s.lovRepo.Create(ctx, s.database.Pool, lov); err != nil {
		return 0, false, fmt.Errorf("error creating taxonomy entry: %w", err)
	}
	return lov.ID, true, nil
}

// distinctLabels collects the distinct non-empty taxonomy labels of a batch,
// preserving first-seen order
func distinctLabels(rows []dto.ImportMemberRow) (groups, types, membershipTypes []string) {
	seenGroup := map[string]struct{}{}
	seenType := map[string]struct{}{}
	seenMembership := map[string]struct{}{}

	for _, row := range rows {
		if v := strings.TrimSpace(row.VoiceGroup); v != "" {
			if _, ok := seenGroup[v]; !ok {
				seenGroup[v] = struct{}{}
				groups = append(groups, v)
			}
		}
		if v := strings.TrimSpace(row.VoiceType); v != "" {
			if _, ok := seenType[v]; !ok {
				seenType[v] = struct{}{}
				types = append(types, v)
			}
		}
		if v := strings.TrimSpace(row.MembershipType); v != "" {
			if _, ok := seenMembership[v]; !ok {
				seenMembership[v] = struct{}{}
				membershipTypes = append(membershipTypes, v)
			}
		}
	}
	return groups, types, membershipTypes
}
