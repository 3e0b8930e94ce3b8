package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/repositories"
	"github.com/choirdinated/backend/internal/db"
	"github.com/choirdinated/backend/internal/pkg/apperrors"
)

// ListOfValueService handles the tenant taxonomy
type ListOfValueService struct {
	database *db.PostgresDB
	lovRepo  *repositories.ListOfValueRepository
}

// NewListOfValueService creates a new list-of-values service instance
func NewListOfValueService(database *db.PostgresDB, lovRepo *repositories.ListOfValueRepository) *ListOfValueService {
	return &ListOfValueService{database: database, lovRepo: lovRepo}
}

// CreateValue adds a taxonomy entry to the choir
func (s *ListOfValueService) CreateValue(ctx context.Context, choirID int64, req *dto.CreateListOfValueRequest) (*models.ListOfValue, error) {
	category := models.LovCategory(req.Category)

	if req.ParentID != nil {
		if err := s.checkParent(ctx, choirID, category, *req.ParentID); err != nil {
			return nil, err
		}
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = strings.TrimSpace(req.Value)
	}

	lov := &models.ListOfValue{
		ChoirID:     choirID,
		Category:    category,
		Value:       strings.TrimSpace(req.Value),
		DisplayName: displayName,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
		Active:      true,
	}
	if err := s.lovRepo.Create(ctx, s.database.Pool, lov); err != nil {
		if errors.Is(err, repositories.ErrValueAlreadyExists) {
			return nil, apperrors.ErrValueAlreadyExists
		}
		return nil, fmt.Errorf("error creating list value: %w", err)
	}
	return lov, nil
}

// GetValue retrieves a taxonomy entry
func (s *ListOfValueService) GetValue(ctx context.Context, choirID, id int64) (*models.ListOfValue, error) {
	lov, err := s.lovRepo.GetByID(ctx, choirID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrValueNotFound) {
			return nil, apperrors.ErrValueNotFound
		}
		return nil, fmt.Errorf("error retrieving list value: %w", err)
	}
	return lov, nil
}

// ListByCategory lists the choir's entries of one category
func (s *ListOfValueService) ListByCategory(ctx context.Context, choirID int64, category models.LovCategory) ([]*models.ListOfValue, error) {
	values, err := s.lovRepo.ListByCategory(ctx, choirID, category)
	if err != nil {
		return nil, fmt.Errorf("error listing values: %w", err)
	}
	return values, nil
}

// UpdateValue updates a taxonomy entry
func (s *ListOfValueService) UpdateValue(ctx context.Context, choirID, id int64, req *dto.UpdateListOfValueRequest) (*models.ListOfValue, error) {
	lov, err := s.GetValue(ctx, choirID, id)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if err := s.checkParent(ctx, choirID, lov.Category, *req.ParentID); err != nil {
			return nil, err
		}
	}

	lov.Value = strings.TrimSpace(req.Value)
	if strings.TrimSpace(req.DisplayName) != "" {
		lov.DisplayName = strings.TrimSpace(req.DisplayName)
	}
	lov.ParentID = req.ParentID
	lov.SortOrder = req.SortOrder
	if req.Active != nil {
		lov.Active = *req.Active
	}

	if err := s.lovRepo.Update(ctx, lov); err != nil {
		if errors.Is(err, repositories.ErrValueAlreadyExists) {
			return nil, apperrors.ErrValueAlreadyExists
		}
		if errors.Is(err, repositories.ErrValueNotFound) {
			return nil, apperrors.ErrValueNotFound
		}
		return nil, fmt.Errorf("error updating list value: %w", err)
	}
	return lov, nil
}

// DeleteValue removes a taxonomy entry unless it is still referenced
func (s *ListOfValueService) DeleteValue(ctx context.Context, choirID, id int64) error {
	if _, err := s.GetValue(ctx, choirID, id); err != nil {
		return err
	}

	inUse, err := s.lovRepo.InUse(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking value usage: %w", err)
	}
	if inUse {
		return apperrors.ErrValueInUse
	}

	if err := s.lovRepo.Delete(ctx, choirID, id); err != nil {
		if errors.Is(err, repositories.ErrValueNotFound) {
			return apperrors.ErrValueNotFound
		}
		return fmt.Errorf("error deleting list value: %w", err)
	}
	return nil
}

// Diagnostics reports structural oddities in the choir's taxonomy
func (s *ListOfValueService) Diagnostics(ctx context.Context, choirID int64) (*dto.TaxonomyDiagnostics, error) {
	orphans, err := s.lovRepo.ListOrphanVoiceTypes(ctx, choirID)
	if err != nil {
		return nil, fmt.Errorf("error listing orphan voice types: %w", err)
	}

	counts, err := s.lovRepo.CountByCategory(ctx, choirID)
	if err != nil {
		return nil, fmt.Errorf("error counting categories: %w", err)
	}

	diagnostics := &dto.TaxonomyDiagnostics{
		OrphanVoiceTypes: []dto.OrphanVoiceType{},
		CategoryCounts:   counts,
	}
	for _, lov := range orphans {
		diagnostics.OrphanVoiceTypes = append(diagnostics.OrphanVoiceTypes, dto.OrphanVoiceType{
			ID:          lov.ID,
			Value:       lov.Value,
			DisplayName: lov.DisplayName,
		})
	}
	return diagnostics, nil
}

// checkParent validates that a voice type's parent is a voice group of the
// same choir. Other categories never carry parents.
func (s *ListOfValueService) checkParent(ctx context.Context, choirID int64, category models.LovCategory, parentID int64) error {
	if category != models.CategoryVoiceType {
		return apperrors.NewBadRequestError("only voice types may reference a parent voice group")
	}
	parent, err := s.lovRepo.GetByID(ctx, choirID, parentID)
	if err != nil {
		if errors.Is(err, repositories.ErrValueNotFound) {
			return apperrors.NewBadRequestError("parent voice group not found")
		}
		return fmt.Errorf("error checking parent value: %w", err)
	}
	if parent.Category != models.CategoryVoiceGroup {
		return apperrors.NewBadRequestError("parent must be a voice group")
	}
	return nil
}
