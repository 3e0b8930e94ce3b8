package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/choirdinated/backend/internal/pkg/apperrors"
	"github.com/choirdinated/backend/internal/pkg/brreg"
)

// RegistryService fronts the Brønnøysund register for organization lookups
type RegistryService struct {
	client *brreg.Client
}

// NewRegistryService creates a new registry service instance
func NewRegistryService(client *brreg.Client) *RegistryService {
	return &RegistryService{client: client}
}

// Lookup fetches an organization by its organization number. An organization
// missing from the register is returned as nil, not as an error.
func (s *RegistryService) Lookup(ctx context.Context, orgNumber string) (*brreg.Organization, error) {
	org, err := s.client.LookupByOrganizationNumber(ctx, orgNumber)
	if err != nil {
		if errors.Is(err, brreg.ErrInvalidLength) || errors.Is(err, brreg.ErrInvalidChecksum) {
			return nil, apperrors.ErrInvalidOrganizationNumber
		}
		return nil, fmt.Errorf("error looking up organization: %w", err)
	}
	return org, nil
}

// Search finds organizations by name
func (s *RegistryService) Search(ctx context.Context, name string) ([]*brreg.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("search name must not be empty")
	}

	orgs, err := s.client.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error searching organizations: %w", err)
	}
	return orgs, nil
}
