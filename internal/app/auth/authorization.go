package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/repositories"
	"github.com/choirdinated/backend/internal/pkg/apperrors"
)

// AuthorizationService resolves a caller's membership within a choir and
// enforces role requirements. The tenant is always derived from the caller's
// own membership row, never from client-supplied data.
type AuthorizationService struct {
	memberRepo *repositories.MemberRepository
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(memberRepo *repositories.MemberRepository) *AuthorizationService {
	return &AuthorizationService{memberRepo: memberRepo}
}

// ResolveMembership loads the caller's member row for a choir
func (s *AuthorizationService) ResolveMembership(ctx context.Context, userID, choirID int64) (*models.Member, error) {
	member, err := s.memberRepo.GetByUserAndChoir(ctx, userID, choirID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrNoMembership
		}
		return nil, fmt.Errorf("error resolving membership: %w", err)
	}
	return member, nil
}

// RequireRole checks that the member holds one of the given roles
func (s *AuthorizationService) RequireRole(member *models.Member, roles ...models.RoleType) error {
	for _, role := range roles {
		if member.Role == role {
			return nil
		}
	}
	return apperrors.ErrPermissionDenied
}

// CanManage reports whether the member may administer choir data
func (s *AuthorizationService) CanManage(member *models.Member) bool {
	return member.Role == models.RoleAdmin || member.Role == models.RoleOrganizer
}
