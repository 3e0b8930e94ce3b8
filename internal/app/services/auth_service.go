package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/repositories"
	"github.com/choirdinated/backend/internal/db"
	"github.com/choirdinated/backend/internal/pkg/apperrors"
	"github.com/choirdinated/backend/internal/pkg/auth"
	"github.com/choirdinated/backend/internal/pkg/logger"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	database   *db.PostgresDB
	userRepo   *repositories.UserRepository
	tokenRepo  *repositories.TokenRepository
	memberRepo *repositories.MemberRepository
	choirRepo  *repositories.ChoirRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	database *db.PostgresDB,
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	memberRepo *repositories.MemberRepository,
	choirRepo *repositories.ChoirRepository,
	jwtService *auth.JWTService,
) *AuthService {
	return &AuthService{
		database:   database,
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		memberRepo: memberRepo,
		choirRepo:  choirRepo,
		jwtService: jwtService,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		BirthDate:    req.BirthDate,
	}

	if err := s.userRepo.Create(ctx, s.database.Pool, user); err != nil {
		if errors.Is(err, repositories.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error registering user: %w", err)
	}

	logger.Info().Int64("userId", user.ID).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error during login: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token and issues a fresh pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving refresh token: %w", err)
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error retrieving token user: %w", err)
	}

	// Rotation: the presented token is single use
	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error revoking refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes every refresh token the user holds
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("error during logout: %w", err)
	}
	return nil
}

// GetProfile returns the user together with its choir memberships
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	choirs, err := s.choirRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving user choirs: %w", err)
	}

	profile := &dto.ProfileResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		BirthDate:   user.BirthDate,
		Memberships: []dto.MembershipSummary{},
	}

	now := time.Now()
	for _, choir := range choirs {
		member, err := s.memberRepo.GetByUserAndChoir(ctx, userID, choir.ID)
		if err != nil {
			return nil, fmt.Errorf("error retrieving membership: %w", err)
		}

		periods, err := s.memberRepo.ListPeriods(ctx, member.ID)
		if err != nil {
			return nil, fmt.Errorf("error retrieving membership periods: %w", err)
		}
		leaves, err := s.memberRepo.ListLeaves(ctx, member.ID)
		if err != nil {
			return nil, fmt.Errorf("error retrieving membership leaves: %w", err)
		}

		profile.Memberships = append(profile.Memberships, dto.MembershipSummary{
			ChoirID:   choir.ID,
			ChoirName: choir.Name,
			MemberID:  member.ID,
			Role:      string(member.Role),
			Status:    string(ComputeMemberStatus(periods, leaves, now)),
		})
	}

	return profile, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token pair: %w", err)
	}

	stored := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: s.jwtService.GetRefreshTokenExpiry(),
	}
	if err := s.tokenRepo.Store(ctx, stored); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		TokenType:        "Bearer",
	}, nil
}
