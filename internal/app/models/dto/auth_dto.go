package dto

import "time"

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Email     string     `json:"email" binding:"required,email"`
	Password  string     `json:"password" binding:"required,min=8"`
	FirstName string     `json:"firstName" binding:"required"`
	LastName  string     `json:"lastName" binding:"required"`
	Phone     *string    `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the payload for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn"`
	RefreshExpiresIn int    `json:"refreshExpiresIn"`
	TokenType        string `json:"tokenType" example:"Bearer"`
}

// MembershipSummary is one choir membership of the authenticated user
type MembershipSummary struct {
	ChoirID   int64  `json:"choirId"`
	ChoirName string `json:"choirName"`
	MemberID  int64  `json:"memberId"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

// ProfileResponse is the authenticated user's profile with memberships
type ProfileResponse struct {
	ID          int64               `json:"id"`
	Email       string              `json:"email"`
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
	Phone       *string             `json:"phone,omitempty"`
	BirthDate   *time.Time          `json:"birthDate,omitempty"`
	Memberships []MembershipSummary `json:"memberships"`
}
