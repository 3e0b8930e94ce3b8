package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appauth "github.com/choirdinated/backend/internal/app/auth"
	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/pkg/apperrors"
	"github.com/choirdinated/backend/internal/pkg/auth"
)

// Context keys set by the auth middleware chain
const (
	ContextUserID  = "userID"
	ContextEmail   = "email"
	ContextChoirID = "choirID"
	ContextMember  = "member"
)

// AuthMiddleware handles authentication and choir-scoped authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	authzSvc   *appauth.AuthorizationService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, authzSvc *appauth.AuthorizationService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		authzSvc:   authzSvc,
	}
}

// JWTAuth validates the bearer token and stores the caller's identity
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		var tokenString string
		// Raw JWT without the Bearer prefix is accepted for Swagger UI
		if strings.Count(authHeader, ".") == 2 && !strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader
		} else {
			var err error
			tokenString, err = auth.ExtractBearerToken(authHeader)
			if err != nil {
				detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
					WithDetails("Invalid token format")
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
				return
			}
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			detail := dto.NewErrorDetail(code, "Authentication failed").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// RequireMembership resolves the caller's membership for the :choirId route
// parameter. The member row it stores is the tenant boundary for every
// downstream handler.
func (m *AuthMiddleware) RequireMembership() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64(ContextUserID)

		choirID, err := strconv.ParseInt(c.Param("choirId"), 10, 64)
		if err != nil || choirID <= 0 {
			detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid choir ID")
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return
		}

		member, err := m.authzSvc.ResolveMembership(c.Request.Context(), userID, choirID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNoMembership) {
				detail := dto.NewErrorDetail(dto.ErrorCodeNoMembership, "You are not a member of this choir")
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
				return
			}
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextChoirID, choirID)
		c.Set(ContextMember, member)
		c.Next()
	}
}

// RoleRequired checks that the resolved member holds one of the given roles.
// Must run after RequireMembership.
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		member := MemberFromContext(c)
		if member == nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Membership not resolved")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		if err := m.authzSvc.RequireRole(member, roles...); err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}
		c.Next()
	}
}

// MemberFromContext returns the member row stored by RequireMembership
func MemberFromContext(c *gin.Context) *models.Member {
	value, exists := c.Get(ContextMember)
	if !exists {
		return nil
	}
	member, ok := value.(*models.Member)
	if !ok {
		return nil
	}
	return member
}
