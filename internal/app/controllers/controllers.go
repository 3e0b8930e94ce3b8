package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/middleware"
)

// parseIDParam parses a numeric path parameter, writing the 400 response
// itself when the value is not a positive integer
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// bindJSON binds the request body, writing the 400 response on failure
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

func respondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: data, Timestamp: time.Now()})
}

func respondCreated(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: data, Timestamp: time.Now()})
}

// callerUserID returns the authenticated user's ID set by the JWT middleware
func callerUserID(ctx *gin.Context) int64 {
	return ctx.GetInt64(middleware.ContextUserID)
}

// callerChoirID returns the choir resolved by the membership middleware
func callerChoirID(ctx *gin.Context) int64 {
	return ctx.GetInt64(middleware.ContextChoirID)
}
