package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/services"
	"github.com/choirdinated/backend/internal/middleware"
)

// ListOfValueController handles taxonomy endpoints
type ListOfValueController struct {
	lovService *services.ListOfValueService
}

// NewListOfValueController creates a new ListOfValueController
func NewListOfValueController(lovService *services.ListOfValueService) *ListOfValueController {
	return &ListOfValueController{lovService: lovService}
}

// ListByCategory lists taxonomy entries of one category
// @Summary List taxonomy values
// @Description Lists the choir's entries of the given category
// @Tags taxonomy
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param category path string true "Category" Enums(voice_group, voice_type, event_type, membership_type)
// @Success 200 {object} dto.APIResponse "Values"
// @Failure 400 {object} dto.ErrorResponse "Unknown category"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/list-of-values/{category} [get]
func (c *ListOfValueController) ListByCategory(ctx *gin.Context) {
	category, ok := parseCategory(ctx)
	if !ok {
		return
	}

	values, err := c.lovService.ListByCategory(ctx, callerChoirID(ctx), category)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, values)
}

// CreateValue adds a taxonomy entry
// @Summary Create taxonomy value
// @Tags taxonomy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param request body dto.CreateListOfValueRequest true "Value data"
// @Success 201 {object} dto.APIResponse "Value created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 409 {object} dto.ErrorResponse "Value already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/list-of-values [post]
func (c *ListOfValueController) CreateValue(ctx *gin.Context) {
	var req dto.CreateListOfValueRequest
	if !bindJSON(ctx, &req) {
		return
	}

	value, err := c.lovService.CreateValue(ctx, callerChoirID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, value)
}

// UpdateValue updates a taxonomy entry
// @Summary Update taxonomy value
// @Tags taxonomy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param valueId path int true "Value ID"
// @Param request body dto.UpdateListOfValueRequest true "Value data"
// @Success 200 {object} dto.APIResponse "Value updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Value not found"
// @Failure 409 {object} dto.ErrorResponse "Value already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/list-of-values/{valueId} [put]
func (c *ListOfValueController) UpdateValue(ctx *gin.Context) {
	valueID, ok := parseIDParam(ctx, "valueId")
	if !ok {
		return
	}

	var req dto.UpdateListOfValueRequest
	if !bindJSON(ctx, &req) {
		return
	}

	value, err := c.lovService.UpdateValue(ctx, callerChoirID(ctx), valueID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, value)
}

// DeleteValue removes a taxonomy entry
// @Summary Delete taxonomy value
// @Description Deletes an entry unless members or events still reference it
// @Tags taxonomy
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param valueId path int true "Value ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Value deleted"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Value not found"
// @Failure 409 {object} dto.ErrorResponse "Value is still referenced"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/list-of-values/{valueId} [delete]
func (c *ListOfValueController) DeleteValue(ctx *gin.Context) {
	valueID, ok := parseIDParam(ctx, "valueId")
	if !ok {
		return
	}

	if err := c.lovService.DeleteValue(ctx, callerChoirID(ctx), valueID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Value deleted"})
}

// Diagnostics reports taxonomy oddities
// @Summary Taxonomy diagnostics
// @Description Reports orphan voice types and per-category counts
// @Tags taxonomy
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Success 200 {object} dto.APIResponse{data=dto.TaxonomyDiagnostics} "Diagnostics"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/list-of-values/diagnostics [get]
func (c *ListOfValueController) Diagnostics(ctx *gin.Context) {
	diagnostics, err := c.lovService.Diagnostics(ctx, callerChoirID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, diagnostics)
}

func parseCategory(ctx *gin.Context) (models.LovCategory, bool) {
	switch category := models.LovCategory(ctx.Param("category")); category {
	case models.CategoryVoiceGroup, models.CategoryVoiceType,
		models.CategoryEventType, models.CategoryMembershipType:
		return category, true
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown taxonomy category")
		errorDetail = errorDetail.WithDetails("category must be voice_group, voice_type, event_type or membership_type")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return "", false
	}
}
