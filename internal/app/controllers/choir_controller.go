package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/services"
	"github.com/choirdinated/backend/internal/middleware"
)

// ChoirController handles choir endpoints
type ChoirController struct {
	choirService *services.ChoirService
}

// NewChoirController creates a new ChoirController
func NewChoirController(choirService *services.ChoirService) *ChoirController {
	return &ChoirController{choirService: choirService}
}

// CreateChoir handles choir creation
// @Summary Create a choir
// @Description Creates a choir, seeds its default taxonomy and enrolls the caller as admin
// @Tags choirs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateChoirRequest true "Choir data"
// @Success 201 {object} dto.APIResponse "Choir created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs [post]
func (c *ChoirController) CreateChoir(ctx *gin.Context) {
	var req dto.CreateChoirRequest
	if !bindJSON(ctx, &req) {
		return
	}

	choir, err := c.choirService.CreateChoir(ctx, callerUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, choir)
}

// ListMyChoirs lists the caller's choirs
// @Summary List own choirs
// @Description Lists the choirs the caller is a member of
// @Tags choirs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Choirs"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs [get]
func (c *ChoirController) ListMyChoirs(ctx *gin.Context) {
	choirs, err := c.choirService.ListMyChoirs(ctx, callerUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, choirs)
}

// GetChoir retrieves the choir
// @Summary Get choir
// @Description Retrieves the choir the caller is a member of
// @Tags choirs
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Success 200 {object} dto.APIResponse "Choir"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Choir not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId} [get]
func (c *ChoirController) GetChoir(ctx *gin.Context) {
	choir, err := c.choirService.GetChoir(ctx, callerChoirID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, choir)
}

// UpdateChoir updates choir details
// @Summary Update choir
// @Description Updates name, description and organization number
// @Tags choirs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param request body dto.UpdateChoirRequest true "Choir data"
// @Success 200 {object} dto.APIResponse "Choir updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Choir not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId} [put]
func (c *ChoirController) UpdateChoir(ctx *gin.Context) {
	var req dto.UpdateChoirRequest
	if !bindJSON(ctx, &req) {
		return
	}

	choir, err := c.choirService.UpdateChoir(ctx, callerChoirID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, choir)
}

// UpdateSettings updates attendance defaults and holiday region
// @Summary Update choir settings
// @Description Updates the attendance mode default and holiday region
// @Tags choirs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param request body dto.UpdateChoirSettingsRequest true "Settings"
// @Success 200 {object} dto.APIResponse "Settings updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/settings [put]
func (c *ChoirController) UpdateSettings(ctx *gin.Context) {
	var req dto.UpdateChoirSettingsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	choir, err := c.choirService.UpdateSettings(ctx, callerChoirID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, choir)
}

// ListHolidays lists the choir's holiday calendar
// @Summary List holidays
// @Tags choirs
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Success 200 {object} dto.APIResponse "Holidays"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/holidays [get]
func (c *ChoirController) ListHolidays(ctx *gin.Context) {
	holidays, err := c.choirService.ListHolidays(ctx, callerChoirID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, holidays)
}

// AddHoliday adds a holiday to the calendar
// @Summary Add holiday
// @Description Adds a date to the choir's holiday calendar
// @Tags choirs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param request body dto.CreateHolidayRequest true "Holiday"
// @Success 201 {object} dto.APIResponse "Holiday added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 409 {object} dto.ErrorResponse "Holiday already exists on that date"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/holidays [post]
func (c *ChoirController) AddHoliday(ctx *gin.Context) {
	var req dto.CreateHolidayRequest
	if !bindJSON(ctx, &req) {
		return
	}

	holiday, err := c.choirService.AddHoliday(ctx, callerChoirID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, holiday)
}

// DeleteHoliday removes a holiday from the calendar
// @Summary Delete holiday
// @Tags choirs
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param holidayId path int true "Holiday ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Holiday deleted"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Holiday not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/holidays/{holidayId} [delete]
func (c *ChoirController) DeleteHoliday(ctx *gin.Context) {
	holidayID, ok := parseIDParam(ctx, "holidayId")
	if !ok {
		return
	}

	if err := c.choirService.DeleteHoliday(ctx, callerChoirID(ctx), holidayID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Holiday deleted"})
}
