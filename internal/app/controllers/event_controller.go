package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/services"
	"github.com/choirdinated/backend/internal/middleware"
	"github.com/choirdinated/backend/internal/pkg/helpers"
)

// EventController handles event and attendance endpoints
type EventController struct {
	eventService *services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService *services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// CreateEvent creates an event or a recurring series
// @Summary Create event
// @Description Creates a standalone event, or a recurring series when the request carries a recurrence rule
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param request body dto.CreateEventRequest true "Event data"
// @Success 201 {object} dto.APIResponse "Event or series created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or recurrence rule"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	event, recurring, err := c.eventService.CreateEvent(ctx, callerChoirID(ctx), callerUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if recurring != nil {
		respondCreated(ctx, recurring)
		return
	}
	respondCreated(ctx, event)
}

// ListEvents lists events in an optional time window
// @Summary List events
// @Description Lists events ordered by start time, optionally bounded by from/to
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param from query string false "Window start (RFC 3339)"
// @Param to query string false "Window end (RFC 3339)"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Events"
// @Failure 400 {object} dto.ErrorResponse "Invalid time window"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	page, size := helpers.GetPaginationParams(ctx)

	from, ok := parseTimeQuery(ctx, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(ctx, "to")
	if !ok {
		return
	}

	events, total, err := c.eventService.ListEvents(ctx, callerChoirID(ctx), from, to, uint64(size), helpers.Offset(page, size))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.PaginatedResponse{
		Items:      events,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	})
}

// GetEvent retrieves one event
// @Summary Get event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Event"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/events/{eventId} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	event, err := c.eventService.GetEvent(ctx, callerChoirID(ctx), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, event)
}

// ListInstances lists a series' generated instances
// @Summary List series instances
// @Description Lists the generated instances of a recurring series parent
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param eventId path int true "Series parent event ID"
// @Success 200 {object} dto.APIResponse "Instances"
// @Failure 400 {object} dto.ErrorResponse "Event is not a series parent"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/events/{eventId}/instances [get]
func (c *EventController) ListInstances(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	instances, err := c.eventService.ListInstances(ctx, callerChoirID(ctx), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, instances)
}

// UpdateEvent updates a single event row
// @Summary Update event
// @Description Updates one event. A parent's stored rule never rewrites generated instances.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param eventId path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event data"
// @Success 200 {object} dto.APIResponse "Event updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/events/{eventId} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.UpdateEvent(ctx, callerChoirID(ctx), eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, event)
}

// DeleteEvent removes an event
// @Summary Delete event
// @Description Deletes an event. Deleting a series parent removes its instances too.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Event deleted"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/events/{eventId} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	if err := c.eventService.DeleteEvent(ctx, callerChoirID(ctx), eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Event deleted"})
}

// SetIntent records the caller's intended attendance
// @Summary Set attendance intent
// @Description Records the calling member's intended attendance for an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param eventId path int true "Event ID"
// @Param request body dto.SetIntentRequest true "Intent"
// @Success 200 {object} dto.APIResponse "Intent recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/events/{eventId}/attendance/intent [put]
func (c *EventController) SetIntent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	var req dto.SetIntentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	member := middleware.MemberFromContext(ctx)
	att, err := c.eventService.SetIntent(ctx, callerChoirID(ctx), eventID, member.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, att)
}

// RecordActual records the observed outcome for a member
// @Summary Record actual attendance
// @Description Records the organizer-observed outcome for one member
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param eventId path int true "Event ID"
// @Param memberId path int true "Member ID"
// @Param request body dto.RecordActualRequest true "Outcome"
// @Success 200 {object} dto.APIResponse "Outcome recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Event or member not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/events/{eventId}/attendance/{memberId}/actual [put]
func (c *EventController) RecordActual(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}

	var req dto.RecordActualRequest
	if !bindJSON(ctx, &req) {
		return
	}

	recorder := middleware.MemberFromContext(ctx)
	att, err := c.eventService.RecordActual(ctx, callerChoirID(ctx), eventID, memberID, recorder.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, att)
}

// ListAttendance lists attendance rows for an event
// @Summary List attendance
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Attendance rows"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/events/{eventId}/attendance [get]
func (c *EventController) ListAttendance(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	records, err := c.eventService.ListAttendance(ctx, callerChoirID(ctx), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, records)
}

// GetAttendanceSummary aggregates attendance for an event
// @Summary Attendance summary
// @Description Aggregates intents and outcomes, applying the event's opt-in/opt-out semantics
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceSummary} "Summary"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/events/{eventId}/attendance/summary [get]
func (c *EventController) GetAttendanceSummary(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventId")
	if !ok {
		return
	}

	summary, err := c.eventService.GetAttendanceSummary(ctx, callerChoirID(ctx), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, summary)
}

// parseTimeQuery parses an optional RFC 3339 query parameter
func parseTimeQuery(ctx *gin.Context, name string) (*time.Time, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		errorDetail = errorDetail.WithDetails(name + " must be an RFC 3339 timestamp")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return &t, true
}
