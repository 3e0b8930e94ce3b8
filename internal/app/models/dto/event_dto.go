package dto

import (
	"time"

	"github.com/choirdinated/backend/internal/recurrence"
)

// CreateEventRequest creates a standalone event or a recurring series when
// Recurrence is present.
type CreateEventRequest struct {
	Title          string           `json:"title" binding:"required"`
	Description    *string          `json:"description,omitempty"`
	Location       *string          `json:"location,omitempty"`
	StartTime      time.Time        `json:"startTime" binding:"required"`
	EndTime        time.Time        `json:"endTime" binding:"required"`
	EventTypeID    *int64           `json:"eventTypeId,omitempty"`
	AttendanceMode string           `json:"attendanceMode,omitempty" binding:"omitempty,oneof=opt_in opt_out"`
	Recurrence     *recurrence.Rule `json:"recurrence,omitempty"`
}

// UpdateEventRequest updates a single event row. Updating a parent's rule
// never rewrites instances that were already generated.
type UpdateEventRequest struct {
	Title          string    `json:"title" binding:"required"`
	Description    *string   `json:"description,omitempty"`
	Location       *string   `json:"location,omitempty"`
	StartTime      time.Time `json:"startTime" binding:"required"`
	EndTime        time.Time `json:"endTime" binding:"required"`
	EventTypeID    *int64    `json:"eventTypeId,omitempty"`
	AttendanceMode string    `json:"attendanceMode,omitempty" binding:"omitempty,oneof=opt_in opt_out"`
}

// RecurringEventResponse reports the outcome of a recurring create
type RecurringEventResponse struct {
	Parent        interface{} `json:"parent"`
	InstanceCount int         `json:"instanceCount"`
	SkippedDates  []string    `json:"skippedDates,omitempty"`
}

// SetIntentRequest sets the caller's intended attendance for an event
type SetIntentRequest struct {
	IntendedStatus string `json:"intendedStatus" binding:"required,oneof=attending not_attending tentative not_responded"`
}

// RecordActualRequest records the observed outcome for a member
type RecordActualRequest struct {
	ActualStatus string `json:"actualStatus" binding:"required,oneof=present absent late"`
}

// AttendanceSummary aggregates attendance rows for one event. For opt-out
// events, Attending includes members who never responded.
type AttendanceSummary struct {
	Total        int `json:"total"`
	Attending    int `json:"attending"`
	NotAttending int `json:"notAttending"`
	Tentative    int `json:"tentative"`
	NotResponded int `json:"notResponded"`
	Present      int `json:"present"`
	Absent       int `json:"absent"`
	Late         int `json:"late"`
}
