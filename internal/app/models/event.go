package models

import "time"

// Event is a scheduled occurrence. A recurring series consists of a parent
// event carrying the serialized recurrence rule plus one independent row per
// generated instance (ParentEventID back-reference). Instances are never
// recomputed; editing the parent's rule does not touch existing instances.
type Event struct {
	ID             int64          `json:"id" db:"id"`
	ChoirID        int64          `json:"choirId" db:"choir_id"`
	Title          string         `json:"title" db:"title"`
	Description    *string        `json:"description,omitempty" db:"description"`
	Location       *string        `json:"location,omitempty" db:"location"`
	StartTime      time.Time      `json:"startTime" db:"start_time"`
	EndTime        time.Time      `json:"endTime" db:"end_time"`
	EventTypeID    *int64         `json:"eventTypeId,omitempty" db:"event_type_id"`
	AttendanceMode AttendanceMode `json:"attendanceMode" db:"attendance_mode"`
	IsRecurring    bool           `json:"isRecurring" db:"is_recurring"`
	RecurrenceRule *string        `json:"recurrenceRule,omitempty" db:"recurrence_rule"`
	ParentEventID  *int64         `json:"parentEventId,omitempty" db:"parent_event_id"`
	CreatedBy      int64          `json:"createdBy" db:"created_by"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

// EventAttendance is one row per (event, member) pair. IntendedStatus is set
// by the member, ActualStatus by an organizer after the fact.
type EventAttendance struct {
	ID             int64          `json:"id" db:"id"`
	EventID        int64          `json:"eventId" db:"event_id"`
	MemberID       int64          `json:"memberId" db:"member_id"`
	IntendedStatus IntendedStatus `json:"intendedStatus" db:"intended_status"`
	ActualStatus   *ActualStatus  `json:"actualStatus,omitempty" db:"actual_status"`
	RespondedAt    *time.Time     `json:"respondedAt,omitempty" db:"responded_at"`
	RecordedBy     *int64         `json:"recordedBy,omitempty" db:"recorded_by"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`

	Member *Member `json:"member,omitempty"`
}
