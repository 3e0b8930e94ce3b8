package models

// RoleType defines a member's role within a choir
type RoleType string

const (
	RoleAdmin     RoleType = "ADMIN"
	RoleOrganizer RoleType = "ORGANIZER"
	RoleMember    RoleType = "MEMBER"
)

// AttendanceMode determines how non-responses are counted for an event.
// For opt_out events a member who never responded counts as attending;
// for opt_in events they do not.
type AttendanceMode string

const (
	AttendanceOptIn  AttendanceMode = "opt_in"
	AttendanceOptOut AttendanceMode = "opt_out"
)

// IntendedStatus is the attendance intent set by the member themselves
type IntendedStatus string

const (
	IntentAttending    IntendedStatus = "attending"
	IntentNotAttending IntendedStatus = "not_attending"
	IntentTentative    IntendedStatus = "tentative"
	IntentNotResponded IntendedStatus = "not_responded"
)

// ActualStatus is the outcome recorded by an organizer after the event
type ActualStatus string

const (
	ActualPresent ActualStatus = "present"
	ActualAbsent  ActualStatus = "absent"
	ActualLate    ActualStatus = "late"
)

// LeaveStatus is the approval state of a membership leave request
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// MemberStatus is the computed lifecycle status of a member. It is never
// stored; membership periods and leaves are the source of truth.
type MemberStatus string

const (
	StatusActive   MemberStatus = "active"
	StatusOnLeave  MemberStatus = "on_leave"
	StatusInactive MemberStatus = "inactive"
)

// LovCategory identifies a list-of-values taxonomy category
type LovCategory string

const (
	CategoryVoiceGroup     LovCategory = "voice_group"
	CategoryVoiceType      LovCategory = "voice_type"
	CategoryEventType      LovCategory = "event_type"
	CategoryMembershipType LovCategory = "membership_type"
)
