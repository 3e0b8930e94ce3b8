package models

import "time"

// Member links a user to a choir together with its membership type, voice
// group and optional voice type. Lifecycle is governed by MembershipPeriod
// rows: a member is active iff it has a period with a null end date.
type Member struct {
	ID               int64     `json:"id" db:"id"`
	ChoirID          int64     `json:"choirId" db:"choir_id"`
	UserID           int64     `json:"userId" db:"user_id"`
	MembershipTypeID int64     `json:"membershipTypeId" db:"membership_type_id"`
	VoiceGroupID     *int64    `json:"voiceGroupId,omitempty" db:"voice_group_id"`
	VoiceTypeID      *int64    `json:"voiceTypeId,omitempty" db:"voice_type_id"`
	Role             RoleType  `json:"role" db:"role"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	User    *User               `json:"user,omitempty"`
	Periods []*MembershipPeriod `json:"periods,omitempty"`
	Leaves  []*MembershipLeave  `json:"leaves,omitempty"`

	// Status is computed from periods and leaves, never stored
	Status MemberStatus `json:"status,omitempty"`
}

// MembershipPeriod is a contiguous date range during which a member is
// active. An open period has a null end date.
type MembershipPeriod struct {
	ID        int64      `json:"id" db:"id"`
	MemberID  int64      `json:"memberId" db:"member_id"`
	StartDate time.Time  `json:"startDate" db:"start_date"`
	EndDate   *time.Time `json:"endDate,omitempty" db:"end_date"`
	EndReason *string    `json:"endReason,omitempty" db:"end_reason"`
}

// MembershipLeave is a time-ranged leave request. Only approved,
// date-current leaves affect the member's displayed status.
type MembershipLeave struct {
	ID        int64       `json:"id" db:"id"`
	MemberID  int64       `json:"memberId" db:"member_id"`
	FromDate  time.Time   `json:"fromDate" db:"from_date"`
	ToDate    time.Time   `json:"toDate" db:"to_date"`
	Reason    string      `json:"reason" db:"reason"`
	Status    LeaveStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}
