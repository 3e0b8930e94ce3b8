package dto

import "time"

// CreateMemberRequest links an existing user to the choir
type CreateMemberRequest struct {
	UserID           int64     `json:"userId" binding:"required"`
	MembershipTypeID int64     `json:"membershipTypeId" binding:"required"`
	VoiceGroupID     *int64    `json:"voiceGroupId,omitempty"`
	VoiceTypeID      *int64    `json:"voiceTypeId,omitempty"`
	Role             string    `json:"role,omitempty" binding:"omitempty,oneof=ADMIN ORGANIZER MEMBER"`
	StartDate        time.Time `json:"startDate" binding:"required"`
}

// UpdateMemberRequest changes voice assignment, membership type or role
type UpdateMemberRequest struct {
	MembershipTypeID int64  `json:"membershipTypeId" binding:"required"`
	VoiceGroupID     *int64 `json:"voiceGroupId,omitempty"`
	VoiceTypeID      *int64 `json:"voiceTypeId,omitempty"`
	Role             string `json:"role,omitempty" binding:"omitempty,oneof=ADMIN ORGANIZER MEMBER"`
}

// StartPeriodRequest opens a new membership period
type StartPeriodRequest struct {
	StartDate time.Time `json:"startDate" binding:"required"`
}

// EndPeriodRequest closes the open membership period
type EndPeriodRequest struct {
	EndDate   time.Time `json:"endDate" binding:"required"`
	EndReason string    `json:"endReason" binding:"required"`
}

// CreateLeaveRequest files a leave request for a member
type CreateLeaveRequest struct {
	FromDate time.Time `json:"fromDate" binding:"required"`
	ToDate   time.Time `json:"toDate" binding:"required"`
	Reason   string    `json:"reason" binding:"required"`
}
