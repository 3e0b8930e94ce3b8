package dto

import "time"

// CreateChoirRequest is the payload for creating a choir
type CreateChoirRequest struct {
	Name               string  `json:"name" binding:"required,min=2"`
	Description        *string `json:"description,omitempty"`
	OrganizationNumber *string `json:"organizationNumber,omitempty"`
	AttendanceMode     string  `json:"attendanceMode,omitempty" binding:"omitempty,oneof=opt_in opt_out"`
	HolidayRegion      string  `json:"holidayRegion,omitempty"`
}

// UpdateChoirRequest is the payload for updating a choir
type UpdateChoirRequest struct {
	Name               string  `json:"name" binding:"required,min=2"`
	Description        *string `json:"description,omitempty"`
	OrganizationNumber *string `json:"organizationNumber,omitempty"`
}

// UpdateChoirSettingsRequest updates attendance defaults and holiday region
type UpdateChoirSettingsRequest struct {
	AttendanceMode string `json:"attendanceMode" binding:"required,oneof=opt_in opt_out"`
	HolidayRegion  string `json:"holidayRegion" binding:"required"`
}

// CreateHolidayRequest adds a date to the choir's holiday calendar
type CreateHolidayRequest struct {
	Date   time.Time `json:"date" binding:"required"`
	Name   string    `json:"name" binding:"required"`
	Region string    `json:"region,omitempty"`
}
