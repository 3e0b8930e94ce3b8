package models

import "time"

// Choir is the tenant root. Every domain row hangs off a choir id and every
// query filters by it.
type Choir struct {
	ID                 int64          `json:"id" db:"id"`
	Name               string         `json:"name" db:"name"`
	Description        *string        `json:"description,omitempty" db:"description"`
	OrganizationNumber *string        `json:"organizationNumber,omitempty" db:"organization_number"`
	AttendanceMode     AttendanceMode `json:"attendanceMode" db:"attendance_mode"`
	HolidayRegion      string         `json:"holidayRegion" db:"holiday_region"`
	CreatedAt          time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time      `json:"updatedAt" db:"updated_at"`
}

// Holiday is a single excluded calendar date in a choir's holiday calendar.
// Matching is by calendar date, never by timestamp.
type Holiday struct {
	ID        int64     `json:"id" db:"id"`
	ChoirID   int64     `json:"choirId" db:"choir_id"`
	Date      time.Time `json:"date" db:"holiday_date"`
	Name      string    `json:"name" db:"name"`
	Region    string    `json:"region" db:"region"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
