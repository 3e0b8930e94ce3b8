package services

import (
	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/models/dto"
)

// SummarizeAttendance merges attendance rows into summary counts for one
// event. activeMembers is the number of choir members holding an open
// membership period and serves as the denominator.
//
// Members without a row, and rows still at not_responded, count as attending
// for opt_out events and as non-attending for opt_in events. Actual outcomes
// are tallied independently of intent; a nil actual status is not counted.
func SummarizeAttendance(mode models.AttendanceMode, records []*models.EventAttendance, activeMembers int) dto.AttendanceSummary {
	summary := dto.AttendanceSummary{Total: activeMembers}

	for _, rec := range records {
		switch rec.IntendedStatus {
		case models.IntentAttending:
			summary.Attending++
		case models.IntentNotAttending:
			summary.NotAttending++
		case models.IntentTentative:
			summary.Tentative++
		}

		if rec.ActualStatus != nil {
			switch *rec.ActualStatus {
			case models.ActualPresent:
				summary.Present++
			case models.ActualAbsent:
				summary.Absent++
			case models.ActualLate:
				summary.Late++
			}
		}
	}

	responded := summary.Attending + summary.NotAttending + summary.Tentative
	summary.NotResponded = activeMembers - responded
	if summary.NotResponded < 0 {
		summary.NotResponded = 0
	}

	if mode == models.AttendanceOptOut {
		summary.Attending += summary.NotResponded
	}

	return summary
}
