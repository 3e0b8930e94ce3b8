package services

import (
	"testing"

	"github.com/choirdinated/backend/internal/app/models"
)

func intents(statuses ...models.IntendedStatus) []*models.EventAttendance {
	records := make([]*models.EventAttendance, len(statuses))
	for i, s := range statuses {
		records[i] = &models.EventAttendance{IntendedStatus: s}
	}
	return records
}

func TestSummarizeAttendanceOptOut(t *testing.T) {
	// 10 active members, 3 said yes, 2 said no, 5 never responded
	records := intents(
		models.IntentAttending, models.IntentAttending, models.IntentAttending,
		models.IntentNotAttending, models.IntentNotAttending,
	)

	got := SummarizeAttendance(models.AttendanceOptOut, records, 10)

	if got.Attending != 8 {
		t.Errorf("Attending = %d, want 8 (non-responders count as attending)", got.Attending)
	}
	if got.NotAttending != 2 {
		t.Errorf("NotAttending = %d, want 2", got.NotAttending)
	}
	if got.NotResponded != 5 {
		t.Errorf("NotResponded = %d, want 5", got.NotResponded)
	}
	if got.Total != 10 {
		t.Errorf("Total = %d, want 10", got.Total)
	}
}

func TestSummarizeAttendanceOptIn(t *testing.T) {
	records := intents(
		models.IntentAttending, models.IntentAttending, models.IntentAttending,
		models.IntentNotAttending, models.IntentNotAttending,
	)

	got := SummarizeAttendance(models.AttendanceOptIn, records, 10)

	if got.Attending != 3 {
		t.Errorf("Attending = %d, want 3 (non-responders do not count)", got.Attending)
	}
	if got.NotResponded != 5 {
		t.Errorf("NotResponded = %d, want 5", got.NotResponded)
	}
}

func TestSummarizeAttendanceTentative(t *testing.T) {
	records := intents(models.IntentAttending, models.IntentTentative, models.IntentTentative)

	got := SummarizeAttendance(models.AttendanceOptOut, records, 5)

	if got.Tentative != 2 {
		t.Errorf("Tentative = %d, want 2", got.Tentative)
	}
	// 2 members never responded, so opt_out counts them in
	if got.Attending != 3 {
		t.Errorf("Attending = %d, want 3", got.Attending)
	}
}

func TestSummarizeAttendanceActuals(t *testing.T) {
	present := models.ActualPresent
	absent := models.ActualAbsent
	late := models.ActualLate

	records := []*models.EventAttendance{
		{IntendedStatus: models.IntentAttending, ActualStatus: &present},
		{IntendedStatus: models.IntentAttending, ActualStatus: &late},
		// Said yes but never showed up
		{IntendedStatus: models.IntentAttending, ActualStatus: &absent},
		// Never responded but was recorded present
		{IntendedStatus: models.IntentNotResponded, ActualStatus: &present},
		// No actual recorded
		{IntendedStatus: models.IntentAttending},
	}

	got := SummarizeAttendance(models.AttendanceOptIn, records, 6)

	if got.Present != 2 {
		t.Errorf("Present = %d, want 2", got.Present)
	}
	if got.Absent != 1 {
		t.Errorf("Absent = %d, want 1", got.Absent)
	}
	if got.Late != 1 {
		t.Errorf("Late = %d, want 1", got.Late)
	}
	if got.Attending != 4 {
		t.Errorf("Attending = %d, want 4", got.Attending)
	}
}

func TestSummarizeAttendanceEmpty(t *testing.T) {
	got := SummarizeAttendance(models.AttendanceOptOut, nil, 12)

	if got.Attending != 12 {
		t.Errorf("Attending = %d, want 12 for opt_out with no responses", got.Attending)
	}
	if got.NotResponded != 12 {
		t.Errorf("NotResponded = %d, want 12", got.NotResponded)
	}

	got = SummarizeAttendance(models.AttendanceOptIn, nil, 12)
	if got.Attending != 0 {
		t.Errorf("Attending = %d, want 0 for opt_in with no responses", got.Attending)
	}
}
