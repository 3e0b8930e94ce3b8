package services

import (
	"time"

	"github.com/choirdinated/backend/internal/app/models"
)

// ComputeMemberStatus derives a member's displayed status from its periods
// and leaves. A member is active iff it has a membership period with a null
// end date. An approved leave covering today turns active into on_leave;
// pending and rejected leaves never affect status.
func ComputeMemberStatus(periods []*models.MembershipPeriod, leaves []*models.MembershipLeave, now time.Time) models.MemberStatus {
	open := false
	for _, p := range periods {
		if p.EndDate == nil {
			open = true
			break
		}
	}
	if !open {
		return models.StatusInactive
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, l := range leaves {
		if l.Status != models.LeaveApproved {
			continue
		}
		from := time.Date(l.FromDate.Year(), l.FromDate.Month(), l.FromDate.Day(), 0, 0, 0, 0, time.UTC)
		to := time.Date(l.ToDate.Year(), l.ToDate.Month(), l.ToDate.Day(), 0, 0, 0, 0, time.UTC)
		if !today.Before(from) && !today.After(to) {
			return models.StatusOnLeave
		}
	}

	return models.StatusActive
}
