package services

import (
	"testing"
	"time"

	"github.com/choirdinated/backend/internal/app/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestComputeMemberStatus(t *testing.T) {
	now := date(2026, time.March, 15)

	openPeriod := []*models.MembershipPeriod{{StartDate: date(2024, time.August, 1)}}
	closedPeriod := []*models.MembershipPeriod{
		{StartDate: date(2024, time.August, 1), EndDate: datePtr(2025, time.June, 30)},
	}

	tests := []struct {
		name    string
		periods []*models.MembershipPeriod
		leaves  []*models.MembershipLeave
		want    models.MemberStatus
	}{
		{
			name:    "open period no leaves",
			periods: openPeriod,
			want:    models.StatusActive,
		},
		{
			name:    "no periods",
			periods: nil,
			want:    models.StatusInactive,
		},
		{
			name:    "only closed periods",
			periods: closedPeriod,
			want:    models.StatusInactive,
		},
		{
			name:    "approved current leave",
			periods: openPeriod,
			leaves: []*models.MembershipLeave{
				{FromDate: date(2026, time.March, 1), ToDate: date(2026, time.April, 1), Status: models.LeaveApproved},
			},
			want: models.StatusOnLeave,
		},
		{
			name:    "pending current leave does not change status",
			periods: openPeriod,
			leaves: []*models.MembershipLeave{
				{FromDate: date(2026, time.March, 1), ToDate: date(2026, time.April, 1), Status: models.LeavePending},
			},
			want: models.StatusActive,
		},
		{
			name:    "rejected current leave does not change status",
			periods: openPeriod,
			leaves: []*models.MembershipLeave{
				{FromDate: date(2026, time.March, 1), ToDate: date(2026, time.April, 1), Status: models.LeaveRejected},
			},
			want: models.StatusActive,
		},
		{
			name:    "approved past leave",
			periods: openPeriod,
			leaves: []*models.MembershipLeave{
				{FromDate: date(2026, time.January, 1), ToDate: date(2026, time.February, 1), Status: models.LeaveApproved},
			},
			want: models.StatusActive,
		},
		{
			name:    "approved future leave",
			periods: openPeriod,
			leaves: []*models.MembershipLeave{
				{FromDate: date(2026, time.June, 1), ToDate: date(2026, time.July, 1), Status: models.LeaveApproved},
			},
			want: models.StatusActive,
		},
		{
			name:    "leave boundary days are inclusive",
			periods: openPeriod,
			leaves: []*models.MembershipLeave{
				{FromDate: date(2026, time.March, 15), ToDate: date(2026, time.March, 15), Status: models.LeaveApproved},
			},
			want: models.StatusOnLeave,
		},
		{
			name:    "closed period with approved current leave is still inactive",
			periods: closedPeriod,
			leaves: []*models.MembershipLeave{
				{FromDate: date(2026, time.March, 1), ToDate: date(2026, time.April, 1), Status: models.LeaveApproved},
			},
			want: models.StatusInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeMemberStatus(tt.periods, tt.leaves, now)
			if got != tt.want {
				t.Errorf("ComputeMemberStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
