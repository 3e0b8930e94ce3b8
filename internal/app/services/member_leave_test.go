package services

import (
	"testing"

	"github.com/choirdinated/backend/internal/app/models"
)

func TestCanFileLeaveFor(t *testing.T) {
	tests := []struct {
		name     string
		caller   *models.Member
		memberID int64
		want     bool
	}{
		{
			name:     "member files for self",
			caller:   &models.Member{ID: 7, Role: models.RoleMember},
			memberID: 7,
			want:     true,
		},
		{
			name:     "member files for another member",
			caller:   &models.Member{ID: 7, Role: models.RoleMember},
			memberID: 8,
			want:     false,
		},
		{
			name:     "organizer files for another member",
			caller:   &models.Member{ID: 7, Role: models.RoleOrganizer},
			memberID: 8,
			want:     false,
		},
		{
			name:     "admin files for another member",
			caller:   &models.Member{ID: 7, Role: models.RoleAdmin},
			memberID: 8,
			want:     true,
		},
		{
			name:     "admin files for self",
			caller:   &models.Member{ID: 7, Role: models.RoleAdmin},
			memberID: 7,
			want:     true,
		},
		{
			name:     "no resolved membership",
			caller:   nil,
			memberID: 7,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canFileLeaveFor(tt.caller, tt.memberID); got != tt.want {
				t.Errorf("canFileLeaveFor() = %v, want %v", got, tt.want)
			}
		})
	}
}
