package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/services"
	"github.com/choirdinated/backend/internal/middleware"
	"github.com/choirdinated/backend/internal/pkg/helpers"
)

// MemberController handles member endpoints
type MemberController struct {
	memberService *services.MemberService
}

// NewMemberController creates a new MemberController
func NewMemberController(memberService *services.MemberService) *MemberController {
	return &MemberController{memberService: memberService}
}

// CreateMember enrolls a user into the choir
// @Summary Create member
// @Description Enrolls an existing user into the choir with an open membership period
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param request body dto.CreateMemberRequest true "Member data"
// @Success 201 {object} dto.APIResponse "Member created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "User is already a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/members [post]
func (c *MemberController) CreateMember(ctx *gin.Context) {
	var req dto.CreateMemberRequest
	if !bindJSON(ctx, &req) {
		return
	}

	member, err := c.memberService.CreateMember(ctx, callerChoirID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, member)
}

// ListMembers lists the choir's members
// @Summary List members
// @Description Lists members with computed statuses, paginated
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Members"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/members [get]
func (c *MemberController) ListMembers(ctx *gin.Context) {
	page, size := helpers.GetPaginationParams(ctx)

	members, total, err := c.memberService.ListMembers(ctx, callerChoirID(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.PaginatedResponse{
		Items:      members,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	})
}

// GetMember retrieves one member
// @Summary Get member
// @Description Retrieves a member with periods, leaves and computed status
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param memberId path int true "Member ID"
// @Success 200 {object} dto.APIResponse "Member"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/members/{memberId} [get]
func (c *MemberController) GetMember(ctx *gin.Context) {
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}

	member, err := c.memberService.GetMember(ctx, callerChoirID(ctx), memberID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, member)
}

// UpdateMember updates a member's assignments
// @Summary Update member
// @Description Changes membership type, voice assignment and role
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param memberId path int true "Member ID"
// @Param request body dto.UpdateMemberRequest true "Member data"
// @Success 200 {object} dto.APIResponse "Member updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/members/{memberId} [put]
func (c *MemberController) UpdateMember(ctx *gin.Context) {
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if !bindJSON(ctx, &req) {
		return
	}

	member, err := c.memberService.UpdateMember(ctx, callerChoirID(ctx), memberID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, member)
}

// DeleteMember removes a member
// @Summary Delete member
// @Description Removes a member together with its periods, leaves and attendance
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param memberId path int true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Member deleted"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/members/{memberId} [delete]
func (c *MemberController) DeleteMember(ctx *gin.Context) {
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}

	if err := c.memberService.DeleteMember(ctx, callerChoirID(ctx), memberID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Member deleted"})
}

// StartPeriod opens a new membership period
// @Summary Start membership period
// @Description Re-activates a member by opening a new membership period
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param memberId path int true "Member ID"
// @Param request body dto.StartPeriodRequest true "Start date"
// @Success 200 {object} dto.APIResponse "Period opened"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Failure 409 {object} dto.ErrorResponse "Member already has an open period"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/members/{memberId}/periods [post]
func (c *MemberController) StartPeriod(ctx *gin.Context) {
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}

	var req dto.StartPeriodRequest
	if !bindJSON(ctx, &req) {
		return
	}

	member, err := c.memberService.StartPeriod(ctx, callerChoirID(ctx), memberID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, member)
}

// EndPeriod closes the open membership period
// @Summary End membership period
// @Description Closes the member's open period, making the member inactive
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param memberId path int true "Member ID"
// @Param request body dto.EndPeriodRequest true "End date and reason"
// @Success 200 {object} dto.APIResponse "Period closed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Failure 409 {object} dto.ErrorResponse "Member has no open period"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/members/{memberId}/periods/end [put]
func (c *MemberController) EndPeriod(ctx *gin.Context) {
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}

	var req dto.EndPeriodRequest
	if !bindJSON(ctx, &req) {
		return
	}

	member, err := c.memberService.EndPeriod(ctx, callerChoirID(ctx), memberID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, member)
}

// CreateLeave files a leave request
// @Summary Create leave request
// @Description Files a leave request in pending state
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param memberId path int true "Member ID"
// @Param request body dto.CreateLeaveRequest true "Leave data"
// @Success 201 {object} dto.APIResponse "Leave created"
// @Failure 400 {object} dto.ErrorResponse "Invalid dates"
// @Failure 403 {object} dto.ErrorResponse "Filing for another member without admin role"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/members/{memberId}/leaves [post]
func (c *MemberController) CreateLeave(ctx *gin.Context) {
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if !bindJSON(ctx, &req) {
		return
	}

	leave, err := c.memberService.CreateLeave(ctx, middleware.MemberFromContext(ctx), memberID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, leave)
}

// ApproveLeave approves a pending leave request
// @Summary Approve leave
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param memberId path int true "Member ID"
// @Param leaveId path int true "Leave ID"
// @Success 200 {object} dto.APIResponse "Leave approved"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Leave not found"
// @Failure 409 {object} dto.ErrorResponse "Leave already decided"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/members/{memberId}/leaves/{leaveId}/approve [put]
func (c *MemberController) ApproveLeave(ctx *gin.Context) {
	c.decideLeave(ctx, true)
}

// RejectLeave rejects a pending leave request
// @Summary Reject leave
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param memberId path int true "Member ID"
// @Param leaveId path int true "Leave ID"
// @Success 200 {object} dto.APIResponse "Leave rejected"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 404 {object} dto.ErrorResponse "Leave not found"
// @Failure 409 {object} dto.ErrorResponse "Leave already decided"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/members/{memberId}/leaves/{leaveId}/reject [put]
func (c *MemberController) RejectLeave(ctx *gin.Context) {
	c.decideLeave(ctx, false)
}

func (c *MemberController) decideLeave(ctx *gin.Context, approve bool) {
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}
	leaveID, ok := parseIDParam(ctx, "leaveId")
	if !ok {
		return
	}

	leave, err := c.memberService.DecideLeave(ctx, callerChoirID(ctx), memberID, leaveID, approve)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, leave)
}
