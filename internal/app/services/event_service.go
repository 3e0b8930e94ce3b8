package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/choirdinated/backend/internal/app/models"
	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/repositories"
	"github.com/choirdinated/backend/internal/pkg/apperrors"
	"github.com/choirdinated/backend/internal/pkg/logger"
	"github.com/choirdinated/backend/internal/recurrence"
)

// EventService handles events, recurring series and attendance
type EventService struct {
	eventRepo   *repositories.EventRepository
	choirRepo   *repositories.ChoirRepository
	holidayRepo *repositories.HolidayRepository
	memberRepo  *repositories.MemberRepository
}

// NewEventService creates a new event service instance
func NewEventService(
	eventRepo *repositories.EventRepository,
	choirRepo *repositories.ChoirRepository,
	holidayRepo *repositories.HolidayRepository,
	memberRepo *repositories.MemberRepository,
) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		choirRepo:   choirRepo,
		holidayRepo: holidayRepo,
		memberRepo:  memberRepo,
	}
}

// CreateEvent creates a standalone event, or a recurring series when the
// request carries a recurrence rule
func (s *EventService) CreateEvent(ctx context.Context, choirID, createdBy int64, req *dto.CreateEventRequest) (*models.Event, *dto.RecurringEventResponse, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, nil, apperrors.NewBadRequestError("event end time must be after start time")
	}

	choir, err := s.choirRepo.GetByID(ctx, choirID)
	if err != nil {
		if errors.Is(err, repositories.ErrChoirNotFound) {
			return nil, nil, apperrors.ErrChoirNotFound
		}
		return nil, nil, fmt.Errorf("error retrieving choir: %w", err)
	}

	mode := choir.AttendanceMode
	if req.AttendanceMode != "" {
		mode = models.AttendanceMode(req.AttendanceMode)
	}

	event := &models.Event{
		ChoirID:        choirID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		EventTypeID:    req.EventTypeID,
		AttendanceMode: mode,
		CreatedBy:      createdBy,
	}

	if req.Recurrence == nil {
		if err := s.eventRepo.Create(ctx, event); err != nil {
			return nil, nil, fmt.Errorf("error creating event: %w", err)
		}
		return event, nil, nil
	}

	recurring, err := s.createRecurring(ctx, event, *req.Recurrence)
	if err != nil {
		return nil, nil, err
	}
	return event, recurring, nil
}

// createRecurring expands the rule and persists the series in two phases:
// the parent row first, then one row per generated instance, and finally the
// parent's self back-reference. The phases are deliberately separate
// statements; a crash mid-way leaves repairable rows rather than holding a
// long transaction over hundreds of inserts. The maintenance tool detects
// and repairs the leftovers.
func (s *EventService) createRecurring(ctx context.Context, parent *models.Event, rule recurrence.Rule) (*dto.RecurringEventResponse, error) {
	if err := rule.Validate(); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	var holidays recurrence.HolidaySet
	if rule.ExcludeHolidays {
		dates, err := s.holidayRepo.ListDates(ctx, parent.ChoirID)
		if err != nil {
			return nil, fmt.Errorf("error loading holidays: %w", err)
		}
		holidays = recurrence.NewHolidaySet(dates)
	}

	occurrences := recurrence.Expand(rule, parent.StartTime, parent.EndTime, holidays)
	skipped := skippedDates(rule, parent.StartTime, parent.EndTime, occurrences, holidays)

	ruleJSON := rule.String()
	parent.IsRecurring = true
	parent.RecurrenceRule = &ruleJSON

	// An until date before the start yields an empty schedule; the parent
	// is still created and keeps its requested times.
	var rest []recurrence.Occurrence
	instanceCount := 0
	if len(occurrences) > 0 {
		parent.StartTime = occurrences[0].Start
		parent.EndTime = occurrences[0].End
		rest = occurrences[1:]
		instanceCount = 1
	}

	if err := s.eventRepo.Create(ctx, parent); err != nil {
		return nil, fmt.Errorf("error creating series parent: %w", err)
	}

	for _, occ := range rest {
		instance := &models.Event{
			ChoirID:        parent.ChoirID,
			Title:          parent.Title,
			Description:    parent.Description,
			Location:       parent.Location,
			StartTime:      occ.Start,
			EndTime:        occ.End,
			EventTypeID:    parent.EventTypeID,
			AttendanceMode: parent.AttendanceMode,
			IsRecurring:    true,
			ParentEventID:  &parent.ID,
			CreatedBy:      parent.CreatedBy,
		}
		if err := s.eventRepo.Create(ctx, instance); err != nil {
			return nil, fmt.Errorf("error creating series instance: %w", err)
		}
		instanceCount++
	}

	// The parent references itself so series queries need no special case
	if err := s.eventRepo.SetParentEventID(ctx, parent.ID, parent.ID); err != nil {
		return nil, fmt.Errorf("error linking series parent: %w", err)
	}
	parent.ParentEventID = &parent.ID

	logger.Info().
		Int64("choirId", parent.ChoirID).
		Int64("parentEventId", parent.ID).
		Int("instances", instanceCount).
		Int("skipped", len(skipped)).
		Msg("Recurring series created")

	return &dto.RecurringEventResponse{
		Parent:        parent,
		InstanceCount: instanceCount,
		SkippedDates:  skipped,
	}, nil
}

// skippedDates recomputes the schedule without holiday exclusion and reports
// the dates that were dropped
func skippedDates(rule recurrence.Rule, start, end time.Time, kept []recurrence.Occurrence, holidays recurrence.HolidaySet) []string {
	if !rule.ExcludeHolidays || len(holidays) == 0 {
		return nil
	}

	keptSet := make(map[string]struct{}, len(kept))
	for _, occ := range kept {
		keptSet[occ.Start.Format("2006-01-02")] = struct{}{}
	}

	bare := rule
	bare.ExcludeHolidays = false
	var skipped []string
	for _, occ := range recurrence.Expand(bare, start, end, nil) {
		key := occ.Start.Format("2006-01-02")
		if _, ok := keptSet[key]; !ok {
			skipped = append(skipped, key)
		}
	}
	return skipped
}

// GetEvent retrieves an event scoped to a choir
func (s *EventService) GetEvent(ctx context.Context, choirID, eventID int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, choirID, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return event, nil
}

// ListEvents retrieves a page of events, optionally bounded by a time window
func (s *EventService) ListEvents(ctx context.Context, choirID int64, from, to *time.Time, limit, offset uint64) ([]*models.Event, int64, error) {
	events, total, err := s.eventRepo.List(ctx, choirID, from, to, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing events: %w", err)
	}
	return events, total, nil
}

// ListInstances lists the generated instances of a recurring series
func (s *EventService) ListInstances(ctx context.Context, choirID, eventID int64) ([]*models.Event, error) {
	event, err := s.GetEvent(ctx, choirID, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsRecurring || event.ParentEventID == nil || *event.ParentEventID != event.ID {
		return nil, apperrors.ErrNotASeriesParent
	}

	instances, err := s.eventRepo.ListInstances(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing instances: %w", err)
	}
	return instances, nil
}

// UpdateEvent updates a single event row. A parent's stored rule is left
// untouched and instances are never regenerated.
func (s *EventService) UpdateEvent(ctx context.Context, choirID, eventID int64, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.GetEvent(ctx, choirID, eventID)
	if err != nil {
		return nil, err
	}

	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.NewBadRequestError("event end time must be after start time")
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.EventTypeID = req.EventTypeID
	if req.AttendanceMode != "" {
		event.AttendanceMode = models.AttendanceMode(req.AttendanceMode)
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an event. Deleting a series parent removes its
// generated instances as well.
func (s *EventService) DeleteEvent(ctx context.Context, choirID, eventID int64) error {
	event, err := s.GetEvent(ctx, choirID, eventID)
	if err != nil {
		return err
	}

	cascade := event.ParentEventID != nil && *event.ParentEventID == event.ID
	if err := s.eventRepo.Delete(ctx, choirID, eventID, cascade); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return apperrors.ErrEventNotFound
		}
		return fmt.Errorf("error deleting event: %w", err)
	}
	return nil
}

// SetIntent records the calling member's intended attendance
func (s *EventService) SetIntent(ctx context.Context, choirID, eventID, memberID int64, req *dto.SetIntentRequest) (*models.EventAttendance, error) {
	if _, err := s.GetEvent(ctx, choirID, eventID); err != nil {
		return nil, err
	}

	att := &models.EventAttendance{
		EventID:        eventID,
		MemberID:       memberID,
		IntendedStatus: models.IntendedStatus(req.IntendedStatus),
	}
	if err := s.eventRepo.UpsertIntent(ctx, att); err != nil {
		return nil, fmt.Errorf("error setting intent: %w", err)
	}
	return att, nil
}

// RecordActual records the organizer-observed outcome for a member
func (s *EventService) RecordActual(ctx context.Context, choirID, eventID, memberID, recordedBy int64, req *dto.RecordActualRequest) (*models.EventAttendance, error) {
	if _, err := s.GetEvent(ctx, choirID, eventID); err != nil {
		return nil, err
	}
	if _, err := s.memberRepo.GetByID(ctx, choirID, memberID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("error checking member: %w", err)
	}

	actual := models.ActualStatus(req.ActualStatus)
	att := &models.EventAttendance{
		EventID:      eventID,
		MemberID:     memberID,
		ActualStatus: &actual,
		RecordedBy:   &recordedBy,
	}
	if err := s.eventRepo.RecordActual(ctx, att); err != nil {
		return nil, fmt.Errorf("error recording actual attendance: %w", err)
	}
	return att, nil
}

// ListAttendance lists all attendance rows for an event
func (s *EventService) ListAttendance(ctx context.Context, choirID, eventID int64) ([]*models.EventAttendance, error) {
	if _, err := s.GetEvent(ctx, choirID, eventID); err != nil {
		return nil, err
	}

	records, err := s.eventRepo.ListAttendance(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	return records, nil
}

// GetAttendanceSummary aggregates attendance for an event
func (s *EventService) GetAttendanceSummary(ctx context.Context, choirID, eventID int64) (*dto.AttendanceSummary, error) {
	event, err := s.GetEvent(ctx, choirID, eventID)
	if err != nil {
		return nil, err
	}

	records, err := s.eventRepo.ListAttendance(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}

	activeMembers, err := s.eventRepo.CountActiveMembers(ctx, choirID)
	if err != nil {
		return nil, fmt.Errorf("error counting active members: %w", err)
	}

	summary := SummarizeAttendance(event.AttendanceMode, records, int(activeMembers))
	return &summary, nil
}
