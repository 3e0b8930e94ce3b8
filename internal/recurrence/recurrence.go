// Package recurrence expands a recurring-event rule into concrete occurrence
// time spans. Expansion is a single pass bounded by MaxOccurrences; dates in
// the tenant's holiday calendar are dropped from the output without shifting
// the remaining schedule.
package recurrence

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Type is the recurrence frequency
type Type string

const (
	Daily   Type = "daily"
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
)

// EndType determines how a series terminates
type EndType string

const (
	EndCount EndType = "count"
	EndUntil EndType = "until"
)

// MaxOccurrences caps generation regardless of the requested count, so a
// malformed rule (an until date decades out, say) cannot loop unbounded.
const MaxOccurrences = 365

// Rule describes a recurring series. It is serialized as JSON onto the
// parent event row and never onto generated instances.
type Rule struct {
	Type            Type       `json:"type"`
	Interval        int        `json:"interval"`
	EndType         EndType    `json:"endType"`
	Count           int        `json:"count,omitempty"`
	Until           *time.Time `json:"until,omitempty"`
	ExcludeHolidays bool       `json:"excludeHolidays,omitempty"`
}

// Rule validation errors
var (
	ErrInvalidType     = errors.New("recurrence type must be daily, weekly or monthly")
	ErrInvalidInterval = errors.New("recurrence interval must be at least 1")
	ErrInvalidEnd      = errors.New("recurrence end condition is incomplete")
)

// Validate checks the rule for internal consistency
func (r Rule) Validate() error {
	switch r.Type {
	case Daily, Weekly, Monthly:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, r.Type)
	}
	if r.Interval < 1 {
		return ErrInvalidInterval
	}
	switch r.EndType {
	case EndCount:
		if r.Count < 1 {
			return fmt.Errorf("%w: count must be at least 1", ErrInvalidEnd)
		}
	case EndUntil:
		if r.Until == nil {
			return fmt.Errorf("%w: until date is required", ErrInvalidEnd)
		}
	default:
		return fmt.Errorf("%w: unknown end type %q", ErrInvalidEnd, r.EndType)
	}
	return nil
}

// ParseRule deserializes a rule from its JSON form
func ParseRule(s string) (Rule, error) {
	var r Rule
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return Rule{}, fmt.Errorf("invalid recurrence rule: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// String serializes the rule to its JSON form
func (r Rule) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(b)
}

// Occurrence is one generated start/end pair. The span always equals the
// parent event's duration.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// HolidaySet holds excluded calendar dates keyed by yyyy-mm-dd
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from concrete holiday timestamps
func NewHolidaySet(dates []time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d.Format("2006-01-02")] = struct{}{}
	}
	return set
}

// Contains reports whether the calendar date of t is a holiday
func (h HolidaySet) Contains(t time.Time) bool {
	if h == nil {
		return false
	}
	_, ok := h[t.Format("2006-01-02")]
	return ok
}

// Expand generates the ordered occurrence schedule for a rule anchored at
// the start/end pair of the first occurrence.
//
// For count-terminated rules the count refers to schedule slots: a slot that
// falls on a holiday is consumed but produces no occurrence, so the schedule
// never shifts forward. An until date before start yields an empty schedule,
// never an error.
func Expand(rule Rule, start, end time.Time, holidays HolidaySet) []Occurrence {
	duration := end.Sub(start)
	occurrences := []Occurrence{}

	for slot := 0; ; slot++ {
		occStart := occurrenceStart(rule, start, slot)

		if rule.EndType == EndCount {
			limit := rule.Count
			if limit > MaxOccurrences {
				limit = MaxOccurrences
			}
			if slot >= limit {
				break
			}
		} else {
			if rule.Until != nil && occStart.After(*rule.Until) {
				break
			}
			if len(occurrences) >= MaxOccurrences {
				break
			}
		}

		if rule.ExcludeHolidays && holidays.Contains(occStart) {
			continue
		}
		occurrences = append(occurrences, Occurrence{Start: occStart, End: occStart.Add(duration)})
	}

	return occurrences
}

// occurrenceStart computes the start of the slot'th occurrence. Slots are
// computed from the anchor rather than iterated, so monthly rules anchored
// on day 29-31 clamp to short months instead of drifting.
func occurrenceStart(rule Rule, start time.Time, slot int) time.Time {
	switch rule.Type {
	case Daily:
		return start.AddDate(0, 0, rule.Interval*slot)
	case Weekly:
		return start.AddDate(0, 0, 7*rule.Interval*slot)
	case Monthly:
		year, month, _ := start.Date()
		target := time.Date(year, month+time.Month(rule.Interval*slot), 1,
			start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
		day := start.Day()
		if last := daysInMonth(target.Year(), target.Month()); day > last {
			day = last
		}
		return time.Date(target.Year(), target.Month(), day,
			start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
	}
	return start
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
