package recurrence

import (
	"testing"
	"time"
)

func mustRule(t *testing.T, r Rule) Rule {
	t.Helper()
	if err := r.Validate(); err != nil {
		t.Fatalf("rule should be valid: %v", err)
	}
	return r
}

func TestExpandWeeklyCount(t *testing.T) {
	start := time.Date(2026, 1, 6, 19, 0, 0, 0, time.UTC) // a Tuesday
	end := start.Add(2 * time.Hour)
	rule := mustRule(t, Rule{Type: Weekly, Interval: 1, EndType: EndCount, Count: 10})

	occs := Expand(rule, start, end, nil)
	if len(occs) != 10 {
		t.Fatalf("got %d occurrences, want 10", len(occs))
	}
	for i, occ := range occs {
		wantStart := start.AddDate(0, 0, 7*i)
		if !occ.Start.Equal(wantStart) {
			t.Errorf("occ[%d].Start = %v, want %v", i, occ.Start, wantStart)
		}
		if occ.End.Sub(occ.Start) != 2*time.Hour {
			t.Errorf("occ[%d] duration = %v, want 2h", i, occ.End.Sub(occ.Start))
		}
	}
}

func TestExpandDailyInterval(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rule := mustRule(t, Rule{Type: Daily, Interval: 3, EndType: EndCount, Count: 4})

	occs := Expand(rule, start, start.Add(time.Hour), nil)
	if len(occs) != 4 {
		t.Fatalf("got %d occurrences, want 4", len(occs))
	}
	want := []int{1, 4, 7, 10}
	for i, occ := range occs {
		if occ.Start.Day() != want[i] {
			t.Errorf("occ[%d] day = %d, want %d", i, occ.Start.Day(), want[i])
		}
	}
}

func TestExpandHolidaySkipDoesNotShift(t *testing.T) {
	// Weekly Tuesdays; the third Tuesday is a holiday.
	start := time.Date(2026, 1, 6, 19, 0, 0, 0, time.UTC)
	rule := mustRule(t, Rule{Type: Weekly, Interval: 1, EndType: EndCount, Count: 5, ExcludeHolidays: true})
	holidays := NewHolidaySet([]time.Time{time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)})

	occs := Expand(rule, start, start.Add(time.Hour), holidays)
	if len(occs) != 4 {
		t.Fatalf("got %d occurrences, want 4 (5 slots minus 1 holiday)", len(occs))
	}
	// The skipped week is simply absent; the remaining schedule stays put.
	wantDays := []int{6, 13, 27, 3}
	for i, occ := range occs {
		if occ.Start.Day() != wantDays[i] {
			t.Errorf("occ[%d] day = %d, want %d", i, occ.Start.Day(), wantDays[i])
		}
	}
}

func TestExpandHolidayMatchesByDateNotTimestamp(t *testing.T) {
	start := time.Date(2026, 1, 6, 19, 30, 0, 0, time.UTC)
	rule := mustRule(t, Rule{Type: Weekly, Interval: 1, EndType: EndCount, Count: 2, ExcludeHolidays: true})
	// Holiday stored at midnight, event at 19:30 the same day.
	holidays := NewHolidaySet([]time.Time{time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)})

	occs := Expand(rule, start, start.Add(time.Hour), holidays)
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occs))
	}
	if occs[0].Start.Day() != 13 {
		t.Errorf("remaining occurrence day = %d, want 13", occs[0].Start.Day())
	}
}

func TestExpandUntil(t *testing.T) {
	start := time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)
	until := time.Date(2026, 1, 26, 23, 59, 0, 0, time.UTC)
	rule := mustRule(t, Rule{Type: Weekly, Interval: 1, EndType: EndUntil, Until: &until})

	occs := Expand(rule, start, start.Add(time.Hour), nil)
	if len(occs) != 4 {
		t.Fatalf("got %d occurrences, want 4", len(occs))
	}
}

func TestExpandUntilBeforeStart(t *testing.T) {
	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	until := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rule := mustRule(t, Rule{Type: Weekly, Interval: 1, EndType: EndUntil, Until: &until})

	occs := Expand(rule, start, start.Add(time.Hour), nil)
	if len(occs) != 0 {
		t.Fatalf("got %d occurrences, want 0", len(occs))
	}
}

func TestExpandSafetyCap(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	rule := mustRule(t, Rule{Type: Daily, Interval: 1, EndType: EndCount, Count: 10000})
	if got := len(Expand(rule, start, start.Add(time.Hour), nil)); got != MaxOccurrences {
		t.Errorf("count rule: got %d occurrences, want %d", got, MaxOccurrences)
	}

	farOut := start.AddDate(50, 0, 0)
	rule = mustRule(t, Rule{Type: Daily, Interval: 1, EndType: EndUntil, Until: &farOut})
	if got := len(Expand(rule, start, start.Add(time.Hour), nil)); got != MaxOccurrences {
		t.Errorf("until rule: got %d occurrences, want %d", got, MaxOccurrences)
	}
}

func TestExpandMonthlyClampsShortMonths(t *testing.T) {
	start := time.Date(2026, 1, 31, 19, 0, 0, 0, time.UTC)
	rule := mustRule(t, Rule{Type: Monthly, Interval: 1, EndType: EndCount, Count: 4})

	occs := Expand(rule, start, start.Add(time.Hour), nil)
	if len(occs) != 4 {
		t.Fatalf("got %d occurrences, want 4", len(occs))
	}
	wantDays := []int{31, 28, 31, 30} // Jan, Feb (2026 is not a leap year), Mar, Apr
	for i, occ := range occs {
		if occ.Start.Day() != wantDays[i] {
			t.Errorf("occ[%d] day = %d, want %d", i, occ.Start.Day(), wantDays[i])
		}
	}
}

func TestRuleValidate(t *testing.T) {
	until := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		rule Rule
		ok   bool
	}{
		{"weekly count", Rule{Type: Weekly, Interval: 1, EndType: EndCount, Count: 5}, true},
		{"monthly until", Rule{Type: Monthly, Interval: 2, EndType: EndUntil, Until: &until}, true},
		{"bad type", Rule{Type: "yearly", Interval: 1, EndType: EndCount, Count: 5}, false},
		{"zero interval", Rule{Type: Daily, Interval: 0, EndType: EndCount, Count: 5}, false},
		{"count without count", Rule{Type: Daily, Interval: 1, EndType: EndCount}, false},
		{"until without date", Rule{Type: Daily, Interval: 1, EndType: EndUntil}, false},
		{"missing end type", Rule{Type: Daily, Interval: 1}, false},
	}

	for _, tt := range tests {
		err := tt.rule.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestRuleJSONRoundTrip(t *testing.T) {
	until := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	rule := Rule{Type: Weekly, Interval: 2, EndType: EndUntil, Until: &until, ExcludeHolidays: true}

	parsed, err := ParseRule(rule.String())
	if err != nil {
		t.Fatalf("ParseRule error: %v", err)
	}
	if parsed.Type != rule.Type || parsed.Interval != rule.Interval || parsed.EndType != rule.EndType {
		t.Errorf("round trip mismatch: %+v vs %+v", parsed, rule)
	}
	if parsed.Until == nil || !parsed.Until.Equal(until) {
		t.Errorf("Until did not survive round trip: %v", parsed.Until)
	}
	if !parsed.ExcludeHolidays {
		t.Error("ExcludeHolidays did not survive round trip")
	}
}

func TestParseRuleRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "not json", `{"type":"hourly","interval":1,"endType":"count","count":3}`} {
		if _, err := ParseRule(s); err == nil {
			t.Errorf("ParseRule(%q) should error", s)
		}
	}
}
