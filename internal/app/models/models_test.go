package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestHolidayJSONShape(t *testing.T) {
	holiday := Holiday{
		ID:        1,
		ChoirID:   2,
		Date:      time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC),
		Name:      "Grunnlovsdagen",
		Region:    "NO",
		CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(holiday)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	for _, key := range []string{`"choirId"`, `"date"`, `"createdAt"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("holiday JSON missing %s: %s", key, data)
		}
	}
}

func TestListOfValueJSONShape(t *testing.T) {
	lov := ListOfValue{
		ID:          3,
		ChoirID:     2,
		Category:    CategoryVoiceGroup,
		Value:       "sopran",
		DisplayName: "Sopran",
		Active:      true,
		CreatedAt:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(lov)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	for _, key := range []string{`"category"`, `"createdAt"`, `"updatedAt"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("list value JSON missing %s: %s", key, data)
		}
	}
}
