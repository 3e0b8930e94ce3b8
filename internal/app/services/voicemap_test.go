package services

import "testing"

func TestMapVoiceGroup(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		matched bool
	}{
		{"Sopran", "Sopran", true},
		{"SOPRAN", "Sopran", true},
		{"sopran", "Sopran", true},
		{"S", "Sopran", true},
		{"s", "Sopran", true},
		{"Soprano", "Sopran", true},
		{"Alt", "Alt", true},
		{"A", "Alt", true},
		{"Alto", "Alt", true},
		{"Tenor", "Tenor", true},
		{"T", "Tenor", true},
		{"Bass", "Bass", true},
		{"B", "Bass", true},
		{"Basso", "Bass", true},
		{" bass ", "Bass", true},
		{"Baryton", "", false},
		{"x", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := MapVoiceGroup(tt.raw)
			if ok != tt.matched {
				t.Fatalf("MapVoiceGroup(%q) matched = %v, want %v", tt.raw, ok, tt.matched)
			}
			if got != tt.want {
				t.Errorf("MapVoiceGroup(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMapVoiceType(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		matched bool
	}{
		{"1. sopran", "1. Sopran", true},
		{"Sopran 1", "1. Sopran", true},
		{"2. sopran", "2. Sopran", true},
		{"Sopran 2", "2. Sopran", true},
		{"1. ALT", "1. Alt", true},
		{"alt 2", "2. Alt", true},
		{"2 tenor", "2. Tenor", true},
		{"Bass 1", "1. Bass", true},
		// A group without a subdivision number is not a voice type
		{"Sopran", "", false},
		// A number without a group keyword is not a voice type
		{"1.", "", false},
		{"Mezzo 1", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := MapVoiceType(tt.raw)
			if ok != tt.matched {
				t.Fatalf("MapVoiceType(%q) matched = %v, want %v", tt.raw, ok, tt.matched)
			}
			if got != tt.want {
				t.Errorf("MapVoiceType(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
