package brreg

import (
	"errors"
	"testing"
)

func TestValidateOrganizationNumberValid(t *testing.T) {
	valid := []string{
		"923609016", // Equinor
		"974760673", // Brønnøysundregistrene
		"971277882",
		" 923 609 016 ", // whitespace stripped before validation
	}
	for _, orgnr := range valid {
		if err := ValidateOrganizationNumber(orgnr); err != nil {
			t.Errorf("ValidateOrganizationNumber(%q) = %v, want nil", orgnr, err)
		}
	}
}

func TestValidateOrganizationNumberSingleDigitMutations(t *testing.T) {
	const valid = "923609016"
	for pos := 0; pos < len(valid); pos++ {
		for d := byte('0'); d <= '9'; d++ {
			if valid[pos] == d {
				continue
			}
			mutated := valid[:pos] + string(d) + valid[pos+1:]
			if err := ValidateOrganizationNumber(mutated); err == nil {
				t.Errorf("mutation %q of %q should fail validation", mutated, valid)
			}
		}
	}
}

func TestValidateOrganizationNumberShape(t *testing.T) {
	tests := []struct {
		orgnr string
		want  error
	}{
		{"", ErrInvalidLength},
		{"12345678", ErrInvalidLength},
		{"1234567890", ErrInvalidLength},
		{"92360901a", ErrInvalidLength},
		{"923609017", ErrInvalidChecksum},
	}
	for _, tt := range tests {
		err := ValidateOrganizationNumber(tt.orgnr)
		if !errors.Is(err, tt.want) {
			t.Errorf("ValidateOrganizationNumber(%q) = %v, want %v", tt.orgnr, err, tt.want)
		}
	}
}

func TestNormalizeOrganizationNumber(t *testing.T) {
	got, err := NormalizeOrganizationNumber("923 609 016")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "923609016" {
		t.Errorf("got %q, want 923609016", got)
	}
}
