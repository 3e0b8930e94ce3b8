package brreg

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Organization number validation errors
var (
	ErrInvalidLength   = errors.New("organization number must be exactly 9 digits")
	ErrInvalidChecksum = errors.New("organization number has an invalid check digit")
)

// mod11 weights applied to the first 8 digits of an organization number
var checksumWeights = [8]int{3, 2, 7, 6, 5, 4, 3, 2}

// NormalizeOrganizationNumber strips whitespace and verifies the 9-digit
// shape without checking the checksum.
func NormalizeOrganizationNumber(raw string) (string, error) {
	var sb strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(r)
	}
	orgnr := sb.String()

	if len(orgnr) != 9 {
		return "", ErrInvalidLength
	}
	for _, r := range orgnr {
		if r < '0' || r > '9' {
			return "", ErrInvalidLength
		}
	}
	return orgnr, nil
}

// ValidateOrganizationNumber checks the mod11 check digit of a Norwegian
// organization number. The weighted sum of the first 8 digits is reduced
// modulo 11 and subtracted from 11; a result of 10 has no valid digit and 11
// maps to 0. The result must equal the 9th digit.
func ValidateOrganizationNumber(raw string) error {
	orgnr, err := NormalizeOrganizationNumber(raw)
	if err != nil {
		return err
	}

	sum := 0
	for i, w := range checksumWeights {
		sum += int(orgnr[i]-'0') * w
	}

	check := 11 - sum%11
	if check == 10 {
		return fmt.Errorf("%w: no valid check digit exists", ErrInvalidChecksum)
	}
	if check == 11 {
		check = 0
	}

	if check != int(orgnr[8]-'0') {
		return ErrInvalidChecksum
	}
	return nil
}
