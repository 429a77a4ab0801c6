// Package document validates national identifiers: the 11-digit individual
// identifier (CPF) and the 14-digit organization identifier (CNPJ).
package document

import "strings"

const (
	// IndividualIDLength is the number of digits of an individual identifier
	IndividualIDLength = 11
	// OrganizationIDLength is the number of digits of an organization identifier
	OrganizationIDLength = 14
)

var (
	organizationFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	organizationSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits strips every non-digit character from raw
func Digits(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

// ValidIndividualID reports whether raw holds a valid individual identifier.
// Punctuation is ignored, so both "52998224725" and "529.982.247-25" are accepted.
func ValidIndividualID(raw string) bool {
	digits, ok := parse(raw, IndividualIDLength)
	if !ok {
		return false
	}

	if individualCheckDigit(digits[:9]) != digits[9] {
		return false
	}
	return individualCheckDigit(digits[:10]) == digits[10]
}

// ValidOrganizationID reports whether raw holds a valid organization identifier.
// Punctuation is ignored, so both "11444777000161" and "11.444.777/0001-61" are accepted.
func ValidOrganizationID(raw string) bool {
	digits, ok := parse(raw, OrganizationIDLength)
	if !ok {
		return false
	}

	if organizationCheckDigit(digits[:12], organizationFirstWeights) != digits[12] {
		return false
	}
	return organizationCheckDigit(digits[:13], organizationSecondWeights) == digits[13]
}

// individualCheckDigit weights the i-th digit (1-indexed) with len(digits)+2-i
func individualCheckDigit(digits []int) int {
	sum := 0
	top := len(digits) + 1
	for i, d := range digits {
		sum += d * (top - i)
	}

	rem := (sum * 10) % 11
	if rem == 10 || rem == 11 {
		return 0
	}
	return rem
}

func organizationCheckDigit(digits []int, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}

	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// parse converts raw into its digits, rejecting wrong lengths and repeated-digit sequences
func parse(raw string, length int) ([]int, bool) {
	s := Digits(raw)
	if len(s) != length {
		return nil, false
	}

	digits := make([]int, length)
	repeated := true
	for i := 0; i < length; i++ {
		digits[i] = int(s[i] - '0')
		if s[i] != s[0] {
			repeated = false
		}
	}

	if repeated {
		return nil, false
	}
	return digits, true
}
