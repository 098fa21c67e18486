package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrAmountInvalid     = errors.New("invalid amount: use numbers (e.g. 1000), '1k', '1.5m', or 'all'")
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrAllNotAllowed     = errors.New("'all' cannot be used here")
)

// ParseAmount converts a wager string ("1000", "2.5k", "1m", "all") into a
// positive integer amount. allIn is what "all" resolves to; pass a negative
// value where "all" is not permitted. Failures are typed errors, never a
// human-readable string masquerading as a value.
func ParseAmount(input string, allIn int64) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "all" {
		if allIn < 0 {
			return 0, ErrAllNotAllowed
		}
		if allIn == 0 {
			return 0, ErrAmountNotPositive
		}
		return allIn, nil
	}

	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(cleaned, "k"):
		multiplier = 1_000
		cleaned = strings.TrimSuffix(cleaned, "k")
	case strings.HasSuffix(cleaned, "m"):
		multiplier = 1_000_000
		cleaned = strings.TrimSuffix(cleaned, "m")
	case strings.HasSuffix(cleaned, "b"):
		multiplier = 1_000_000_000
		cleaned = strings.TrimSuffix(cleaned, "b")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, ErrAmountInvalid
	}

	value := int64(f * float64(multiplier))
	if value <= 0 {
		return 0, ErrAmountNotPositive
	}
	return value, nil
}

// FormatMoney renders an integer amount with thousands separators.
func FormatMoney(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return "$ " + out
}
