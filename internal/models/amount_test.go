package models

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		input string
		allIn int64
		want  int64
		err   error
	}{
		{"100", 0, 100, nil},
		{" 2500 ", 0, 2500, nil},
		{"1,000", 0, 1000, nil},
		{"$500", 0, 500, nil},
		{"1k", 0, 1000, nil},
		{"2.5k", 0, 2500, nil},
		{"1m", 0, 1000000, nil},
		{"1.5m", 0, 1500000, nil},
		{"1b", 0, 1000000000, nil},
		{"1K", 0, 1000, nil},
		{"all", 750, 750, nil},
		{"ALL", 750, 750, nil},
		{"all", 0, 0, ErrAmountNotPositive},
		{"all", -1, 0, ErrAllNotAllowed},
		{"0", 0, 0, ErrAmountNotPositive},
		{"-50", 0, 0, ErrAmountNotPositive},
		{"abc", 0, 0, ErrAmountInvalid},
		{"", 0, 0, ErrAmountInvalid},
		{"k", 0, 0, ErrAmountInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseAmount(tc.input, tc.allIn)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("ParseAmount(%q) err = %v, want %v", tc.input, err, tc.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "$ 0"},
		{999, "$ 999"},
		{1000, "$ 1,000"},
		{1234567, "$ 1,234,567"},
		{-4500, "$ -4,500"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.amount); got != tc.want {
			t.Errorf("FormatMoney(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
