package utils

import "testing"

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{0, "0"},
		{123, "123"},
		{1234, "1,234"},
		{1234567, "1,234,567"},
		{1234.6, "1,235"},
		{-9876, "-9,876"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.expected {
			t.Errorf("FormatNumber(%v) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{0, "$0"},
		{1234.5, "$1,235"},
		{1000000, "$1,000,000"},
		{-200, "-$200"},
		{-1234.5, "-$1,235"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.expected {
			t.Errorf("FormatCurrency(%v) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(85.25); got != "85.2%" {
		t.Errorf("FormatPercent(85.25) = %q", got)
	}
	if got := FormatPercent(100); got != "100.0%" {
		t.Errorf("FormatPercent(100) = %q", got)
	}
}

func TestTruncateText(t *testing.T) {
	if got := TruncateText("short", 10); got != "short" {
		t.Errorf("expected no truncation, got %q", got)
	}
	if got := TruncateText("a longer string", 8); got != "a lon..." {
		t.Errorf("unexpected truncation: %q", got)
	}
	if got := TruncateText("line one\nline two", 50); got != "line one line two" {
		t.Errorf("newlines should flatten: %q", got)
	}
	if got := TruncateText("abcdef", 3); got != "..." {
		t.Errorf("tiny max lengths collapse to the ellipsis, got %q", got)
	}
}
