package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateValidator_ValidateAndConvert(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		isValid  bool
		format   DateFormat
		expected time.Time
	}{
		{
			name:     "rfc3339 with offset",
			input:    "2025-03-01T10:30:00-03:00",
			isValid:  true,
			format:   FormatRFC3339Nano,
			expected: time.Date(2025, 3, 1, 13, 30, 0, 0, time.UTC),
		},
		{
			name:     "naive iso datetime is utc",
			input:    "2025-03-01T10:30:00",
			isValid:  true,
			format:   FormatISO8601Naive,
			expected: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "naive iso with fraction",
			input:    "2025-03-01T10:30:00.250",
			isValid:  true,
			format:   FormatISO8601Naive,
			expected: time.Date(2025, 3, 1, 10, 30, 0, 250000000, time.UTC),
		},
		{
			name:     "minute precision",
			input:    "2025-03-01T10:30",
			isValid:  true,
			format:   FormatISO8601Minute,
			expected: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "sql datetime",
			input:    "2025-03-01 10:30:00",
			isValid:  true,
			format:   FormatSQLDateTime,
			expected: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "date only",
			input:    "2025-03-01",
			isValid:  true,
			format:   FormatISO8601Date,
			expected: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "unix seconds",
			input:    "1740825000",
			isValid:  true,
			format:   FormatUnixTime,
			expected: time.Unix(1740825000, 0).UTC(),
		},
		{name: "empty", input: "   ", isValid: false},
		{name: "garbage", input: "yesterday", isValid: false},
		{name: "negative unix", input: "-5", isValid: false},
		{name: "compact date is not epoch seconds", input: "20250102", isValid: false},
		{name: "short digit string", input: "1740825", isValid: false},
		{name: "zero epoch", input: "0000000000", isValid: false},
		{name: "unix past 2100", input: "9999999999", isValid: false},
		{name: "us date is not accepted", input: "03/01/2025", isValid: false},
	}

	validator := NewDateValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.ValidateAndConvert(tt.input)

			assert.Equal(t, tt.isValid, result.IsValid)
			assert.Equal(t, tt.input, result.OriginalValue)
			if tt.isValid {
				assert.Equal(t, tt.format, result.DetectedFormat)
				assert.True(t, tt.expected.Equal(result.ParsedTime), "got %s", result.ParsedTime)
				assert.Equal(t, time.UTC, result.ParsedTime.Location())
			}
		})
	}
}

func TestIsTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"08:00", true},
		{"23:59", true},
		{"24:00", false},
		{"8:00", false},
		{"08:00:00", false},
		{"noon", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTimeOfDay(tt.input))
		})
	}
}
