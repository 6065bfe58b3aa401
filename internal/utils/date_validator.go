package utils

import (
	"strconv"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatRFC3339Nano   DateFormat = time.RFC3339Nano
	FormatISO8601       DateFormat = "2006-01-02T15:04:05Z07:00"
	FormatISO8601Naive  DateFormat = "2006-01-02T15:04:05.999999999"
	FormatISO8601Minute DateFormat = "2006-01-02T15:04"
	FormatSQLDateTime   DateFormat = "2006-01-02 15:04:05.999999999"
	FormatISO8601Date   DateFormat = "2006-01-02"
	FormatUnixTime      DateFormat = "unix"
	FormatTime24        DateFormat = "15:04"
)

const (
	minUnixDigits = 10
	maxUnixTime   = 4102444800 // 2100-01-01
)

// DateValidator parses the timestamp shapes clients send for pain entries and
// therapies. Values without a zone are read as UTC.
type DateValidator struct {
	supportedFormats []DateFormat
}

type ValidationResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	ParsedTime     time.Time
	OriginalValue  string
}

func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatRFC3339Nano,
			FormatISO8601,
			FormatISO8601Naive,
			FormatISO8601Minute,
			FormatSQLDateTime,
			FormatISO8601Date,
		},
	}
}

func (dv *DateValidator) ValidateAndConvert(input string) ValidationResult {
	result := ValidationResult{OriginalValue: input}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	for _, format := range dv.supportedFormats {
		if parsedTime, err := time.ParseInLocation(string(format), input, time.UTC); err == nil {
			result.IsValid = true
			result.DetectedFormat = format
			result.ParsedTime = parsedTime.UTC()
			return result
		}
	}

	// Shorter digit strings are compact dates like 20250102, not epoch seconds.
	if len(input) < minUnixDigits {
		return result
	}
	if unixTime, err := strconv.ParseUint(input, 10, 64); err == nil && unixTime > 0 && unixTime < maxUnixTime {
		result.IsValid = true
		result.DetectedFormat = FormatUnixTime
		result.ParsedTime = time.Unix(int64(unixTime), 0).UTC()
	}

	return result
}

func (dv *DateValidator) GetSupportedFormats() []DateFormat {
	return dv.supportedFormats
}

// ParseTimestamp is ValidateAndConvert with the default format set.
func ParseTimestamp(input string) (time.Time, bool) {
	result := NewDateValidator().ValidateAndConvert(input)
	return result.ParsedTime, result.IsValid
}

// IsTimeOfDay reports whether value is a 24h HH:MM reminder time.
func IsTimeOfDay(value string) bool {
	if len(value) != len(FormatTime24) {
		return false
	}
	_, err := time.Parse(string(FormatTime24), value)
	return err == nil
}
