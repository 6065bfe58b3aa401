package models

import "time"

const MaxWindowDays = 3650

func ValidateWindowDays(days int) error {
	if days < 1 || days > MaxWindowDays {
		return NewValidationError("days must be between 1 and %d, got %d", MaxWindowDays, days)
	}
	return nil
}

// WindowStart is the earliest timestamp inside a window of days ending at now.
func WindowStart(now time.Time, days int) time.Time {
	return now.UTC().AddDate(0, 0, -days)
}
