package models

import (
	"strings"
	"unicode"
)

const maxUserIDLength = 100

// UserID identifies a patient or caregiver. It is caller-supplied and never
// verified against an account store.
type UserID string

func (u UserID) String() string { return string(u) }

func (u UserID) Validate(field string) error {
	if u == "" {
		return NewValidationError("%s is required", field)
	}
	if len(u) > maxUserIDLength {
		return NewValidationError("%s must be at most %d characters", field, maxUserIDLength)
	}
	if strings.IndexFunc(string(u), unicode.IsSpace) >= 0 {
		return NewValidationError("%s must not contain whitespace", field)
	}
	return nil
}

func ParseUserID(field, raw string) (UserID, error) {
	id := UserID(strings.TrimSpace(raw))
	if err := id.Validate(field); err != nil {
		return "", err
	}
	return id, nil
}

type AccessLevel string

const (
	AccessRead  AccessLevel = "read"
	AccessWrite AccessLevel = "write"
	AccessAdmin AccessLevel = "admin"
)

// Rank orders levels read < write < admin. Unknown levels rank 0.
func (a AccessLevel) Rank() int {
	switch a {
	case AccessRead:
		return 1
	case AccessWrite:
		return 2
	case AccessAdmin:
		return 3
	default:
		return 0
	}
}

func (a AccessLevel) Valid() bool { return a.Rank() > 0 }

// Allows reports whether a grant at level a satisfies required.
func (a AccessLevel) Allows(required AccessLevel) bool {
	return a.Valid() && required.Valid() && a.Rank() >= required.Rank()
}

// ParseAccessLevel defaults an empty value to read.
func ParseAccessLevel(raw string) (AccessLevel, error) {
	level := AccessLevel(strings.ToLower(strings.TrimSpace(raw)))
	if level == "" {
		return AccessRead, nil
	}
	if !level.Valid() {
		return "", NewValidationError("access_level must be one of read, write, admin; got %q", raw)
	}
	return level, nil
}
