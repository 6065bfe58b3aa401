package models

import (
	"strings"
	"time"

	"painlog/internal/utils"

	"gorm.io/datatypes"
)

type CreatePainEntryRequest struct {
	UserID    string   `json:"user_id"`
	Intensity *int     `json:"intensity"`
	Location  []string `json:"location"`
	Symptoms  *string  `json:"symptoms"`
	Notes     *string  `json:"notes"`
	Timestamp string   `json:"timestamp"`
}

func (r CreatePainEntryRequest) ToPainEntry() (*PainEntry, error) {
	userID, err := ParseUserID("user_id", r.UserID)
	if err != nil {
		return nil, err
	}
	if r.Intensity == nil {
		return nil, NewValidationError("intensity is required")
	}

	timestamp, err := parseOptionalTimestamp("timestamp", r.Timestamp)
	if err != nil {
		return nil, err
	}

	entry := &PainEntry{
		UserID:    userID,
		Intensity: *r.Intensity,
		Location:  datatypes.JSONSlice[string](cleanTags(r.Location)),
		Symptoms:  r.Symptoms,
		Notes:     r.Notes,
		Timestamp: timestamp,
	}
	return entry, entry.Validate()
}

type CreateMedicationRequest struct {
	UserID    string   `json:"user_id"`
	Name      string   `json:"name"`
	Dosage    *string  `json:"dosage"`
	Frequency string   `json:"frequency"`
	Times     []string `json:"times"`
}

func (r CreateMedicationRequest) ToMedication() (*Medication, error) {
	userID, err := ParseUserID("user_id", r.UserID)
	if err != nil {
		return nil, err
	}

	medication := &Medication{
		UserID:    userID,
		Name:      strings.TrimSpace(r.Name),
		Dosage:    r.Dosage,
		Frequency: strings.TrimSpace(r.Frequency),
		Times:     datatypes.JSONSlice[string](cleanTags(r.Times)),
		Active:    true,
	}
	return medication, medication.Validate()
}

type CreateTherapyRequest struct {
	UserID        string  `json:"user_id"`
	Type          string  `json:"type"`
	Duration      *int    `json:"duration"`
	CompletedAt   string  `json:"completed_at"`
	Effectiveness *int    `json:"effectiveness"`
	Notes         *string `json:"notes"`
}

func (r CreateTherapyRequest) ToTherapy() (*Therapy, error) {
	userID, err := ParseUserID("user_id", r.UserID)
	if err != nil {
		return nil, err
	}

	completedAt, err := parseOptionalTimestamp("completed_at", r.CompletedAt)
	if err != nil {
		return nil, err
	}

	therapy := &Therapy{
		UserID:        userID,
		Type:          strings.ToLower(strings.TrimSpace(r.Type)),
		Duration:      r.Duration,
		CompletedAt:   completedAt,
		Effectiveness: r.Effectiveness,
		Notes:         r.Notes,
	}
	return therapy, therapy.Validate()
}

type GrantAccessRequest struct {
	PatientID   string `json:"patient_id"`
	CaregiverID string `json:"caregiver_id"`
	AccessLevel string `json:"access_level"`
}

func (r GrantAccessRequest) ToCaregiverAccess() (*CaregiverAccess, error) {
	patientID, err := ParseUserID("patient_id", r.PatientID)
	if err != nil {
		return nil, err
	}
	caregiverID, err := ParseUserID("caregiver_id", r.CaregiverID)
	if err != nil {
		return nil, err
	}
	level, err := ParseAccessLevel(r.AccessLevel)
	if err != nil {
		return nil, err
	}

	grant := &CaregiverAccess{
		PatientID:   patientID,
		CaregiverID: caregiverID,
		AccessLevel: level,
		Active:      true,
	}
	return grant, grant.Validate()
}

type VoiceCommandRequest struct {
	Command string `json:"command"`
	UserID  string `json:"user_id"`
}

// A zero time means "now" and is filled in by the model's create hook.
func parseOptionalTimestamp(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	parsed, ok := utils.ParseTimestamp(raw)
	if !ok {
		return time.Time{}, NewValidationError("%s %q is not a valid ISO-8601 timestamp", field, raw)
	}
	return parsed, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
