package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinIntensity = 0
	MaxIntensity = 10
)

type PainEntry struct {
	BaseUUIDModel
	UserID    UserID                      `gorm:"type:varchar(100);not null;index:idx_pain_entries_user_timestamp,priority:1" json:"user_id"`
	Intensity int                         `gorm:"not null"                                                                  json:"intensity"`
	Location  datatypes.JSONSlice[string] `gorm:"type:text;not null"                                                        json:"location"`
	Symptoms  *string                     `gorm:"type:text"                                                                 json:"symptoms"`
	Notes     *string                     `gorm:"type:text"                                                                 json:"notes"`
	Timestamp time.Time                   `gorm:"not null;index:idx_pain_entries_user_timestamp,priority:2"                 json:"timestamp"`
}

func (PainEntry) TableName() string { return "pain_entries" }

func (p *PainEntry) Validate() error {
	if err := p.UserID.Validate("user_id"); err != nil {
		return err
	}
	return ValidateIntensity(p.Intensity)
}

func ValidateIntensity(intensity int) error {
	if intensity < MinIntensity || intensity > MaxIntensity {
		return NewValidationError(
			"intensity must be between %d and %d, got %d",
			MinIntensity,
			MaxIntensity,
			intensity,
		)
	}
	return nil
}

func (p *PainEntry) BeforeCreate(tx *gorm.DB) error {
	if p.Location == nil {
		p.Location = datatypes.JSONSlice[string]{}
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = tx.NowFunc()
	}
	p.Timestamp = p.Timestamp.UTC()
	return p.Validate()
}

func (p *PainEntry) BeforeUpdate(tx *gorm.DB) error {
	if p.Location == nil {
		p.Location = datatypes.JSONSlice[string]{}
	}
	return p.Validate()
}

// PainEntryPatch carries a partial update. A nil field was omitted by the
// caller; a non-nil pointer to an empty value is an explicit clear.
type PainEntryPatch struct {
	Intensity *int      `json:"intensity"`
	Location  *[]string `json:"location"`
	Symptoms  *string   `json:"symptoms"`
	Notes     *string   `json:"notes"`
}

func (p PainEntryPatch) IsEmpty() bool {
	return p.Intensity == nil && p.Location == nil && p.Symptoms == nil && p.Notes == nil
}

func (p PainEntryPatch) Validate() error {
	if p.Intensity != nil {
		return ValidateIntensity(*p.Intensity)
	}
	return nil
}

// Apply overwrites only the fields present in the patch.
func (p PainEntryPatch) Apply(entry *PainEntry) {
	if p.Intensity != nil {
		entry.Intensity = *p.Intensity
	}
	if p.Location != nil {
		location := make(datatypes.JSONSlice[string], len(*p.Location))
		copy(location, *p.Location)
		entry.Location = location
	}
	if p.Symptoms != nil {
		symptoms := *p.Symptoms
		entry.Symptoms = &symptoms
	}
	if p.Notes != nil {
		notes := *p.Notes
		entry.Notes = &notes
	}
}
