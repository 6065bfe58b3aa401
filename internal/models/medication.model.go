package models

import (
	"painlog/internal/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Medication struct {
	BaseUUIDModel
	UserID    UserID                      `gorm:"type:varchar(100);not null;index" json:"user_id"`
	Name      string                      `gorm:"type:varchar(200);not null"       json:"name"`
	Dosage    *string                     `gorm:"type:varchar(100)"                json:"dosage"`
	Frequency string                      `gorm:"type:varchar(100);not null"       json:"frequency"`
	Times     datatypes.JSONSlice[string] `gorm:"type:text;not null"               json:"times"`
	Active    bool                        `gorm:"not null"                         json:"active"`
}

func (Medication) TableName() string { return "medications" }

func (m *Medication) Validate() error {
	if err := m.UserID.Validate("user_id"); err != nil {
		return err
	}
	if m.Name == "" {
		return NewValidationError("name is required")
	}
	if m.Frequency == "" {
		return NewValidationError("frequency is required")
	}
	for _, t := range m.Times {
		if !utils.IsTimeOfDay(t) {
			return NewValidationError("times must use HH:MM, got %q", t)
		}
	}
	return nil
}

func (m *Medication) BeforeCreate(tx *gorm.DB) error {
	if m.Times == nil {
		m.Times = datatypes.JSONSlice[string]{}
	}
	return m.Validate()
}
