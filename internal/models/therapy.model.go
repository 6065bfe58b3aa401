package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MinEffectiveness = 1
	MaxEffectiveness = 5
)

type Therapy struct {
	BaseUUIDModel
	UserID        UserID    `gorm:"type:varchar(100);not null;index:idx_therapies_user_completed,priority:1" json:"user_id"`
	Type          string    `gorm:"column:type;type:varchar(100);not null"                                 json:"type"`
	Duration      *int      `json:"duration"`
	CompletedAt   time.Time `gorm:"not null;index:idx_therapies_user_completed,priority:2"                 json:"completed_at"`
	Effectiveness *int      `json:"effectiveness"`
	Notes         *string   `gorm:"type:text"                                                              json:"notes"`
}

func (Therapy) TableName() string { return "therapies" }

func (t *Therapy) Validate() error {
	if err := t.UserID.Validate("user_id"); err != nil {
		return err
	}
	if t.Type == "" {
		return NewValidationError("type is required")
	}
	if t.Duration != nil && *t.Duration < 0 {
		return NewValidationError("duration must not be negative, got %d", *t.Duration)
	}
	if t.Effectiveness != nil &&
		(*t.Effectiveness < MinEffectiveness || *t.Effectiveness > MaxEffectiveness) {
		return NewValidationError(
			"effectiveness must be between %d and %d, got %d",
			MinEffectiveness,
			MaxEffectiveness,
			*t.Effectiveness,
		)
	}
	return nil
}

func (t *Therapy) BeforeCreate(tx *gorm.DB) error {
	if t.CompletedAt.IsZero() {
		t.CompletedAt = tx.NowFunc()
	}
	t.CompletedAt = t.CompletedAt.UTC()
	return t.Validate()
}
