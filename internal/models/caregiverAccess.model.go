package models

import (
	"time"

	"gorm.io/gorm"
)

type CaregiverAccess struct {
	ID          string      `gorm:"type:varchar(64);primaryKey"                                            json:"id"`
	PatientID   UserID      `gorm:"type:varchar(100);not null;index:idx_caregiver_access_pair,priority:1" json:"patient_id"`
	CaregiverID UserID      `gorm:"type:varchar(100);not null;index:idx_caregiver_access_pair,priority:2" json:"caregiver_id"`
	AccessLevel AccessLevel `gorm:"type:varchar(50);not null"                                             json:"access_level"`
	GrantedAt   time.Time   `gorm:"not null"                                                              json:"granted_at"`
	Active      bool        `gorm:"not null"                                                              json:"active"`
}

func (CaregiverAccess) TableName() string { return "caregiver_access" }

func (c *CaregiverAccess) Validate() error {
	if err := c.PatientID.Validate("patient_id"); err != nil {
		return err
	}
	if err := c.CaregiverID.Validate("caregiver_id"); err != nil {
		return err
	}
	if c.PatientID == c.CaregiverID {
		return NewValidationError("a patient cannot grant access to themselves")
	}
	if !c.AccessLevel.Valid() {
		return NewValidationError("invalid access_level %q", c.AccessLevel)
	}
	return nil
}

func (c *CaregiverAccess) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		base := BaseUUIDModel{}
		if err := base.BeforeSave(tx); err != nil {
			return err
		}
		c.ID = base.ID
	}
	if c.AccessLevel == "" {
		c.AccessLevel = AccessRead
	}
	if c.GrantedAt.IsZero() {
		c.GrantedAt = tx.NowFunc()
	}
	c.GrantedAt = c.GrantedAt.UTC()
	return c.Validate()
}
