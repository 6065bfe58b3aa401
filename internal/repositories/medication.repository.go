package repositories

import (
	"context"

	"painlog/internal/database"
	"painlog/internal/logger"
	. "painlog/internal/models"
)

const medicationEntity = "medication"

type MedicationRepository interface {
	Create(ctx context.Context, medication *Medication) error
	GetByID(ctx context.Context, id string) (*Medication, error)
	ListActive(ctx context.Context, userID UserID) ([]Medication, error)
	Deactivate(ctx context.Context, id string) (*Medication, error)
}

type medicationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewMedication(db database.DB) MedicationRepository {
	return &medicationRepository{
		db:  db,
		log: logger.New("medicationRepository"),
	}
}

func (r *medicationRepository) Create(ctx context.Context, medication *Medication) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(medication).Error; err != nil {
		return translate(log, medicationEntity, "failed to create medication", err, "userID", medication.UserID)
	}

	return nil
}

func (r *medicationRepository) GetByID(ctx context.Context, id string) (*Medication, error) {
	log := r.log.Function("GetByID")

	var medication Medication
	if err := getDB(ctx, r.db).First(&medication, "id = ?", id).Error; err != nil {
		return nil, translate(log, medicationEntity, "failed to get medication", err, "id", id)
	}

	return &medication, nil
}

func (r *medicationRepository) ListActive(ctx context.Context, userID UserID) ([]Medication, error) {
	log := r.log.Function("ListActive")

	medications := []Medication{}
	if err := getDB(ctx, r.db).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at ASC").
		Order("id").
		Find(&medications).Error; err != nil {
		return nil, translate(log, medicationEntity, "failed to list medications", err, "userID", userID)
	}

	return medications, nil
}

// Deactivate is idempotent; deactivating an inactive medication returns it
// unchanged.
func (r *medicationRepository) Deactivate(ctx context.Context, id string) (*Medication, error) {
	log := r.log.Function("Deactivate")

	db := getDB(ctx, r.db)

	var medication Medication
	if err := db.First(&medication, "id = ?", id).Error; err != nil {
		return nil, translate(log, medicationEntity, "failed to get medication", err, "id", id)
	}

	if !medication.Active {
		return &medication, nil
	}

	if err := db.Model(&medication).Update("active", false).Error; err != nil {
		return nil, translate(log, medicationEntity, "failed to deactivate medication", err, "id", id)
	}

	return &medication, nil
}
