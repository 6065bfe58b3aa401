package repositories

import (
	"context"
	"time"

	"painlog/internal/database"
	"painlog/internal/logger"
	. "painlog/internal/models"
)

type TherapyRepository interface {
	Create(ctx context.Context, therapy *Therapy) error
	ListSince(ctx context.Context, userID UserID, since time.Time) ([]Therapy, error)
}

type therapyRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTherapy(db database.DB) TherapyRepository {
	return &therapyRepository{
		db:  db,
		log: logger.New("therapyRepository"),
	}
}

func (r *therapyRepository) Create(ctx context.Context, therapy *Therapy) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(therapy).Error; err != nil {
		return translate(log, "therapy", "failed to create therapy", err, "userID", therapy.UserID)
	}

	return nil
}

func (r *therapyRepository) ListSince(ctx context.Context, userID UserID, since time.Time) ([]Therapy, error) {
	log := r.log.Function("ListSince")

	therapies := []Therapy{}
	if err := getDB(ctx, r.db).
		Where("user_id = ? AND completed_at >= ?", userID, since.UTC()).
		Order("completed_at DESC").
		Order("id").
		Find(&therapies).Error; err != nil {
		return nil, translate(log, "therapy", "failed to list therapies", err, "userID", userID)
	}

	return therapies, nil
}
