package repositories

import (
	"context"
	"time"

	"painlog/internal/database"
	"painlog/internal/logger"
	. "painlog/internal/models"
	"painlog/internal/services"

	"gorm.io/gorm"
)

const (
	PAIN_ENTRY_CACHE_EXPIRY = 24 * time.Hour
	painEntryEntity         = "pain entry"
)

type PainEntryRepository interface {
	Create(ctx context.Context, entry *PainEntry) error
	GetByID(ctx context.Context, id string) (*PainEntry, error)
	Update(ctx context.Context, id string, patch PainEntryPatch) (*PainEntry, error)
	ListSince(ctx context.Context, userID UserID, since time.Time) ([]PainEntry, error)
	ListForTrends(ctx context.Context, userID UserID, since time.Time) ([]PainEntry, error)
	RemoveFromCache(ctx context.Context, id string)
}

type painEntryRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPainEntry(db database.DB) PainEntryRepository {
	return &painEntryRepository{
		db:  db,
		log: logger.New("painEntryRepository"),
	}
}

func painEntryCacheKey(id string) string {
	return "pain_entry:" + id
}

func (r *painEntryRepository) Create(ctx context.Context, entry *PainEntry) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(entry).Error; err != nil {
		return translate(log, painEntryEntity, "failed to create pain entry", err, "userID", entry.UserID)
	}

	return nil
}

// GetByID reads through the cache outside transactions only. Inside one the
// row may hold uncommitted changes, and a cached copy could outlive a rollback.
func (r *painEntryRepository) GetByID(ctx context.Context, id string) (*PainEntry, error) {
	log := r.log.Function("GetByID")

	_, inTransaction := services.GetTransaction(ctx)

	var entry PainEntry
	if !inTransaction {
		found, err := database.NewCacheBuilder(r.db.Cache.Records, painEntryCacheKey(id)).
			WithContext(ctx).
			Get(&entry)
		if err != nil {
			log.Warn("failed to get pain entry from cache", "id", id, "error", err)
		}
		if found {
			return &entry, nil
		}
	}

	if err := getDB(ctx, r.db).First(&entry, "id = ?", id).Error; err != nil {
		return nil, translate(log, painEntryEntity, "failed to get pain entry", err, "id", id)
	}

	if inTransaction {
		return &entry, nil
	}

	if err := r.addPainEntryToCache(ctx, &entry); err != nil {
		log.Warn("failed to add pain entry to cache", "id", id, "error", err)
	}

	return &entry, nil
}

// Update applies patch to the stored entry. Only the mutable columns are
// written so created_at and timestamp never change. The cached copy is dropped
// here and must be dropped again with RemoveFromCache once the surrounding
// transaction commits; a reader between the two could re-cache the old row.
func (r *painEntryRepository) Update(
	ctx context.Context,
	id string,
	patch PainEntryPatch,
) (*PainEntry, error) {
	log := r.log.Function("Update")

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	db := getDB(ctx, r.db)

	var entry PainEntry
	if err := db.First(&entry, "id = ?", id).Error; err != nil {
		return nil, translate(log, painEntryEntity, "failed to get pain entry", err, "id", id)
	}

	patch.Apply(&entry)

	if err := db.Model(&entry).
		Select("Intensity", "Location", "Symptoms", "Notes").
		Updates(&entry).Error; err != nil {
		return nil, translate(log, painEntryEntity, "failed to update pain entry", err, "id", id)
	}

	r.RemoveFromCache(ctx, id)

	return &entry, nil
}

func (r *painEntryRepository) RemoveFromCache(ctx context.Context, id string) {
	if err := database.NewCacheBuilder(r.db.Cache.Records, painEntryCacheKey(id)).
		WithContext(ctx).
		Delete(); err != nil {
		r.log.Function("RemoveFromCache").Warn("failed to remove pain entry from cache", "id", id, "error", err)
	}
}

// ListSince returns the user's entries with timestamp >= since, newest first.
func (r *painEntryRepository) ListSince(
	ctx context.Context,
	userID UserID,
	since time.Time,
) ([]PainEntry, error) {
	return r.list(ctx, "ListSince", userID, since, "timestamp DESC")
}

// ListForTrends returns the same window oldest first.
func (r *painEntryRepository) ListForTrends(
	ctx context.Context,
	userID UserID,
	since time.Time,
) ([]PainEntry, error) {
	return r.list(ctx, "ListForTrends", userID, since, "timestamp ASC")
}

func (r *painEntryRepository) list(
	ctx context.Context,
	function string,
	userID UserID,
	since time.Time,
	order string,
) ([]PainEntry, error) {
	log := r.log.Function(function)

	entries := []PainEntry{}
	if err := r.windowQuery(getDB(ctx, r.db), userID, since).
		Order(order).
		Order("id").
		Find(&entries).Error; err != nil {
		return nil, translate(log, painEntryEntity, "failed to list pain entries", err, "userID", userID)
	}

	return entries, nil
}

func (r *painEntryRepository) windowQuery(db *gorm.DB, userID UserID, since time.Time) *gorm.DB {
	return db.Where("user_id = ? AND timestamp >= ?", userID, since.UTC())
}

func (r *painEntryRepository) addPainEntryToCache(ctx context.Context, entry *PainEntry) error {
	return database.NewCacheBuilder(r.db.Cache.Records, painEntryCacheKey(entry.ID)).
		WithStruct(entry).
		WithTTL(PAIN_ENTRY_CACHE_EXPIRY).
		WithContext(ctx).
		Set()
}
