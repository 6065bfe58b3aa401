package painEntryController

import (
	"context"
	"time"

	"painlog/internal/access"
	"painlog/internal/events"
	"painlog/internal/logger"
	. "painlog/internal/models"
	"painlog/internal/repositories"
	"painlog/internal/services"
)

type PainEntryController struct {
	painEntryRepo      repositories.PainEntryRepository
	accessModel        *access.Model
	transactionService *services.TransactionService
	trendCache         *services.TrendCacheService
	eventBus           *events.EventBus
	log                logger.Logger
	now                func() time.Time
}

func New(
	painEntryRepo repositories.PainEntryRepository,
	accessModel *access.Model,
	transactionService *services.TransactionService,
	trendCache *services.TrendCacheService,
	eventBus *events.EventBus,
) *PainEntryController {
	return &PainEntryController{
		painEntryRepo:      painEntryRepo,
		accessModel:        accessModel,
		transactionService: transactionService,
		trendCache:         trendCache,
		eventBus:           eventBus,
		log:                logger.New("PainEntryController"),
		now:                time.Now,
	}
}

func (pc *PainEntryController) Create(
	ctx context.Context,
	caller UserID,
	request CreatePainEntryRequest,
) (*PainEntry, error) {
	log := pc.log.Function("Create")

	entry, err := request.ToPainEntry()
	if err != nil {
		return nil, err
	}

	if err := pc.accessModel.Require(ctx, caller, entry.UserID, AccessWrite); err != nil {
		return nil, log.Err("caller may not record pain for user", err, "caller", caller, "userID", entry.UserID)
	}

	if err := pc.RecordPain(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// RecordPain stores an already-authorized entry. The voice interpreter writes
// through here as well.
func (pc *PainEntryController) RecordPain(ctx context.Context, entry *PainEntry) error {
	log := pc.log.Function("RecordPain")

	err := pc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		return pc.painEntryRepo.Create(txCtx, entry)
	})
	if err != nil {
		return log.Err("failed to record pain entry", err, "userID", entry.UserID)
	}

	pc.trendCache.Invalidate(ctx, entry.UserID.String())
	pc.eventBus.Publish(ctx, events.PainEntryCreated, entry.UserID.String(), entry)

	return nil
}

// Get, like Update, treats an empty caller as the entry's owner.
func (pc *PainEntryController) Get(ctx context.Context, caller UserID, id string) (*PainEntry, error) {
	log := pc.log.Function("Get")

	entry, err := pc.painEntryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, log.Err("failed to get pain entry", err, "id", id)
	}

	if caller == "" {
		caller = entry.UserID
	}
	if err := pc.accessModel.Require(ctx, caller, entry.UserID, AccessRead); err != nil {
		return nil, log.Err("caller may not read pain entry", err, "caller", caller, "id", id)
	}

	return entry, nil
}

func (pc *PainEntryController) List(
	ctx context.Context,
	caller, userID UserID,
	days int,
) ([]PainEntry, error) {
	log := pc.log.Function("List")

	if err := ValidateWindowDays(days); err != nil {
		return nil, err
	}

	if err := pc.accessModel.Require(ctx, caller, userID, AccessRead); err != nil {
		return nil, log.Err("caller may not read pain entries", err, "caller", caller, "userID", userID)
	}

	entries, err := pc.painEntryRepo.ListSince(ctx, userID, WindowStart(pc.now(), days))
	if err != nil {
		return nil, log.Err("failed to list pain entries", err, "userID", userID, "days", days)
	}

	return entries, nil
}

// Update checks write access against the stored owner before applying patch.
func (pc *PainEntryController) Update(
	ctx context.Context,
	caller UserID,
	id string,
	patch PainEntryPatch,
) (*PainEntry, error) {
	log := pc.log.Function("Update")

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *PainEntry
	err := pc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		current, err := pc.painEntryRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if caller == "" {
			caller = current.UserID
		}
		if err := pc.accessModel.Require(txCtx, caller, current.UserID, AccessWrite); err != nil {
			return err
		}

		updated, err = pc.painEntryRepo.Update(txCtx, id, patch)
		return err
	})
	if err != nil {
		return nil, log.Err("failed to update pain entry", err, "id", id, "caller", caller)
	}

	pc.painEntryRepo.RemoveFromCache(ctx, id)
	pc.trendCache.Invalidate(ctx, updated.UserID.String())
	pc.eventBus.Publish(ctx, events.PainEntryUpdated, updated.UserID.String(), updated)

	return updated, nil
}
