package therapyController

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

type TherapyController struct {
	therapyRepo        repositories.TherapyRepository
	accessModel        *access.Model
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	log                logger.Logger
	now                func() time.Time
}

func New(
	therapyRepo repositories.TherapyRepository,
	accessModel *access.Model,
	transactionService *services.TransactionService,
	eventBus *events.EventBus,
) *TherapyController {
	return &TherapyController{
		therapyRepo:        therapyRepo,
		accessModel:        accessModel,
		transactionService: transactionService,
		eventBus:           eventBus,
		log:                logger.New("TherapyController"),
		now:                time.Now,
	}
}

func (tc *TherapyController) Create(
	ctx context.Context,
	caller UserID,
	request CreateTherapyRequest,
) (*Therapy, error) {
	log := tc.log.Function("Create")

	therapy, err := request.ToTherapy()
	if err != nil {
		return nil, err
	}

	if err := tc.accessModel.Require(ctx, caller, therapy.UserID, AccessWrite); err != nil {
		return nil, log.Err("caller may not record therapies for user", err, "caller", caller, "userID", therapy.UserID)
	}

	err = tc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		return tc.therapyRepo.Create(txCtx, therapy)
	})
	if err != nil {
		return nil, log.Err("failed to create therapy", err, "userID", therapy.UserID)
	}

	tc.eventBus.Publish(ctx, events.TherapyCreated, therapy.UserID.String(), therapy)

	return therapy, nil
}

func (tc *TherapyController) List(ctx context.Context, caller, userID UserID, days int) ([]Therapy, error) {
	log := tc.log.Function("List")

	if err := ValidateWindowDays(days); err != nil {
		return nil, err
	}

	if err := tc.accessModel.Require(ctx, caller, userID, AccessRead); err != nil {
		return nil, log.Err("caller may not read therapies", err, "caller", caller, "userID", userID)
	}

	therapies, err := tc.therapyRepo.ListSince(ctx, userID, WindowStart(tc.now(), days))
	if err != nil {
		return nil, log.Err("failed to list therapies", err, "userID", userID, "days", days)
	}

	return therapies, nil
}
