package medicationController

import (
	"context"

	"painlog/internal/access"
	"painlog/internal/events"
	"painlog/internal/logger"
	. "painlog/internal/models"
	"painlog/internal/repositories"
	"painlog/internal/services"
)

type MedicationController struct {
	medicationRepo     repositories.MedicationRepository
	accessModel        *access.Model
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	log                logger.Logger
}

func New(
	medicationRepo repositories.MedicationRepository,
	accessModel *access.Model,
	transactionService *services.TransactionService,
	eventBus *events.EventBus,
) *MedicationController {
	return &MedicationController{
		medicationRepo:     medicationRepo,
		accessModel:        accessModel,
		transactionService: transactionService,
		eventBus:           eventBus,
		log:                logger.New("MedicationController"),
	}
}

func (mc *MedicationController) Create(
	ctx context.Context,
	caller UserID,
	request CreateMedicationRequest,
) (*Medication, error) {
	log := mc.log.Function("Create")

	medication, err := request.ToMedication()
	if err != nil {
		return nil, err
	}

	if err := mc.accessModel.Require(ctx, caller, medication.UserID, AccessWrite); err != nil {
		return nil, log.Err("caller may not add medications for user", err, "caller", caller, "userID", medication.UserID)
	}

	err = mc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		return mc.medicationRepo.Create(txCtx, medication)
	})
	if err != nil {
		return nil, log.Err("failed to create medication", err, "userID", medication.UserID)
	}

	mc.eventBus.Publish(ctx, events.MedicationCreated, medication.UserID.String(), medication)

	return medication, nil
}

func (mc *MedicationController) ListActive(ctx context.Context, caller, userID UserID) ([]Medication, error) {
	log := mc.log.Function("ListActive")

	if err := mc.accessModel.Require(ctx, caller, userID, AccessRead); err != nil {
		return nil, log.Err("caller may not read medications", err, "caller", caller, "userID", userID)
	}

	medications, err := mc.medicationRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, log.Err("failed to list medications", err, "userID", userID)
	}

	return medications, nil
}

func (mc *MedicationController) Deactivate(ctx context.Context, caller UserID, id string) (*Medication, error) {
	log := mc.log.Function("Deactivate")

	var medication *Medication
	err := mc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		current, err := mc.medicationRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if caller == "" {
			caller = current.UserID
		}
		if err := mc.accessModel.Require(txCtx, caller, current.UserID, AccessWrite); err != nil {
			return err
		}

		medication, err = mc.medicationRepo.Deactivate(txCtx, id)
		return err
	})
	if err != nil {
		return nil, log.Err("failed to deactivate medication", err, "id", id, "caller", caller)
	}

	mc.eventBus.Publish(ctx, events.MedicationDeactivated, medication.UserID.String(), medication)

	return medication, nil
}
