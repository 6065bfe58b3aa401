package caregiverController

import (
	"context"

	"painlog/internal/access"
	"painlog/internal/events"
	"painlog/internal/logger"
	. "painlog/internal/models"
	"painlog/internal/repositories"
	"painlog/internal/services"
)

type CaregiverController struct {
	caregiverAccessRepo repositories.CaregiverAccessRepository
	accessModel         *access.Model
	transactionService  *services.TransactionService
	eventBus            *events.EventBus
	log                 logger.Logger
}

func New(
	caregiverAccessRepo repositories.CaregiverAccessRepository,
	accessModel *access.Model,
	transactionService *services.TransactionService,
	eventBus *events.EventBus,
) *CaregiverController {
	return &CaregiverController{
		caregiverAccessRepo: caregiverAccessRepo,
		accessModel:         accessModel,
		transactionService:  transactionService,
		eventBus:            eventBus,
		log:                 logger.New("CaregiverController"),
	}
}

// Grant stores a new grant for the pair and deactivates the ones it
// supersedes. Only the patient or an admin caregiver may grant.
func (cc *CaregiverController) Grant(
	ctx context.Context,
	caller UserID,
	request GrantAccessRequest,
) (*CaregiverAccess, error) {
	log := cc.log.Function("Grant")

	grant, err := request.ToCaregiverAccess()
	if err != nil {
		return nil, err
	}

	var superseded int64
	err = cc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if err := cc.accessModel.Require(txCtx, caller, grant.PatientID, AccessAdmin); err != nil {
			return err
		}

		superseded, err = cc.caregiverAccessRepo.Grant(txCtx, grant)
		return err
	})
	if err != nil {
		return nil, log.Err("failed to grant caregiver access", err,
			"caller", caller, "patientID", grant.PatientID, "caregiverID", grant.CaregiverID)
	}

	if superseded > 0 {
		log.Info("Superseded previous grants",
			"patientID", grant.PatientID, "caregiverID", grant.CaregiverID, "count", superseded)
	}
	cc.eventBus.Publish(ctx, events.CaregiverAccessGranted, grant.PatientID.String(), grant)

	return grant, nil
}

func (cc *CaregiverController) List(
	ctx context.Context,
	caller, patientID UserID,
	includeRevoked bool,
) ([]CaregiverAccess, error) {
	log := cc.log.Function("List")

	if err := cc.accessModel.Require(ctx, caller, patientID, AccessAdmin); err != nil {
		return nil, log.Err("caller may not list caregiver grants", err, "caller", caller, "patientID", patientID)
	}

	grants, err := cc.caregiverAccessRepo.ListByPatient(ctx, patientID, includeRevoked)
	if err != nil {
		return nil, log.Err("failed to list caregiver grants", err, "patientID", patientID)
	}

	return grants, nil
}

// Revoke deactivates a grant. The patient, an admin caregiver, or the
// caregiver holding the grant may revoke it. An empty caller is the patient.
func (cc *CaregiverController) Revoke(ctx context.Context, caller UserID, id string) (*CaregiverAccess, error) {
	log := cc.log.Function("Revoke")

	var revoked *CaregiverAccess
	err := cc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		grant, err := cc.caregiverAccessRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if caller == "" {
			caller = grant.PatientID
		}
		if caller != grant.CaregiverID {
			if err := cc.accessModel.Require(txCtx, caller, grant.PatientID, AccessAdmin); err != nil {
				return err
			}
		}

		revoked, err = cc.caregiverAccessRepo.Revoke(txCtx, id)
		return err
	})
	if err != nil {
		return nil, log.Err("failed to revoke caregiver access", err, "id", id, "caller", caller)
	}

	cc.eventBus.Publish(ctx, events.CaregiverAccessRevoked, revoked.PatientID.String(), revoked)

	return revoked, nil
}
