package access

import (
	"context"

	"painlog/internal/logger"
	. "painlog/internal/models"
)

// GrantStore is the slice of the caregiver-access repository the model reads.
type GrantStore interface {
	ActiveGrants(ctx context.Context, caregiverID, patientID UserID) ([]CaregiverAccess, error)
}

type Model struct {
	grants GrantStore
	log    logger.Logger
}

func New(grants GrantStore) *Model {
	return &Model{
		grants: grants,
		log:    logger.New("access"),
	}
}

// Authorize reports whether caregiverID may act on patientID's records at the
// required level. The most recent active grant for the pair decides; with no
// active grant the answer is no. Callers handle self-access before calling.
func (m *Model) Authorize(
	ctx context.Context,
	caregiverID, patientID UserID,
	required AccessLevel,
) (bool, error) {
	log := m.log.Function("Authorize")

	if !required.Valid() {
		return false, NewValidationError("unknown access level %q", required)
	}
	if err := caregiverID.Validate("caregiver_id"); err != nil {
		return false, err
	}
	if err := patientID.Validate("patient_id"); err != nil {
		return false, err
	}

	grants, err := m.grants.ActiveGrants(ctx, caregiverID, patientID)
	if err != nil {
		return false, err
	}

	if len(grants) == 0 {
		log.Debug("No active grant", "caregiverID", caregiverID, "patientID", patientID)
		return false, nil
	}

	authoritative := grants[0]
	allowed := authoritative.AccessLevel.Allows(required)
	log.Debug("Evaluated grant",
		"caregiverID", caregiverID,
		"patientID", patientID,
		"granted", authoritative.AccessLevel,
		"required", required,
		"allowed", allowed,
	)

	return allowed, nil
}

// Require is Authorize for callers that only need an error. Self-access always
// passes.
func (m *Model) Require(ctx context.Context, caller, owner UserID, required AccessLevel) error {
	if caller == owner {
		return nil
	}

	allowed, err := m.Authorize(ctx, caller, owner, required)
	if err != nil {
		return err
	}
	if !allowed {
		return NewAuthorizationDeniedError("%s access to %s's records denied for %s", required, owner, caller)
	}
	return nil
}
