package repositories

import (
	"context"

	"painlog/internal/database"
	"painlog/internal/logger"
	. "painlog/internal/models"
)

const grantEntity = "caregiver access grant"

type CaregiverAccessRepository interface {
	Grant(ctx context.Context, grant *CaregiverAccess) (superseded int64, err error)
	GetByID(ctx context.Context, id string) (*CaregiverAccess, error)
	ActiveGrants(ctx context.Context, caregiverID, patientID UserID) ([]CaregiverAccess, error)
	ListByPatient(ctx context.Context, patientID UserID, includeRevoked bool) ([]CaregiverAccess, error)
	Revoke(ctx context.Context, id string) (*CaregiverAccess, error)
}

type caregiverAccessRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCaregiverAccess(db database.DB) CaregiverAccessRepository {
	return &caregiverAccessRepository{
		db:  db,
		log: logger.New("caregiverAccessRepository"),
	}
}

// Grant deactivates every active grant for the same (patient, caregiver) pair
// and stores the new one, so the pair has a single authoritative grant. Run it
// inside a transaction to make both steps atomic.
func (r *caregiverAccessRepository) Grant(ctx context.Context, grant *CaregiverAccess) (int64, error) {
	log := r.log.Function("Grant")

	if grant.AccessLevel == "" {
		grant.AccessLevel = AccessRead
	}
	if err := grant.Validate(); err != nil {
		return 0, err
	}

	db := getDB(ctx, r.db)

	result := db.Model(&CaregiverAccess{}).
		Where("patient_id = ? AND caregiver_id = ? AND active = ?", grant.PatientID, grant.CaregiverID, true).
		Update("active", false)
	if result.Error != nil {
		return 0, translate(log, grantEntity, "failed to supersede caregiver access grants", result.Error,
			"patientID", grant.PatientID, "caregiverID", grant.CaregiverID)
	}

	if err := db.Create(grant).Error; err != nil {
		return 0, translate(log, grantEntity, "failed to create caregiver access grant", err,
			"patientID", grant.PatientID, "caregiverID", grant.CaregiverID)
	}

	return result.RowsAffected, nil
}

func (r *caregiverAccessRepository) GetByID(ctx context.Context, id string) (*CaregiverAccess, error) {
	log := r.log.Function("GetByID")

	var grant CaregiverAccess
	if err := getDB(ctx, r.db).First(&grant, "id = ?", id).Error; err != nil {
		return nil, translate(log, grantEntity, "failed to get caregiver access grant", err, "id", id)
	}

	return &grant, nil
}

// ActiveGrants returns the pair's active grants, most recent first.
func (r *caregiverAccessRepository) ActiveGrants(
	ctx context.Context,
	caregiverID, patientID UserID,
) ([]CaregiverAccess, error) {
	log := r.log.Function("ActiveGrants")

	grants := []CaregiverAccess{}
	if err := getDB(ctx, r.db).
		Where("patient_id = ? AND caregiver_id = ? AND active = ?", patientID, caregiverID, true).
		Order("granted_at DESC").
		Order("id DESC").
		Find(&grants).Error; err != nil {
		return nil, translate(log, grantEntity, "failed to list active grants", err,
			"patientID", patientID, "caregiverID", caregiverID)
	}

	return grants, nil
}

func (r *caregiverAccessRepository) ListByPatient(
	ctx context.Context,
	patientID UserID,
	includeRevoked bool,
) ([]CaregiverAccess, error) {
	log := r.log.Function("ListByPatient")

	query := getDB(ctx, r.db).Where("patient_id = ?", patientID)
	if !includeRevoked {
		query = query.Where("active = ?", true)
	}

	grants := []CaregiverAccess{}
	if err := query.Order("granted_at DESC").Order("id DESC").Find(&grants).Error; err != nil {
		return nil, translate(log, grantEntity, "failed to list caregiver access grants", err, "patientID", patientID)
	}

	return grants, nil
}

func (r *caregiverAccessRepository) Revoke(ctx context.Context, id string) (*CaregiverAccess, error) {
	log := r.log.Function("Revoke")

	db := getDB(ctx, r.db)

	var grant CaregiverAccess
	if err := db.First(&grant, "id = ?", id).Error; err != nil {
		return nil, translate(log, grantEntity, "failed to get caregiver access grant", err, "id", id)
	}

	if !grant.Active {
		return &grant, nil
	}

	if err := db.Model(&grant).Update("active", false).Error; err != nil {
		return nil, translate(log, grantEntity, "failed to revoke caregiver access grant", err, "id", id)
	}

	return &grant, nil
}
