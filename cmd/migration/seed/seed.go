package seed

import (
	"time"

	"painlog/config"
	"painlog/internal/logger"
	. "painlog/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DemoPatient   UserID = "demo-patient"
	DemoCaregiver UserID = "demo-caregiver"
)

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

// Seed loads a small two-week history for the demo patient. It is skipped
// when the patient already has data.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")

	if config.IsProduction() {
		return log.Error("refusing to seed a production database")
	}

	var existing int64
	if err := db.Model(&PainEntry{}).Where("user_id = ?", DemoPatient).Count(&existing).Error; err != nil {
		return log.Err("failed to check existing seed data", err)
	}
	if existing > 0 {
		log.Info("Seed data already present", "userID", DemoPatient, "entries", existing)
		return nil
	}

	log.Info("Seeding development data", "userID", DemoPatient)

	return db.Transaction(func(tx *gorm.DB) error {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		locations := [][]string{{"lombar"}, {"lombar", "quadril"}, {"joelho"}, {"ombro", "pescoço"}}

		for day := 13; day >= 0; day-- {
			for i, hour := range []int{8, 19} {
				entry := PainEntry{
					UserID:    DemoPatient,
					Intensity: (day*3+i*4)%9 + 1,
					Location:  datatypes.JSONSlice[string](locations[(day+i)%len(locations)]),
					Timestamp: today.AddDate(0, 0, -day).Add(time.Duration(hour) * time.Hour),
				}
				if err := tx.Create(&entry).Error; err != nil {
					return log.Err("failed to create pain entry", err, "day", day)
				}
			}
		}

		medications := []Medication{
			{UserID: DemoPatient, Name: "Pregabalina", Dosage: stringPtr("75mg"), Frequency: "12h", Times: datatypes.JSONSlice[string]{"08:00", "20:00"}, Active: true},
			{UserID: DemoPatient, Name: "Dipirona", Dosage: stringPtr("1g"), Frequency: "8h", Times: datatypes.JSONSlice[string]{"06:00", "14:00", "22:00"}, Active: true},
		}
		for i := range medications {
			if err := tx.Create(&medications[i]).Error; err != nil {
				return log.Err("failed to create medication", err, "name", medications[i].Name)
			}
		}

		therapies := []Therapy{
			{UserID: DemoPatient, Type: "breathing", Duration: intPtr(10), CompletedAt: today.AddDate(0, 0, -2).Add(21 * time.Hour), Effectiveness: intPtr(4)},
			{UserID: DemoPatient, Type: "heat", Duration: intPtr(20), CompletedAt: today.AddDate(0, 0, -1).Add(18 * time.Hour), Effectiveness: intPtr(3)},
		}
		for i := range therapies {
			if err := tx.Create(&therapies[i]).Error; err != nil {
				return log.Err("failed to create therapy", err, "type", therapies[i].Type)
			}
		}

		grant := CaregiverAccess{PatientID: DemoPatient, CaregiverID: DemoCaregiver, AccessLevel: AccessRead, Active: true}
		if err := tx.Create(&grant).Error; err != nil {
			return log.Err("failed to create caregiver grant", err)
		}

		log.Info("Seeded development data", "painEntries", 28, "medications", len(medications), "therapies", len(therapies))
		return nil
	})
}
