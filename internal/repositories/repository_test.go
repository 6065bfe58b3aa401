package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	. "painlog/internal/models"
	"painlog/internal/services"
	"painlog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestPainEntryRepository_CreateAndGet(t *testing.T) {
	repo := NewPainEntry(testutil.NewDB(t))
	ctx := context.Background()

	entry := &PainEntry{
		UserID:    "patient-1",
		Intensity: 7,
		Location:  datatypes.JSONSlice[string]{"lombar", "quadril"},
		Symptoms:  testutil.StringPtr("queimação"),
	}
	require.NoError(t, repo.Create(ctx, entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
	assert.False(t, entry.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Intensity)
	assert.Equal(t, datatypes.JSONSlice[string]{"lombar", "quadril"}, got.Location)
	assert.Equal(t, "queimação", *got.Symptoms)
	assert.Nil(t, got.Notes)
	assert.True(t, entry.Timestamp.Equal(got.Timestamp))
}

func TestPainEntryRepository_IntensityBoundaries(t *testing.T) {
	repo := NewPainEntry(testutil.NewDB(t))
	ctx := context.Background()

	tests := []struct {
		intensity int
		isValid   bool
	}{
		{intensity: 0, isValid: true},
		{intensity: 10, isValid: true},
		{intensity: -1, isValid: false},
		{intensity: 11, isValid: false},
	}

	for _, tt := range tests {
		entry := &PainEntry{UserID: "patient-1", Intensity: tt.intensity}
		err := repo.Create(ctx, entry)
		if !tt.isValid {
			assert.True(t, IsKind(err, KindValidation), "intensity %d", tt.intensity)
			continue
		}
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.intensity, got.Intensity)
		assert.NotNil(t, got.Location)
	}
}

func TestPainEntryRepository_GetMissing(t *testing.T) {
	repo := NewPainEntry(testutil.NewDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, "pain entry not found", err.Error())
}

func TestPainEntryRepository_Update(t *testing.T) {
	repo := NewPainEntry(testutil.NewDB(t))
	ctx := context.Background()

	newEntry := func(t *testing.T) *PainEntry {
		entry := &PainEntry{
			UserID:    "patient-1",
			Intensity: 6,
			Location:  datatypes.JSONSlice[string]{"joelho"},
			Notes:     testutil.StringPtr("antes do almoço"),
			Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		}
		require.NoError(t, repo.Create(ctx, entry))
		return entry
	}

	t.Run("omitted fields keep their value", func(t *testing.T) {
		entry := newEntry(t)

		updated, err := repo.Update(ctx, entry.ID, PainEntryPatch{Intensity: testutil.IntPtr(2)})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Intensity)

		stored, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Intensity)
		assert.Equal(t, datatypes.JSONSlice[string]{"joelho"}, stored.Location)
		assert.Equal(t, "antes do almoço", *stored.Notes)
		assert.True(t, entry.CreatedAt.Equal(stored.CreatedAt))
		assert.True(t, entry.Timestamp.Equal(stored.Timestamp))
	})

	t.Run("explicit empty location clears it", func(t *testing.T) {
		entry := newEntry(t)
		empty := []string{}

		_, err := repo.Update(ctx, entry.ID, PainEntryPatch{Location: &empty})
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.Location)
		assert.Empty(t, stored.Location)
		assert.Equal(t, 6, stored.Intensity)
	})

	t.Run("zero intensity is written", func(t *testing.T) {
		entry := newEntry(t)

		_, err := repo.Update(ctx, entry.ID, PainEntryPatch{Intensity: testutil.IntPtr(0)})
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.Intensity)
	})

	t.Run("out of range leaves the record unchanged", func(t *testing.T) {
		entry := newEntry(t)

		_, err := repo.Update(ctx, entry.ID, PainEntryPatch{Intensity: testutil.IntPtr(11)})
		assert.True(t, IsKind(err, KindValidation))

		stored, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, stored.Intensity)
	})

	t.Run("missing entry", func(t *testing.T) {
		_, err := repo.Update(ctx, "missing", PainEntryPatch{Intensity: testutil.IntPtr(1)})
		assert.True(t, IsKind(err, KindNotFound))
	})
}

func TestPainEntryRepository_Windows(t *testing.T) {
	repo := NewPainEntry(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	for _, e := range []struct {
		user UserID
		age  time.Duration
	}{
		{"patient-1", 1 * time.Hour},
		{"patient-1", 50 * time.Hour},
		{"patient-1", 10 * 24 * time.Hour},
		{"patient-2", 1 * time.Hour},
	} {
		require.NoError(t, repo.Create(ctx, &PainEntry{UserID: e.user, Intensity: 5, Timestamp: now.Add(-e.age)}))
	}

	since := now.Add(-7 * 24 * time.Hour)

	desc, err := repo.ListSince(ctx, "patient-1", since)
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.True(t, desc[0].Timestamp.After(desc[1].Timestamp))

	asc, err := repo.ListForTrends(ctx, "patient-1", since)
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.True(t, asc[0].Timestamp.Before(asc[1].Timestamp))

	none, err := repo.ListSince(ctx, "patient-3", since)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPainEntryRepository_RollbackLeavesStoreUnchanged(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPainEntry(db)
	ts := services.NewTransactionService(db)
	ctx := context.Background()

	var id string
	err := ts.Execute(ctx, func(txCtx context.Context) error {
		entry := &PainEntry{UserID: "patient-1", Intensity: 4}
		if err := repo.Create(txCtx, entry); err != nil {
			return err
		}
		id = entry.ID
		return NewValidationError("abort")
	})
	require.Error(t, err)

	_, err = repo.GetByID(ctx, id)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestMedicationRepository(t *testing.T) {
	repo := NewMedication(testutil.NewDB(t))
	ctx := context.Background()

	first := &Medication{UserID: "patient-1", Name: "Pregabalina", Frequency: "12h", Times: datatypes.JSONSlice[string]{"08:00", "20:00"}, Active: true}
	second := &Medication{UserID: "patient-1", Name: "Dipirona", Frequency: "8h", Active: true}
	other := &Medication{UserID: "patient-2", Name: "Tramadol", Frequency: "daily", Active: true}
	for _, m := range []*Medication{first, second, other} {
		require.NoError(t, repo.Create(ctx, m))
	}

	active, err := repo.ListActive(ctx, "patient-1")
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, datatypes.JSONSlice[string]{"08:00", "20:00"}, active[0].Times)
	assert.NotNil(t, active[1].Times)

	deactivated, err := repo.Deactivate(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	again, err := repo.Deactivate(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, again.Active)

	active, err = repo.ListActive(ctx, "patient-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Equal(t, "Pregabalina", stored.Name)

	_, err = repo.Deactivate(ctx, "missing")
	assert.True(t, IsKind(err, KindNotFound))

	err = repo.Create(ctx, &Medication{UserID: "patient-1", Name: "x", Frequency: "daily", Times: datatypes.JSONSlice[string]{"25:00"}})
	assert.True(t, IsKind(err, KindValidation))
}

func TestTherapyRepository(t *testing.T) {
	repo := NewTherapy(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	recent := &Therapy{UserID: "patient-1", Type: "breathing", Duration: testutil.IntPtr(15), Effectiveness: testutil.IntPtr(4), CompletedAt: now.Add(-time.Hour)}
	older := &Therapy{UserID: "patient-1", Type: "heat", CompletedAt: now.Add(-48 * time.Hour)}
	stale := &Therapy{UserID: "patient-1", Type: "heat", CompletedAt: now.Add(-60 * 24 * time.Hour)}
	for _, th := range []*Therapy{older, recent, stale} {
		require.NoError(t, repo.Create(ctx, th))
	}

	therapies, err := repo.ListSince(ctx, "patient-1", now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, therapies, 2)
	assert.Equal(t, recent.ID, therapies[0].ID)
	assert.Equal(t, 4, *therapies[0].Effectiveness)
	assert.Nil(t, therapies[1].Effectiveness)

	err = repo.Create(ctx, &Therapy{UserID: "patient-1", Type: "heat", Effectiveness: testutil.IntPtr(6)})
	assert.True(t, IsKind(err, KindValidation))
}

func TestCaregiverAccessRepository_GrantSupersedes(t *testing.T) {
	repo := NewCaregiverAccess(testutil.NewDB(t))
	ctx := context.Background()

	first := &CaregiverAccess{PatientID: "patient-1", CaregiverID: "carer-1", AccessLevel: AccessAdmin, Active: true}
	superseded, err := repo.Grant(ctx, first)
	require.NoError(t, err)
	assert.Zero(t, superseded)

	second := &CaregiverAccess{PatientID: "patient-1", CaregiverID: "carer-1", AccessLevel: AccessRead, Active: true}
	superseded, err = repo.Grant(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), superseded)

	unrelated := &CaregiverAccess{PatientID: "patient-1", CaregiverID: "carer-2", Active: true}
	_, err = repo.Grant(ctx, unrelated)
	require.NoError(t, err)
	assert.Equal(t, AccessRead, unrelated.AccessLevel)

	active, err := repo.ActiveGrants(ctx, "carer-1", "patient-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
	assert.Equal(t, AccessRead, active[0].AccessLevel)

	all, err := repo.ListByPatient(ctx, "patient-1", true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	current, err := repo.ListByPatient(ctx, "patient-1", false)
	require.NoError(t, err)
	assert.Len(t, current, 2)
}

func TestCaregiverAccessRepository_Revoke(t *testing.T) {
	repo := NewCaregiverAccess(testutil.NewDB(t))
	ctx := context.Background()

	grant := &CaregiverAccess{PatientID: "patient-1", CaregiverID: "carer-1", AccessLevel: AccessWrite, Active: true}
	_, err := repo.Grant(ctx, grant)
	require.NoError(t, err)

	revoked, err := repo.Revoke(ctx, grant.ID)
	require.NoError(t, err)
	assert.False(t, revoked.Active)

	active, err := repo.ActiveGrants(ctx, "carer-1", "patient-1")
	require.NoError(t, err)
	assert.Empty(t, active)

	stored, err := repo.GetByID(ctx, grant.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	_, err = repo.Revoke(ctx, "missing")
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCaregiverAccessRepository_GrantValidation(t *testing.T) {
	repo := NewCaregiverAccess(testutil.NewDB(t))

	_, err := repo.Grant(context.Background(), &CaregiverAccess{PatientID: "p1", CaregiverID: "p1", AccessLevel: AccessRead, Active: true})
	assert.True(t, IsKind(err, KindValidation))

	_, err = repo.Grant(context.Background(), &CaregiverAccess{PatientID: "p1", CaregiverID: "c1", AccessLevel: "owner", Active: true})
	assert.True(t, IsKind(err, KindValidation))
}

func TestPainEntryRepository_CacheAside(t *testing.T) {
	db, server := testutil.NewCachedDB(t)
	records := server.DB(testutil.CacheRecordsDB)
	repo := NewPainEntry(db)
	ctx := context.Background()

	entry := &PainEntry{UserID: "patient-1", Intensity: 7}
	require.NoError(t, repo.Create(ctx, entry))
	key := painEntryCacheKey(entry.ID)
	assert.False(t, records.Exists(key), "create does not fill the cache")

	_, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, records.Exists(key))
	assert.Equal(t, PAIN_ENTRY_CACHE_EXPIRY, records.TTL(key))

	t.Run("hit is served without the database", func(t *testing.T) {
		require.NoError(t, db.SQL.Exec("UPDATE pain_entries SET intensity = 1 WHERE id = ?", entry.ID).Error)

		got, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Intensity)
	})

	t.Run("update evicts the entry", func(t *testing.T) {
		updated, err := repo.Update(ctx, entry.ID, PainEntryPatch{Intensity: testutil.IntPtr(9)})
		require.NoError(t, err)
		assert.Equal(t, 9, updated.Intensity)
		assert.False(t, records.Exists(key))

		got, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 9, got.Intensity)
	})

	t.Run("reads inside a transaction bypass the cache", func(t *testing.T) {
		repo.RemoveFromCache(ctx, entry.ID)
		ts := services.NewTransactionService(db)

		err := ts.Execute(ctx, func(txCtx context.Context) error {
			_, err := repo.Update(txCtx, entry.ID, PainEntryPatch{Intensity: testutil.IntPtr(4)})
			require.NoError(t, err)

			got, err := repo.GetByID(txCtx, entry.ID)
			require.NoError(t, err)
			assert.Equal(t, 4, got.Intensity)
			return errors.New("rolled back")
		})
		require.Error(t, err)
		assert.False(t, records.Exists(key), "uncommitted row was cached")

		got, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 9, got.Intensity)
	})

	t.Run("missing entry is not cached", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.True(t, IsKind(err, KindNotFound))
		assert.False(t, records.Exists(painEntryCacheKey("missing")))
	})
}
