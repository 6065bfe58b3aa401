package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"painlog/config"
	"painlog/internal/database"
	"painlog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) database.DB {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDbPath: filepath.Join(t.TempDir(), "services.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.SQL.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)").Error)
	return db
}

func countNotes(t *testing.T, db database.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.SQL.Table("notes").Count(&count).Error)
	return count
}

func TestTransactionService_Execute(t *testing.T) {
	tests := []struct {
		name      string
		fnErr     error
		wantCount int64
	}{
		{name: "commits on success", wantCount: 1},
		{name: "rolls back on error", fnErr: errors.New("validation failed"), wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			ts := NewTransactionService(db)

			err := ts.Execute(context.Background(), func(ctx context.Context) error {
				tx, ok := GetTransaction(ctx)
				require.True(t, ok)
				require.NoError(t, tx.Exec("INSERT INTO notes (body) VALUES (?)", "dor forte").Error)
				return tt.fnErr
			})

			if tt.fnErr != nil {
				assert.ErrorIs(t, err, tt.fnErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCount, countNotes(t, db))
		})
	}
}

func TestTransactionService_NestedReusesOuter(t *testing.T) {
	db := newTestDB(t)
	ts := NewTransactionService(db)

	err := ts.Execute(context.Background(), func(outer context.Context) error {
		outerTx, _ := GetTransaction(outer)
		return ts.Execute(outer, func(inner context.Context) error {
			innerTx, ok := GetTransaction(inner)
			require.True(t, ok)
			assert.Same(t, outerTx, innerTx)
			return nil
		})
	})
	assert.NoError(t, err)
}

func TestGetTransaction_Absent(t *testing.T) {
	_, ok := GetTransaction(context.Background())
	assert.False(t, ok)
}

func TestTrendCacheService_WithoutCache(t *testing.T) {
	svc := NewTrendCacheService(nil, 0)
	ctx := context.Background()

	svc.Set(ctx, "patient-1", 0, 30, map[string]int{"total_entries": 2})

	var dest map[string]int
	_, found := svc.Get(ctx, "patient-1", 30, &dest)
	assert.False(t, found)
	assert.NotPanics(t, func() { svc.Invalidate(ctx, "patient-1") })
}

func TestTrendCacheService_HitAndTTL(t *testing.T) {
	server := testutil.NewCacheServer(t)
	svc := NewTrendCacheService(testutil.NewCacheClient(t, server, testutil.CacheGeneralDB), 5*time.Minute)
	ctx := context.Background()

	var dest map[string]int
	generation, found := svc.Get(ctx, "patient-1", 30, &dest)
	require.False(t, found)
	assert.Equal(t, TrendGeneration(0), generation)

	svc.Set(ctx, "patient-1", generation, 30, map[string]int{"total_entries": 2})
	assert.Equal(t, 5*time.Minute, server.TTL(TrendKey("patient-1", 0, 30)))

	_, found = svc.Get(ctx, "patient-1", 30, &dest)
	require.True(t, found)
	assert.Equal(t, map[string]int{"total_entries": 2}, dest)

	_, found = svc.Get(ctx, "patient-2", 30, &dest)
	assert.False(t, found, "other users do not share entries")

	server.FastForward(6 * time.Minute)
	_, found = svc.Get(ctx, "patient-1", 30, &dest)
	assert.False(t, found)
}

func TestTrendCacheService_InvalidateDropsEveryWindow(t *testing.T) {
	server := testutil.NewCacheServer(t)
	svc := NewTrendCacheService(testutil.NewCacheClient(t, server, testutil.CacheGeneralDB), time.Hour)
	ctx := context.Background()

	var dest map[string]int
	for _, days := range []int{7, 30, 90} {
		generation, _ := svc.Get(ctx, "patient-1", days, &dest)
		svc.Set(ctx, "patient-1", generation, days, map[string]int{"days": days})
	}
	generation, _ := svc.Get(ctx, "patient-2", 30, &dest)
	svc.Set(ctx, "patient-2", generation, 30, map[string]int{"days": 30})

	svc.Invalidate(ctx, "patient-1")

	for _, days := range []int{7, 30, 90} {
		_, found := svc.Get(ctx, "patient-1", days, &dest)
		assert.False(t, found, "window %d", days)
		assert.False(t, server.Exists(TrendKey("patient-1", 0, days)), "window %d", days)
	}
	_, found := svc.Get(ctx, "patient-2", 30, &dest)
	assert.True(t, found)
}

func TestTrendCacheService_StaleSetAfterInvalidate(t *testing.T) {
	server := testutil.NewCacheServer(t)
	svc := NewTrendCacheService(testutil.NewCacheClient(t, server, testutil.CacheGeneralDB), time.Hour)
	ctx := context.Background()

	var dest map[string]int
	generation, found := svc.Get(ctx, "patient-1", 30, &dest)
	require.False(t, found)

	// a write commits between the read and the cache fill
	svc.Invalidate(ctx, "patient-1")
	svc.Set(ctx, "patient-1", generation, 30, map[string]int{"total_entries": 1})

	current, found := svc.Get(ctx, "patient-1", 30, &dest)
	assert.False(t, found)
	assert.Equal(t, generation+1, current)

	svc.Set(ctx, "patient-1", current, 30, map[string]int{"total_entries": 2})
	_, found = svc.Get(ctx, "patient-1", 30, &dest)
	require.True(t, found)
	assert.Equal(t, 2, dest["total_entries"])
}

func TestTrendCacheService_UnreadableGenerationSkipsSet(t *testing.T) {
	server := testutil.NewCacheServer(t)
	svc := NewTrendCacheService(testutil.NewCacheClient(t, server, testutil.CacheGeneralDB), time.Hour)
	ctx := context.Background()

	require.NoError(t, server.Set(trendGenerationKey("patient-1"), "not-a-number"))

	var dest map[string]int
	generation, found := svc.Get(ctx, "patient-1", 30, &dest)
	assert.False(t, found)
	assert.Less(t, int64(generation), int64(0))

	svc.Set(ctx, "patient-1", generation, 30, map[string]int{"total_entries": 1})
	assert.Equal(t, []string{trendGenerationKey("patient-1")}, server.Keys())
}

func TestTrendKey(t *testing.T) {
	assert.Equal(t, "trends:patient-1:3:30", TrendKey("patient-1", 3, 30))
	assert.Equal(t, "trends:patient-1:keys", trendIndexKey("patient-1"))
	assert.Equal(t, "trends:patient-1:gen", trendGenerationKey("patient-1"))
}
