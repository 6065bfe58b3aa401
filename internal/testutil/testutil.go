// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"painlog/config"
	"painlog/internal/database"
	"painlog/internal/events"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
)

// NewDB opens a migrated sqlite database in the test's temp directory.
func NewDB(t *testing.T) database.DB {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDbPath: filepath.Join(t.TempDir(), "painlog.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(database.MigrateUp, 0)
	require.NoError(t, err)

	return db
}

// Logical cache databases, matching database.New.
const (
	CacheGeneralDB = 0
	CacheRecordsDB = 1
	CacheEventsDB  = 2
)

// NewCacheServer starts an in-process valkey-compatible server that stops
// with the test.
func NewCacheServer(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	return miniredis.RunT(t)
}

// NewCacheClient connects to logical database db on server the same way
// database.New does.
func NewCacheClient(t *testing.T, server *miniredis.Miniredis, db int) database.CacheClient {
	t.Helper()

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{server.Addr()},
		SelectDB:     db,
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client
}

// NewCachedDB is NewDB with every cache client backed by one server.
func NewCachedDB(t *testing.T) (database.DB, *miniredis.Miniredis) {
	t.Helper()

	db := NewDB(t)
	server := NewCacheServer(t)
	db.Cache = database.Cache{
		General: NewCacheClient(t, server, CacheGeneralDB),
		Records: NewCacheClient(t, server, CacheRecordsDB),
		Events:  NewCacheClient(t, server, CacheEventsDB),
	}

	return db, server
}

type RecordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

var _ events.Sink = (*RecordingSink)(nil)

func (s *RecordingSink) Name() string { return "recording" }

func (s *RecordingSink) Publish(_ context.Context, event events.Event, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *RecordingSink) Close() error { return nil }

// Types returns the event types published so far, in order.
func (s *RecordingSink) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := make([]string, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.Type)
	}
	return types
}

func IntPtr(i int) *int {
	return &i
}

func StringPtr(s string) *string {
	return &s
}
