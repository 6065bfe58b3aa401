package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"painlog/config"
	"painlog/internal/events"
	"painlog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValkeySink_Publish(t *testing.T) {
	server := testutil.NewCacheServer(t)
	client := testutil.NewCacheClient(t, server, testutil.CacheEventsDB)

	subscriber := server.NewSubscriber()
	defer subscriber.Close()
	subscriber.Subscribe("painlog:events")

	bus := events.New(client, config.Config{})
	defer bus.Close()

	bus.Publish(context.Background(), events.PainEntryCreated, "patient-1", map[string]any{"intensity": 8})

	select {
	case message := <-subscriber.Messages():
		assert.Equal(t, "painlog:events", message.Channel)

		var event events.Event
		require.NoError(t, json.Unmarshal([]byte(message.Message), &event))
		assert.Equal(t, events.PainEntryCreated, event.Type)
		assert.Equal(t, "patient-1", event.UserID)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, float64(8), event.Data.(map[string]any)["intensity"])
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published to valkey")
	}
}
