package events

import (
	"context"
	"encoding/json"
	"time"

	"painlog/config"
	"painlog/internal/database"
	"painlog/internal/logger"

	"github.com/google/uuid"
)

const (
	PainEntryCreated       = "pain_entry.created"
	PainEntryUpdated       = "pain_entry.updated"
	MedicationCreated      = "medication.created"
	MedicationDeactivated  = "medication.deactivated"
	TherapyCreated         = "therapy.created"
	CaregiverAccessGranted = "caregiver_access.granted"
	CaregiverAccessRevoked = "caregiver_access.revoked"
	VoiceCommandProcessed  = "voice_command.processed"
)

const (
	publishTimeout = 5 * time.Second
	valkeyChannel  = "painlog:events"
)

// Event is the audit record emitted after a successful write. Events are
// informational only; nothing in the service consumes them.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Sink interface {
	Name() string
	Publish(ctx context.Context, event Event, payload []byte) error
	Close() error
}

type EventBus struct {
	sinks []Sink
	log   logger.Logger
}

// New builds the bus from whatever transports are configured. With no cache
// and no brokers the bus is valid and drops every event.
func New(cache database.CacheClient, config config.Config) *EventBus {
	var sinks []Sink
	if cache != nil {
		sinks = append(sinks, NewValkeySink(cache, valkeyChannel))
	}
	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		sinks = append(sinks, NewKafkaSink(brokers, config.EventsKafkaTopic))
	}
	return NewWithSinks(sinks...)
}

func NewWithSinks(sinks ...Sink) *EventBus {
	return &EventBus{
		sinks: sinks,
		log:   logger.New("events"),
	}
}

// Publish fans the event out to every sink. Delivery is best effort: a sink
// failure is logged and never fails the write that produced the event.
func (b *EventBus) Publish(ctx context.Context, eventType string, userID string, data any) {
	if b == nil || len(b.sinks) == 0 {
		return
	}
	log := b.log.Function("Publish")

	event := Event{
		ID:        newEventID(),
		Type:      eventType,
		UserID:    userID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Er("failed to marshal event", err, "type", eventType)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	for _, sink := range b.sinks {
		if err := sink.Publish(ctx, event, payload); err != nil {
			log.Warn("failed to publish event", "sink", sink.Name(), "type", eventType, "error", err)
			continue
		}
		log.Debug("Published event", "sink", sink.Name(), "type", eventType, "id", event.ID)
	}
}

func (b *EventBus) Close() error {
	var firstErr error
	for _, sink := range b.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = b.log.Function("Close").Err("failed to close event sink", err, "sink", sink.Name())
		}
	}
	return firstErr
}

func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
