package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/patitas/vets-api/internal/model"
	"github.com/patitas/vets-api/internal/repository"
	"github.com/patitas/vets-api/pkg/logger"
	"github.com/patitas/vets-api/pkg/messaging"
)

// EventsChannel is the Redis channel vet lifecycle events are
// published on.
const EventsChannel = "vets.events"

var (
	processedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_processed_total",
		Help: "The total number of processed outbox events",
	})
	failedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "The total number of failed outbox events",
	})
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// OutboxProcessor drains pending outbox rows and publishes them to the
// message broker. Rows that fail to publish are marked failed with the
// error recorded; they are not retried automatically.
type OutboxProcessor struct {
	repo      repository.OutboxRepository
	broker    messaging.Broker
	logger    *logger.Logger
	batchSize int
	interval  time.Duration
}

func NewOutboxProcessor(repo repository.OutboxRepository, broker messaging.Broker, log *logger.Logger) *OutboxProcessor {
	return &OutboxProcessor{
		repo:      repo,
		broker:    broker,
		logger:    log,
		batchSize: 50,
		interval:  5 * time.Second,
	}
}

// Start runs the polling loop until ctx is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopping")
			return
		case <-ticker.C:
			p.processBatch(ctx)
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) {
	events, err := p.repo.GetPendingEvents(ctx, p.batchSize)
	if err != nil {
		p.logger.Error(err, "failed to fetch pending events")
		return
	}

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			failedEvents.Inc()
			msg := err.Error()
			if markErr := p.repo.MarkFailed(ctx, event.ID, msg); markErr != nil {
				p.logger.Error(markErr, "failed to mark event failed")
			}
			continue
		}

		processedEvents.Inc()
		if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
			p.logger.Error(err, "failed to mark event processed")
		}
	}
}

func (p *OutboxProcessor) publish(ctx context.Context, event *model.OutboxEvent) error {
	data, err := json.Marshal(envelope{
		Type:    event.EventType,
		Payload: event.Payload,
	})
	if err != nil {
		return err
	}
	return p.broker.Publish(ctx, EventsChannel, data)
}
