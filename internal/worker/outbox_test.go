package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patitas/vets-api/internal/model"
	"github.com/patitas/vets-api/pkg/logger"
)

type fakeOutboxRepo struct {
	pending   []*model.OutboxEvent
	processed []uuid.UUID
	failed    map[uuid.UUID]string
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{pending: events, failed: map[uuid.UUID]string{}}
}

func (f *fakeOutboxRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error {
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	if limit < len(f.pending) {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	f.processed = append(f.processed, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	f.failed[id] = errMsg
	return nil
}

type fakeBroker struct {
	published map[string][][]byte
	err       error
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{published: map[string][][]byte{}}
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	if b.err != nil {
		return b.err
	}
	b.published[channel] = append(b.published[channel], payload)
	return nil
}

func (b *fakeBroker) Close() error { return nil }

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func registeredEvent() *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventVetRegistered,
		Payload:   json.RawMessage(`{"id":"abc","name":"Clinica Central"}`),
		Status:    model.OutboxStatusPending,
	}
}

func TestProcessBatchPublishesAndMarksProcessed(t *testing.T) {
	event := registeredEvent()
	repo := newFakeOutboxRepo(event)
	broker := newFakeBroker()

	p := NewOutboxProcessor(repo, broker, testLogger())
	p.processBatch(context.Background())

	require.Len(t, broker.published[EventsChannel], 1)
	assert.Equal(t, []uuid.UUID{event.ID}, repo.processed)
	assert.Empty(t, repo.failed)

	var env envelope
	require.NoError(t, json.Unmarshal(broker.published[EventsChannel][0], &env))
	assert.Equal(t, model.EventVetRegistered, env.Type)
	assert.JSONEq(t, string(event.Payload), string(env.Payload))
}

func TestProcessBatchMarksFailedOnPublishError(t *testing.T) {
	event := registeredEvent()
	repo := newFakeOutboxRepo(event)
	broker := newFakeBroker()
	broker.err = errors.New("broker unavailable")

	p := NewOutboxProcessor(repo, broker, testLogger())
	p.processBatch(context.Background())

	assert.Empty(t, repo.processed)
	assert.Equal(t, "broker unavailable", repo.failed[event.ID])
}

func TestProcessBatchContinuesAfterFailure(t *testing.T) {
	failing := registeredEvent()
	ok := registeredEvent()
	repo := newFakeOutboxRepo(failing, ok)
	broker := newFakeBroker()

	calls := 0
	brokerWithOneFailure := &flakyBroker{inner: broker, failFirst: &calls}

	p := NewOutboxProcessor(repo, brokerWithOneFailure, testLogger())
	p.processBatch(context.Background())

	assert.Contains(t, repo.failed, failing.ID)
	assert.Equal(t, []uuid.UUID{ok.ID}, repo.processed)
}

type flakyBroker struct {
	inner     *fakeBroker
	failFirst *int
}

func (b *flakyBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	*b.failFirst++
	if *b.failFirst == 1 {
		return errors.New("transient failure")
	}
	return b.inner.Publish(ctx, channel, payload)
}

func (b *flakyBroker) Close() error { return nil }
