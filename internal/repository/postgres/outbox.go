package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/patitas/vets-api/internal/model"
	"github.com/patitas/vets-api/internal/repository"
)

type outboxRepository struct {
	BaseRepository
}

func NewOutboxRepository(base BaseRepository) repository.OutboxRepository {
	return &outboxRepository{base}
}

// CreateTx writes the event in the same transaction as the state change
// it describes, so the event is visible exactly when the change is.
func (r *outboxRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error {
	if event == nil || event.Payload == nil {
		return fmt.Errorf("event and payload are required")
	}

	query := `
		INSERT INTO outbox_events (
			id, event_type, payload, status, retry_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, 0, $5, $6
		)
	`
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error_message, retry_count, created_at, updated_at
		FROM outbox_events
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	events := []*model.OutboxEvent{}
	err := r.db.SelectContext(ctx, &events, query, string(model.OutboxStatusPending), limit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, model.OutboxStatusProcessed, time.Now(), id); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	query := `
		UPDATE outbox_events
		SET status = $1, error_message = $2, retry_count = retry_count + 1, updated_at = $3
		WHERE id = $4
	`
	if _, err := r.db.ExecContext(ctx, query, model.OutboxStatusFailed, errMsg, time.Now(), id); err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return nil
}
