package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/patitas/vets-api/internal/model"
)

// TxManager runs a function inside a database transaction, rolling back
// on error or panic.
type TxManager interface {
	WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
}

// VetRepository persists vet clinics and answers proximity queries.
type VetRepository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, vet *model.Vet) error
	Get(ctx context.Context, id uuid.UUID) (*model.Vet, error)
	// GetDetail returns the full public view of a verified vet.
	GetDetail(ctx context.Context, id uuid.UUID) (*model.VetDetail, error)
	UpdateFieldsTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, update model.VetUpdate) error
	UpdateLocationTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, p model.Point) error
	// FindNearby returns verified vets within radiusMeters of origin,
	// annotated with distance, ordered ascending (ties by id), capped at
	// the search result limit. Optional predicates are AND-combined with
	// the radius filter in a single query.
	FindNearby(ctx context.Context, origin model.Point, radiusMeters int, preds ...SearchPredicate) ([]model.VetSearchResult, error)
}

// CatalogRepository serves the fixed reference catalogs and the
// vet-to-service association.
type CatalogRepository interface {
	ListServices(ctx context.Context) ([]model.Service, error)
	ListCommunes(ctx context.Context) ([]model.Commune, error)
	ListDaysOfWeek(ctx context.Context) ([]model.DayOfWeek, error)
	ServicesOf(ctx context.Context, vetID uuid.UUID) ([]model.Service, error)
	AttachServicesTx(ctx context.Context, tx *sqlx.Tx, vetID uuid.UUID, serviceIDs []int) error
}

// ScheduleRepository persists per-day opening intervals.
type ScheduleRepository interface {
	ReplaceIntervalsTx(ctx context.Context, tx *sqlx.Tx, vetID uuid.UUID, intervals []model.OpeningInterval) error
	IntervalsForDay(ctx context.Context, vetID uuid.UUID, dayOfWeekID int) ([]model.OpeningInterval, error)
}

// OutboxRepository stores integration events for asynchronous publishing.
type OutboxRepository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}
