package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/patitas/vets-api/internal/model"
	"github.com/patitas/vets-api/internal/repository"
)

type catalogRepository struct {
	BaseRepository
}

func NewCatalogRepository(base BaseRepository) repository.CatalogRepository {
	return &catalogRepository{base}
}

func (r *catalogRepository) ListServices(ctx context.Context) ([]model.Service, error) {
	services := []model.Service{}
	err := r.db.SelectContext(ctx, &services,
		`SELECT id, name FROM services ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *catalogRepository) ListCommunes(ctx context.Context) ([]model.Commune, error) {
	communes := []model.Commune{}
	err := r.db.SelectContext(ctx, &communes,
		`SELECT id, name, region FROM communes ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list communes: %w", err)
	}
	return communes, nil
}

func (r *catalogRepository) ListDaysOfWeek(ctx context.Context) ([]model.DayOfWeek, error) {
	days := []model.DayOfWeek{}
	err := r.db.SelectContext(ctx, &days,
		`SELECT id, name FROM days_of_week ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list days of week: %w", err)
	}
	return days, nil
}

func (r *catalogRepository) ServicesOf(ctx context.Context, vetID uuid.UUID) ([]model.Service, error) {
	services := []model.Service{}
	err := r.db.SelectContext(ctx, &services, `
		SELECT s.id, s.name
		FROM services s
		JOIN vet_services vs ON vs.service_id = s.id
		WHERE vs.vet_id = $1
		ORDER BY s.id ASC
	`, vetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vet services: %w", err)
	}
	return services, nil
}

// AttachServicesTx inserts the (vet, service) association rows. An
// unknown service id trips the foreign key and surfaces as a
// Validation error, rolling back the enclosing transaction.
func (r *catalogRepository) AttachServicesTx(ctx context.Context, tx *sqlx.Tx, vetID uuid.UUID, serviceIDs []int) error {
	if len(serviceIDs) == 0 {
		return nil
	}

	rows := make([]interface{}, 0, len(serviceIDs))
	for _, serviceID := range serviceIDs {
		rows = append(rows, goqu.Record{
			"vet_id":     vetID,
			"service_id": serviceID,
		})
	}

	query, args, err := qb.Insert("vet_services").Rows(rows...).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return translateError(err, "failed to attach services")
	}
	return nil
}
