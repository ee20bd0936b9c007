package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/patitas/vets-api/internal/model"
	"github.com/patitas/vets-api/internal/repository"
	apperrors "github.com/patitas/vets-api/pkg/errors"
)

// maxSearchResults caps every proximity query. Fixed by the API
// contract, not configurable.
const maxSearchResults = 20

var qb = goqu.Dialect("postgres")

type vetRepository struct {
	BaseRepository
}

func NewVetRepository(base BaseRepository) repository.VetRepository {
	return &vetRepository{base}
}

func (r *vetRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, vet *model.Vet) error {
	query := `
		INSERT INTO vets (
			id, name, address, phone, email, description, google_maps_url,
			commune_id, user_id, location,
			is_verified, how_to_go_count, visits_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, ST_SetSRID(ST_MakePoint($10, $11), 4326)::geography,
			FALSE, 0, 0, $12, $13
		)
	`
	vet.ID = uuid.New()
	vet.CreatedAt = time.Now()
	vet.UpdatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		vet.ID,
		vet.Name,
		vet.Address,
		vet.Phone,
		vet.Email,
		vet.Description,
		vet.GoogleMapsURL,
		vet.CommuneID,
		vet.UserID,
		vet.Longitude,
		vet.Latitude,
		vet.CreatedAt,
		vet.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "failed to create vet")
	}
	return nil
}

const vetColumns = `
	id, name, address, phone, email, description, google_maps_url,
	commune_id, user_id,
	ST_X(location::geometry) AS longitude,
	ST_Y(location::geometry) AS latitude,
	is_verified, how_to_go_count, visits_count, created_at, updated_at
`

func (r *vetRepository) Get(ctx context.Context, id uuid.UUID) (*model.Vet, error) {
	query := `SELECT ` + vetColumns + ` FROM vets WHERE id = $1`

	var vet model.Vet
	err := r.db.GetContext(ctx, &vet, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("vet", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vet: %w", err)
	}
	return &vet, nil
}

// GetDetail loads the full public view. Only verified vets are visible
// on the public read path.
func (r *vetRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.VetDetail, error) {
	query := `SELECT ` + vetColumns + ` FROM vets WHERE id = $1 AND is_verified = TRUE`

	var detail model.VetDetail
	err := r.db.GetContext(ctx, &detail.Vet, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("vet", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vet detail: %w", err)
	}

	if err := r.loadAssociations(ctx, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *vetRepository) loadAssociations(ctx context.Context, detail *model.VetDetail) error {
	var commune model.Commune
	err := r.db.GetContext(ctx, &commune,
		`SELECT id, name, region FROM communes WHERE id = $1`, detail.CommuneID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to load commune: %w", err)
	}
	if err == nil {
		detail.Commune = &commune
	}

	detail.Images = []model.VetImage{}
	err = r.db.SelectContext(ctx, &detail.Images,
		`SELECT id, url, position FROM vet_images WHERE vet_id = $1 ORDER BY position ASC`,
		detail.ID)
	if err != nil {
		return fmt.Errorf("failed to load images: %w", err)
	}

	detail.Services = []model.Service{}
	err = r.db.SelectContext(ctx, &detail.Services, `
		SELECT s.id, s.name
		FROM services s
		JOIN vet_services vs ON vs.service_id = s.id
		WHERE vs.vet_id = $1
		ORDER BY s.id ASC
	`, detail.ID)
	if err != nil {
		return fmt.Errorf("failed to load services: %w", err)
	}

	detail.OpeningTimes = []model.OpeningInterval{}
	err = r.db.SelectContext(ctx, &detail.OpeningTimes, `
		SELECT ot.id, ot.day_of_week_id, d.name AS day_name, ot.start_time, ot.end_time
		FROM vet_opening_times ot
		JOIN days_of_week d ON d.id = ot.day_of_week_id
		WHERE ot.vet_id = $1
		ORDER BY ot.day_of_week_id ASC, ot.start_time ASC
	`, detail.ID)
	if err != nil {
		return fmt.Errorf("failed to load opening times: %w", err)
	}

	var owner model.UserSummary
	err = r.db.GetContext(ctx, &owner,
		`SELECT id, name FROM users WHERE id = $1`, detail.UserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to load owner: %w", err)
	}
	if err == nil {
		detail.Owner = &owner
	}

	return nil
}

// UpdateFieldsTx applies only the fields present in update; omitted
// fields keep their stored values. Coordinates are handled separately
// by UpdateLocationTx.
func (r *vetRepository) UpdateFieldsTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, update model.VetUpdate) error {
	record := goqu.Record{"updated_at": time.Now()}
	if update.Name != nil {
		record["name"] = *update.Name
	}
	if update.Address != nil {
		record["address"] = *update.Address
	}
	if update.Phone != nil {
		record["phone"] = *update.Phone
	}
	if update.Email != nil {
		record["email"] = *update.Email
	}
	if update.Description != nil {
		record["description"] = *update.Description
	}
	if update.GoogleMapsURL != nil {
		record["google_maps_url"] = *update.GoogleMapsURL
	}
	if update.CommuneID != nil {
		record["commune_id"] = *update.CommuneID
	}

	query, args, err := qb.Update("vets").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return translateError(err, "failed to update vet")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("vet", nil)
	}
	return nil
}

func (r *vetRepository) UpdateLocationTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, p model.Point) error {
	query := `
		UPDATE vets
		SET location = ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
		    updated_at = $3
		WHERE id = $4
	`
	result, err := tx.ExecContext(ctx, query, p.Longitude, p.Latitude, time.Now(), id)
	if err != nil {
		return translateError(err, "failed to update vet location")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("vet", nil)
	}
	return nil
}

// FindNearby runs the composed proximity query in one round trip.
// Distance is computed by PostGIS against the stored geography, so the
// radius filter and the reported distance share one spatial reference.
func (r *vetRepository) FindNearby(ctx context.Context, origin model.Point, radiusMeters int, preds ...repository.SearchPredicate) ([]model.VetSearchResult, error) {
	originExpr := goqu.L(
		"ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography",
		origin.Longitude, origin.Latitude,
	)

	conditions := []goqu.Expression{
		goqu.I("v.is_verified").IsTrue(),
		goqu.L("ST_DWithin(v.location, ?, ?)", originExpr, radiusMeters),
	}
	for _, p := range preds {
		conditions = append(conditions, p.Expression())
	}

	ds := qb.From(goqu.T("vets").As("v")).
		Select(
			goqu.I("v.id"),
			goqu.I("v.name"),
			goqu.I("v.address"),
			goqu.I("v.is_verified"),
			goqu.I("v.google_maps_url"),
			goqu.L("ST_X(v.location::geometry)").As("longitude"),
			goqu.L("ST_Y(v.location::geometry)").As("latitude"),
			goqu.L("ST_Distance(v.location, ?)", originExpr).As("distance_in_meters"),
		).
		Where(conditions...).
		Order(
			goqu.L("distance_in_meters").Asc(),
			goqu.I("v.id").Asc(),
		).
		Limit(maxSearchResults)

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	results := []model.VetSearchResult{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search vets: %w", err)
	}
	return results, nil
}
