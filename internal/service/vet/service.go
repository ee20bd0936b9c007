package vet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/patitas/vets-api/internal/model"
	"github.com/patitas/vets-api/internal/repository"
	"github.com/patitas/vets-api/internal/service/availability"
	apperrors "github.com/patitas/vets-api/pkg/errors"
)

// DefaultRadiusKm is applied when a search does not specify a radius.
const DefaultRadiusKm = 5

// SearchParams are the normalized inputs of a proximity search.
type SearchParams struct {
	Latitude  float64
	Longitude float64
	RadiusKm  int
	ServiceID *int
	OpenNow   bool
}

// RegisterInput carries everything a new vet registration needs: the
// clinic attributes, its location, offered services and full schedule.
type RegisterInput struct {
	Name          string
	Address       string
	Phone         *string
	Email         *string
	Description   *string
	GoogleMapsURL *string
	CommuneID     int
	Latitude      float64
	Longitude     float64
	ServiceIDs    []int
	OpeningTimes  []model.OpeningInterval
}

type VetServicer interface {
	Search(ctx context.Context, params SearchParams) ([]model.VetSearchResult, error)
	Get(ctx context.Context, id uuid.UUID) (*model.VetDetail, error)
	Register(ctx context.Context, ownerID uuid.UUID, input RegisterInput) (*model.Vet, error)
	Amend(ctx context.Context, ownerID, vetID uuid.UUID, update model.VetUpdate) (*model.Vet, error)
}

type Service struct {
	vets      repository.VetRepository
	catalog   repository.CatalogRepository
	schedules repository.ScheduleRepository
	outbox    repository.OutboxRepository
	tx        repository.TxManager
	evaluator *availability.Evaluator
	logger    zerolog.Logger
}

func NewService(
	vets repository.VetRepository,
	catalog repository.CatalogRepository,
	schedules repository.ScheduleRepository,
	outbox repository.OutboxRepository,
	tx repository.TxManager,
	evaluator *availability.Evaluator,
	logger zerolog.Logger,
) *Service {
	return &Service{
		vets:      vets,
		catalog:   catalog,
		schedules: schedules,
		outbox:    outbox,
		tx:        tx,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Search returns verified vets within the requested radius, ordered by
// ascending distance and capped by the repository. The service filter
// is advisory: an unknown id yields an empty result, not an error.
func (s *Service) Search(ctx context.Context, params SearchParams) ([]model.VetSearchResult, error) {
	origin := model.Point{Longitude: params.Longitude, Latitude: params.Latitude}
	if !origin.Valid() {
		return nil, apperrors.NewValidation("invalid coordinates", nil)
	}
	if params.RadiusKm < 1 {
		return nil, apperrors.NewValidation("radiusKm must be a positive integer", nil)
	}

	preds := []repository.SearchPredicate{}
	if params.ServiceID != nil {
		preds = append(preds, repository.ServiceOffered(*params.ServiceID))
	}
	if params.OpenNow {
		preds = append(preds, s.evaluator.OpenNowPredicate())
	}

	results, err := s.vets.FindNearby(ctx, origin, params.RadiusKm*1000, preds...)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", params.Latitude).
			Float64("lon", params.Longitude).
			Msg("proximity search failed")
		return nil, apperrors.NewInternal(err)
	}
	return results, nil
}

// Get returns the full public view of a verified vet.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.VetDetail, error) {
	detail, err := s.vets.GetDetail(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, apperrors.NewInternal(err)
	}
	return detail, nil
}

// Register creates the vet, its service offerings and its opening
// schedule in one transaction. Nothing is observable unless every row
// committed; unknown service or day ids roll the whole thing back.
func (s *Service) Register(ctx context.Context, ownerID uuid.UUID, input RegisterInput) (*model.Vet, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	vet := &model.Vet{
		Name:          input.Name,
		Address:       input.Address,
		Phone:         input.Phone,
		Email:         input.Email,
		Description:   input.Description,
		GoogleMapsURL: input.GoogleMapsURL,
		CommuneID:     input.CommuneID,
		UserID:        ownerID,
		Longitude:     input.Longitude,
		Latitude:      input.Latitude,
	}

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.vets.CreateTx(ctx, tx, vet); err != nil {
			return err
		}
		if err := s.catalog.AttachServicesTx(ctx, tx, vet.ID, input.ServiceIDs); err != nil {
			return err
		}
		if err := s.schedules.ReplaceIntervalsTx(ctx, tx, vet.ID, input.OpeningTimes); err != nil {
			return err
		}
		return s.writeEventTx(ctx, tx, model.EventVetRegistered, vet)
	})
	if err != nil {
		if apperrors.IsValidation(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("owner_id", ownerID.String()).Msg("vet registration failed")
		return nil, apperrors.NewInternal(err)
	}

	return vet, nil
}

// Amend applies a partial update on behalf of the owning user.
// Existence is checked before ownership, so an unknown id reports
// NotFound and a non-owner on an existing vet reports Forbidden.
func (s *Service) Amend(ctx context.Context, ownerID, vetID uuid.UUID, update model.VetUpdate) (*model.Vet, error) {
	current, err := s.vets.Get(ctx, vetID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, apperrors.NewInternal(err)
	}
	if current.UserID != ownerID {
		return nil, apperrors.NewForbidden("only the owner may edit this vet", nil)
	}

	if update.Empty() {
		return current, nil
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.vets.UpdateFieldsTx(ctx, tx, vetID, update); err != nil {
			return err
		}
		if point, ok := update.LocationUpdate(); ok {
			if !point.Valid() {
				return apperrors.NewValidation("invalid coordinates", nil)
			}
			if err := s.vets.UpdateLocationTx(ctx, tx, vetID, point); err != nil {
				return err
			}
		}
		return s.writeEventTx(ctx, tx, model.EventVetAmended, map[string]interface{}{
			"id":     vetID,
			"fields": update,
		})
	})
	if err != nil {
		switch apperrors.CodeOf(err) {
		case apperrors.ErrValidation, apperrors.ErrNotFound:
			return nil, err
		}
		s.logger.Error().Err(err).Str("vet_id", vetID.String()).Msg("vet amendment failed")
		return nil, apperrors.NewInternal(err)
	}

	return s.vets.Get(ctx, vetID)
}

func (s *Service) writeEventTx(ctx context.Context, tx *sqlx.Tx, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return s.outbox.CreateTx(ctx, tx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	})
}

func validateRegisterInput(input RegisterInput) error {
	if input.Name == "" {
		return apperrors.NewValidation("name is required", nil)
	}
	if input.Address == "" {
		return apperrors.NewValidation("address is required", nil)
	}
	point := model.Point{Longitude: input.Longitude, Latitude: input.Latitude}
	if !point.Valid() {
		return apperrors.NewValidation("invalid coordinates", nil)
	}
	if len(input.ServiceIDs) == 0 {
		return apperrors.NewValidation("at least one service is required", nil)
	}
	if len(input.OpeningTimes) == 0 {
		return apperrors.NewValidation("at least one opening time is required", nil)
	}
	for _, interval := range input.OpeningTimes {
		if interval.DayOfWeekID < model.Monday || interval.DayOfWeekID > model.Sunday {
			return apperrors.NewValidation(
				fmt.Sprintf("dayOfWeekId must be between 1 and 7, got %d", interval.DayOfWeekID), nil)
		}
	}
	return nil
}
