package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patitas/vets-api/internal/model"
)

type countingRepo struct {
	serviceCalls int
	communeCalls int
	dayCalls     int
	err          error
}

func (r *countingRepo) ListServices(ctx context.Context) ([]model.Service, error) {
	r.serviceCalls++
	if r.err != nil {
		return nil, r.err
	}
	return []model.Service{{ID: 1, Name: "Consulta general"}, {ID: 2, Name: "Vacunas"}}, nil
}

func (r *countingRepo) ListCommunes(ctx context.Context) ([]model.Commune, error) {
	r.communeCalls++
	return []model.Commune{{ID: 12, Name: "San Bernardo"}}, nil
}

func (r *countingRepo) ListDaysOfWeek(ctx context.Context) ([]model.DayOfWeek, error) {
	r.dayCalls++
	return []model.DayOfWeek{{ID: 1, Name: "Lunes"}}, nil
}

func (r *countingRepo) ServicesOf(ctx context.Context, vetID uuid.UUID) ([]model.Service, error) {
	return nil, nil
}

func (r *countingRepo) AttachServicesTx(ctx context.Context, tx *sqlx.Tx, vetID uuid.UUID, serviceIDs []int) error {
	return nil
}

func TestListServicesCachesResult(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo)

	first, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.serviceCalls, "second call must be served from cache")
}

func TestListServicesErrorIsNotCached(t *testing.T) {
	repo := &countingRepo{err: errors.New("db down")}
	svc := NewService(repo)

	_, err := svc.ListServices(context.Background())
	require.Error(t, err)

	repo.err = nil
	services, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	assert.Len(t, services, 2)
	assert.Equal(t, 2, repo.serviceCalls)
}

func TestCatalogsUseSeparateCacheKeys(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo)

	_, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	communes, err := svc.ListCommunes(context.Background())
	require.NoError(t, err)
	days, err := svc.ListDaysOfWeek(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "San Bernardo", communes[0].Name)
	assert.Equal(t, "Lunes", days[0].Name)
	assert.Equal(t, 1, repo.serviceCalls)
	assert.Equal(t, 1, repo.communeCalls)
	assert.Equal(t, 1, repo.dayCalls)
}
