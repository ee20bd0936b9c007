package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patitas/vets-api/internal/model"
	"github.com/patitas/vets-api/internal/repository"
)

// capturingMatcher accepts every query and records the SQL the
// repository actually issued, so tests can assert on the generated
// statement instead of pinning the full text.
func newMockVetRepository(t *testing.T) (repository.VetRepository, sqlmock.Sqlmock, *string) {
	t.Helper()

	var captured string
	matcher := sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
		captured = actualSQL
		return nil
	})

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewVetRepository(NewBaseRepository(sqlx.NewDb(db, "sqlmock")))
	return repo, mock, &captured
}

func searchResultRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "address", "is_verified", "google_maps_url",
		"longitude", "latitude", "distance_in_meters",
	}).AddRow(
		uuid.NewString(), "Clinica Central", "Av. Apoquindo 100", true, nil,
		-70.65, -33.44, 412.5,
	)
}

func TestFindNearbyQueryShape(t *testing.T) {
	repo, mock, captured := newMockVetRepository(t)
	mock.ExpectQuery("").WillReturnRows(searchResultRows())

	origin := model.Point{Longitude: -70.66, Latitude: -33.45}
	results, err := repo.FindNearby(context.Background(), origin, 5000)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Clinica Central", results[0].Name)
	assert.Equal(t, 412.5, results[0].DistanceInMeters)

	query := *captured
	assert.Contains(t, query, `"v"."is_verified" IS TRUE`)
	assert.Contains(t, query, "ST_DWithin")
	assert.Contains(t, query, "ST_Distance")
	assert.Regexp(t, `ORDER BY distance_in_meters ASC, "v"\."id" ASC`, query)
	assert.Regexp(t, `LIMIT (\$\d+|20)\s*$`, query)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindNearbyComposesPredicates(t *testing.T) {
	repo, mock, captured := newMockVetRepository(t)
	mock.ExpectQuery("").WillReturnRows(searchResultRows())

	at, err := model.ParseTimeOfDay("10:00")
	require.NoError(t, err)

	origin := model.Point{Longitude: -70.66, Latitude: -33.45}
	_, err = repo.FindNearby(context.Background(), origin, 2000,
		repository.ServiceOffered(2),
		repository.OpenAt(3, at),
	)
	require.NoError(t, err)

	// extra filters tighten the WHERE clause without touching the
	// verified restriction, ordering, or the cap
	query := *captured
	assert.Contains(t, query, `"v"."is_verified" IS TRUE`)
	assert.Contains(t, query, "vet_services")
	assert.Contains(t, query, "vet_opening_times")
	assert.Regexp(t, `ORDER BY distance_in_meters ASC, "v"\."id" ASC`, query)
	assert.Regexp(t, `LIMIT (\$\d+|20)\s*$`, query)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindNearbyEmptyResult(t *testing.T) {
	repo, mock, _ := newMockVetRepository(t)
	mock.ExpectQuery("").WillReturnRows(sqlmock.NewRows([]string{
		"id", "name", "address", "is_verified", "google_maps_url",
		"longitude", "latitude", "distance_in_meters",
	}))

	origin := model.Point{Longitude: -70.66, Latitude: -33.45}
	results, err := repo.FindNearby(context.Background(), origin, 1000,
		repository.ServiceOffered(9999))
	require.NoError(t, err)
	assert.Empty(t, results)

	require.NoError(t, mock.ExpectationsWereMet())
}
