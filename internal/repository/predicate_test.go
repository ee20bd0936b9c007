package repository

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patitas/vets-api/internal/model"
)

func buildWhere(t *testing.T, pred SearchPredicate) (string, []interface{}) {
	t.Helper()
	query, args, err := goqu.Dialect("postgres").
		From(goqu.T("vets").As("v")).
		Select(goqu.I("v.id")).
		Where(pred.Expression()).
		Prepared(true).
		ToSQL()
	require.NoError(t, err)
	return query, args
}

func TestServiceOfferedPredicate(t *testing.T) {
	query, args := buildWhere(t, ServiceOffered(3))

	assert.Contains(t, query, "EXISTS")
	assert.Contains(t, query, "vet_services")
	assert.Contains(t, query, "vs.vet_id = v.id")
	require.Len(t, args, 1)
	assert.EqualValues(t, 3, args[0])
}

func TestOpenAtPredicate(t *testing.T) {
	at, err := model.ParseTimeOfDay("23:30")
	require.NoError(t, err)

	query, args := buildWhere(t, OpenAt(2, at))

	assert.Contains(t, query, "EXISTS")
	assert.Contains(t, query, "vet_opening_times")
	assert.Contains(t, query, "ot.day_of_week_id")
	// same-day and overnight branches are both present
	assert.Contains(t, query, "ot.start_time <= ot.end_time")
	assert.Contains(t, query, "ot.start_time > ot.end_time")

	require.Len(t, args, 5)
	assert.EqualValues(t, 2, args[0])
	for _, arg := range args[1:] {
		assert.Equal(t, "23:30:00", arg)
	}
}

func TestPredicatesCompose(t *testing.T) {
	at, err := model.ParseTimeOfDay("10:00")
	require.NoError(t, err)

	query, args, err := goqu.Dialect("postgres").
		From(goqu.T("vets").As("v")).
		Select(goqu.I("v.id")).
		Where(
			goqu.I("v.is_verified").IsTrue(),
			ServiceOffered(1).Expression(),
			OpenAt(5, at).Expression(),
		).
		Prepared(true).
		ToSQL()
	require.NoError(t, err)

	assert.Contains(t, query, `"v"."is_verified" IS TRUE`)
	assert.Contains(t, query, "vet_services")
	assert.Contains(t, query, "vet_opening_times")
	assert.Len(t, args, 6)
}
