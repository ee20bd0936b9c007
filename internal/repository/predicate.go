package repository

import (
	"github.com/doug-martin/goqu/v9"

	"github.com/patitas/vets-api/internal/model"
)

// SearchPredicate is an optional filter composed into a proximity
// query. Each predicate contributes a self-contained SQL expression
// against the candidate vet row (aliased "v"); predicates are
// AND-combined and must not change result cardinality, so association
// tables are probed with EXISTS rather than joined.
type SearchPredicate interface {
	Expression() goqu.Expression
}

type serviceOffered struct {
	serviceID int
}

// ServiceOffered restricts results to vets offering the given catalog
// service. An unknown id matches nothing; it is not validated here.
func ServiceOffered(serviceID int) SearchPredicate {
	return serviceOffered{serviceID: serviceID}
}

func (p serviceOffered) Expression() goqu.Expression {
	return goqu.L(
		`EXISTS (
			SELECT 1 FROM vet_services vs
			WHERE vs.vet_id = v.id AND vs.service_id = ?
		)`,
		p.serviceID,
	)
}

type openAt struct {
	dayOfWeekID int
	at          model.TimeOfDay
}

// OpenAt restricts results to vets with an opening interval covering
// the given canonical day (Monday=1..Sunday=7) and time of day. An
// interval whose start is later than its end wraps past midnight.
func OpenAt(dayOfWeekID int, at model.TimeOfDay) SearchPredicate {
	return openAt{dayOfWeekID: dayOfWeekID, at: at}
}

func (p openAt) Expression() goqu.Expression {
	clock := p.at.String() + ":00"
	return goqu.L(
		`EXISTS (
			SELECT 1 FROM vet_opening_times ot
			WHERE ot.vet_id = v.id
			  AND ot.day_of_week_id = ?
			  AND (
				(ot.start_time <= ot.end_time AND ot.start_time <= ?::time AND ot.end_time >= ?::time)
				OR
				(ot.start_time > ot.end_time AND (ot.start_time <= ?::time OR ot.end_time >= ?::time))
			  )
		)`,
		p.dayOfWeekID, clock, clock, clock, clock,
	)
}
