package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/patitas/vets-api/internal/model"
	"github.com/patitas/vets-api/internal/repository"
)

// Clock abstracts "now" so tests can pin arbitrary instants.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a Clock frozen at t.
func FixedClock(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Evaluator decides whether a vet is open at the current moment.
// Local civil time is derived from UTC with a fixed configured offset;
// the deployment is single-region and does not carry a tzdata mapping.
type Evaluator struct {
	schedules repository.ScheduleRepository
	clock     Clock
	offset    time.Duration
}

func NewEvaluator(schedules repository.ScheduleRepository, clock Clock, utcOffsetHours int) *Evaluator {
	if clock == nil {
		clock = SystemClock()
	}
	return &Evaluator{
		schedules: schedules,
		clock:     clock,
		offset:    time.Duration(utcOffsetHours) * time.Hour,
	}
}

// LocalDayAndTime reduces the current instant to the canonical schedule
// coordinates: day of week (Monday=1..Sunday=7) and time of day.
func (e *Evaluator) LocalDayAndTime() (int, model.TimeOfDay) {
	local := e.clock.Now().UTC().Add(e.offset)
	day := model.CanonicalDay(local.Weekday())
	return day, model.TimeOfDay(local.Hour()*60 + local.Minute())
}

// IntervalOpenAt reports whether a single interval covers the given
// time of day. Bounds are inclusive. An interval whose start is later
// than its end spans midnight: it covers the tail of its day and the
// head of the next.
func IntervalOpenAt(interval model.OpeningInterval, at model.TimeOfDay) bool {
	if interval.Overnight() {
		return at >= interval.StartTime || at <= interval.EndTime
	}
	return at >= interval.StartTime && at <= interval.EndTime
}

// IsOpenNow is the standalone form of the open-now check: it loads the
// vet's intervals for the current day and evaluates them in process.
func (e *Evaluator) IsOpenNow(ctx context.Context, vetID uuid.UUID) (bool, error) {
	day, at := e.LocalDayAndTime()

	intervals, err := e.schedules.IntervalsForDay(ctx, vetID, day)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate availability: %w", err)
	}

	for _, interval := range intervals {
		if IntervalOpenAt(interval, at) {
			return true, nil
		}
	}
	return false, nil
}

// OpenNowPredicate returns the bulk form of the same check: a filter
// evaluated inside the search query so large candidate sets never
// materialize their schedules in memory.
func (e *Evaluator) OpenNowPredicate() repository.SearchPredicate {
	day, at := e.LocalDayAndTime()
	return repository.OpenAt(day, at)
}
