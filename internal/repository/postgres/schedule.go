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

type scheduleRepository struct {
	BaseRepository
}

func NewScheduleRepository(base BaseRepository) repository.ScheduleRepository {
	return &scheduleRepository{base}
}

// ReplaceIntervalsTx swaps a vet's full opening schedule. A bad day id
// trips the foreign key and rolls back the enclosing transaction.
func (r *scheduleRepository) ReplaceIntervalsTx(ctx context.Context, tx *sqlx.Tx, vetID uuid.UUID, intervals []model.OpeningInterval) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vet_opening_times WHERE vet_id = $1`, vetID); err != nil {
		return fmt.Errorf("failed to clear opening times: %w", err)
	}

	if len(intervals) == 0 {
		return nil
	}

	rows := make([]interface{}, 0, len(intervals))
	for _, interval := range intervals {
		rows = append(rows, goqu.Record{
			"vet_id":         vetID,
			"day_of_week_id": interval.DayOfWeekID,
			"start_time":     interval.StartTime,
			"end_time":       interval.EndTime,
		})
	}

	query, args, err := qb.Insert("vet_opening_times").Rows(rows...).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return translateError(err, "failed to insert opening times")
	}
	return nil
}

func (r *scheduleRepository) IntervalsForDay(ctx context.Context, vetID uuid.UUID, dayOfWeekID int) ([]model.OpeningInterval, error) {
	intervals := []model.OpeningInterval{}
	err := r.db.SelectContext(ctx, &intervals, `
		SELECT id, day_of_week_id, start_time, end_time
		FROM vet_opening_times
		WHERE vet_id = $1 AND day_of_week_id = $2
		ORDER BY start_time ASC
	`, vetID, dayOfWeekID)
	if err != nil {
		return nil, fmt.Errorf("failed to list opening times: %w", err)
	}
	return intervals, nil
}
