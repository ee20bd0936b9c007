package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", TimeOfDay(9 * 60), false},
		{"00:00", TimeOfDay(0), false},
		{"23:59", TimeOfDay(23*60 + 59), false},
		{"9:05", TimeOfDay(9*60 + 5), false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	parsed, err := ParseTimeOfDay("07:30")
	require.NoError(t, err)
	assert.Equal(t, "07:30", parsed.String())
	assert.Equal(t, 7, parsed.Hour())
	assert.Equal(t, 30, parsed.Minute())
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay

	// lib/pq returns TIME columns as strings with seconds
	require.NoError(t, tod.Scan("22:15:00"))
	assert.Equal(t, "22:15", tod.String())

	require.NoError(t, tod.Scan([]byte("06:00:00")))
	assert.Equal(t, "06:00", tod.String())

	require.NoError(t, tod.Scan(time.Date(2025, 1, 1, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, "18:45", tod.String())

	assert.Error(t, tod.Scan(42))
}

func TestTimeOfDayJSON(t *testing.T) {
	interval := OpeningInterval{
		DayOfWeekID: 1,
		StartTime:   TimeOfDay(9 * 60),
		EndTime:     TimeOfDay(18 * 60),
	}

	data, err := json.Marshal(interval)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"startTime":"09:00"`)
	assert.Contains(t, string(data), `"endTime":"18:00"`)

	var decoded OpeningInterval
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, interval.StartTime, decoded.StartTime)
	assert.Equal(t, interval.EndTime, decoded.EndTime)
}

func TestCanonicalDay(t *testing.T) {
	assert.Equal(t, 1, CanonicalDay(time.Monday))
	assert.Equal(t, 6, CanonicalDay(time.Saturday))
	// Sunday is 0 in Go's calendar and must map to 7, never 0
	assert.Equal(t, 7, CanonicalDay(time.Sunday))
}

func TestOpeningIntervalOvernight(t *testing.T) {
	overnight := OpeningInterval{StartTime: TimeOfDay(22 * 60), EndTime: TimeOfDay(6 * 60)}
	sameDay := OpeningInterval{StartTime: TimeOfDay(9 * 60), EndTime: TimeOfDay(18 * 60)}

	assert.True(t, overnight.Overnight())
	assert.False(t, sameDay.Overnight())
}
