package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Canonical day-of-week ids. The schedule schema is Monday-based;
// Go's time.Weekday numbers Sunday as 0 and must be remapped.
const (
	Monday    = 1
	Sunday    = 7
	DaysCount = 7
)

// CanonicalDay maps a time.Weekday to the schedule's 1..7 numbering,
// remapping Sunday from 0 to 7.
func CanonicalDay(wd time.Weekday) int {
	if wd == time.Sunday {
		return Sunday
	}
	return int(wd)
}

// TimeOfDay is a clock time with minute precision and no date component,
// stored as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses an "HH:mm" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:mm: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
	}
	return TimeOfDay(hour*60 + minute), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Scan implements sql.Scanner for Postgres TIME columns.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOfDay(v.Hour()*60 + v.Minute())
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

func (t *TimeOfDay) scanString(s string) error {
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer, formatting for a TIME column.
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// OpeningInterval is one window during which a vet is open on a given
// day of week. When StartTime > EndTime the window wraps past midnight
// into the next calendar day.
type OpeningInterval struct {
	ID          int64     `db:"id" json:"-"`
	DayOfWeekID int       `db:"day_of_week_id" json:"dayOfWeekId"`
	DayName     string    `db:"day_name" json:"dayName,omitempty"`
	StartTime   TimeOfDay `db:"start_time" json:"startTime"`
	EndTime     TimeOfDay `db:"end_time" json:"endTime"`
}

// Overnight reports whether the interval wraps past midnight.
func (i OpeningInterval) Overnight() bool {
	return i.StartTime > i.EndTime
}
