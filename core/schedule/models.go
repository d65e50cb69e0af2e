package schedule

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

const (
	// school days; Monday..Friday
	MinDayOfWeek = 1
	MaxDayOfWeek = 5

	DefaultColor = "#3788d8"

	clockLayout = "15:04"
)

var errStartAfterEnd = errors.New("start time must be before end time")

// ClockTime is a time of day in minutes since midnight; serialized as "HH:mm".
// Comparing wall-clock times as zero-padded strings is an accident waiting
// to happen, so they are normalized to ints on the way in.
type ClockTime int

func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, err
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(ct)/60, int(ct)%60)
}

func (ct ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ct.String() + `"`), nil
}

func (ct *ClockTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid time %s", s)
	}
	parsed, err := ParseClockTime(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}

func (ct ClockTime) Value() (driver.Value, error) { return int64(ct), nil }

func (ct *ClockTime) Scan(src interface{}) error {
	if v, ok := src.(int64); ok {
		*ct = ClockTime(v)
		return nil
	}
	return fmt.Errorf("cannot scan %T into ClockTime", src)
}

// Entry is one scheduled class occurrence.
type Entry struct {
	ID        string    `json:"id" db:"id"`
	SectionID string    `json:"section_id" db:"section_id"`
	TeacherID string    `json:"teacher_id" db:"teacher_id"`
	Subject   string    `json:"subject" db:"subject"`
	DayOfWeek int       `json:"day_of_week" db:"day_of_week"` // 1 (Monday) .. 5 (Friday)
	StartTime ClockTime `json:"start_time" db:"start_time"`
	EndTime   ClockTime `json:"end_time" db:"end_time"`
	Room      string    `json:"room,omitempty" db:"room"`
	Semester  string    `json:"semester,omitempty" db:"semester"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// ConflictsWith reports whether two entries claim the same slot: same day,
// same section or same teacher, and overlapping half-open [start,end)
// intervals. Back-to-back entries (end == start) do not conflict.
func (e Entry) ConflictsWith(other Entry) bool {
	if e.DayOfWeek != other.DayOfWeek {
		return false
	}
	if e.SectionID != other.SectionID && e.TeacherID != other.TeacherID {
		return false
	}
	return other.StartTime < e.EndTime && other.EndTime > e.StartTime
}

// NewEntry contains information needed to create or replace an Entry.
type NewEntry struct {
	SectionID string    `json:"section_id" validate:"required"`
	TeacherID string    `json:"teacher_id" validate:"required"`
	Subject   string    `json:"subject" validate:"required"`
	DayOfWeek int       `json:"day_of_week" validate:"required,min=1,max=5"`
	StartTime ClockTime `json:"start_time"`
	EndTime   ClockTime `json:"end_time"`
	Room      string    `json:"room"`
	Semester  string    `json:"semester"`
	Color     string    `json:"color"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.Subject = core.CleanString(ne.Subject)
	ne.Room = core.CleanString(ne.Room)

	if err := validate.Struct(ne); err != nil {
		return err
	}
	if ne.StartTime >= ne.EndTime {
		return core.NewValidationError(
			errStartAfterEnd,
			core.FieldError{Field: "start_time", Error: errStartAfterEnd.Error()},
		)
	}
	return nil
}
