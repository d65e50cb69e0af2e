package holiday

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Holiday types
const (
	TypeAcademic = "academic"
	TypeNational = "national"
	TypeOther    = "other"
)

var errStartAfterEnd = errors.New("start date cannot be after end date")

type Holiday struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	StartDate   core.Date `json:"start_date" db:"start_date"`
	EndDate     core.Date `json:"end_date" db:"end_date"`
	Type        string    `json:"type" db:"type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Days is the inclusive length of the holiday; a single-day holiday counts 1.
func (h Holiday) Days() int {
	return h.EndDate.DaysSince(h.StartDate) + 1
}

// NewHoliday contains information needed to create or replace a Holiday.
type NewHoliday struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	StartDate   core.Date `json:"start_date"`
	EndDate     core.Date `json:"end_date"`
	Type        string    `json:"type" validate:"omitempty,oneof=academic national other"`
}

func (nh *NewHoliday) Validate(validate *validator.Validate) error {
	nh.Title = core.CleanString(nh.Title)
	nh.Description = core.CleanString(nh.Description)
	nh.Type = core.CleanString(nh.Type, true /* lower */)

	if err := validate.Struct(nh); err != nil {
		return err
	}

	var flds []core.FieldError
	if nh.StartDate.IsZero() {
		flds = append(flds, core.FieldError{Field: "start_date", Error: "this field is required"})
	}
	if nh.EndDate.IsZero() {
		flds = append(flds, core.FieldError{Field: "end_date", Error: "this field is required"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(errors.New("missing dates"), flds...)
	}
	if nh.StartDate.After(nh.EndDate) {
		return core.NewValidationError(
			errStartAfterEnd,
			core.FieldError{Field: "start_date", Error: errStartAfterEnd.Error()},
		)
	}
	if nh.Type == "" {
		nh.Type = TypeAcademic
	}
	return nil
}

// QueryFilter narrows holiday listings; zero fields are ignored.
type QueryFilter struct {
	// From/To keep holidays whose [start,end] intersects the window.
	From core.Date
	To   core.Date
	// EndsFrom keeps holidays whose end date is on or after the given day.
	EndsFrom core.Date
	Type     string
	Limit    int
}
