package leave

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Request statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var errFromAfterTo = errors.New("from date cannot be later than to date")

// Request is a student's leave request, decided by an admin.
type Request struct {
	ID           string    `json:"id" db:"id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	Reason       string    `json:"reason" db:"reason"`
	FromDate     core.Date `json:"from_date" db:"from_date"`
	ToDate       core.Date `json:"to_date" db:"to_date"`
	Status       string    `json:"status" db:"status"`
	AdminRemarks string    `json:"admin_remarks,omitempty" db:"admin_remarks"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"` // UTC
}

func (r Request) IsPending() bool { return r.Status == StatusPending }

// NewRequest contains information needed to submit a leave request.
type NewRequest struct {
	Reason   string    `json:"reason" validate:"required"`
	FromDate core.Date `json:"from_date"`
	ToDate   core.Date `json:"to_date"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.Reason = core.CleanString(nr.Reason)

	if err := validate.Struct(nr); err != nil {
		return err
	}

	var flds []core.FieldError
	if nr.FromDate.IsZero() {
		flds = append(flds, core.FieldError{Field: "from_date", Error: "this field is required"})
	}
	if nr.ToDate.IsZero() {
		flds = append(flds, core.FieldError{Field: "to_date", Error: "this field is required"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(errors.New("missing dates"), flds...)
	}
	if nr.FromDate.After(nr.ToDate) {
		return core.NewValidationError(
			errFromAfterTo,
			core.FieldError{Field: "from_date", Error: errFromAfterTo.Error()},
		)
	}
	return nil
}

// Decision is the admin's ruling on a pending request.
type Decision struct {
	Status       string `json:"status" validate:"required,oneof=approved rejected"`
	AdminRemarks string `json:"admin_remarks"`
}

func (d *Decision) Validate(validate *validator.Validate) error {
	d.Status = core.CleanString(d.Status, true /* lower */)
	d.AdminRemarks = core.CleanString(d.AdminRemarks)
	return validate.Struct(d)
}
