package section

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

// Section is a cohort of students sharing a grade/year, with zero or
// more teachers. Membership is kept as id back-references, never as
// embedded copies.
type Section struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	GradeLevel   int       `json:"grade_level" db:"grade_level"`
	AcademicYear string    `json:"academic_year" db:"academic_year"`
	StudentIDs   []string  `json:"student_ids"`
	TeacherIDs   []string  `json:"teacher_ids"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (s Section) HasStudent(id string) bool { return contains(s.StudentIDs, id) }
func (s Section) HasTeacher(id string) bool { return contains(s.TeacherIDs, id) }

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// Member is a roster listing of a user; enough for the UI, no emails,
// no password hashes.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

func NewMember(usr user.User) Member {
	return Member{ID: usr.ID, Username: usr.Username, FullName: usr.FullName}
}

// Detail is a Section with its membership resolved for display.
type Detail struct {
	Section
	Students []Member `json:"students"`
	Teachers []Member `json:"teachers"`
}

// NewSection contains information needed to create a new Section.
type NewSection struct {
	Name         string `json:"name" validate:"required"`
	GradeLevel   int    `json:"grade_level" validate:"required,min=1"`
	AcademicYear string `json:"academic_year" validate:"required"`
}

func (ns *NewSection) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.AcademicYear = core.CleanString(ns.AcademicYear)
	return validate.Struct(ns)
}

// AssignStudents is the payload for adding students to a section's roster.
type AssignStudents struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1"`
}

func (a *AssignStudents) Validate(validate *validator.Validate) error {
	return validate.Struct(a)
}

// AssignTeachers is the payload for adding teachers to a section.
type AssignTeachers struct {
	TeacherIDs []string `json:"teacher_ids" validate:"required,min=1"`
}

func (a *AssignTeachers) Validate(validate *validator.Validate) error {
	return validate.Struct(a)
}
