package section

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("section not found")

	errNotAStudent     = errors.New("one or more ids do not belong to existing students")
	errNotATeacher     = errors.New("one or more ids do not belong to existing teachers")
	errAlreadyAssigned = errors.New("all requested members are already assigned to this section")
	errInOtherSection  = errors.New("one or more students already belong to another section")
	errNotAMember      = errors.New("user is not a member of this section")
)

type (
	Repository interface {
		CreateSection(section Section) (Section, error)
		QueryAllSections() ([]Section, error)
		GetSectionByID(id string) (Section, error)
		// GetSectionOfStudent returns ErrNotFound when the student is in no section.
		GetSectionOfStudent(studentID string) (Section, error)
		QuerySectionsOfTeacher(teacherID string) ([]Section, error)
		// UpdateSectionMembers persists StudentIDs and TeacherIDs as given.
		UpdateSectionMembers(section Section) (Section, error)
		// DeleteSectionByID removes the section and every timetable entry
		// referencing it as one logical operation.
		DeleteSectionByID(id string) error
	}

	Service struct {
		repo  Repository
		users user.Repository
	}
)

func NewService(repo Repository, users user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

func (svc *Service) Create(ns NewSection) (Section, error) {
	now := time.Now().UTC()
	return svc.repo.CreateSection(Section{
		ID:           uuid.New().String(),
		Name:         ns.Name,
		GradeLevel:   ns.GradeLevel,
		AcademicYear: ns.AcademicYear,
		StudentIDs:   []string{},
		TeacherIDs:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *Service) QueryAll() ([]Section, error) {
	return svc.repo.QueryAllSections()
}

func (svc *Service) GetByID(id string) (Section, error) {
	return svc.repo.GetSectionByID(id)
}

func (svc *Service) Delete(id string) error {
	if _, err := svc.repo.GetSectionByID(id); err != nil {
		return err
	}
	return svc.repo.DeleteSectionByID(id)
}

// AssignStudents adds the given students to the section's roster.
// Every id must resolve to an existing user with the student role and
// not belong to another section; ids already on the roster are ignored,
// and adding nothing at all is an error.
func (svc *Service) AssignStudents(sectionID string, studentIDs []string) (Section, error) {
	sec, err := svc.repo.GetSectionByID(sectionID)
	if err != nil {
		return Section{}, err
	}
	added, err := svc.checkMembers(studentIDs, user.RoleStudent, sec.StudentIDs)
	if err != nil {
		return Section{}, err
	}
	// a student belongs to at most one section; added already excludes
	// this section's own roster, so any hit is an assignment elsewhere
	for _, id := range added {
		if _, err := svc.repo.GetSectionOfStudent(id); err != ErrNotFound {
			if err != nil {
				return Section{}, err
			}
			return Section{}, core.NewValidationError(errInOtherSection)
		}
	}
	sec.StudentIDs = append(sec.StudentIDs, added...)
	sec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSectionMembers(sec)
}

// AssignTeachers adds the given teachers to the section.
func (svc *Service) AssignTeachers(sectionID string, teacherIDs []string) (Section, error) {
	sec, err := svc.repo.GetSectionByID(sectionID)
	if err != nil {
		return Section{}, err
	}
	added, err := svc.checkMembers(teacherIDs, user.RoleTeacher, sec.TeacherIDs)
	if err != nil {
		return Section{}, err
	}
	sec.TeacherIDs = append(sec.TeacherIDs, added...)
	sec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSectionMembers(sec)
}

// checkMembers validates that all ids resolve to users with the wanted role
// and returns the deduplicated ids not already on the current roster.
func (svc *Service) checkMembers(ids []string, role string, current []string) ([]string, error) {
	roleErr := errNotAStudent
	if role == user.RoleTeacher {
		roleErr = errNotATeacher
	}

	added := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		usr, err := svc.users.GetUserByID(id)
		if err != nil {
			if err == user.ErrNotFound {
				return nil, core.NewValidationError(roleErr)
			}
			return nil, err
		}
		if usr.Role != role {
			return nil, core.NewValidationError(roleErr)
		}
		if !contains(current, id) {
			added = append(added, id)
		}
	}
	if len(added) == 0 {
		return nil, core.NewValidationError(errAlreadyAssigned)
	}
	return added, nil
}

// RemoveStudent drops a student from the section's roster.
func (svc *Service) RemoveStudent(sectionID, studentID string) (Section, error) {
	sec, err := svc.repo.GetSectionByID(sectionID)
	if err != nil {
		return Section{}, err
	}
	if _, err = svc.users.GetUserByID(studentID); err != nil {
		return Section{}, err
	}
	if !sec.HasStudent(studentID) {
		return Section{}, core.NewValidationError(errNotAMember)
	}
	sec.StudentIDs = remove(sec.StudentIDs, studentID)
	sec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSectionMembers(sec)
}

// RemoveTeacher drops a teacher from the section.
func (svc *Service) RemoveTeacher(sectionID, teacherID string) (Section, error) {
	sec, err := svc.repo.GetSectionByID(sectionID)
	if err != nil {
		return Section{}, err
	}
	if _, err = svc.users.GetUserByID(teacherID); err != nil {
		return Section{}, err
	}
	if !sec.HasTeacher(teacherID) {
		return Section{}, core.NewValidationError(errNotAMember)
	}
	sec.TeacherIDs = remove(sec.TeacherIDs, teacherID)
	sec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSectionMembers(sec)
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// Students resolves the section's student roster.
func (svc *Service) Students(sectionID string) ([]Member, error) {
	sec, err := svc.repo.GetSectionByID(sectionID)
	if err != nil {
		return nil, err
	}
	return svc.resolve(sec.StudentIDs)
}

// AvailableStudents returns the candidate pool for a section's roster:
// students in no section at all, plus students already in this one.
// A student assigned elsewhere is excluded; a student is in at most one
// section. The rule is derived at query time, not stored.
func (svc *Service) AvailableStudents(sectionID string) ([]Member, error) {
	sec, err := svc.repo.GetSectionByID(sectionID)
	if err != nil {
		return nil, err
	}
	sections, err := svc.repo.QueryAllSections()
	if err != nil {
		return nil, err
	}

	assignedElsewhere := make(map[string]bool)
	for _, other := range sections {
		if other.ID == sec.ID {
			continue
		}
		for _, id := range other.StudentIDs {
			assignedElsewhere[id] = true
		}
	}

	students, err := svc.users.FilterUsersByRole(user.RoleStudent)
	if err != nil {
		return nil, err
	}
	available := make([]Member, 0, len(students))
	for _, usr := range students {
		if !assignedElsewhere[usr.ID] {
			available = append(available, NewMember(usr))
		}
	}
	return available, nil
}

// AvailableTeachers returns teachers not already assigned to this section;
// unlike students, a teacher may serve any number of sections.
func (svc *Service) AvailableTeachers(sectionID string) ([]Member, error) {
	sec, err := svc.repo.GetSectionByID(sectionID)
	if err != nil {
		return nil, err
	}
	teachers, err := svc.users.FilterUsersByRole(user.RoleTeacher)
	if err != nil {
		return nil, err
	}
	available := make([]Member, 0, len(teachers))
	for _, usr := range teachers {
		if !sec.HasTeacher(usr.ID) {
			available = append(available, NewMember(usr))
		}
	}
	return available, nil
}

// OfStudent returns the section a student belongs to, ErrNotFound if none.
func (svc *Service) OfStudent(studentID string) (Section, error) {
	return svc.repo.GetSectionOfStudent(studentID)
}

// OfTeacher returns the sections a teacher serves.
func (svc *Service) OfTeacher(teacherID string) ([]Section, error) {
	return svc.repo.QuerySectionsOfTeacher(teacherID)
}

// Detail resolves a section's members for display.
func (svc *Service) Detail(sec Section) (Detail, error) {
	students, err := svc.resolve(sec.StudentIDs)
	if err != nil {
		return Detail{}, err
	}
	teachers, err := svc.resolve(sec.TeacherIDs)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Section: sec, Students: students, Teachers: teachers}, nil
}

// QueryAllDetailed lists all sections with members resolved.
func (svc *Service) QueryAllDetailed() ([]Detail, error) {
	sections, err := svc.repo.QueryAllSections()
	if err != nil {
		return nil, err
	}
	details := make([]Detail, 0, len(sections))
	for _, sec := range sections {
		d, err := svc.Detail(sec)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

func (svc *Service) resolve(ids []string) ([]Member, error) {
	members := make([]Member, 0, len(ids))
	for _, id := range ids {
		usr, err := svc.users.GetUserByID(id)
		if err != nil {
			if err == user.ErrNotFound {
				continue // dangling reference; skip rather than 500
			}
			return nil, err
		}
		members = append(members, NewMember(usr))
	}
	return members, nil
}
