package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// errors
	ErrNotFound = errors.New("timetable entry not found")
	ErrConflict = errors.New("time slot conflicts with existing schedule")
)

type (
	// Repository implementations must make the overlap scan and the
	// write one atomic operation: two concurrent creates for the same
	// slot may not both pass the scan and commit.
	Repository interface {
		// CreateEntry returns ErrConflict if the entry claims a slot already
		// taken by its section or its teacher on the same day.
		CreateEntry(entry Entry) (Entry, error)
		// UpdateEntry applies the same conflict scan, excluding the entry
		// itself from the comparison set. Returns ErrNotFound or ErrConflict.
		UpdateEntry(entry Entry) (Entry, error)
		GetEntryByID(id string) (Entry, error)
		DeleteEntryByID(id string) error
		// QueryEntriesBySection and QueryEntriesByTeacher sort by (day, start).
		QueryEntriesBySection(sectionID string) ([]Entry, error)
		QueryEntriesByTeacher(teacherID string) ([]Entry, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ne NewEntry) (Entry, error) {
	now := time.Now().UTC()
	entry := Entry{
		ID:        uuid.New().String(),
		SectionID: ne.SectionID,
		TeacherID: ne.TeacherID,
		Subject:   ne.Subject,
		DayOfWeek: ne.DayOfWeek,
		StartTime: ne.StartTime,
		EndTime:   ne.EndTime,
		Room:      ne.Room,
		Semester:  ne.Semester,
		Color:     ne.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if entry.Color == "" {
		entry.Color = DefaultColor
	}
	return svc.repo.CreateEntry(entry)
}

func (svc *Service) Update(id string, ne NewEntry) (Entry, error) {
	entry, err := svc.repo.GetEntryByID(id)
	if err != nil {
		return Entry{}, err
	}
	entry.SectionID = ne.SectionID
	entry.TeacherID = ne.TeacherID
	entry.Subject = ne.Subject
	entry.DayOfWeek = ne.DayOfWeek
	entry.StartTime = ne.StartTime
	entry.EndTime = ne.EndTime
	entry.Room = ne.Room
	entry.Semester = ne.Semester
	if ne.Color != "" {
		entry.Color = ne.Color
	}
	entry.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEntry(entry)
}

func (svc *Service) GetByID(id string) (Entry, error) {
	return svc.repo.GetEntryByID(id)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteEntryByID(id)
}

func (svc *Service) BySection(sectionID string) ([]Entry, error) {
	return svc.repo.QueryEntriesBySection(sectionID)
}

func (svc *Service) ByTeacher(teacherID string) ([]Entry, error) {
	return svc.repo.QueryEntriesByTeacher(teacherID)
}
