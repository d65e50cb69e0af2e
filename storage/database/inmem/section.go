package inmemdb

import (
	"sort"

	"github.com/trezcool/shule/core/section"
)

type sectionRepository struct {
	db *DB
}

var _ section.Repository = (*sectionRepository)(nil)

func NewSectionRepository(db *DB) *sectionRepository {
	return &sectionRepository{db: db}
}

func copySection(sec section.Section) section.Section {
	sec.StudentIDs = append([]string(nil), sec.StudentIDs...)
	sec.TeacherIDs = append([]string(nil), sec.TeacherIDs...)
	return sec
}

func (repo *sectionRepository) query() []section.Section {
	sections := make([]section.Section, 0, len(repo.db.sections))
	for _, sec := range repo.db.sections {
		sections = append(sections, copySection(*sec))
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].CreatedAt.Before(sections[j].CreatedAt) })
	return sections
}

func (repo *sectionRepository) CreateSection(sec section.Section) (section.Section, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored := copySection(sec)
	repo.db.sections[sec.ID] = &stored
	return sec, nil
}

func (repo *sectionRepository) QueryAllSections() ([]section.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *sectionRepository) GetSectionByID(id string) (section.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sec, ok := repo.db.sections[id]; ok {
		return copySection(*sec), nil
	}
	return section.Section{}, section.ErrNotFound
}

func (repo *sectionRepository) GetSectionOfStudent(studentID string) (section.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sec := range repo.db.sections {
		if sec.HasStudent(studentID) {
			return copySection(*sec), nil
		}
	}
	return section.Section{}, section.ErrNotFound
}

func (repo *sectionRepository) QuerySectionsOfTeacher(teacherID string) ([]section.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sections := make([]section.Section, 0)
	for _, sec := range repo.query() {
		if sec.HasTeacher(teacherID) {
			sections = append(sections, sec)
		}
	}
	return sections, nil
}

func (repo *sectionRepository) UpdateSectionMembers(sec section.Section) (section.Section, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.sections[sec.ID]
	if !ok {
		return section.Section{}, section.ErrNotFound
	}
	orig.StudentIDs = append([]string(nil), sec.StudentIDs...)
	orig.TeacherIDs = append([]string(nil), sec.TeacherIDs...)
	orig.UpdatedAt = sec.UpdatedAt
	return copySection(*orig), nil
}

// DeleteSectionByID removes the section and its timetable entries under
// one lock, mirroring the SQL cascade.
func (repo *sectionRepository) DeleteSectionByID(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.sections[id]; !ok {
		return section.ErrNotFound
	}
	delete(repo.db.sections, id)
	for entryID, entry := range repo.db.entries {
		if entry.SectionID == id {
			delete(repo.db.entries, entryID)
		}
	}
	return nil
}
