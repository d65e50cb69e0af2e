package inmemdb

import (
	"sort"

	"github.com/trezcool/shule/core/schedule"
)

type scheduleRepository struct {
	db *DB
}

var _ schedule.Repository = (*scheduleRepository)(nil)

func NewScheduleRepository(db *DB) *scheduleRepository {
	return &scheduleRepository{db: db}
}

// CreateEntry holds the write lock across the conflict scan and the
// insert; two concurrent creates cannot both pass the scan.
func (repo *scheduleRepository) CreateEntry(entry schedule.Entry) (schedule.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.entries {
		if existing.ConflictsWith(entry) {
			return schedule.Entry{}, schedule.ErrConflict
		}
	}
	repo.db.entries[entry.ID] = &entry
	return entry, nil
}

func (repo *scheduleRepository) UpdateEntry(entry schedule.Entry) (schedule.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.entries[entry.ID]; !ok {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	for _, existing := range repo.db.entries {
		if existing.ID == entry.ID {
			continue
		}
		if existing.ConflictsWith(entry) {
			return schedule.Entry{}, schedule.ErrConflict
		}
	}
	repo.db.entries[entry.ID] = &entry
	return entry, nil
}

func (repo *scheduleRepository) GetEntryByID(id string) (schedule.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if entry, ok := repo.db.entries[id]; ok {
		return *entry, nil
	}
	return schedule.Entry{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) DeleteEntryByID(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.entries[id]; !ok {
		return schedule.ErrNotFound
	}
	delete(repo.db.entries, id)
	return nil
}

func (repo *scheduleRepository) QueryEntriesBySection(sectionID string) ([]schedule.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.filter(func(e schedule.Entry) bool { return e.SectionID == sectionID }), nil
}

func (repo *scheduleRepository) QueryEntriesByTeacher(teacherID string) ([]schedule.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.filter(func(e schedule.Entry) bool { return e.TeacherID == teacherID }), nil
}

func (repo *scheduleRepository) filter(keep func(schedule.Entry) bool) []schedule.Entry {
	entries := make([]schedule.Entry, 0)
	for _, entry := range repo.db.entries {
		if keep(*entry) {
			entries = append(entries, *entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DayOfWeek != entries[j].DayOfWeek {
			return entries[i].DayOfWeek < entries[j].DayOfWeek
		}
		return entries[i].StartTime < entries[j].StartTime
	})
	return entries
}
