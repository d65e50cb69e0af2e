package inmemdb

import (
	"sort"

	"github.com/trezcool/shule/core/holiday"
)

type holidayRepository struct {
	db *DB
}

var _ holiday.Repository = (*holidayRepository)(nil)

func NewHolidayRepository(db *DB) *holidayRepository {
	return &holidayRepository{db: db}
}

func (repo *holidayRepository) CreateHoliday(hol holiday.Holiday) (holiday.Holiday, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.holidays[hol.ID] = &hol
	return hol, nil
}

func (repo *holidayRepository) GetHolidayByID(id string) (holiday.Holiday, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if hol, ok := repo.db.holidays[id]; ok {
		return *hol, nil
	}
	return holiday.Holiday{}, holiday.ErrNotFound
}

func (repo *holidayRepository) FilterHolidays(filter holiday.QueryFilter) ([]holiday.Holiday, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	holidays := make([]holiday.Holiday, 0)
	for _, hol := range repo.db.holidays {
		if filter.Type != "" && hol.Type != filter.Type {
			continue
		}
		if !filter.From.IsZero() && hol.EndDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && hol.StartDate.After(filter.To) {
			continue
		}
		if !filter.EndsFrom.IsZero() && hol.EndDate.Before(filter.EndsFrom) {
			continue
		}
		holidays = append(holidays, *hol)
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].StartDate.Before(holidays[j].StartDate)
	})
	if filter.Limit > 0 && len(holidays) > filter.Limit {
		holidays = holidays[:filter.Limit]
	}
	return holidays, nil
}

func (repo *holidayRepository) UpdateHoliday(hol holiday.Holiday) (holiday.Holiday, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.holidays[hol.ID]; !ok {
		return holiday.Holiday{}, holiday.ErrNotFound
	}
	repo.db.holidays[hol.ID] = &hol
	return hol, nil
}

func (repo *holidayRepository) DeleteHolidayByID(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.holidays[id]; !ok {
		return holiday.ErrNotFound
	}
	delete(repo.db.holidays, id)
	return nil
}
