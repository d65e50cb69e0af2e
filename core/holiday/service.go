package holiday

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
)

var (
	ErrNotFound = errors.New("holiday not found")

	NowFunc = time.Now // mockable
)

const upcomingLimit = 5

type (
	Repository interface {
		CreateHoliday(hol Holiday) (Holiday, error)
		GetHolidayByID(id string) (Holiday, error)
		// FilterHolidays applies AND on the set QueryFilter fields,
		// sorted ascending by start date.
		FilterHolidays(filter QueryFilter) ([]Holiday, error)
		UpdateHoliday(hol Holiday) (Holiday, error)
		DeleteHolidayByID(id string) error
	}

	Service struct {
		repo Repository
	}

	// Statistics tallies the current academic year's holidays.
	Statistics struct {
		Academic  int `json:"academic"`
		National  int `json:"national"`
		Other     int `json:"other"`
		TotalDays int `json:"total_days"`
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nh NewHoliday) (Holiday, error) {
	now := time.Now().UTC()
	return svc.repo.CreateHoliday(Holiday{
		ID:          uuid.New().String(),
		Title:       nh.Title,
		Description: nh.Description,
		StartDate:   nh.StartDate,
		EndDate:     nh.EndDate,
		Type:        nh.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) Update(id string, nh NewHoliday) (Holiday, error) {
	hol, err := svc.repo.GetHolidayByID(id)
	if err != nil {
		return Holiday{}, err
	}
	hol.Title = nh.Title
	hol.Description = nh.Description
	hol.StartDate = nh.StartDate
	hol.EndDate = nh.EndDate
	hol.Type = nh.Type
	hol.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateHoliday(hol)
}

func (svc *Service) Delete(id string) error {
	if _, err := svc.repo.GetHolidayByID(id); err != nil {
		return err
	}
	return svc.repo.DeleteHolidayByID(id)
}

// Query lists holidays; month/year narrow to entries intersecting that
// month, type is an exact match.
func (svc *Service) Query(month time.Month, year int, typ string) ([]Holiday, error) {
	filter := QueryFilter{Type: core.CleanString(typ, true /* lower */)}
	if month >= time.January && month <= time.December && year > 0 {
		filter.From = core.NewDate(year, month, 1)
		filter.To = filter.From.AddDays(daysIn(month, year) - 1)
	}
	return svc.repo.FilterHolidays(filter)
}

// Upcoming returns the next holidays still running or ahead of today,
// soonest first.
func (svc *Service) Upcoming() ([]Holiday, error) {
	return svc.repo.FilterHolidays(QueryFilter{
		EndsFrom: core.DateOf(NowFunc().UTC()),
		Limit:    upcomingLimit,
	})
}

// AcademicYearWindow is the Jul 1 - Jun 30 span containing `today`.
func AcademicYearWindow(today core.Date) (from, to core.Date) {
	startYear := today.Year
	if today.Month < time.July {
		startYear--
	}
	return core.NewDate(startYear, time.July, 1), core.NewDate(startYear+1, time.June, 30)
}

// Statistics sums holiday counts per type and total inclusive day count
// over holidays fully contained in the current academic year.
func (svc *Service) Statistics() (Statistics, error) {
	from, to := AcademicYearWindow(core.DateOf(NowFunc().UTC()))
	holidays, err := svc.repo.FilterHolidays(QueryFilter{From: from, To: to})
	if err != nil {
		return Statistics{}, err
	}

	var stats Statistics
	for _, hol := range holidays {
		// the window filter matches on intersection; statistics only
		// count holidays fully inside the academic year
		if hol.StartDate.Before(from) || hol.EndDate.After(to) {
			continue
		}
		switch hol.Type {
		case TypeAcademic:
			stats.Academic++
		case TypeNational:
			stats.National++
		default:
			stats.Other++
		}
		stats.TotalDays += hol.Days()
	}
	return stats, nil
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
