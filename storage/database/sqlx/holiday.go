package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/holiday"
)

type holidayRepository struct {
	db *sqlx.DB
}

var _ holiday.Repository = (*holidayRepository)(nil)

func NewHolidayRepository(db *sqlx.DB) *holidayRepository {
	return &holidayRepository{db: db}
}

func (repo *holidayRepository) CreateHoliday(hol holiday.Holiday) (holiday.Holiday, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO holiday (id, title, description, start_date, end_date, type, created_at, updated_at)
		VALUES (:id, :title, :description, :start_date, :end_date, :type, :created_at, :updated_at)`,
		hol,
	)
	if err != nil {
		return holiday.Holiday{}, wrapDBErr(err, "inserting holiday")
	}
	return hol, nil
}

func (repo *holidayRepository) GetHolidayByID(id string) (holiday.Holiday, error) {
	var hol holiday.Holiday
	err := repo.db.Get(&hol, `SELECT * FROM holiday WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return holiday.Holiday{}, holiday.ErrNotFound
	}
	return hol, wrapDBErr(err, "getting holiday")
}

func (repo *holidayRepository) FilterHolidays(filter holiday.QueryFilter) ([]holiday.Holiday, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Type != "" {
		where = append(where, "type = "+arg(filter.Type))
	}
	if !filter.From.IsZero() {
		where = append(where, "end_date >= "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "start_date <= "+arg(filter.To))
	}
	if !filter.EndsFrom.IsZero() {
		where = append(where, "end_date >= "+arg(filter.EndsFrom))
	}

	query := `SELECT * FROM holiday`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_date"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	holidays := make([]holiday.Holiday, 0)
	err := repo.db.Select(&holidays, query, args...)
	return holidays, wrapDBErr(err, "filtering holidays")
}

func (repo *holidayRepository) UpdateHoliday(hol holiday.Holiday) (holiday.Holiday, error) {
	res, err := repo.db.NamedExec(`
		UPDATE holiday SET
			title = :title, description = :description, start_date = :start_date,
			end_date = :end_date, type = :type, updated_at = :updated_at
		WHERE id = :id`,
		hol,
	)
	if err != nil {
		return holiday.Holiday{}, wrapDBErr(err, "updating holiday")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return holiday.Holiday{}, holiday.ErrNotFound
	}
	return hol, nil
}

func (repo *holidayRepository) DeleteHolidayByID(id string) error {
	res, err := repo.db.Exec(`DELETE FROM holiday WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(err, "deleting holiday")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return holiday.ErrNotFound
	}
	return nil
}
