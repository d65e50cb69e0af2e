package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/leave"
)

type leaveRepository struct {
	db *sqlx.DB
}

var _ leave.Repository = (*leaveRepository)(nil)

func NewLeaveRepository(db *sqlx.DB) *leaveRepository {
	return &leaveRepository{db: db}
}

func (repo *leaveRepository) CreateRequest(req leave.Request) (leave.Request, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO leave_request (id, student_id, reason, from_date, to_date, status, admin_remarks, submitted_at)
		VALUES (:id, :student_id, :reason, :from_date, :to_date, :status, :admin_remarks, :submitted_at)`,
		req,
	)
	if err != nil {
		return leave.Request{}, wrapDBErr(err, "inserting leave request")
	}
	return req, nil
}

func (repo *leaveRepository) GetRequestByID(id string) (leave.Request, error) {
	var req leave.Request
	err := repo.db.Get(&req, `SELECT * FROM leave_request WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return leave.Request{}, leave.ErrNotFound
	}
	return req, wrapDBErr(err, "getting leave request")
}

func (repo *leaveRepository) QueryRequestsByStudent(studentID string) ([]leave.Request, error) {
	requests := make([]leave.Request, 0)
	err := repo.db.Select(&requests, `
		SELECT * FROM leave_request WHERE student_id = $1 ORDER BY submitted_at DESC`,
		studentID,
	)
	return requests, wrapDBErr(err, "querying student leave requests")
}

func (repo *leaveRepository) QueryAllRequests() ([]leave.Request, error) {
	requests := make([]leave.Request, 0)
	err := repo.db.Select(&requests, `SELECT * FROM leave_request ORDER BY submitted_at DESC`)
	return requests, wrapDBErr(err, "querying leave requests")
}

func (repo *leaveRepository) UpdateRequest(req leave.Request) (leave.Request, error) {
	res, err := repo.db.NamedExec(`
		UPDATE leave_request SET status = :status, admin_remarks = :admin_remarks WHERE id = :id`,
		req,
	)
	if err != nil {
		return leave.Request{}, wrapDBErr(err, "updating leave request")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return leave.Request{}, leave.ErrNotFound
	}
	return req, nil
}
