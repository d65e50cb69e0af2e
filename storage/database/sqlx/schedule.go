package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/trezcool/shule/core/schedule"
)

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil)

func NewScheduleRepository(db *sqlx.DB) *scheduleRepository {
	return &scheduleRepository{db: db}
}

const uniqueViolation = "23505"

// CreateEntry serializes the conflict scan and the insert: an advisory
// lock per section and teacher keeps two concurrent creates for the same
// slot from both passing the scan; the unique slot indexes are the
// backstop.
func (repo *scheduleRepository) CreateEntry(entry schedule.Entry) (schedule.Entry, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return schedule.Entry{}, wrapDBErr(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err = lockSlots(tx, entry); err != nil {
		return schedule.Entry{}, err
	}
	if err = scanConflicts(tx, entry, "" /* no exclusion */); err != nil {
		return schedule.Entry{}, err
	}

	_, err = tx.NamedExec(`
		INSERT INTO timetable_entry
			(id, section_id, teacher_id, subject, day_of_week, start_time, end_time,
			 room, semester, color, created_at, updated_at)
		VALUES
			(:id, :section_id, :teacher_id, :subject, :day_of_week, :start_time, :end_time,
			 :room, :semester, :color, :created_at, :updated_at)`,
		entry,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return schedule.Entry{}, schedule.ErrConflict
		}
		return schedule.Entry{}, wrapDBErr(err, "inserting timetable entry")
	}

	if err = tx.Commit(); err != nil {
		return schedule.Entry{}, wrapDBErr(err, "committing tx")
	}
	return entry, nil
}

func (repo *scheduleRepository) UpdateEntry(entry schedule.Entry) (schedule.Entry, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return schedule.Entry{}, wrapDBErr(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err = lockSlots(tx, entry); err != nil {
		return schedule.Entry{}, err
	}
	if err = scanConflicts(tx, entry, entry.ID); err != nil {
		return schedule.Entry{}, err
	}

	res, err := tx.NamedExec(`
		UPDATE timetable_entry SET
			section_id = :section_id, teacher_id = :teacher_id, subject = :subject,
			day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time,
			room = :room, semester = :semester, color = :color, updated_at = :updated_at
		WHERE id = :id`,
		entry,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return schedule.Entry{}, schedule.ErrConflict
		}
		return schedule.Entry{}, wrapDBErr(err, "updating timetable entry")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.Entry{}, schedule.ErrNotFound
	}

	if err = tx.Commit(); err != nil {
		return schedule.Entry{}, wrapDBErr(err, "committing tx")
	}
	return entry, nil
}

func (repo *scheduleRepository) GetEntryByID(id string) (schedule.Entry, error) {
	var entry schedule.Entry
	err := repo.db.Get(&entry, `SELECT * FROM timetable_entry WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	return entry, wrapDBErr(err, "getting timetable entry")
}

func (repo *scheduleRepository) DeleteEntryByID(id string) error {
	res, err := repo.db.Exec(`DELETE FROM timetable_entry WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(err, "deleting timetable entry")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.ErrNotFound
	}
	return nil
}

func (repo *scheduleRepository) QueryEntriesBySection(sectionID string) ([]schedule.Entry, error) {
	entries := make([]schedule.Entry, 0)
	err := repo.db.Select(&entries, `
		SELECT * FROM timetable_entry WHERE section_id = $1 ORDER BY day_of_week, start_time`,
		sectionID,
	)
	return entries, wrapDBErr(err, "querying section timetable")
}

func (repo *scheduleRepository) QueryEntriesByTeacher(teacherID string) ([]schedule.Entry, error) {
	entries := make([]schedule.Entry, 0)
	err := repo.db.Select(&entries, `
		SELECT * FROM timetable_entry WHERE teacher_id = $1 ORDER BY day_of_week, start_time`,
		teacherID,
	)
	return entries, wrapDBErr(err, "querying teacher timetable")
}

// lockSlots takes transaction-scoped advisory locks on the entry's
// section and teacher so concurrent writers for the same slot queue up.
func lockSlots(tx *sqlx.Tx, entry schedule.Entry) error {
	_, err := tx.Exec(
		`SELECT pg_advisory_xact_lock(hashtext($1)), pg_advisory_xact_lock(hashtext($2))`,
		entry.SectionID, entry.TeacherID,
	)
	return wrapDBErr(err, "locking slots")
}

// scanConflicts rejects the entry if any existing entry for the same
// section or teacher overlaps its half-open [start,end) range on the
// same day. excludeID skips the entry being updated.
func scanConflicts(tx *sqlx.Tx, entry schedule.Entry, excludeID string) error {
	exclude := sql.NullString{String: excludeID, Valid: excludeID != ""}
	var conflicts int
	err := tx.Get(&conflicts, `
		SELECT COUNT(*) FROM timetable_entry
		WHERE day_of_week = $1
		  AND (section_id = $2 OR teacher_id = $3)
		  AND start_time < $4 AND end_time > $5
		  AND ($6::uuid IS NULL OR id <> $6::uuid)`,
		entry.DayOfWeek, entry.SectionID, entry.TeacherID, entry.EndTime, entry.StartTime, exclude,
	)
	if err != nil {
		return wrapDBErr(err, "scanning for conflicts")
	}
	if conflicts > 0 {
		return schedule.ErrConflict
	}
	return nil
}
