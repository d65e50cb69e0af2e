package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/section"
)

type sectionRepository struct {
	db *sqlx.DB
}

var _ section.Repository = (*sectionRepository)(nil)

func NewSectionRepository(db *sqlx.DB) *sectionRepository {
	return &sectionRepository{db: db}
}

func (repo *sectionRepository) CreateSection(sec section.Section) (section.Section, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO section (id, name, grade_level, academic_year, created_at, updated_at)
		VALUES (:id, :name, :grade_level, :academic_year, :created_at, :updated_at)`,
		sec,
	)
	if err != nil {
		return section.Section{}, wrapDBErr(err, "inserting section")
	}
	return sec, nil
}

func (repo *sectionRepository) QueryAllSections() ([]section.Section, error) {
	sections := make([]section.Section, 0)
	if err := repo.db.Select(&sections, `SELECT * FROM section ORDER BY created_at`); err != nil {
		return nil, wrapDBErr(err, "querying sections")
	}
	for i := range sections {
		if err := repo.loadMembers(&sections[i]); err != nil {
			return nil, err
		}
	}
	return sections, nil
}

func (repo *sectionRepository) GetSectionByID(id string) (section.Section, error) {
	var sec section.Section
	err := repo.db.Get(&sec, `SELECT * FROM section WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return section.Section{}, section.ErrNotFound
	}
	if err != nil {
		return section.Section{}, wrapDBErr(err, "getting section by id")
	}
	if err = repo.loadMembers(&sec); err != nil {
		return section.Section{}, err
	}
	return sec, nil
}

func (repo *sectionRepository) GetSectionOfStudent(studentID string) (section.Section, error) {
	var sectionID string
	err := repo.db.Get(&sectionID, `SELECT section_id FROM section_student WHERE student_id = $1`, studentID)
	if err == sql.ErrNoRows {
		return section.Section{}, section.ErrNotFound
	}
	if err != nil {
		return section.Section{}, wrapDBErr(err, "getting student's section")
	}
	return repo.GetSectionByID(sectionID)
}

func (repo *sectionRepository) QuerySectionsOfTeacher(teacherID string) ([]section.Section, error) {
	sections := make([]section.Section, 0)
	err := repo.db.Select(&sections, `
		SELECT s.* FROM section s
		JOIN section_teacher st ON st.section_id = s.id
		WHERE st.teacher_id = $1
		ORDER BY s.created_at`,
		teacherID,
	)
	if err != nil {
		return nil, wrapDBErr(err, "querying teacher's sections")
	}
	for i := range sections {
		if err = repo.loadMembers(&sections[i]); err != nil {
			return nil, err
		}
	}
	return sections, nil
}

func (repo *sectionRepository) UpdateSectionMembers(sec section.Section) (section.Section, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return section.Section{}, wrapDBErr(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`UPDATE section SET updated_at = $1 WHERE id = $2`, sec.UpdatedAt, sec.ID)
	if err != nil {
		return section.Section{}, wrapDBErr(err, "updating section")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return section.Section{}, section.ErrNotFound
	}

	if err = replaceMembers(tx, "section_student", "student_id", sec.ID, sec.StudentIDs); err != nil {
		return section.Section{}, err
	}
	if err = replaceMembers(tx, "section_teacher", "teacher_id", sec.ID, sec.TeacherIDs); err != nil {
		return section.Section{}, err
	}

	if err = tx.Commit(); err != nil {
		return section.Section{}, wrapDBErr(err, "committing tx")
	}
	return sec, nil
}

// DeleteSectionByID removes the section; timetable entries and roster
// rows go with it via ON DELETE CASCADE.
func (repo *sectionRepository) DeleteSectionByID(id string) error {
	res, err := repo.db.Exec(`DELETE FROM section WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(err, "deleting section")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return section.ErrNotFound
	}
	return nil
}

func (repo *sectionRepository) loadMembers(sec *section.Section) error {
	sec.StudentIDs = make([]string, 0)
	err := repo.db.Select(&sec.StudentIDs, `SELECT student_id FROM section_student WHERE section_id = $1`, sec.ID)
	if err != nil {
		return wrapDBErr(err, "loading section students")
	}
	sec.TeacherIDs = make([]string, 0)
	err = repo.db.Select(&sec.TeacherIDs, `SELECT teacher_id FROM section_teacher WHERE section_id = $1`, sec.ID)
	return wrapDBErr(err, "loading section teachers")
}

func replaceMembers(tx *sqlx.Tx, table, column, sectionID string, ids []string) error {
	if _, err := tx.Exec(`DELETE FROM `+table+` WHERE section_id = $1`, sectionID); err != nil {
		return wrapDBErr(err, "clearing "+table)
	}
	for _, id := range ids {
		_, err := tx.Exec(`INSERT INTO `+table+` (section_id, `+column+`) VALUES ($1, $2)`, sectionID, id)
		if err != nil {
			return wrapDBErr(err, "inserting into "+table)
		}
	}
	return nil
}
