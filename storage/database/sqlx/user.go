package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string) error {
	var count int
	err := repo.db.Get(&count, `SELECT COUNT(*) FROM "user" WHERE lower(username) = lower($1)`, username)
	if err != nil {
		return wrapDBErr(err, "checking username uniqueness")
	}
	if count > 0 {
		return user.ErrUsernameExists
	}

	err = repo.db.Get(&count, `SELECT COUNT(*) FROM "user" WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return wrapDBErr(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO "user" (id, username, email, role, full_name, password_hash, created_at, updated_at)
		VALUES (:id, :username, :email, :role, :full_name, :password_hash, :created_at, :updated_at)`,
		usr,
	)
	if err != nil {
		return user.User{}, wrapDBErr(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.db.Select(&users, `SELECT * FROM "user" ORDER BY created_at`)
	return users, wrapDBErr(err, "querying users")
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, `SELECT * FROM "user" WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, wrapDBErr(err, "getting user by id")
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, `SELECT * FROM "user" WHERE lower(username) = lower($1)`, username)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, wrapDBErr(err, "getting user by username")
}

func (repo *userRepository) UpdateUser(usr user.User) (user.User, error) {
	res, err := repo.db.NamedExec(`
		UPDATE "user"
		SET username = :username, email = :email, role = :role, full_name = :full_name,
		    password_hash = :password_hash, updated_at = :updated_at
		WHERE id = :id`,
		usr,
	)
	if err != nil {
		return user.User{}, wrapDBErr(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) FilterUsersByRole(role string) ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.db.Select(&users, `SELECT * FROM "user" WHERE role = $1 ORDER BY created_at`, role)
	return users, wrapDBErr(err, "filtering users by role")
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return wrapDBErr(err, "building delete query")
	}
	_, err = repo.db.Exec(repo.db.Rebind(query), args...)
	return wrapDBErr(err, "deleting users")
}
