package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/prathomik/sheba/core/user"
)

type userRow struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Email         string         `db:"email"`
	Phone         string         `db:"phone"`
	Role          string         `db:"role"`
	SchoolID      sql.NullString `db:"school_id"`
	EmailVerified bool           `db:"email_verified"`
	Subject       string         `db:"subject"`
	Designation   string         `db:"designation"`
	JoinDate      sql.NullTime   `db:"join_date"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r userRow) model() user.User {
	return user.User{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Role:          r.Role,
		SchoolID:      r.SchoolID.String,
		EmailVerified: r.EmailVerified,
		Subject:       r.Subject,
		Designation:   r.Designation,
		JoinDate:      r.JoinDate.Time,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func userModels(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.model())
	}
	return users
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func trapUserNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CreateUser(usr user.User) (user.User, error) {
	const q = `
INSERT INTO app_user (id, name, email, phone, role, school_id, email_verified,
                      subject, designation, join_date, created_at, updated_at)
VALUES (:id, :name, :email, :phone, :role, :school_id, :email_verified,
        :subject, :designation, :join_date, :created_at, :updated_at)`
	if _, err := repo.db.NamedExec(q, repo.row(usr)); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(id string) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, "SELECT * FROM app_user WHERE id = $1", id); err != nil {
		return user.User{}, trapUserNoRowsErr(err, "getting user by id")
	}
	return row.model(), nil
}

func (repo userRepository) GetUserByEmail(email string) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, "SELECT * FROM app_user WHERE email = $1", email); err != nil {
		return user.User{}, trapUserNoRowsErr(err, "getting user by email")
	}
	return row.model(), nil
}

func (repo userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, "SELECT * FROM app_user ORDER BY created_at"); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return userModels(rows), nil
}

func (repo userRepository) FilterUsersBySchool(schoolID string, roles ...string) ([]user.User, error) {
	q := "SELECT * FROM app_user WHERE school_id = ?"
	args := []interface{}{schoolID}
	if len(roles) > 0 {
		q += " AND role IN (?)"
		var err error
		if q, args, err = sqlx.In(q, schoolID, roles); err != nil {
			return nil, errors.Wrap(err, "expanding roles")
		}
	}
	q = repo.db.Rebind(q + " ORDER BY created_at")

	var rows []userRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return userModels(rows), nil
}

func (repo userRepository) UpdateUser(usr user.User) (user.User, error) {
	const q = `
UPDATE app_user
SET name = :name, email = :email, phone = :phone, role = :role, school_id = :school_id,
    email_verified = :email_verified, subject = :subject, designation = :designation,
    join_date = :join_date, updated_at = :updated_at
WHERE id = :id`
	res, err := repo.db.NamedExec(q, repo.row(usr))
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo userRepository) DeleteUsersByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := "DELETE FROM app_user WHERE id IN (" + strings.Join(placeholders, ",") + ")"
	_, err := repo.db.Exec(q, args...)
	return errors.Wrap(err, "deleting users")
}

func (repo userRepository) row(usr user.User) userRow {
	return userRow{
		ID:            usr.ID,
		Name:          usr.Name,
		Email:         usr.Email,
		Phone:         usr.Phone,
		Role:          usr.Role,
		SchoolID:      sql.NullString{String: usr.SchoolID, Valid: usr.SchoolID != ""},
		EmailVerified: usr.EmailVerified,
		Subject:       usr.Subject,
		Designation:   usr.Designation,
		JoinDate:      sql.NullTime{Time: usr.JoinDate.UTC(), Valid: !usr.JoinDate.IsZero()},
		CreatedAt:     usr.CreatedAt.UTC(),
		UpdatedAt:     usr.UpdatedAt.UTC(),
	}
}
