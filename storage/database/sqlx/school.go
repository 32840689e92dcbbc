package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/prathomik/sheba/core/school"
)

type schoolRow struct {
	ID                 string    `db:"id"`
	Name               string    `db:"name"`
	EIIN               string    `db:"eiin"`
	Division           string    `db:"division"`
	District           string    `db:"district"`
	Upazila            string    `db:"upazila"`
	Email              string    `db:"email"`
	Phone              string    `db:"phone"`
	HeadmasterName     string    `db:"headmaster_name"`
	Status             string    `db:"status"`
	SubscriptionPlan   string    `db:"subscription_plan"`
	SubscriptionExpiry time.Time `db:"subscription_expiry"`
	Balance            float64   `db:"balance"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (r schoolRow) model() school.School {
	return school.School{
		ID:                 r.ID,
		Name:               r.Name,
		EIIN:               r.EIIN,
		Division:           r.Division,
		District:           r.District,
		Upazila:            r.Upazila,
		Email:              r.Email,
		Phone:              r.Phone,
		HeadmasterName:     r.HeadmasterName,
		Status:             school.Status(r.Status),
		SubscriptionPlan:   school.SubscriptionPlan(r.SubscriptionPlan),
		SubscriptionExpiry: r.SubscriptionExpiry,
		Balance:            r.Balance,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func schoolModels(rows []schoolRow) []school.School {
	schools := make([]school.School, 0, len(rows))
	for _, r := range rows {
		schools = append(schools, r.model())
	}
	return schools
}

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to school.ErrNotFound
func trapSchoolNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return school.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo schoolRepository) CreateSchool(sch school.School) (school.School, error) {
	const q = `
INSERT INTO school (id, name, eiin, division, district, upazila, email, phone, headmaster_name,
                    status, subscription_plan, subscription_expiry, balance, created_at, updated_at)
VALUES (:id, :name, :eiin, :division, :district, :upazila, :email, :phone, :headmaster_name,
        :status, :subscription_plan, :subscription_expiry, :balance, :created_at, :updated_at)`
	if _, err := repo.db.NamedExec(q, repo.row(sch)); err != nil {
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	return sch, nil
}

func (repo schoolRepository) GetSchoolByID(id string) (school.School, error) {
	var row schoolRow
	if err := repo.db.Get(&row, "SELECT * FROM school WHERE id = $1", id); err != nil {
		return school.School{}, trapSchoolNoRowsErr(err, "getting school by id")
	}
	return row.model(), nil
}

func (repo schoolRepository) GetSchoolByEIIN(eiin string) (school.School, error) {
	var row schoolRow
	const q = "SELECT * FROM school WHERE eiin = $1 ORDER BY created_at LIMIT 1"
	if err := repo.db.Get(&row, q, eiin); err != nil {
		return school.School{}, trapSchoolNoRowsErr(err, "getting school by eiin")
	}
	return row.model(), nil
}

func (repo schoolRepository) QueryAllSchools() ([]school.School, error) {
	var rows []schoolRow
	if err := repo.db.Select(&rows, "SELECT * FROM school ORDER BY created_at"); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	return schoolModels(rows), nil
}

func (repo schoolRepository) FilterSchools(filter school.QueryFilter) ([]school.School, error) {
	q := "SELECT * FROM school WHERE 1=1"
	args := make([]interface{}, 0, 2)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		q += " AND status = $1"
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q += " AND (name ILIKE $" + itoa(len(args)) + " OR eiin LIKE $" + itoa(len(args)) + ")"
	}
	q += " ORDER BY created_at"

	var rows []schoolRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering schools")
	}
	return schoolModels(rows), nil
}

func (repo schoolRepository) UpdateSchool(sch school.School) (school.School, error) {
	const q = `
UPDATE school
SET name = :name, eiin = :eiin, division = :division, district = :district, upazila = :upazila,
    email = :email, phone = :phone, headmaster_name = :headmaster_name, status = :status,
    subscription_plan = :subscription_plan, subscription_expiry = :subscription_expiry,
    balance = :balance, updated_at = :updated_at
WHERE id = :id`
	res, err := repo.db.NamedExec(q, repo.row(sch))
	if err != nil {
		return school.School{}, errors.Wrap(err, "updating school")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.School{}, school.ErrNotFound
	}
	return sch, nil
}

func (repo schoolRepository) row(sch school.School) schoolRow {
	return schoolRow{
		ID:                 sch.ID,
		Name:               sch.Name,
		EIIN:               sch.EIIN,
		Division:           sch.Division,
		District:           sch.District,
		Upazila:            sch.Upazila,
		Email:              sch.Email,
		Phone:              sch.Phone,
		HeadmasterName:     sch.HeadmasterName,
		Status:             string(sch.Status),
		SubscriptionPlan:   string(sch.SubscriptionPlan),
		SubscriptionExpiry: sch.SubscriptionExpiry.UTC(),
		Balance:            sch.Balance,
		CreatedAt:          sch.CreatedAt.UTC(),
		UpdatedAt:          sch.UpdatedAt.UTC(),
	}
}
