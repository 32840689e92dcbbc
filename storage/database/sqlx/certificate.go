package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/prathomik/sheba/core/certificate"
)

type certificateRow struct {
	ID         string    `db:"id"`
	Seq        int64     `db:"seq"`
	SchoolID   string    `db:"school_id"`
	StudentID  string    `db:"student_id"`
	IssueDate  time.Time `db:"issue_date"`
	VerifiedBy string    `db:"verified_by"`
	Status     string    `db:"status"`
	Content    string    `db:"content"`
	Remarks    string    `db:"remarks"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r certificateRow) model() certificate.Certificate {
	return certificate.Certificate{
		ID:         r.ID,
		SchoolID:   r.SchoolID,
		StudentID:  r.StudentID,
		IssueDate:  r.IssueDate,
		VerifiedBy: r.VerifiedBy,
		Status:     certificate.Status(r.Status),
		Content:    r.Content,
		Remarks:    r.Remarks,
		CreatedAt:  r.CreatedAt,
	}
}

type certificateRepository struct {
	db *sqlx.DB
}

var _ certificate.Repository = (*certificateRepository)(nil) // interface compliance check

func NewCertificateRepository(db *sqlx.DB) *certificateRepository {
	return &certificateRepository{db: db}
}

func (repo certificateRepository) CreateCertificate(cert certificate.Certificate) (certificate.Certificate, error) {
	const q = `
INSERT INTO certificate (id, school_id, student_id, issue_date, verified_by, status, content, remarks, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.Exec(q,
		cert.ID, cert.SchoolID, cert.StudentID, cert.IssueDate.UTC(), cert.VerifiedBy,
		string(cert.Status), cert.Content, cert.Remarks, cert.CreatedAt.UTC(),
	)
	if err != nil {
		return certificate.Certificate{}, errors.Wrap(err, "inserting certificate")
	}
	return cert, nil
}

func (repo certificateRepository) GetCertificateByID(id string) (certificate.Certificate, error) {
	var row certificateRow
	if err := repo.db.Get(&row, "SELECT * FROM certificate WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return certificate.Certificate{}, certificate.ErrNotFound
		}
		return certificate.Certificate{}, errors.Wrap(err, "getting certificate by id")
	}
	return row.model(), nil
}

func (repo certificateRepository) QueryCertificatesBySchool(schoolID string) ([]certificate.Certificate, error) {
	var rows []certificateRow
	const q = "SELECT * FROM certificate WHERE school_id = $1 ORDER BY seq"
	if err := repo.db.Select(&rows, q, schoolID); err != nil {
		return nil, errors.Wrap(err, "querying certificates")
	}
	certs := make([]certificate.Certificate, 0, len(rows))
	for _, r := range rows {
		certs = append(certs, r.model())
	}
	return certs, nil
}

func (repo certificateRepository) GetCertificateByStudent(schoolID, studentID string) (certificate.Certificate, error) {
	var row certificateRow
	const q = "SELECT * FROM certificate WHERE school_id = $1 AND student_id = $2 ORDER BY seq LIMIT 1"
	if err := repo.db.Get(&row, q, schoolID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return certificate.Certificate{}, certificate.ErrNotFound
		}
		return certificate.Certificate{}, errors.Wrap(err, "getting certificate by student")
	}
	return row.model(), nil
}
