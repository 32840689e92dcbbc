package dummydb

import "github.com/prathomik/sheba/core/certificate"

type certificateRepository struct {
	db *certificateTable
}

var _ certificate.Repository = (*certificateRepository)(nil) // interface compliance check

func NewCertificateRepository(db *DB) certificate.Repository {
	return &certificateRepository{db: db.certificate}
}

func (repo *certificateRepository) CreateCertificate(cert certificate.Certificate) (certificate.Certificate, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append(repo.db.rows, cert)
	return cert, nil
}

func (repo *certificateRepository) GetCertificateByID(id string) (certificate.Certificate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cert := range repo.db.rows {
		if cert.ID == id {
			return cert, nil
		}
	}
	return certificate.Certificate{}, certificate.ErrNotFound
}

func (repo *certificateRepository) QueryCertificatesBySchool(schoolID string) ([]certificate.Certificate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	certs := make([]certificate.Certificate, 0)
	for _, cert := range repo.db.rows {
		if cert.SchoolID == schoolID {
			certs = append(certs, cert)
		}
	}
	return certs, nil
}

// GetCertificateByStudent returns the first match in insertion order:
// re-issued certificates for the same roll do not shadow older ones.
func (repo *certificateRepository) GetCertificateByStudent(schoolID, studentID string) (certificate.Certificate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cert := range repo.db.rows {
		if cert.SchoolID == schoolID && cert.StudentID == studentID {
			return cert, nil
		}
	}
	return certificate.Certificate{}, certificate.ErrNotFound
}
