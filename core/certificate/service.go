package certificate

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prathomik/sheba/core/audit"
	"github.com/prathomik/sheba/core/school"
)

var (
	// errors
	ErrNotFound = errors.New("certificate not found")

	nowFunc = time.Now // mockable
)

// Verification result messages. These are contractual: verifiers display
// them verbatim and integration tests match them byte for byte.
const (
	msgInvalidFormat  = "Invalid QR Code Format"
	msgSchoolNotFound = "School not found with EIIN: %s"
	msgCertNotFound   = "No valid certificate found for this student ID."
	msgValid          = "Certificate is Valid"
)

type (
	Repository interface {
		CreateCertificate(cert Certificate) (Certificate, error)
		GetCertificateByID(id string) (Certificate, error)
		// QueryCertificatesBySchool returns the school's certificates in
		// insertion order.
		QueryCertificatesBySchool(schoolID string) ([]Certificate, error)
		// GetCertificateByStudent resolves the first certificate matching
		// (schoolID, studentID) in insertion order. Multiple certificates may
		// exist for the same roll; re-issued records do not shadow older ones.
		GetCertificateByStudent(schoolID, studentID string) (Certificate, error)
	}

	Service struct {
		repo       Repository
		schoolRepo school.Repository
		auditSvc   *audit.Service
	}
)

func NewService(repo Repository, schoolRepo school.Repository, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, schoolRepo: schoolRepo, auditSvc: auditSvc}
}

// Create issues a certificate record. The record is stored as given —
// partial or empty student data is accepted — and the status is fixed to
// APPROVED: the portal has no server-side review step.
func (svc *Service) Create(actorID string, nc NewCertificate) (Certificate, error) {
	content, err := json.Marshal(nc.Student)
	if err != nil {
		return Certificate{}, err
	}

	issueDate := nc.IssueDate
	if issueDate.IsZero() {
		issueDate = nowFunc().UTC()
	}

	cert, err := svc.repo.CreateCertificate(Certificate{
		ID:        uuid.New().String(),
		SchoolID:  nc.SchoolID,
		StudentID: nc.StudentID,
		IssueDate: issueDate,
		Status:    StatusApproved,
		Content:   string(content),
		Remarks:   nc.Remarks,
		CreatedAt: nowFunc().UTC(),
	})
	if err != nil {
		return Certificate{}, err
	}

	svc.auditSvc.Log(actorID, audit.ActionCreateCert,
		fmt.Sprintf("Certificate generated for student %s", cert.StudentID))
	return cert, nil
}

func (svc *Service) GetByID(id string) (Certificate, error) {
	return svc.repo.GetCertificateByID(id)
}

func (svc *Service) BySchool(schoolID string) ([]Certificate, error) {
	return svc.repo.QueryCertificatesBySchool(schoolID)
}

// Stats summarizes a school's issued certificates for the dashboard insight.
// The GPA average only covers records whose content blob carries a non-zero
// GPA; a school with no graded records averages to zero.
func (svc *Service) Stats(schoolID string) (SchoolStats, error) {
	certs, err := svc.repo.QueryCertificatesBySchool(schoolID)
	if err != nil {
		return SchoolStats{}, err
	}

	stats := SchoolStats{StudentCount: len(certs)}
	var sum float64
	var graded int
	for _, cert := range certs {
		var student StudentContent
		if err := json.Unmarshal([]byte(cert.Content), &student); err != nil {
			continue
		}
		if student.GPA > 0 {
			sum += student.GPA
			graded++
		}
	}
	if graded > 0 {
		stats.AverageGPA = sum / float64(graded)
	}
	return stats, nil
}

// Token returns the verification token for an issued certificate.
func (svc *Service) Token(cert Certificate) (string, error) {
	sch, err := svc.schoolRepo.GetSchoolByID(cert.SchoolID)
	if err != nil {
		return "", err
	}
	return BuildToken(sch.EIIN, cert.StudentID), nil
}

// Verify resolves a scanned verification token against issued certificates.
// It never fails with an error: every failure mode is encoded in the result,
// and the checks run in a fixed order — token format, then school by EIIN,
// then certificate by (school, roll).
func (svc *Service) Verify(token string) VerificationResult {
	eiin, roll, err := parseToken(token)
	if err != nil {
		return VerificationResult{Valid: false, Message: msgInvalidFormat}
	}

	sch, err := svc.schoolRepo.GetSchoolByEIIN(eiin)
	if err != nil {
		return VerificationResult{Valid: false, Message: fmt.Sprintf(msgSchoolNotFound, eiin)}
	}

	cert, err := svc.repo.GetCertificateByStudent(sch.ID, roll)
	if err != nil {
		return VerificationResult{Valid: false, Message: msgCertNotFound}
	}

	// A malformed content blob degrades to empty student fields rather than
	// failing the verification.
	var student StudentContent
	_ = json.Unmarshal([]byte(cert.Content), &student)

	return VerificationResult{
		Valid:   true,
		Message: msgValid,
		Details: &VerificationDetails{
			SchoolName:  sch.Name,
			EIIN:        sch.EIIN,
			StudentName: student.Name,
			FatherName:  student.FatherName,
			Class:       student.Class,
			Roll:        student.Roll,
			IssueDate:   cert.IssueDate,
			Remarks:     cert.Remarks,
		},
	}
}
