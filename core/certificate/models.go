package certificate

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Status string

// Issuance states. The portal's only issuance path writes APPROVED directly;
// DRAFT and SUBMITTED remain valid stored values for externally imported
// records.
const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
)

// Certificate is an issued certificate record. StudentID holds the student's
// roll number: it is the verification join key and is only unique in
// combination with SchoolID, not globally.
type Certificate struct {
	ID         string    `json:"id"`
	SchoolID   string    `json:"school_id"`
	StudentID  string    `json:"student_id"`
	IssueDate  time.Time `json:"issue_date"`
	VerifiedBy string    `json:"verified_by,omitempty"`
	Status     Status    `json:"status"`
	Content    string    `json:"content"` // JSON-serialized StudentContent
	Remarks    string    `json:"remarks"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// StudentContent is the student-field blob serialized into
// Certificate.Content. The JSON keys are part of the stored format and
// must stay stable across readers.
type StudentContent struct {
	Name       string  `json:"name"`
	FatherName string  `json:"fatherName"`
	MotherName string  `json:"motherName"`
	Roll       string  `json:"roll"`
	Class      string  `json:"class"`
	Section    string  `json:"section,omitempty"`
	DOB        string  `json:"dob,omitempty"`
	Address    string  `json:"address,omitempty"`
	GPA        float64 `json:"gpa,omitempty"`
	Attendance float64 `json:"attendance,omitempty"`
	PostOffice string  `json:"postOffice,omitempty"`
	ExamYear   string  `json:"examYear,omitempty"`
	SerialNo   string  `json:"serialNo,omitempty"`
	DOBWords   string  `json:"dobWords,omitempty"`
}

// NewCertificate contains information needed to issue a Certificate.
// Student fields are stored as given: issuance accepts partial or empty
// student data and performs no completeness validation.
type NewCertificate struct {
	SchoolID  string         `json:"school_id" validate:"required"`
	StudentID string         `json:"student_id" validate:"required"`
	IssueDate time.Time      `json:"issue_date"`
	Student   StudentContent `json:"student"`
	Remarks   string         `json:"remarks"`
}

func (nc *NewCertificate) Validate(validate *validator.Validate) error {
	return validate.Struct(nc)
}

// SchoolStats aggregates a school's issued certificates.
type SchoolStats struct {
	StudentCount int     `json:"student_count"`
	AverageGPA   float64 `json:"average_gpa"`
}

// VerificationDetails is the display detail set assembled on a successful
// verification, from the resolved School and the parsed content blob.
type VerificationDetails struct {
	SchoolName  string    `json:"schoolName"`
	EIIN        string    `json:"eiin"`
	StudentName string    `json:"studentName"`
	FatherName  string    `json:"fatherName"`
	Class       string    `json:"class"`
	Roll        string    `json:"roll"`
	IssueDate   time.Time `json:"issueDate"`
	Remarks     string    `json:"remarks"`
}

// VerificationResult is the structured outcome of a QR verification.
// All failure modes are encoded here; Verify never returns an error.
type VerificationResult struct {
	Valid   bool                 `json:"valid"`
	Message string               `json:"message"`
	Details *VerificationDetails `json:"details,omitempty"`
}
