package certificate_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prathomik/sheba/core/audit"
	"github.com/prathomik/sheba/core/certificate"
	"github.com/prathomik/sheba/core/school"
	dummydb "github.com/prathomik/sheba/storage/database/dummy"
)

type testEnv struct {
	svc        *certificate.Service
	certRepo   certificate.Repository
	schoolRepo school.Repository
	auditRepo  audit.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	env := &testEnv{
		certRepo:   dummydb.NewCertificateRepository(db),
		schoolRepo: dummydb.NewSchoolRepository(db),
		auditRepo:  dummydb.NewAuditRepository(db),
	}
	env.svc = certificate.NewService(env.certRepo, env.schoolRepo, audit.NewService(env.auditRepo, nil))
	return env
}

func (env *testEnv) createSchool(t *testing.T, name, eiin string) school.School {
	t.Helper()
	now := time.Now().UTC()
	sch, err := env.schoolRepo.CreateSchool(school.School{
		ID:        uuid.New().String(),
		Name:      name,
		EIIN:      eiin,
		Status:    school.StatusApproved,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	return sch
}

func TestService_Create(t *testing.T) {
	env := setup(t)
	sch := env.createSchool(t, "Mirpur Adarsha School", "123456")

	cert, err := env.svc.Create("admin-1", certificate.NewCertificate{
		SchoolID:  sch.ID,
		StudentID: "101",
		Student: certificate.StudentContent{
			Name:       "Karim Ahmed",
			FatherName: "Rahim Ahmed",
			Roll:       "101",
			Class:      "Class 5",
		},
		Remarks: "ভালো ফলাফল",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// issuance always lands APPROVED, whatever the caller intended
	if cert.Status != certificate.StatusApproved {
		t.Errorf("status = %v; want %v", cert.Status, certificate.StatusApproved)
	}
	if cert.IssueDate.IsZero() {
		t.Error("issue date not defaulted")
	}

	// the student blob is stored as JSON with stable keys
	for _, key := range []string{`"name":"Karim Ahmed"`, `"fatherName":"Rahim Ahmed"`, `"roll":"101"`} {
		if !strings.Contains(cert.Content, key) {
			t.Errorf("content %q missing %q", cert.Content, key)
		}
	}

	// issuance is audited
	entries, err := env.auditRepo.QueryAllEntries()
	if err != nil {
		t.Fatalf("QueryAllEntries() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != audit.ActionCreateCert || entries[0].UserID != "admin-1" {
		t.Errorf("unexpected audit entries: %+v", entries)
	}
}

func TestService_Verify(t *testing.T) {
	env := setup(t)
	sch := env.createSchool(t, "Mirpur Adarsha School", "123456")

	issued, err := env.svc.Create("admin-1", certificate.NewCertificate{
		SchoolID:  sch.ID,
		StudentID: "101",
		Student: certificate.StudentContent{
			Name:       "Karim Ahmed",
			FatherName: "Rahim Ahmed",
			Roll:       "101",
			Class:      "Class 5",
		},
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	tests := []struct {
		name        string
		token       string
		wantValid   bool
		wantMessage string
	}{
		{name: "empty token", wantMessage: "Invalid QR Code Format"},
		{name: "garbage", token: "BAD-TOKEN", wantMessage: "Invalid QR Code Format"},
		{name: "wrong prefix", token: "CHECK-123456-101", wantMessage: "Invalid QR Code Format"},
		{name: "unknown school", token: "VERIFY-999999-101", wantMessage: "School not found with EIIN: 999999"},
		{name: "unknown roll", token: "VERIFY-123456-999", wantMessage: "No valid certificate found for this student ID."},
		{name: "valid", token: "VERIFY-123456-101", wantValid: true, wantMessage: "Certificate is Valid"},
		{name: "extra segments ignored", token: "VERIFY-123456-101-extra", wantValid: true, wantMessage: "Certificate is Valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.svc.Verify(tt.token)
			if res.Valid != tt.wantValid {
				t.Errorf("Valid = %v; want %v", res.Valid, tt.wantValid)
			}
			if res.Message != tt.wantMessage {
				t.Errorf("Message = %q; want %q", res.Message, tt.wantMessage)
			}
			if !tt.wantValid {
				if res.Details != nil {
					t.Errorf("Details = %+v; want nil", res.Details)
				}
				return
			}
			want := certificate.VerificationDetails{
				SchoolName:  sch.Name,
				EIIN:        sch.EIIN,
				StudentName: "Karim Ahmed",
				FatherName:  "Rahim Ahmed",
				Class:       "Class 5",
				Roll:        "101",
				IssueDate:   issued.IssueDate,
			}
			if res.Details == nil || *res.Details != want {
				t.Errorf("Details = %+v; want %+v", res.Details, want)
			}
		})
	}
}

func TestService_Verify_duplicateRoll(t *testing.T) {
	env := setup(t)
	sch := env.createSchool(t, "Mirpur Adarsha School", "123456")

	// two certificates for the same roll: the first one issued wins
	if _, err := env.svc.Create("admin-1", certificate.NewCertificate{
		SchoolID: sch.ID, StudentID: "101",
		Student: certificate.StudentContent{Name: "First Issued", Roll: "101"},
	}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := env.svc.Create("admin-1", certificate.NewCertificate{
		SchoolID: sch.ID, StudentID: "101",
		Student: certificate.StudentContent{Name: "Reissued Later", Roll: "101"},
	}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	res := env.svc.Verify("VERIFY-123456-101")
	if !res.Valid {
		t.Fatalf("Verify() = %+v; want valid", res)
	}
	if res.Details.StudentName != "First Issued" {
		t.Errorf("StudentName = %v; want First Issued", res.Details.StudentName)
	}
}

func TestService_Verify_corruptContent(t *testing.T) {
	env := setup(t)
	sch := env.createSchool(t, "Mirpur Adarsha School", "123456")

	// an unparseable content blob degrades to empty student fields
	if _, err := env.certRepo.CreateCertificate(certificate.Certificate{
		ID:        uuid.New().String(),
		SchoolID:  sch.ID,
		StudentID: "101",
		IssueDate: time.Now().UTC(),
		Status:    certificate.StatusApproved,
		Content:   "{not json",
	}); err != nil {
		t.Fatalf("CreateCertificate() failed: %v", err)
	}

	res := env.svc.Verify("VERIFY-123456-101")
	if !res.Valid || res.Message != "Certificate is Valid" {
		t.Fatalf("Verify() = %+v; want valid", res)
	}
	if res.Details.StudentName != "" || res.Details.FatherName != "" || res.Details.Roll != "" {
		t.Errorf("student fields not empty: %+v", res.Details)
	}
	if res.Details.SchoolName != sch.Name || res.Details.EIIN != sch.EIIN {
		t.Errorf("school fields missing: %+v", res.Details)
	}
}

func TestService_Token(t *testing.T) {
	env := setup(t)
	sch := env.createSchool(t, "Mirpur Adarsha School", "123456")

	cert, err := env.svc.Create("admin-1", certificate.NewCertificate{
		SchoolID: sch.ID, StudentID: "101",
		Student: certificate.StudentContent{Name: "Karim Ahmed", Roll: "101"},
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	token, err := env.svc.Token(cert)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	if token != "VERIFY-123456-101" {
		t.Errorf("Token() = %v; want VERIFY-123456-101", token)
	}

	// round-trip: the token a certificate prints is the token that verifies it
	if res := env.svc.Verify(token); !res.Valid {
		t.Errorf("Verify(Token()) = %+v; want valid", res)
	}
}

func TestService_BySchool(t *testing.T) {
	env := setup(t)
	sch1 := env.createSchool(t, "Mirpur Adarsha School", "123456")
	sch2 := env.createSchool(t, "Khulna Zilla School", "654321")

	c1, _ := env.svc.Create("a", certificate.NewCertificate{SchoolID: sch1.ID, StudentID: "101"})
	c2, _ := env.svc.Create("a", certificate.NewCertificate{SchoolID: sch1.ID, StudentID: "102"})
	_, _ = env.svc.Create("a", certificate.NewCertificate{SchoolID: sch2.ID, StudentID: "101"})

	certs, err := env.svc.BySchool(sch1.ID)
	if err != nil {
		t.Fatalf("BySchool() failed: %v", err)
	}
	if len(certs) != 2 || certs[0].ID != c1.ID || certs[1].ID != c2.ID {
		t.Errorf("BySchool() = %+v; want [%v %v] in insertion order", certs, c1.ID, c2.ID)
	}
}

func TestService_Stats(t *testing.T) {
	env := setup(t)
	sch := env.createSchool(t, "Mirpur Adarsha School", "123456")

	stats, err := env.svc.Stats(sch.ID)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.StudentCount != 0 || stats.AverageGPA != 0 {
		t.Errorf("Stats() = %+v; want zero for a school with no records", stats)
	}

	_, _ = env.svc.Create("a", certificate.NewCertificate{
		SchoolID: sch.ID, StudentID: "101",
		Student: certificate.StudentContent{Name: "Karim Ahmed", Roll: "101", GPA: 5},
	})
	_, _ = env.svc.Create("a", certificate.NewCertificate{
		SchoolID: sch.ID, StudentID: "102",
		Student: certificate.StudentContent{Name: "Fatema Khatun", Roll: "102", GPA: 4},
	})
	// no GPA recorded
	_, _ = env.svc.Create("a", certificate.NewCertificate{
		SchoolID: sch.ID, StudentID: "103",
		Student: certificate.StudentContent{Name: "Jamal Uddin", Roll: "103"},
	})
	// a corrupt blob counts as a record but never as a grade
	_, err = env.certRepo.CreateCertificate(certificate.Certificate{
		ID:        uuid.New().String(),
		SchoolID:  sch.ID,
		StudentID: "104",
		Status:    certificate.StatusApproved,
		Content:   "{not json",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateCertificate() failed: %v", err)
	}

	stats, err = env.svc.Stats(sch.ID)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.StudentCount != 4 {
		t.Errorf("student count = %d; want 4", stats.StudentCount)
	}
	if stats.AverageGPA != 4.5 {
		t.Errorf("average GPA = %v; want 4.5", stats.AverageGPA)
	}
}
