package echoapi_test

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/prathomik/sheba/apps/api/echo"
	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/audit"
	"github.com/prathomik/sheba/core/certificate"
	"github.com/prathomik/sheba/core/notification"
	"github.com/prathomik/sheba/core/school"
	"github.com/prathomik/sheba/core/user"
	emailsvc "github.com/prathomik/sheba/services/email"
	logsvc "github.com/prathomik/sheba/services/logger"
	remarkssvc "github.com/prathomik/sheba/services/remarks"
	dummydb "github.com/prathomik/sheba/storage/database/dummy"
)

var (
	usrRepo    user.Repository
	schoolRepo school.Repository
	certRepo   certificate.Repository
	notifRepo  notification.Repository

	usrSvc    *user.Service
	schoolSvc *school.Service
	certSvc   *certificate.Service
	notifSvc  *notification.Service
	auditSvc  *audit.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

func setup(t *testing.T) *echoapi.Server {
	t.Helper()

	conf := &core.Config{
		AppName:                       "Prathomik Sheba",
		Env:                           "TEST",
		TestMode:                      true,
		SecretKey:                     []byte("secret"),
		FrontendBaseURL:               "http://localhost:3000",
		DefaultFromName:               "Prathomik Sheba",
		DefaultFromAddr:               "noreply@localhost",
		EmailVerificationTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	schoolRepo = dummydb.NewSchoolRepository(db)
	certRepo = dummydb.NewCertificateRepository(db)
	notifRepo = dummydb.NewNotificationRepository(db)

	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	auditSvc = audit.NewService(dummydb.NewAuditRepository(db), logger)
	usrSvc = user.NewService(usrRepo, auditSvc, mailSvc, conf)
	notifSvc = notification.NewService(notifRepo)
	schoolSvc = school.NewService(schoolRepo, usrSvc, notifSvc, auditSvc)
	certSvc = certificate.NewService(certRepo, schoolRepo, auditSvc)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	school.InitValidators(validate, translator)
	user.InitTokens(conf)

	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    usrSvc,
		SchoolSvc:  schoolSvc,
		CertSvc:    certSvc,
		NotifSvc:   notifSvc,
		AuditSvc:   auditSvc,
		RemarksSvc: remarkssvc.NewTemplateService(),
		Validate:   validate,
		Translator: translator,
	})
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func createUser(t *testing.T, name, email, role, schoolID string, verified bool) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr, err := usrRepo.CreateUser(user.User{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         email,
		Role:          role,
		SchoolID:      schoolID,
		EmailVerified: verified,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func registerSchool(t *testing.T, name, eiin, email string) school.School {
	t.Helper()
	sch, err := schoolSvc.Register(school.NewSchool{
		Name:           name,
		EIIN:           eiin,
		Division:       "Dhaka",
		District:       "Dhaka",
		Upazila:        "Mirpur",
		Email:          email,
		Phone:          "01700000000",
		HeadmasterName: "Abdul Karim",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	return sch
}

func issueCertificate(t *testing.T, actorID, schoolID, roll string, student certificate.StudentContent) certificate.Certificate {
	t.Helper()
	cert, err := certSvc.Create(actorID, certificate.NewCertificate{
		SchoolID:  schoolID,
		StudentID: roll,
		Student:   student,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return cert
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
