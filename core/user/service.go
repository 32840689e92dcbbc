package user

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/audit"
)

var (
	// errors
	ErrNotFound         = errors.New("user not found")
	ErrEmailNotVerified = errors.New("email address not verified")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateUser(usr User) (User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
		QueryAllUsers() ([]User, error)
		// FilterUsersBySchool returns users owned by the school,
		// optionally restricted to the given roles.
		FilterUsersBySchool(schoolID string, roles ...string) ([]User, error)
		UpdateUser(usr User) (User, error)
		DeleteUsersByID(ids ...string) error
	}

	Service struct {
		repo     Repository
		auditSvc *audit.Service
		mailSvc  core.EmailService
		conf     *core.Config
	}
)

func NewService(repo Repository, auditSvc *audit.Service, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, auditSvc: auditSvc, mailSvc: mailSvc, conf: conf}
}

// Authenticate resolves a login-capable account by email.
// A SCHOOL_ADMIN account is gated on email verification; super-admin and
// teacher accounts bypass the gate (teachers are pre-verified at creation).
func (svc *Service) Authenticate(email string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if usr.IsSchoolAdmin() && !usr.EmailVerified {
		return User{}, ErrEmailNotVerified
	}
	return usr, nil
}

// CreateSchoolAdmin creates the companion headmaster account for a newly
// registered school, unverified, and emails the verification link.
func (svc *Service) CreateSchoolAdmin(name, email, phone, schoolID string) (User, error) {
	now := nowFunc().UTC()
	usr, err := svc.repo.CreateUser(User{
		ID:            uuid.New().String(),
		Name:          core.CleanString(name),
		Email:         core.CleanString(email, true /* lower */),
		Phone:         core.CleanString(phone),
		Role:          RoleSchoolAdmin,
		SchoolID:      schoolID,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return User{}, err
	}
	svc.sendVerificationMail(usr)
	return usr, nil
}

// VerifyEmail flips the verification flag for the account registered under
// the given email. Verifying an already-verified account is a no-op beyond
// the extra audit entry.
func (svc *Service) VerifyEmail(email string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if !usr.EmailVerified {
		usr.EmailVerified = true
		usr.UpdatedAt = nowFunc().UTC()
		if usr, err = svc.repo.UpdateUser(usr); err != nil {
			return User{}, err
		}
	}
	svc.auditSvc.Log(usr.ID, audit.ActionEmailVerified, fmt.Sprintf("Email %s verified", usr.Email))
	return usr, nil
}

// ConfirmEmail verifies an account from the signed uid/token pair carried by
// the emailed verification link.
func (svc *Service) ConfirmEmail(uid, token string) (User, error) {
	id, err := decodeUID(uid)
	if err != nil {
		return User{}, errInvalidToken
	}
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return User{}, err
	}
	if err = verifyToken(usr, token); err != nil {
		return User{}, err
	}
	return svc.VerifyEmail(usr.Email)
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

// SchoolAdmin resolves the headmaster account linked to a school.
func (svc *Service) SchoolAdmin(schoolID string) (User, error) {
	admins, err := svc.repo.FilterUsersBySchool(schoolID, RoleSchoolAdmin)
	if err != nil {
		return User{}, err
	}
	if len(admins) == 0 {
		return User{}, ErrNotFound
	}
	return admins[0], nil
}

// AddTeacher creates a pre-verified TEACHER account on the school roster.
func (svc *Service) AddTeacher(actorID string, nt NewTeacher) (User, error) {
	now := nowFunc().UTC()
	usr, err := svc.repo.CreateUser(User{
		ID:            uuid.New().String(),
		Name:          core.CleanString(nt.Name),
		Email:         core.CleanString(nt.Email, true /* lower */),
		Phone:         core.CleanString(nt.Phone),
		Role:          RoleTeacher,
		SchoolID:      nt.SchoolID,
		EmailVerified: true,
		Subject:       core.CleanString(nt.Subject),
		Designation:   core.CleanString(nt.Designation),
		JoinDate:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return User{}, err
	}
	svc.auditSvc.Log(actorID, audit.ActionAddTeacher, fmt.Sprintf("Added teacher %s", usr.Name))
	return usr, nil
}

// RemoveTeacher removes the teacher from the roster and from the
// login-capable account set; subsequent logins resolve to ErrNotFound.
func (svc *Service) RemoveTeacher(actorID, id string) error {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteUsersByID(id); err != nil {
		return err
	}
	svc.auditSvc.Log(actorID, audit.ActionRemoveTeacher, fmt.Sprintf("Removed teacher %s", usr.Name))
	return nil
}

func (svc *Service) TeachersBySchool(schoolID string) ([]User, error) {
	return svc.repo.FilterUsersBySchool(schoolID, RoleTeacher)
}

func (svc *Service) sendVerificationMail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	token := MakeToken(usr)
	url := fmt.Sprintf("%s/verify-email?uid=%s&token=%s", svc.conf.FrontendBaseURL, EncodeUID(usr), token)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Verify your email address",
		TextContent: fmt.Sprintf(
			"Dear %s,\n\nPlease confirm your email address to activate your school account:\n%s\n\n"+
				"If you did not register a school on this portal, ignore this email.",
			usr.Name, url,
		),
	})
}
