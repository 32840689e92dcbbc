package school

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prathomik/sheba/core/audit"
	"github.com/prathomik/sheba/core/notification"
	"github.com/prathomik/sheba/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("school not found")

	nowFunc = time.Now // mockable
)

// Approval notification texts, shown as-is by the portal frontend.
const (
	approvalNotifTitle   = "আবেদন অনুমোদিত"
	approvalNotifMessage = "আপনার স্কুলের নিবন্ধন সফলভাবে অনুমোদিত হয়েছে।"
)

type (
	Repository interface {
		CreateSchool(sch School) (School, error)
		GetSchoolByID(id string) (School, error)
		// GetSchoolByEIIN resolves by exact EIIN match. EIIN uniqueness is
		// not enforced at registration; the first match wins.
		GetSchoolByEIIN(eiin string) (School, error)
		QueryAllSchools() ([]School, error)
		// FilterSchools applies AND operation on available QueryFilter fields.
		FilterSchools(filter QueryFilter) ([]School, error)
		UpdateSchool(sch School) (School, error)
	}

	Service struct {
		repo     Repository
		usrSvc   *user.Service
		notifSvc *notification.Service
		auditSvc *audit.Service
	}
)

func NewService(repo Repository, usrSvc *user.Service, notifSvc *notification.Service, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, usrSvc: usrSvc, notifSvc: notifSvc, auditSvc: auditSvc}
}

// Register creates a School in PENDING state on the FREE plan together with
// its companion unverified SCHOOL_ADMIN account.
//
// No uniqueness check is performed on EIIN or email here; the PostgreSQL
// store carries unique indexes, the in-memory store accepts duplicates.
func (svc *Service) Register(ns NewSchool) (School, error) {
	now := nowFunc().UTC()
	sch, err := svc.repo.CreateSchool(School{
		ID:                 uuid.New().String(),
		Name:               ns.Name,
		EIIN:               ns.EIIN,
		Division:           ns.Division,
		District:           ns.District,
		Upazila:            ns.Upazila,
		Email:              ns.Email,
		Phone:              ns.Phone,
		HeadmasterName:     ns.HeadmasterName,
		Status:             StatusPending,
		SubscriptionPlan:   PlanFree,
		SubscriptionExpiry: now,
		Balance:            0,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return School{}, err
	}

	admin, err := svc.usrSvc.CreateSchoolAdmin(ns.HeadmasterName, ns.Email, ns.Phone, sch.ID)
	if err != nil {
		return School{}, err
	}

	svc.auditSvc.Log(admin.ID, audit.ActionRegistration, fmt.Sprintf("School %s registered", sch.Name))
	return sch, nil
}

// Approve moves a school to APPROVED and notifies its headmaster account.
// Approving an already approved school leaves the status untouched but still
// appends an audit entry. A missing school resolves to ErrNotFound.
func (svc *Service) Approve(adminID, schoolID string) (School, error) {
	sch, err := svc.repo.GetSchoolByID(schoolID)
	if err != nil {
		return School{}, err
	}

	if sch.Status != StatusApproved {
		sch.Status = StatusApproved
		sch.UpdatedAt = nowFunc().UTC()
		if sch, err = svc.repo.UpdateSchool(sch); err != nil {
			return School{}, err
		}
	}
	svc.auditSvc.Log(adminID, audit.ActionApproveSchool, fmt.Sprintf("Approved school %s", sch.Name))

	if schAdmin, err := svc.usrSvc.SchoolAdmin(sch.ID); err == nil {
		_, _ = svc.notifSvc.Push(schAdmin.ID, approvalNotifTitle, approvalNotifMessage, notification.TypeSuccess)
	}
	return sch, nil
}

// Reject moves a school to REJECTED.
func (svc *Service) Reject(adminID, schoolID string) (School, error) {
	sch, err := svc.repo.GetSchoolByID(schoolID)
	if err != nil {
		return School{}, err
	}

	if sch.Status != StatusRejected {
		sch.Status = StatusRejected
		sch.UpdatedAt = nowFunc().UTC()
		if sch, err = svc.repo.UpdateSchool(sch); err != nil {
			return School{}, err
		}
	}
	svc.auditSvc.Log(adminID, audit.ActionRejectSchool, fmt.Sprintf("Rejected school %s", sch.Name))
	return sch, nil
}

// Subscribe upgrades the school's plan for one year.
func (svc *Service) Subscribe(actorID, schoolID string, sub Subscription) (School, error) {
	sch, err := svc.repo.GetSchoolByID(schoolID)
	if err != nil {
		return School{}, err
	}

	now := nowFunc().UTC()
	sch.SubscriptionPlan = sub.Plan
	sch.SubscriptionExpiry = now.AddDate(1, 0, 0)
	sch.UpdatedAt = now
	if sch, err = svc.repo.UpdateSchool(sch); err != nil {
		return School{}, err
	}

	svc.auditSvc.Log(actorID, audit.ActionSubscription,
		fmt.Sprintf("Upgraded to %s plan. Paid BDT %.0f", sub.Plan, sub.Amount))
	return sch, nil
}

func (svc *Service) GetByID(id string) (School, error) {
	return svc.repo.GetSchoolByID(id)
}

func (svc *Service) GetByEIIN(eiin string) (School, error) {
	return svc.repo.GetSchoolByEIIN(eiin)
}

func (svc *Service) QueryAll() ([]School, error) {
	return svc.repo.QueryAllSchools()
}

func (svc *Service) Filter(filter QueryFilter) ([]School, error) {
	if filter.IsEmpty() {
		return svc.repo.QueryAllSchools()
	}
	return svc.repo.FilterSchools(filter)
}
