package school

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/prathomik/sheba/core"
)

type Status string

// School approval states. A school is created PENDING; only the approval
// and rejection actions move it out, and neither transition is reversible.
const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "FREE"
	PlanBasic   SubscriptionPlan = "BASIC"   // 100 certificates
	PlanPremium SubscriptionPlan = "PREMIUM" // unlimited
)

var AllPlans = []SubscriptionPlan{PlanFree, PlanBasic, PlanPremium}

type School struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	EIIN               string           `json:"eiin"`
	Division           string           `json:"division"`
	District           string           `json:"district"`
	Upazila            string           `json:"upazila"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone"`
	HeadmasterName     string           `json:"headmaster_name"`
	Status             Status           `json:"status"`
	SubscriptionPlan   SubscriptionPlan `json:"subscription_plan"`
	SubscriptionExpiry time.Time        `json:"subscription_expiry"`
	Balance            float64          `json:"balance"`    // micropayments wallet
	CreatedAt          time.Time        `json:"created_at"` // UTC
	UpdatedAt          time.Time        `json:"updated_at"` // UTC
}

// NewSchool contains information needed to register a new School.
type NewSchool struct {
	Name           string `json:"name" validate:"required"`
	EIIN           string `json:"eiin" validate:"required,eiin"`
	Division       string `json:"division" validate:"required"`
	District       string `json:"district" validate:"required"`
	Upazila        string `json:"upazila" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	HeadmasterName string `json:"headmaster_name" validate:"required"`
}

func (ns *NewSchool) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.EIIN = core.CleanString(ns.EIIN)
	ns.Division = core.CleanString(ns.Division)
	ns.District = core.CleanString(ns.District)
	ns.Upazila = core.CleanString(ns.Upazila)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	ns.HeadmasterName = core.CleanString(ns.HeadmasterName)
	return validate.Struct(ns)
}

// Subscription is an upgrade request for an approved school.
type Subscription struct {
	Plan   SubscriptionPlan `json:"plan" validate:"required,plan"`
	Amount float64          `json:"amount"`
}

func (s *Subscription) Validate(validate *validator.Validate) error {
	s.Plan = SubscriptionPlan(core.CleanString(string(s.Plan), true))
	s.Plan = SubscriptionPlan(strings.ToUpper(string(s.Plan)))
	return validate.Struct(s)
}

type QueryFilter struct {
	// Search does a case-insensitive match on School.Name or an exact
	// substring match on School.EIIN.
	Search string `query:"search"`
	Status Status `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = Status(strings.ToUpper(core.CleanString(string(qf.Status))))
}
