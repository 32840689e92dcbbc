package school_test

import (
	"testing"

	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/audit"
	"github.com/prathomik/sheba/core/notification"
	"github.com/prathomik/sheba/core/school"
	"github.com/prathomik/sheba/core/user"
	dummydb "github.com/prathomik/sheba/storage/database/dummy"
)

type testEnv struct {
	svc       *school.Service
	usrSvc    *user.Service
	notifSvc  *notification.Service
	auditRepo audit.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}

	conf := &core.Config{TestMode: true}
	auditRepo := dummydb.NewAuditRepository(db)
	auditSvc := audit.NewService(auditRepo, nil)
	usrSvc := user.NewService(dummydb.NewUserRepository(db), auditSvc, nil, conf)
	notifSvc := notification.NewService(dummydb.NewNotificationRepository(db))

	return &testEnv{
		svc:       school.NewService(dummydb.NewSchoolRepository(db), usrSvc, notifSvc, auditSvc),
		usrSvc:    usrSvc,
		notifSvc:  notifSvc,
		auditRepo: auditRepo,
	}
}

func register(t *testing.T, svc *school.Service, name, eiin, email string) school.School {
	t.Helper()
	sch, err := svc.Register(school.NewSchool{
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

func TestService_Register(t *testing.T) {
	env := setup(t)

	sch := register(t, env.svc, "Mirpur Adarsha School", "123456", "head@mirpur.edu.bd")

	if sch.Status != school.StatusPending {
		t.Errorf("status = %v; want %v", sch.Status, school.StatusPending)
	}
	if sch.SubscriptionPlan != school.PlanFree {
		t.Errorf("plan = %v; want %v", sch.SubscriptionPlan, school.PlanFree)
	}
	if sch.Balance != 0 {
		t.Errorf("balance = %v; want 0", sch.Balance)
	}

	// a companion unverified headmaster account exists
	admin, err := env.usrSvc.SchoolAdmin(sch.ID)
	if err != nil {
		t.Fatalf("SchoolAdmin() failed: %v", err)
	}
	if admin.Email != "head@mirpur.edu.bd" || admin.EmailVerified || !admin.IsSchoolAdmin() {
		t.Errorf("unexpected headmaster account: %+v", admin)
	}

	// and the registration is audited
	entries, err := env.auditRepo.QueryAllEntries()
	if err != nil {
		t.Fatalf("QueryAllEntries() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != audit.ActionRegistration {
		t.Errorf("unexpected audit entries: %+v", entries)
	}
}

func TestService_Approve(t *testing.T) {
	env := setup(t)

	sch := register(t, env.svc, "Mirpur Adarsha School", "123456", "head@mirpur.edu.bd")
	admin, err := env.usrSvc.SchoolAdmin(sch.ID)
	if err != nil {
		t.Fatalf("SchoolAdmin() failed: %v", err)
	}

	if _, err := env.svc.Approve("super-1", "nope"); err != school.ErrNotFound {
		t.Errorf("Approve(unknown) error = %v; want %v", err, school.ErrNotFound)
	}

	sch, err = env.svc.Approve("super-1", sch.ID)
	if err != nil {
		t.Fatalf("Approve() failed: %v", err)
	}
	if sch.Status != school.StatusApproved {
		t.Errorf("status = %v; want %v", sch.Status, school.StatusApproved)
	}

	// the headmaster got the Bengali approval notification
	notifs, err := env.notifSvc.ByUser(admin.ID)
	if err != nil {
		t.Fatalf("ByUser() failed: %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("notifications = %d; want 1", len(notifs))
	}
	if notifs[0].Title != "আবেদন অনুমোদিত" {
		t.Errorf("title = %q", notifs[0].Title)
	}
	if notifs[0].Message != "আপনার স্কুলের নিবন্ধন সফলভাবে অনুমোদিত হয়েছে।" {
		t.Errorf("message = %q", notifs[0].Message)
	}
	if notifs[0].Read {
		t.Error("notification born read")
	}

	// approving again keeps the status but still audits
	again, err := env.svc.Approve("super-1", sch.ID)
	if err != nil {
		t.Fatalf("Approve() failed: %v", err)
	}
	if again.Status != school.StatusApproved {
		t.Errorf("status = %v; want %v", again.Status, school.StatusApproved)
	}

	entries, err := env.auditRepo.QueryAllEntries()
	if err != nil {
		t.Fatalf("QueryAllEntries() failed: %v", err)
	}
	var approvals int
	for _, e := range entries {
		if e.Action == audit.ActionApproveSchool {
			approvals++
		}
	}
	if approvals != 2 {
		t.Errorf("approval audit entries = %v; want 2", approvals)
	}
}

func TestService_Reject(t *testing.T) {
	env := setup(t)

	sch := register(t, env.svc, "Mirpur Adarsha School", "123456", "head@mirpur.edu.bd")

	if _, err := env.svc.Reject("super-1", "nope"); err != school.ErrNotFound {
		t.Errorf("Reject(unknown) error = %v; want %v", err, school.ErrNotFound)
	}

	sch, err := env.svc.Reject("super-1", sch.ID)
	if err != nil {
		t.Fatalf("Reject() failed: %v", err)
	}
	if sch.Status != school.StatusRejected {
		t.Errorf("status = %v; want %v", sch.Status, school.StatusRejected)
	}

	entries, err := env.auditRepo.QueryAllEntries()
	if err != nil {
		t.Fatalf("QueryAllEntries() failed: %v", err)
	}
	if entries[0].Action != audit.ActionRejectSchool {
		t.Errorf("latest audit action = %v; want %v", entries[0].Action, audit.ActionRejectSchool)
	}
}

func TestService_Subscribe(t *testing.T) {
	env := setup(t)

	sch := register(t, env.svc, "Mirpur Adarsha School", "123456", "head@mirpur.edu.bd")

	sch, err := env.svc.Subscribe("admin-1", sch.ID, school.Subscription{Plan: school.PlanPremium, Amount: 10000})
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	if sch.SubscriptionPlan != school.PlanPremium {
		t.Errorf("plan = %v; want %v", sch.SubscriptionPlan, school.PlanPremium)
	}

	// expiry lands one year out
	wantExpiry := sch.UpdatedAt.AddDate(1, 0, 0)
	if !sch.SubscriptionExpiry.Equal(wantExpiry) {
		t.Errorf("expiry = %v; want %v", sch.SubscriptionExpiry, wantExpiry)
	}

	entries, err := env.auditRepo.QueryAllEntries()
	if err != nil {
		t.Fatalf("QueryAllEntries() failed: %v", err)
	}
	if entries[0].Action != audit.ActionSubscription {
		t.Errorf("latest audit action = %v; want %v", entries[0].Action, audit.ActionSubscription)
	}
	if entries[0].Details != "Upgraded to PREMIUM plan. Paid BDT 10000" {
		t.Errorf("details = %q", entries[0].Details)
	}
}

func TestService_Filter(t *testing.T) {
	env := setup(t)

	sch1 := register(t, env.svc, "Mirpur Adarsha School", "123456", "head@mirpur.edu.bd")
	sch2 := register(t, env.svc, "Khulna Zilla School", "654321", "head@khulna.edu.bd")
	if _, err := env.svc.Approve("super-1", sch2.ID); err != nil {
		t.Fatalf("Approve() failed: %v", err)
	}

	tests := []struct {
		name   string
		filter school.QueryFilter
		want   []string // school IDs
	}{
		{name: "empty filter returns all", want: []string{sch1.ID, sch2.ID}},
		{name: "search by name", filter: school.QueryFilter{Search: "khulna"}, want: []string{sch2.ID}},
		{name: "search by EIIN", filter: school.QueryFilter{Search: "1234"}, want: []string{sch1.ID}},
		{name: "filter by status", filter: school.QueryFilter{Status: school.StatusApproved}, want: []string{sch2.ID}},
		{name: "search and status", filter: school.QueryFilter{Search: "school", Status: school.StatusPending}, want: []string{sch1.ID}},
		{name: "no match", filter: school.QueryFilter{Search: "nope"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.svc.Filter(tt.filter)
			if err != nil {
				t.Fatalf("Filter() failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Filter() returned %d schools; want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Filter()[%d].ID = %v; want %v", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestService_GetByEIIN(t *testing.T) {
	env := setup(t)

	sch := register(t, env.svc, "Mirpur Adarsha School", "123456", "head@mirpur.edu.bd")

	got, err := env.svc.GetByEIIN("123456")
	if err != nil {
		t.Fatalf("GetByEIIN() failed: %v", err)
	}
	if got.ID != sch.ID {
		t.Errorf("GetByEIIN().ID = %v; want %v", got.ID, sch.ID)
	}

	if _, err := env.svc.GetByEIIN("999999"); err != school.ErrNotFound {
		t.Errorf("GetByEIIN(unknown) error = %v; want %v", err, school.ErrNotFound)
	}
}
