package audit

import "time"

// Administrative action tags. The log accepts free-form tags; these are the
// ones the portal itself writes.
const (
	ActionRegistration  = "REGISTRATION"
	ActionEmailVerified = "EMAIL_VERIFIED"
	ActionApproveSchool = "APPROVE_SCHOOL"
	ActionRejectSchool  = "REJECT_SCHOOL"
	ActionSubscription  = "SUBSCRIPTION"
	ActionCreateCert    = "CREATE_CERT"
	ActionAddTeacher    = "ADD_TEACHER"
	ActionRemoveTeacher = "REMOVE_TEACHER"
)

// Entry is a single administrative action record. Entries are append-only:
// never mutated or deleted once written.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"` // UTC
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}
