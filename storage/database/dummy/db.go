package dummydb

import (
	"sync"

	"github.com/prathomik/sheba/core/audit"
	"github.com/prathomik/sheba/core/certificate"
	"github.com/prathomik/sheba/core/notification"
	"github.com/prathomik/sheba/core/school"
	"github.com/prathomik/sheba/core/user"
)

// DB is the in-memory entity store: the dev/test stand-in for PostgreSQL.
// Certificates and audit entries live in slices because their ordering is
// contractual (insertion order, newest-first respectively).
type (
	DB struct {
		school       *schoolTable
		user         *userTable
		certificate  *certificateTable
		notification *notificationTable
		audit        *auditTable
	}

	schoolTable struct {
		sync.RWMutex
		table map[string]*school.School
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	certificateTable struct {
		sync.RWMutex
		rows []certificate.Certificate
	}

	notificationTable struct {
		sync.RWMutex
		table map[string]*notification.Notification
	}

	auditTable struct {
		sync.RWMutex
		rows []audit.Entry
	}
)

func Open() (*DB, error) {
	db := &DB{
		school:       &schoolTable{table: make(map[string]*school.School)},
		user:         &userTable{table: make(map[string]*user.User)},
		certificate:  &certificateTable{},
		notification: &notificationTable{table: make(map[string]*notification.Notification)},
		audit:        &auditTable{},
	}
	return db, nil
}
