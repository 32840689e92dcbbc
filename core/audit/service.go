package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var nowFunc = time.Now // mockable

type (
	Repository interface {
		// InsertEntry prepends the entry: the most recent entry comes first
		// on every subsequent query.
		InsertEntry(entry Entry) (Entry, error)
		// QueryAllEntries returns a snapshot copy, newest first.
		QueryAllEntries() ([]Entry, error)
	}

	Service struct {
		repo   Repository
		logger errorLogger
	}

	errorLogger interface {
		Error(msg string, args ...interface{})
	}
)

func NewService(repo Repository, logger errorLogger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Log records an administrative action. It is fire-and-forget: a failing
// insert is reported but never propagated to the calling operation.
func (svc *Service) Log(userID, action, details string) {
	entry := Entry{
		ID:        uuid.New().String(),
		Timestamp: nowFunc().UTC(),
		UserID:    userID,
		Action:    action,
		Details:   details,
	}
	if _, err := svc.repo.InsertEntry(entry); err != nil && svc.logger != nil {
		svc.logger.Error(fmt.Sprintf("inserting audit entry: %v", err), err)
	}
}

func (svc *Service) Query() ([]Entry, error) {
	return svc.repo.QueryAllEntries()
}
