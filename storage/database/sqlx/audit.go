package sqlxrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/prathomik/sheba/core/audit"
)

type auditRow struct {
	ID        string    `db:"id"`
	Seq       int64     `db:"seq"`
	Timestamp time.Time `db:"timestamp"`
	UserID    string    `db:"user_id"`
	Action    string    `db:"action"`
	Details   string    `db:"details"`
}

type auditRepository struct {
	db *sqlx.DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *sqlx.DB) *auditRepository {
	return &auditRepository{db: db}
}

func (repo auditRepository) InsertEntry(entry audit.Entry) (audit.Entry, error) {
	const q = `INSERT INTO audit_log (id, timestamp, user_id, action, details) VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.Exec(q, entry.ID, entry.Timestamp.UTC(), entry.UserID, entry.Action, entry.Details); err != nil {
		return audit.Entry{}, errors.Wrap(err, "inserting audit entry")
	}
	return entry, nil
}

// QueryAllEntries reads newest first; the insert sequence breaks ties between
// entries sharing a timestamp.
func (repo auditRepository) QueryAllEntries() ([]audit.Entry, error) {
	var rows []auditRow
	if err := repo.db.Select(&rows, "SELECT * FROM audit_log ORDER BY seq DESC"); err != nil {
		return nil, errors.Wrap(err, "querying audit log")
	}
	entries := make([]audit.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, audit.Entry{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			UserID:    r.UserID,
			Action:    r.Action,
			Details:   r.Details,
		})
	}
	return entries, nil
}
