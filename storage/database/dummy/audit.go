package dummydb

import "github.com/prathomik/sheba/core/audit"

type auditRepository struct {
	db *auditTable
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *DB) audit.Repository {
	return &auditRepository{db: db.audit}
}

// InsertEntry prepends: the log reads newest-first.
func (repo *auditRepository) InsertEntry(entry audit.Entry) (audit.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append([]audit.Entry{entry}, repo.db.rows...)
	return entry, nil
}

func (repo *auditRepository) QueryAllEntries() ([]audit.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]audit.Entry, len(repo.db.rows))
	copy(entries, repo.db.rows)
	return entries, nil
}
