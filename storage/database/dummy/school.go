package dummydb

import (
	"sort"
	"strings"

	"github.com/prathomik/sheba/core/school"
)

type schoolRepository struct {
	db *schoolTable
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func (repo *schoolRepository) query() []school.School {
	schools := make([]school.School, 0, len(repo.db.table))
	for _, sch := range repo.db.table {
		schools = append(schools, *sch)
	}
	sort.Slice(schools, func(i, j int) bool { return schools[i].CreatedAt.Before(schools[j].CreatedAt) })
	return schools
}

func (repo *schoolRepository) CreateSchool(sch school.School) (school.School, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) GetSchoolByID(id string) (school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sch, ok := repo.db.table[id]; ok {
		return *sch, nil
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) GetSchoolByEIIN(eiin string) (school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sch := range repo.query() {
		if sch.EIIN == eiin {
			return sch, nil
		}
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) QueryAllSchools() ([]school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *schoolRepository) FilterSchools(filter school.QueryFilter) ([]school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	search := strings.ToLower(filter.Search)
	schools := make([]school.School, 0)
	for _, sch := range repo.query() {
		if filter.Status != "" && sch.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(sch.Name), search) &&
			!strings.Contains(sch.EIIN, filter.Search) {
			continue
		}
		schools = append(schools, sch)
	}
	return schools, nil
}

func (repo *schoolRepository) UpdateSchool(sch school.School) (school.School, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[sch.ID]; !ok {
		return school.School{}, school.ErrNotFound
	}
	repo.db.table[sch.ID] = &sch
	return sch, nil
}
