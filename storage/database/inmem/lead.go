package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
)

type leadRepository struct {
	db *leadTable
}

var _ enrollment.Repository = (*leadRepository)(nil) // interface compliance check

func NewLeadRepository(db *DB) enrollment.Repository {
	return &leadRepository{db: db.lead}
}

func (repo *leadRepository) CreateLead(_ context.Context, lead enrollment.Lead) (enrollment.Lead, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, l := range repo.db.table {
		if strings.EqualFold(l.Email, lead.Email) &&
			l.CourseID == lead.CourseID && l.ModuleID == lead.ModuleID && l.LevelID == lead.LevelID {
			return enrollment.Lead{}, enrollment.ErrDuplicateLead
		}
	}
	lead.CreatedAt = lead.CreatedAt.UTC()
	repo.db.table[lead.ID] = &lead
	return lead, nil
}

func (repo *leadRepository) QueryLeads(_ context.Context, filter enrollment.LeadFilter, orderings ...core.DBOrdering) ([]enrollment.Lead, error) {
	repo.db.mutex.RLock()
	leads := make([]enrollment.Lead, 0, len(repo.db.table))
	for _, l := range repo.db.table {
		if filter.Match(*l) {
			leads = append(leads, *l)
		}
	}
	repo.db.mutex.RUnlock()

	if len(orderings) == 0 {
		orderings = []core.DBOrdering{{Field: "created_at"}}
	}
	sort.SliceStable(leads, func(i, j int) bool {
		for _, ord := range orderings {
			c := compareLeads(leads[i], leads[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return leads[i].ID < leads[j].ID
	})
	return leads, nil
}

func compareLeads(a, b enrollment.Lead, field string) int {
	switch field {
	case "created_at":
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "email":
		return strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
	case "course_id":
		return a.CourseID - b.CourseID
	case "level_id":
		return a.LevelID - b.LevelID
	}
	return 0
}
