package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
)

const uniqueViolation = "23505"

// leadRow is the `leads` table row; optional columns are nullable.
type leadRow struct {
	ID         string      `db:"id"`
	UserID     null.String `db:"user_id"`
	CourseID   int         `db:"course_id"`
	ModuleID   int         `db:"module_id"`
	LevelID    int         `db:"level_id"`
	CourseName string      `db:"course_name"`
	ModuleName string      `db:"module_name"`
	LevelName  string      `db:"level_name"`
	Name       string      `db:"name"`
	Email      string      `db:"email"`
	PhoneNo    string      `db:"phone_no"`
	College    null.String `db:"college"`
	Department null.String `db:"department"`
	Year       null.String `db:"year"`
	CreatedAt  time.Time   `db:"created_at"`
}

const leadColumns = `id, user_id, course_id, module_id, level_id, course_name, module_name, level_name,
	name, email, phone_no, college, department, year, created_at`

type leadRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*leadRepository)(nil) // interface compliance check

func NewLeadRepository(db *sqlx.DB) enrollment.Repository {
	return &leadRepository{db: db}
}

func toRow(l enrollment.Lead) leadRow {
	return leadRow{
		ID:         l.ID,
		UserID:     null.NewString(l.UserID, l.UserID != ""),
		CourseID:   l.CourseID,
		ModuleID:   l.ModuleID,
		LevelID:    l.LevelID,
		CourseName: l.CourseName,
		ModuleName: l.ModuleName,
		LevelName:  l.LevelName,
		Name:       l.Name,
		Email:      l.Email,
		PhoneNo:    l.PhoneNo,
		College:    null.NewString(l.College, l.College != ""),
		Department: null.NewString(l.Department, l.Department != ""),
		Year:       null.NewString(l.Year, l.Year != ""),
		CreatedAt:  l.CreatedAt.UTC(),
	}
}

func (r leadRow) lead() enrollment.Lead {
	return enrollment.Lead{
		ID:         r.ID,
		UserID:     r.UserID.String,
		CourseID:   r.CourseID,
		ModuleID:   r.ModuleID,
		LevelID:    r.LevelID,
		CourseName: r.CourseName,
		ModuleName: r.ModuleName,
		LevelName:  r.LevelName,
		Name:       r.Name,
		Email:      r.Email,
		PhoneNo:    r.PhoneNo,
		College:    r.College.String,
		Department: r.Department.String,
		Year:       r.Year.String,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

func (repo *leadRepository) CreateLead(ctx context.Context, lead enrollment.Lead) (enrollment.Lead, error) {
	q := `INSERT INTO leads (` + leadColumns + `) VALUES (
		:id, :user_id, :course_id, :module_id, :level_id, :course_name, :module_name, :level_name,
		:name, :email, :phone_no, :college, :department, :year, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, toRow(lead)); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return enrollment.Lead{}, enrollment.ErrDuplicateLead
		}
		return enrollment.Lead{}, errors.Wrap(err, "inserting lead")
	}
	return lead, nil
}

func (repo *leadRepository) QueryLeads(ctx context.Context, filter enrollment.LeadFilter, orderings ...core.DBOrdering) ([]enrollment.Lead, error) {
	q, args := buildLeadQuery(filter, orderings)

	rows := make([]leadRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting leads")
	}
	leads := make([]enrollment.Lead, 0, len(rows))
	for _, r := range rows {
		leads = append(leads, r.lead())
	}
	return leads, nil
}

// buildLeadQuery returns the SELECT for `filter` with `?` bindvars. Orderings must already be
// restricted to known columns.
func buildLeadQuery(filter enrollment.LeadFilter, orderings []core.DBOrdering) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	if filter.CourseID != 0 {
		where = append(where, "course_id = ?")
		args = append(args, filter.CourseID)
	}
	if filter.LevelID != 0 {
		where = append(where, "level_id = ?")
		args = append(args, filter.LevelID)
	}
	if filter.Email != "" {
		where = append(where, "lower(email) = ?")
		args = append(args, strings.ToLower(filter.Email))
	}
	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}

	var b strings.Builder
	b.WriteString("SELECT " + leadColumns + " FROM leads")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if len(orderings) == 0 {
		orderings = []core.DBOrdering{{Field: "created_at"}}
	}
	ords := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		ords = append(ords, ord.String())
	}
	b.WriteString(" ORDER BY " + strings.Join(ords, ", "))
	return b.String(), args
}
