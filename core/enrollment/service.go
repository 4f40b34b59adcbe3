package enrollment

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/auth"
	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
)

const (
	StatusPending = "pending"

	confirmationTemplate = "enrollment_confirmation"
	notificationTemplate = "lead_notification"
)

// Repository stores leads. CreateLead returns ErrDuplicateLead when the email already has a lead
// for the same level.
type Repository interface {
	CreateLead(ctx context.Context, lead Lead) (Lead, error)
	QueryLeads(ctx context.Context, filter LeadFilter, orderings ...core.DBOrdering) ([]Lead, error)
}

// LocalService is a Service that stores leads itself and mails a confirmation to the visitor.
type LocalService struct {
	catalog *catalog.Catalog
	repo    Repository
	mailer  core.EmailService
	conf    *core.Config
	logger  core.Logger
	now     func() time.Time
}

var _ Service = (*LocalService)(nil)

func NewLocalService(cat *catalog.Catalog, repo Repository, mailer core.EmailService, conf *core.Config, logger core.Logger) *LocalService {
	return &LocalService{
		catalog: cat,
		repo:    repo,
		mailer:  mailer,
		conf:    conf,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (svc *LocalService) EnrollInCourseWithDetails(ctx context.Context, courseID, moduleID, levelID int, form FormData) (Result, error) {
	cat, mod, lvl, err := svc.catalog.Resolve(courseID, moduleID, levelID)
	if err != nil {
		return Result{}, NewServiceError(MsgCourseNotFound, err)
	}

	form = form.Clean()
	lead := Lead{
		ID:         uuid.NewString(),
		CourseID:   cat.ID,
		ModuleID:   mod.ID,
		LevelID:    lvl.ID,
		CourseName: cat.Name,
		ModuleName: mod.Name,
		LevelName:  lvl.Title,
		Name:       form.Name,
		Email:      form.Email,
		PhoneNo:    form.PhoneNo,
		College:    form.College,
		Department: form.Department,
		Year:       form.Year,
		CreatedAt:  svc.now(),
	}
	if usr := auth.UserFromContext(ctx); usr != nil {
		lead.UserID = usr.ID
	}

	lead, err = svc.repo.CreateLead(ctx, lead)
	if err != nil {
		if errors.Cause(err) == ErrDuplicateLead {
			return Result{}, NewServiceError(MsgAlreadyEnrolled, err)
		}
		return Result{}, errors.Wrap(err, "storing lead")
	}

	svc.logger.Info(fmt.Sprintf("lead %s stored for %s / %s / %s", lead.ID, lead.CourseName, lead.ModuleName, lead.LevelName))
	svc.sendMails(lead)
	return Result{LeadID: lead.ID, Status: StatusPending, Message: "Enrollment successful"}, nil
}

// QueryLeads lists stored leads; orderings on unknown fields are ignored.
func (svc *LocalService) QueryLeads(ctx context.Context, filter LeadFilter, orderings ...core.DBOrdering) ([]Lead, error) {
	return svc.repo.QueryLeads(ctx, filter, core.FilterOrderings(orderings, LeadOrderings)...)
}

type leadMailData struct {
	LeadID     string
	Name       string
	Email      string
	Phone      string
	College    string
	Department string
	Year       string
	CourseName string
	LevelName  string
}

func (svc *LocalService) sendMails(lead Lead) {
	if svc.mailer == nil {
		return
	}
	data := leadMailData{
		LeadID:     lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.PhoneNo,
		College:    lead.College,
		Department: lead.Department,
		Year:       lead.Year,
		CourseName: lead.CourseName,
		LevelName:  lead.LevelName,
	}

	msgs := []*core.EmailMessage{{
		To:           []mail.Address{{Name: lead.Name, Address: lead.Email}},
		Subject:      fmt.Sprintf("Your enrollment request for %s", lead.CourseName),
		TemplateName: confirmationTemplate,
		TemplateData: data,
	}}
	if inbox := svc.conf.Email.LeadsInbox; inbox != "" {
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Address: inbox}},
			Subject:      fmt.Sprintf("New lead: %s / %s", lead.CourseName, lead.LevelName),
			TemplateName: notificationTemplate,
			TemplateData: data,
		})
	}
	svc.mailer.SendMessages(msgs...)
}
