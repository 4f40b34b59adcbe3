package echoapi

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
	metricsvc "github.com/Diva-jaw/Frontend--sub001/services/metrics"
	"github.com/Diva-jaw/Frontend--sub001/ui"
)

type (
	// EnrollRequest is the body of a submission.
	EnrollRequest struct {
		CourseID   int                 `json:"course_id" form:"course_id" validate:"required,min=1"`
		ModuleID   int                 `json:"module_id" form:"module_id" validate:"required,min=1"`
		LevelID    int                 `json:"level_id" form:"level_id" validate:"required,min=1"`
		CourseName string              `json:"course_name" form:"course_name"`
		LevelName  string              `json:"level_name" form:"level_name"`
		ReturnPath string              `json:"return_path" form:"return_path"`
		Form       enrollment.FormData `json:"form" validate:"-"` // form posts carry the draft fields flat
	}

	// FormResponse is the state of the visitor's enrollment modal.
	FormResponse struct {
		Open    bool                `json:"open"`
		Loading bool                `json:"loading"`
		Error   string              `json:"error,omitempty"`
		Props   enrollment.Props    `json:"props"`
		Form    enrollment.FormData `json:"form"`
	}

	enrollmentAPIDeps struct {
		svc     enrollment.Service
		leads   LeadQuerier
		catalog *catalog.Catalog
		modals  *modalRegistry
		metrics *metricsvc.Metrics
		logger  core.Logger
	}

	enrollmentApi struct {
		enrollmentAPIDeps
	}
)

func (r EnrollRequest) props() enrollment.Props {
	return enrollment.Props{
		CourseID:   r.CourseID,
		ModuleID:   r.ModuleID,
		LevelID:    r.LevelID,
		CourseName: r.CourseName,
		LevelName:  r.LevelName,
		ReturnPath: r.ReturnPath,
	}
}

func registerEnrollmentAPI(g *echo.Group, deps enrollmentAPIDeps) *enrollmentApi {
	api := &enrollmentApi{deps}

	eg := g.Group("/enrollments")
	eg.GET("/form", api.openForm)
	eg.DELETE("/form", api.closeForm)
	eg.POST("", api.submit)
	eg.GET("", api.queryLeads, adminMiddleware())

	return api
}

// Helpers

// modalRegistry holds the open enrollment modal of every visitor.
// Modals idle for longer than the TTL are dropped unless a submission is in flight.
type modalRegistry struct {
	mu     sync.Mutex
	ttl    time.Duration
	modals map[string]*modalEntry
	now    func() time.Time
}

type modalEntry struct {
	modal   *enrollment.Modal
	expires time.Time
}

func newModalRegistry(ttl time.Duration) *modalRegistry {
	return &modalRegistry{ttl: ttl, modals: make(map[string]*modalEntry), now: time.Now}
}

// get returns the visitor's modal for `props`, replacing a modal opened for another level.
func (r *modalRegistry) get(visitorID string, props enrollment.Props, create func() *enrollment.Modal) *enrollment.Modal {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evict(now)
	if e, ok := r.modals[visitorID]; ok && sameLevel(e.modal.Props(), props) {
		e.expires = now.Add(r.ttl)
		return e.modal
	}
	m := create()
	r.modals[visitorID] = &modalEntry{modal: m, expires: now.Add(r.ttl)}
	return m
}

func (r *modalRegistry) lookup(visitorID string) (*enrollment.Modal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evict(now)
	e, ok := r.modals[visitorID]
	if !ok {
		return nil, false
	}
	e.expires = now.Add(r.ttl)
	return e.modal, true
}

// remove forgets the visitor's modal if it is still `m`.
func (r *modalRegistry) remove(visitorID string, m *enrollment.Modal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.modals[visitorID]; ok && e.modal == m {
		delete(r.modals, visitorID)
	}
}

func (r *modalRegistry) evict(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for id, e := range r.modals {
		if now.After(e.expires) && !e.modal.Loading() {
			delete(r.modals, id)
		}
	}
}

func (r *modalRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.modals)
}

func sameLevel(a, b enrollment.Props) bool {
	return a.CourseID == b.CourseID && a.ModuleID == b.ModuleID && a.LevelID == b.LevelID
}

// withNames fills the course and level names from the catalog when the page did not send them.
func (api *enrollmentApi) withNames(props enrollment.Props) enrollment.Props {
	if props.CourseName != "" && props.LevelName != "" {
		return props
	}
	if _, mod, lvl, err := api.catalog.Resolve(props.CourseID, props.ModuleID, props.LevelID); err == nil {
		if props.CourseName == "" {
			props.CourseName = mod.Name
		}
		if props.LevelName == "" {
			props.LevelName = lvl.Title
		}
	}
	return props
}

func (api *enrollmentApi) modal(visitorID string, props enrollment.Props) *enrollment.Modal {
	return api.modals.get(visitorID, props, func() *enrollment.Modal {
		return enrollment.NewModal(api.svc, props, func(succ enrollment.Success) {
			api.logger.Info(fmt.Sprintf("%s enrolled in %s (%s), lead %s", succ.UserName, succ.CourseName, succ.LevelName, succ.Result.LeadID))
		})
	})
}

func formResponse(m *enrollment.Modal) FormResponse {
	v := ui.EnrollmentViewOf(m)
	return FormResponse{Open: v.Open, Loading: v.Loading, Error: v.Error, Props: v.Props, Form: v.Form}
}

func propsFromQuery(ctx echo.Context) (enrollment.Props, error) {
	var props enrollment.Props
	ids := []struct {
		name string
		dst  *int
	}{
		{"course_id", &props.CourseID},
		{"module_id", &props.ModuleID},
		{"level_id", &props.LevelID},
	}
	for _, id := range ids {
		i, err := strconv.Atoi(ctx.QueryParam(id.name))
		if err != nil || i < 1 {
			return props, core.NewValidationError(nil, core.FieldError{Field: id.name, Error: "this field is required"})
		}
		*id.dst = i
	}
	props.CourseName = ctx.QueryParam("course_name")
	props.LevelName = ctx.QueryParam("level_name")
	props.ReturnPath = ctx.QueryParam("return_path")
	return props, nil
}

// Handlers

// openForm opens the visitor's modal for a level, with name and email pre-filled for logged-in users.
func (api *enrollmentApi) openForm(ctx echo.Context) error {
	m, err := api.open(ctx)
	if err != nil {
		return err
	}
	if isHTMXRequest(ctx) {
		return renderNode(ctx, http.StatusOK, ui.EnrollmentModal(ui.EnrollmentViewOf(m)))
	}
	return ctx.JSON(http.StatusOK, formResponse(m))
}

func (api *enrollmentApi) renderForm(ctx echo.Context) error {
	m, err := api.open(ctx)
	if err != nil {
		return err
	}
	return renderNode(ctx, http.StatusOK, ui.EnrollmentModal(ui.EnrollmentViewOf(m)))
}

func (api *enrollmentApi) open(ctx echo.Context) (*enrollment.Modal, error) {
	props, err := propsFromQuery(ctx)
	if err != nil {
		return nil, err
	}
	vs, err := getVisitorSession(ctx)
	if err != nil {
		return nil, err
	}

	m := api.modal(vs.ID(), api.withNames(props))
	if !m.Loading() {
		m.Open(contextSession(ctx, vs))
	}
	return m, nil
}

func (api *enrollmentApi) closeForm(ctx echo.Context) error {
	vs, err := getVisitorSession(ctx)
	if err != nil {
		return err
	}
	if m, ok := api.modals.lookup(vs.ID()); ok && !m.Loading() {
		m.Close()
		api.modals.remove(vs.ID(), m)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *enrollmentApi) submit(ctx echo.Context) error {
	var data EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}
	vs, err := getVisitorSession(ctx)
	if err != nil {
		return err
	}

	props := api.withNames(data.props())
	m := api.modal(vs.ID(), props)
	if !m.Loading() {
		// the visitor may have logged in since the modal was opened
		m.Open(contextSession(ctx, vs))
		m.SetForm(data.Form)
	}

	succ, err := m.Submit(ctx.Request().Context())
	if err != nil {
		api.metrics.ObserveEnrollment(enrollmentOutcome(err))
		if isHTMXRequest(ctx) && m.Error() != "" {
			// the modal shows its own error message
			return renderNode(ctx, http.StatusOK, ui.EnrollmentModal(ui.EnrollmentViewOf(m)))
		}
		if errors.Cause(err) == enrollment.ErrSessionMissing {
			return &loginRequiredError{RedirectPath: props.ReturnPath}
		}
		return err
	}

	api.metrics.ObserveEnrollment(metricsvc.OutcomeEnrolled)
	api.modals.remove(vs.ID(), m)
	if isHTMXRequest(ctx) {
		return renderNode(ctx, http.StatusCreated, ui.EnrollmentSuccess(succ))
	}
	return ctx.JSON(http.StatusCreated, succ)
}

func enrollmentOutcome(err error) string {
	switch cause := errors.Cause(err); {
	case cause == enrollment.ErrSessionMissing:
		return metricsvc.OutcomeNoSession
	case cause == enrollment.ErrSubmitInFlight:
		return metricsvc.OutcomeInFlight
	case enrollment.IsServiceError(cause):
		return metricsvc.OutcomeRejected
	}
	if _, ok := errors.Cause(err).(*core.ValidationError); ok {
		return metricsvc.OutcomeInvalid
	}
	return metricsvc.OutcomeFailed
}

// LeadQuery are the filters of the lead listing.
type LeadQuery struct {
	CourseID int
	LevelID  int
	Email    string
	Ordering
}

func (q *LeadQuery) Bind(ctx echo.Context) error {
	for name, dst := range map[string]*int{"course_id": &q.CourseID, "level_id": &q.LevelID} {
		val := ctx.QueryParam(name)
		if val == "" {
			continue
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a number"})
		}
		*dst = i
	}
	q.Email = core.CleanString(ctx.QueryParam("email"), true /* lower */)
	q.Ordering.Bind(ctx)
	return nil
}

func (api *enrollmentApi) queryLeads(ctx echo.Context) error {
	if api.leads == nil {
		return errNoLeads
	}
	var query LeadQuery
	if err := query.Bind(ctx); err != nil {
		return err
	}

	filter := enrollment.LeadFilter{CourseID: query.CourseID, LevelID: query.LevelID, Email: query.Email}
	leads, err := api.leads.QueryLeads(ctx.Request().Context(), filter, query.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying leads")
	}
	return ctx.JSON(http.StatusOK, leads)
}
