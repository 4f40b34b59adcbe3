package enrollment

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/auth"
)

var formValidate, formTranslator = core.NewValidator()

// Service is the enrollment backend the modal submits to.
type Service interface {
	EnrollInCourseWithDetails(ctx context.Context, courseID, moduleID, levelID int, form FormData) (Result, error)
}

// Modal collects lead data for one level and submits it to a Service.
// All methods are safe for concurrent use; the service is called without holding the lock.
type Modal struct {
	svc       Service
	props     Props
	onSuccess func(Success)

	mu      sync.Mutex
	session auth.Session
	open    bool
	loading bool
	form    FormData
	errMsg  string
}

// NewModal returns a closed modal. onSuccess may be nil.
func NewModal(svc Service, props Props, onSuccess func(Success)) *Modal {
	return &Modal{svc: svc, props: props, onSuccess: onSuccess}
}

// Open shows the modal for `sess`, pre-filling name and email from the session's user.
func (m *Modal) Open(sess auth.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = sess
	m.open = true
	m.errMsg = ""
	if sess.User != nil {
		m.form.Name = sess.User.Name
		m.form.Email = sess.User.Email
	}
}

// Close hides the modal and discards the draft.
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.form = FormData{}
	m.errMsg = ""
}

// Set updates a single field of the draft. `field` is the field's JSON name.
func (m *Modal) Set(field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch field {
	case FieldName:
		m.form.Name = value
	case FieldEmail:
		m.form.Email = value
	case FieldPhoneNo:
		m.form.PhoneNo = value
	case FieldCollege:
		m.form.College = value
	case FieldDepartment:
		m.form.Department = value
	case FieldYear:
		m.form.Year = value
	default:
		return errors.Wrapf(ErrUnknownField, "%q", field)
	}
	return nil
}

// SetForm replaces the whole draft.
func (m *Modal) SetForm(form FormData) {
	m.mu.Lock()
	m.form = form
	m.mu.Unlock()
}

func (m *Modal) Form() FormData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

func (m *Modal) Props() Props { return m.props }

func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *Modal) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Error returns the message currently displayed in the modal, if any.
func (m *Modal) Error() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// Submit validates the draft and sends it to the service.
//
// The guards run in order and the first failure wins: a missing session (the session is asked to
// redirect back to Props.ReturnPath), empty required fields, a malformed email, a malformed phone.
// A rejection by the service is displayed and the modal stays open; on success the success
// callback runs and the modal closes. A Submit while another one is in flight returns
// ErrSubmitInFlight without calling the service.
func (m *Modal) Submit(ctx context.Context) (Success, error) {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return Success{}, ErrModalClosed
	}
	if m.loading {
		m.mu.Unlock()
		return Success{}, ErrSubmitInFlight
	}
	sess, form := m.session, m.form

	if !sess.IsLoggedIn() {
		m.errMsg = MsgLoginRequired
		m.mu.Unlock()
		sess.SetRedirectPath(m.props.ReturnPath)
		return Success{}, ErrSessionMissing
	}
	if err := ValidateForm(form); err != nil {
		m.errMsg = err.Error()
		m.mu.Unlock()
		return Success{}, err
	}

	m.loading = true
	m.errMsg = ""
	m.mu.Unlock()

	res, err := m.call(auth.WithUser(ctx, sess.User), form)
	if err != nil {
		return Success{}, err
	}

	succ := Success{
		Result:     res,
		CourseName: m.props.CourseName,
		LevelName:  m.props.LevelName,
		UserName:   form.Name,
	}
	if m.onSuccess != nil {
		m.onSuccess(succ)
	}
	m.Close()
	return succ, nil
}

func (m *Modal) call(ctx context.Context, form FormData) (res Result, err error) {
	defer func() {
		m.mu.Lock()
		m.loading = false
		if err != nil && m.open {
			m.errMsg = MessageOf(err)
		}
		m.mu.Unlock()
	}()

	res, err = m.svc.EnrollInCourseWithDetails(ctx, m.props.CourseID, m.props.ModuleID, m.props.LevelID, form)
	if err != nil && !IsServiceError(err) {
		err = &ServiceError{Message: MsgGenericFailure, Err: err}
	}
	return res, err
}

// ValidateForm checks the required fields first, then the email, then the phone number.
// The returned *core.ValidationError carries the message of the first failing check.
func ValidateForm(form FormData) error {
	err := formValidate.Struct(form)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	return core.NewValidationError(errors.New(guardMessage(vErrs)), core.TranslateErrors(vErrs, formTranslator)...)
}

func guardMessage(errs validator.ValidationErrors) string {
	var badEmail, badPhone bool
	for _, fe := range errs {
		if fe.Tag() == core.NotBlankTag {
			return MsgRequiredFields
		}
		switch fe.Field() {
		case FieldEmail:
			badEmail = true
		case FieldPhoneNo:
			badPhone = true
		}
	}
	switch {
	case badEmail:
		return MsgInvalidEmail
	case badPhone:
		return MsgInvalidPhone
	}
	return MsgGenericFailure
}
