package enrollment_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/auth"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
)

type call struct {
	courseID, moduleID, levelID int
	form                        enrollment.FormData
	user                        *auth.User
}

type fakeService struct {
	mu    sync.Mutex
	calls []call

	res     enrollment.Result
	err     error
	started chan struct{} // closed when a call starts, if set
	release chan struct{} // calls block until closed, if set
}

func (svc *fakeService) EnrollInCourseWithDetails(ctx context.Context, courseID, moduleID, levelID int, form enrollment.FormData) (enrollment.Result, error) {
	svc.mu.Lock()
	svc.calls = append(svc.calls, call{courseID, moduleID, levelID, form, auth.UserFromContext(ctx)})
	svc.mu.Unlock()

	if svc.started != nil {
		close(svc.started)
	}
	if svc.release != nil {
		<-svc.release
	}
	return svc.res, svc.err
}

func (svc *fakeService) callCount() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.calls)
}

var (
	props = enrollment.Props{
		CourseID:   2,
		ModuleID:   3,
		LevelID:    8,
		CourseName: "Full Stack",
		LevelName:  "Beginner",
		ReturnPath: "/web-development/beginner",
	}
	jane = &auth.User{ID: "u-1", Name: "Jane Doe", Email: "jane@example.com"}

	validForm = enrollment.FormData{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		PhoneNo:    "+254 712 345 678",
		College:    "UoN",
		Department: "CS",
		Year:       "3",
	}
)

func TestModal_Open(t *testing.T) {
	m := enrollment.NewModal(&fakeService{}, props, nil)
	assert.False(t, m.IsOpen())

	m.Open(auth.NewSession(jane, nil))
	assert.True(t, m.IsOpen())
	assert.Equal(t, enrollment.FormData{Name: "Jane Doe", Email: "jane@example.com"}, m.Form())

	require.NoError(t, m.Set(enrollment.FieldPhoneNo, "0712"))
	require.NoError(t, m.Set(enrollment.FieldYear, "2"))
	err := m.Set("age", "20")
	assert.Equal(t, enrollment.ErrUnknownField, errors.Cause(err))
	assert.Equal(t, "0712", m.Form().PhoneNo)

	m.Close()
	assert.False(t, m.IsOpen())
	assert.Equal(t, enrollment.FormData{}, m.Form())

	m.Open(auth.NewSession(nil, nil))
	assert.Equal(t, enrollment.FormData{}, m.Form())
}

func TestModal_Submit_guards(t *testing.T) {
	with := func(mut func(f *enrollment.FormData)) enrollment.FormData {
		f := validForm
		mut(&f)
		return f
	}

	tests := []struct {
		name    string
		user    *auth.User
		form    enrollment.FormData
		wantMsg string
	}{
		{name: "no session", form: validForm, wantMsg: enrollment.MsgLoginRequired},
		{name: "no session and empty form", form: enrollment.FormData{}, wantMsg: enrollment.MsgLoginRequired},
		{name: "empty name", user: jane, form: with(func(f *enrollment.FormData) { f.Name = "" }), wantMsg: enrollment.MsgRequiredFields},
		{name: "blank phone", user: jane, form: with(func(f *enrollment.FormData) { f.PhoneNo = "   " }), wantMsg: enrollment.MsgRequiredFields},
		{
			name:    "required wins over email",
			user:    jane,
			form:    with(func(f *enrollment.FormData) { f.Email = "not-an-email"; f.PhoneNo = "" }),
			wantMsg: enrollment.MsgRequiredFields,
		},
		{name: "bad email", user: jane, form: with(func(f *enrollment.FormData) { f.Email = "not-an-email" }), wantMsg: enrollment.MsgInvalidEmail},
		{name: "email with space", user: jane, form: with(func(f *enrollment.FormData) { f.Email = "jane @example.com" }), wantMsg: enrollment.MsgInvalidEmail},
		{
			name:    "email wins over phone",
			user:    jane,
			form:    with(func(f *enrollment.FormData) { f.Email = "jane@example"; f.PhoneNo = "abc" }),
			wantMsg: enrollment.MsgInvalidEmail,
		},
		{name: "phone with letters", user: jane, form: with(func(f *enrollment.FormData) { f.PhoneNo = "07 12 ab" }), wantMsg: enrollment.MsgInvalidPhone},
		{name: "phone leading zero", user: jane, form: with(func(f *enrollment.FormData) { f.PhoneNo = "0712345678" }), wantMsg: enrollment.MsgInvalidPhone},
		{name: "phone too long", user: jane, form: with(func(f *enrollment.FormData) { f.PhoneNo = "+1234567890123456" }), wantMsg: enrollment.MsgInvalidPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			var redirects []string
			var succeeded bool
			m := enrollment.NewModal(svc, props, func(enrollment.Success) { succeeded = true })

			m.Open(auth.NewSession(tt.user, func(p string) { redirects = append(redirects, p) }))
			m.SetForm(tt.form)
			_, err := m.Submit(context.Background())

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantMsg, m.Error())
			assert.Equal(t, 0, svc.callCount())
			assert.False(t, succeeded)
			assert.True(t, m.IsOpen())
			assert.False(t, m.Loading())

			if tt.user == nil {
				assert.Equal(t, enrollment.ErrSessionMissing, err)
				assert.Equal(t, []string{props.ReturnPath}, redirects)
			} else {
				_, ok := errors.Cause(err).(*core.ValidationError)
				assert.True(t, ok, "want a *core.ValidationError, got %T", err)
				assert.Empty(t, redirects)
			}
		})
	}
}

func TestModal_Submit_success(t *testing.T) {
	svc := &fakeService{res: enrollment.Result{LeadID: "lead-1", Status: "pending"}}
	var got []enrollment.Success
	m := enrollment.NewModal(svc, props, func(s enrollment.Success) { got = append(got, s) })

	m.Open(auth.NewSession(jane, nil))
	m.SetForm(validForm)
	succ, err := m.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, svc.callCount())
	assert.Equal(t, call{2, 3, 8, validForm, jane}, svc.calls[0])

	want := enrollment.Success{
		Result:     enrollment.Result{LeadID: "lead-1", Status: "pending"},
		CourseName: "Full Stack",
		LevelName:  "Beginner",
		UserName:   "Jane Doe",
	}
	assert.Equal(t, want, succ)
	assert.Equal(t, []enrollment.Success{want}, got)

	assert.False(t, m.IsOpen())
	assert.False(t, m.Loading())
	assert.Empty(t, m.Error())
	assert.Equal(t, enrollment.FormData{}, m.Form())
}

func TestModal_Submit_rejected(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "service error", err: &enrollment.ServiceError{Message: "Network error"}, wantMsg: "Network error"},
		{name: "wrapped service error", err: errors.Wrap(enrollment.NewServiceError("Seats are full", nil), "enrolling"), wantMsg: "Seats are full"},
		{name: "unrecognised error", err: errors.New("boom"), wantMsg: enrollment.MsgGenericFailure},
		{name: "empty message", err: &enrollment.ServiceError{}, wantMsg: enrollment.MsgGenericFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			var succeeded bool
			m := enrollment.NewModal(svc, props, func(enrollment.Success) { succeeded = true })

			m.Open(auth.NewSession(jane, nil))
			m.SetForm(validForm)
			_, err := m.Submit(context.Background())

			require.Error(t, err)
			assert.True(t, enrollment.IsServiceError(err))
			assert.Equal(t, tt.wantMsg, enrollment.MessageOf(err))
			assert.Equal(t, 1, svc.callCount())
			assert.False(t, succeeded)

			assert.True(t, m.IsOpen())
			assert.Equal(t, tt.wantMsg, m.Error())
			assert.False(t, m.Loading())
			assert.Equal(t, validForm, m.Form())
		})
	}
}

func TestModal_Submit_inFlight(t *testing.T) {
	svc := &fakeService{started: make(chan struct{}), release: make(chan struct{})}
	m := enrollment.NewModal(svc, props, nil)
	m.Open(auth.NewSession(jane, nil))
	m.SetForm(validForm)

	done := make(chan error)
	go func() {
		_, err := m.Submit(context.Background())
		done <- err
	}()

	<-svc.started
	assert.True(t, m.Loading())

	_, err := m.Submit(context.Background())
	assert.Equal(t, enrollment.ErrSubmitInFlight, err)

	close(svc.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, svc.callCount())
	assert.False(t, m.Loading())
}

func TestModal_Submit_closed(t *testing.T) {
	svc := &fakeService{}
	m := enrollment.NewModal(svc, props, nil)
	m.SetForm(validForm)

	_, err := m.Submit(context.Background())
	assert.Equal(t, enrollment.ErrModalClosed, err)
	assert.Equal(t, 0, svc.callCount())
}

func TestModal_Submit_closedWhileInFlight(t *testing.T) {
	svc := &fakeService{started: make(chan struct{}), release: make(chan struct{}), err: enrollment.NewServiceError("Network error", nil)}
	m := enrollment.NewModal(svc, props, nil)
	m.Open(auth.NewSession(jane, nil))
	m.SetForm(validForm)

	done := make(chan error)
	go func() {
		_, err := m.Submit(context.Background())
		done <- err
	}()

	<-svc.started
	m.Close()
	close(svc.release)

	assert.Error(t, <-done)
	assert.False(t, m.IsOpen())
	assert.Empty(t, m.Error())
	assert.False(t, m.Loading())
}
