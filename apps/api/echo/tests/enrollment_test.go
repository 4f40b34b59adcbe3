package tests

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/Diva-jaw/Frontend--sub001/apps/api/echo"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
	testutil "github.com/Diva-jaw/Frontend--sub001/tests"
)

const formPath = "/v1/enrollments/form?course_id=2&module_id=3&level_id=8&return_path=%2Ffull-stack"

var validForm = enrollment.FormData{
	Name:    "Jane Doe",
	Email:   "Jane@Example.com",
	PhoneNo: "+254 712 345 678",
	College: "UoN",
}

func enrollBody(t *testing.T, form enrollment.FormData) []byte {
	return marchallObj(t, EnrollRequest{CourseID: 2, ModuleID: 3, LevelID: 8, ReturnPath: "/full-stack", Form: form})
}

func Test_enrollmentApi_openForm(t *testing.T) {
	app := setup(t)

	t.Run("anonymous", func(t *testing.T) {
		rec := newVisitor(app).do(http.MethodGet, formPath)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res FormResponse
		decode(t, rec, &res)
		assert.True(t, res.Open)
		assert.Equal(t, enrollment.Props{
			CourseID: 2, ModuleID: 3, LevelID: 8,
			CourseName: "Web Development", LevelName: "Beginner", ReturnPath: "/full-stack",
		}, res.Props)
		assert.Equal(t, enrollment.FormData{}, res.Form)
	})
	t.Run("pre-filled", func(t *testing.T) {
		rec := newVisitor(app, getToken(t, app.conf, jane)).do(http.MethodGet, formPath)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res FormResponse
		decode(t, rec, &res)
		assert.Equal(t, enrollment.FormData{Name: jane.Name, Email: jane.Email}, res.Form)
	})
	t.Run("html", func(t *testing.T) {
		q := url.Values{"course_id": {"2"}, "module_id": {"3"}, "level_id": {"9"}}
		rec := newVisitor(app, getToken(t, app.conf, jane)).do(http.MethodGet, "/enrollments/form?"+q.Encode())
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "<h2>Enroll in Web Development</h2>")
		assert.Contains(t, rec.Body.String(), `value="Jane Doe"`)
	})

	tests := []httpTest{
		{
			name: "missing level", method: http.MethodGet, path: "/v1/enrollments/form?course_id=2&module_id=3",
			wantCode: http.StatusBadRequest, wantData: []byte(`{"level_id": "this field is required"}`),
		},
		{
			name: "invalid course", method: http.MethodGet, path: "/v1/enrollments/form?course_id=x&module_id=3&level_id=8",
			wantCode: http.StatusBadRequest, wantData: []byte(`{"course_id": "this field is required"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, newVisitor(app).do(tt.method, tt.path))
		})
	}
}

func Test_enrollmentApi_submit(t *testing.T) {
	app := setup(t)
	token := getToken(t, app.conf, jane)

	t.Run("login required", func(t *testing.T) {
		v := newVisitor(app)
		rec := v.do(http.MethodPost, "/v1/enrollments", enrollBody(t, validForm))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized,
			wantData: []byte(`{"error": "Please login to enroll in this course", "redirect_path": "/full-stack"}`),
		}, rec)

		// the redirect path is handed out once
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"redirect_path": "/full-stack"}`)},
			v.do(http.MethodGet, "/v1/session/redirect"))
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"redirect_path": ""}`)},
			v.do(http.MethodGet, "/v1/session/redirect"))
	})

	tests := []httpTest{
		{
			name: "required fields", body: enrollBody(t, enrollment.FormData{Name: "Jane", Email: "jane@example.com"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: enrollment.MsgRequiredFields}),
		},
		{
			name: "blank name", body: enrollBody(t, enrollment.FormData{Name: "  ", Email: "jane@example.com", PhoneNo: "+254712345678"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: enrollment.MsgRequiredFields}),
		},
		{
			name: "invalid email", body: enrollBody(t, enrollment.FormData{Name: "Jane", Email: "jane@example", PhoneNo: "+254712345678"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: enrollment.MsgInvalidEmail}),
		},
		{
			name: "invalid phone", body: enrollBody(t, enrollment.FormData{Name: "Jane", Email: "jane@example.com", PhoneNo: "0712345678"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: enrollment.MsgInvalidPhone}),
		},
		{
			name: "email checked before phone", body: enrollBody(t, enrollment.FormData{Name: "Jane", Email: "nope", PhoneNo: "nope"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: enrollment.MsgInvalidEmail}),
		},
		{
			name:     "missing ids",
			body:     marchallObj(t, EnrollRequest{ModuleID: 3, LevelID: 8, Form: validForm}),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"course_id": "this field is required"}`),
		},
		{
			name:     "unknown level",
			body:     marchallObj(t, EnrollRequest{CourseID: 2, ModuleID: 3, LevelID: 99, Form: validForm}),
			wantCode: http.StatusBadGateway, wantData: marchallObj(t, httpErr{Error: enrollment.MsgCourseNotFound}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newVisitor(app, token).do(http.MethodPost, "/v1/enrollments", tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("success", func(t *testing.T) {
		v := newVisitor(app, token)
		v.do(http.MethodGet, formPath)
		rec := v.do(http.MethodPost, "/v1/enrollments", enrollBody(t, validForm))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var succ enrollment.Success
		decode(t, rec, &succ)
		assert.NotEmpty(t, succ.Result.LeadID)
		assert.Equal(t, "pending", succ.Result.Status)
		assert.Equal(t, "Web Development", succ.CourseName)
		assert.Equal(t, "Beginner", succ.LevelName)
		assert.Equal(t, "Jane Doe", succ.UserName)

		leads, err := app.leads.QueryLeads(context.Background(), enrollment.LeadFilter{UserID: jane.ID})
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, "jane@example.com", leads[0].Email)
		assert.Equal(t, succ.Result.LeadID, leads[0].ID)

		sent := app.mailSvc.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "jane@example.com", sent[0].To[0].Address)

		// the modal closed with the submission
		var res FormResponse
		rec = v.do(http.MethodGet, formPath)
		decode(t, rec, &res)
		assert.Equal(t, enrollment.FormData{Name: jane.Name, Email: jane.Email}, res.Form)
	})
	t.Run("already enrolled", func(t *testing.T) {
		rec := newVisitor(app, token).do(http.MethodPost, "/v1/enrollments", enrollBody(t, validForm))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadGateway,
			wantData: marchallObj(t, httpErr{Error: enrollment.MsgAlreadyEnrolled}),
		}, rec)
	})

	t.Run("metrics", func(t *testing.T) {
		body := newVisitor(app).do(http.MethodGet, "/metrics").Body.String()
		assert.Contains(t, body, `institute_enrollments_total{outcome="enrolled"} 1`)
		assert.Contains(t, body, `institute_enrollments_total{outcome="no_session"} 1`)
		assert.Contains(t, body, `institute_enrollments_total{outcome="invalid"} 5`)
		assert.Contains(t, body, `institute_enrollments_total{outcome="rejected"} 2`)
	})
}

func Test_enrollmentApi_submitForm(t *testing.T) {
	app := setup(t)
	token := getToken(t, app.conf, jane)

	draft := func(level, phone string) url.Values {
		return url.Values{
			"course_id": {"2"}, "module_id": {"3"}, "level_id": {level}, "return_path": {"/full-stack"},
			"name": {"Jane Doe"}, "email": {"jane@example.com"}, "phone_no": {phone}, "college": {"UoN"},
		}
	}

	t.Run("htmx success", func(t *testing.T) {
		v := newVisitor(app, token)
		rec := v.postForm("/v1/enrollments", draft("8", "+254712345678"), true)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `<div id="enrollment-modal" class="enrollment-modal success"`)
		assert.Contains(t, rec.Body.String(), "Thanks Jane Doe, we have your request for Web Development (Beginner).")

		leads, err := app.leads.QueryLeads(context.Background(), enrollment.LeadFilter{LevelID: 8})
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, "UoN", leads[0].College)
	})
	t.Run("htmx guard failure", func(t *testing.T) {
		rec := newVisitor(app, token).postForm("/v1/enrollments", draft("9", "0712345678"), true)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `role="alert">`+enrollment.MsgInvalidPhone+"</div>")
		assert.Contains(t, rec.Body.String(), `name="phone_no" type="tel" value="0712345678" required`)
	})
	t.Run("htmx anonymous", func(t *testing.T) {
		v := newVisitor(app)
		rec := v.postForm("/v1/enrollments", draft("9", "+254712345678"), true)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), enrollment.MsgLoginRequired)

		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"redirect_path": "/full-stack"}`)},
			v.do(http.MethodGet, "/v1/session/redirect"))
	})
	t.Run("plain form post", func(t *testing.T) {
		rec := newVisitor(app, token).postForm("/v1/enrollments", draft("9", "+254 712 345 678"), false)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var succ enrollment.Success
		decode(t, rec, &succ)
		assert.Equal(t, "Intermediate", succ.LevelName)
	})
	t.Run("missing ids", func(t *testing.T) {
		form := draft("9", "+254712345678")
		form.Del("course_id")
		rec := newVisitor(app, token).postForm("/v1/enrollments", form, true)
		checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: []byte(`{"course_id": "this field is required"}`)}, rec)
	})
}

type failingService struct {
	err error
}

func (s failingService) EnrollInCourseWithDetails(context.Context, int, int, int, enrollment.FormData) (enrollment.Result, error) {
	return enrollment.Result{}, s.err
}

func Test_enrollmentApi_serviceFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "service message", err: enrollment.NewServiceError("Level is full", nil), wantMsg: "Level is full"},
		{name: "network", err: enrollment.NewServiceError(enrollment.MsgNetworkError, errors.New("dial tcp: refused")), wantMsg: enrollment.MsgNetworkError},
		{name: "anything else", err: errors.New("boom"), wantMsg: enrollment.MsgGenericFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setup(t, failingService{err: tt.err})
			v := newVisitor(app, getToken(t, app.conf, jane))

			rec := v.do(http.MethodPost, "/v1/enrollments", enrollBody(t, validForm))
			checkCodeAndData(t, httpTest{wantCode: http.StatusBadGateway, wantData: marchallObj(t, httpErr{Error: tt.wantMsg})}, rec)

			// a rejection keeps the modal open
			var res FormResponse
			decode(t, v.do(http.MethodGet, formPath), &res)
			assert.True(t, res.Open)
		})
	}
}

type blockingService struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingService) EnrollInCourseWithDetails(context.Context, int, int, int, enrollment.FormData) (enrollment.Result, error) {
	s.started <- struct{}{}
	<-s.release
	return enrollment.Result{LeadID: "L-1", Status: "pending"}, nil
}

func Test_enrollmentApi_inFlight(t *testing.T) {
	svc := &blockingService{started: make(chan struct{}), release: make(chan struct{})}
	app := setup(t, svc)
	v := newVisitor(app, getToken(t, app.conf, jane))
	v.do(http.MethodGet, formPath) // sets the visitor cookie

	first, firstRec := newAuthRequest(http.MethodPost, "/v1/enrollments", v.token, enrollBody(t, validForm))
	second, secondRec := newAuthRequest(http.MethodPost, "/v1/enrollments", v.token, enrollBody(t, validForm))
	for _, c := range v.cookies {
		first.AddCookie(c)
		second.AddCookie(c)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.ServeHTTP(firstRec, first)
	}()

	select {
	case <-svc.started:
	case <-time.After(5 * time.Second):
		t.Fatal("service was not called")
	}
	app.ServeHTTP(secondRec, second)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusConflict,
		wantData: marchallObj(t, httpErr{Error: enrollment.ErrSubmitInFlight.Error()}),
	}, secondRec)

	close(svc.release)
	wg.Wait()
	assert.Equal(t, http.StatusCreated, firstRec.Code, firstRec.Body.String())
}

func Test_enrollmentApi_queryLeads(t *testing.T) {
	app := setup(t)
	now := time.Now()
	l1 := testutil.CreateLead(t, app.leads, 2, 3, 8, "Bob", "bob@example.com", now.Add(-2*time.Hour))
	l2 := testutil.CreateLead(t, app.leads, 2, 3, 9, "Alice", "alice@example.com", now.Add(-time.Hour))
	l3 := testutil.CreateLead(t, app.leads, 4, 8, 22, "Carol", "carol@example.com", now)

	adminToken := getToken(t, app.conf, admin)

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodGet, path: "/v1/enrollments",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "user not authenticated"}),
		},
		{
			name: "admin required", method: http.MethodGet, path: "/v1/enrollments", token: getToken(t, app.conf, jane),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "newest first", method: http.MethodGet, path: "/v1/enrollments", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, l3, l2, l1),
		},
		{
			name: "ordering=name", method: http.MethodGet, path: "/v1/enrollments?ordering=name", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, l2, l1, l3),
		},
		{
			name: "course_id=2&ordering=-level_id", method: http.MethodGet, path: "/v1/enrollments?course_id=2&ordering=-level_id", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, l2, l1),
		},
		{
			name: "email (case insensitive)", method: http.MethodGet, path: "/v1/enrollments?email=CAROL@example.com", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, l3),
		},
		{
			name: "invalid course_id", method: http.MethodGet, path: "/v1/enrollments?course_id=x", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"course_id": "must be a number"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
