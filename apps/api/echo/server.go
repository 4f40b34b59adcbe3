package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
	"github.com/Diva-jaw/Frontend--sub001/core/menu"
	metricsvc "github.com/Diva-jaw/Frontend--sub001/services/metrics"
)

type (
	// LeadQuerier lists stored leads; only the local enrollment backend has one.
	LeadQuerier interface {
		QueryLeads(ctx context.Context, filter enrollment.LeadFilter, orderings ...core.DBOrdering) ([]enrollment.Lead, error)
	}

	ServerDeps struct {
		Conf         *core.Config
		Logger       core.Logger
		Dropdown     *menu.Dropdown
		MenuStore    menu.Store
		Enrollment   enrollment.Service
		Leads        LeadQuerier // optional
		Metrics      *metricsvc.Metrics
		SessionStore sessions.Store // optional; a cookie store keyed by Conf.Session.Secret by default
		Validate     *validator.Validate
		Translator   ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		sessions sessions.Store
		modals   *modalRegistry
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		sessions: deps.SessionStore,
		modals:   newModalRegistry(deps.Conf.Session.MenuTTL),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	if s.sessions == nil {
		s.sessions = newCookieStore(deps.Conf)
	}
	if s.deps.Validate == nil || s.deps.Translator == nil {
		s.deps.Validate, s.deps.Translator = core.NewValidator()
	}
	if s.deps.Metrics == nil {
		s.deps.Metrics = metricsvc.New()
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout
	s.app.HideBanner = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(s.deps.Metrics.Middleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Validator = &appValidator{validate: s.deps.Validate}
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.GET("/healthz", healthz)
	s.app.GET("/metrics", echo.WrapHandler(s.deps.Metrics.Handler()))

	visitor := visitorMiddleware(s.sessions, conf.Session.Name)
	jwt := optionalJWT(conf)

	v1 := s.app.Group("/v1", visitor, jwt)

	registerCatalogAPI(v1, s.deps.Dropdown.Catalog())
	mapi := registerMenuAPI(v1, s.deps.Dropdown, s.deps.MenuStore, s.deps.Metrics)
	eapi := registerEnrollmentAPI(v1, enrollmentAPIDeps{
		svc:     s.deps.Enrollment,
		leads:   s.deps.Leads,
		catalog: s.deps.Dropdown.Catalog(),
		modals:  s.modals,
		metrics: s.deps.Metrics,
		logger:  s.deps.Logger,
	})
	registerSessionAPI(v1)

	// server-rendered fragments
	s.app.GET("/menu", mapi.render, visitor)
	s.app.GET("/enrollments/form", eapi.renderForm, visitor, jwt)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error { return s.errors }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Institute API!")
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
