package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/audit"
	"github.com/prathomik/sheba/core/certificate"
	"github.com/prathomik/sheba/core/notification"
	"github.com/prathomik/sheba/core/school"
	"github.com/prathomik/sheba/core/user"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		UserSvc    *user.Service
		SchoolSvc  *school.Service
		CertSvc    *certificate.Service
		NotifSvc   *notification.Service
		AuditSvc   *audit.Service
		RemarksSvc core.RemarksService
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := ConfigureAuth(conf)

	registerUserAPI(v1, jwt, s.deps.UserSvc, s.deps.Validate)
	registerSchoolAPI(v1, jwt, s.deps.SchoolSvc, s.deps.UserSvc, s.deps.CertSvc, s.deps.RemarksSvc, s.deps.Validate)
	registerCertificateAPI(v1, jwt, s.deps.CertSvc, s.deps.RemarksSvc, s.deps.Validate)
	registerNotificationAPI(v1, jwt, s.deps.NotifSvc)
	registerAuditAPI(v1, jwt, s.deps.AuditSvc)
}

func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors reports a failed listener; the server is dead once it fires.
func (s *Server) Errors() <-chan error { return s.errors }

// ShutdownSignal fires on SIGINT/SIGTERM or an internal integrity error.
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Prathomik Sheba API!")
}
