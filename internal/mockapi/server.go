// Package mockapi serves local stand-ins for the onboarding backends: the
// core API, the vehicle catalog and both postal-code services, all on one
// echo instance.
package mockapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/finatech/onboard/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultMaxFinancing is the largest financing value, in minor units, the
// mock approves.
const DefaultMaxFinancing int64 = 250_000_00

// ErrorResponse is the body of every error the mock returns.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Option configures a Server.
type Option func(*Server)

// WithMaxFinancing sets the approval ceiling for financings.
func WithMaxFinancing(units int64) Option {
	return func(s *Server) { s.maxFinancing = units }
}

// WithFailures makes every core API submission fail with the given status.
func WithFailures(status int) Option {
	return func(s *Server) { s.failStatus = status }
}

// Server is the mock backend.
type Server struct {
	echo         *echo.Echo
	store        *Store
	maxFinancing int64
	failStatus   int

	mu       sync.Mutex
	listener net.Listener
}

// New builds a Server with its routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		echo:         echo.New(),
		store:        NewStore(),
		maxFinancing: DefaultMaxFinancing,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = errorHandler
	s.echo.Use(requestLogger)

	s.registerCore(s.echo.Group("/api/v1"))
	s.registerCatalog(s.echo.Group("/api/veiculos"))
	s.registerPostal(s.echo)
	return s
}

// Store exposes the recorded submissions.
func (s *Server) Store() *Store {
	return s.store
}

// ServeHTTP lets the server be mounted on httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr and serves in the background. It returns the bound address.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.echo.Listener = ln
	go func() {
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("mock api: %v", err)
		}
	}()
	logger.Info("Mock API listening on %s", ln.Addr())
	return ln.Addr().String(), nil
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal Server Error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	_ = c.JSON(code, ErrorResponse{Message: message})
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		logger.Debug("mock api: %s %s -> %d", c.Request().Method, c.Request().URL.Path, c.Response().Status)
		return err
	}
}

// bindRequest binds and validates a JSON body.
func bindRequest[T any](c echo.Context) (T, error) {
	var v T
	if err := c.Bind(&v); err != nil {
		return v, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return v, echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	}
	return v, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return fe.Field() + " failed " + fe.Tag()
}
