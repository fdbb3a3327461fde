// Package mockapi serves the project/task HTTP API backed by SQLite. It lets
// the client run without a remote deployment and gives tests a real server to
// talk to.
package mockapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Joseda-hg/lazyproject/internal/db"
	"github.com/Joseda-hg/lazyproject/internal/keystore"
	"github.com/Joseda-hg/lazyproject/internal/logging"
	"github.com/Joseda-hg/lazyproject/internal/metrics"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL  = 24 * time.Hour
	DefaultAuthRate  = 5
	DefaultAuthBurst = 10
)

type Config struct {
	// JWTSecret signs bearer tokens. A random secret is generated when empty,
	// so tokens do not survive a restart.
	JWTSecret string
	TokenTTL  time.Duration
	// AuthRate and AuthBurst limit login and register requests per client IP.
	// A zero AuthRate disables the limit.
	AuthRate  float64
	AuthBurst int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// Latency delays every API response, like a slow network would.
	Latency time.Duration
}

func DefaultConfig() Config {
	return Config{
		TokenTTL:   DefaultTokenTTL,
		AuthRate:   DefaultAuthRate,
		AuthBurst:  DefaultAuthBurst,
		BcryptCost: bcrypt.DefaultCost,
	}
}

type Server struct {
	echo     *echo.Echo
	store    *db.Store
	cfg      Config
	secret   []byte
	clock    clockwork.Clock
	log      logrus.FieldLogger
	registry *prometheus.Registry
}

type Option func(*Server)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) { s.log = log }
}

// WithRegistry sets the registry the HTTP metrics are registered with and
// served from at /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

func NewServer(store *db.Store, cfg Config, opts ...Option) (*Server, error) {
	s := &Server{
		store: store,
		cfg:   cfg,
		clock: clockwork.NewRealClock(),
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.cfg.TokenTTL <= 0 {
		s.cfg.TokenTTL = DefaultTokenTTL
	}
	if s.cfg.BcryptCost == 0 {
		s.cfg.BcryptCost = bcrypt.DefaultCost
	}

	if cfg.JWTSecret != "" {
		s.secret = []byte(cfg.JWTSecret)
	} else {
		secret, err := generateSecret()
		if err != nil {
			return nil, err
		}
		s.secret = []byte(secret)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())
	e.Use(metrics.NewHTTPMetrics(s.registry).Middleware())
	e.Use(errorMiddleware(s.log))
	s.echo = e

	s.registerRoutes()
	return s, nil
}

// SecretKey names the kv entry holding the generated signing secret.
const SecretKey = "mockJWTSecret"

// LoadOrCreateSecret returns the signing secret kept in kv, generating and
// storing one on first use. Tokens issued before a restart stay valid.
func LoadOrCreateSecret(ctx context.Context, kv keystore.Store) (string, error) {
	secret, ok, err := kv.Get(ctx, SecretKey)
	if err != nil {
		return "", fmt.Errorf("read signing secret: %w", err)
	}
	if ok && secret != "" {
		return secret, nil
	}

	secret, err = generateSecret()
	if err != nil {
		return "", err
	}
	if err := kv.Set(ctx, SecretKey, secret); err != nil {
		return "", fmt.Errorf("store signing secret: %w", err)
	}
	return secret, nil
}

func generateSecret() (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}
	return hex.EncodeToString(secret), nil
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr and blocks until the server stops. A graceful
// Shutdown is not reported as an error.
func (s *Server) Start(addr string) error {
	s.log.WithField("addr", addr).Info("Mock API listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
