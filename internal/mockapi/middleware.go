package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Joseda-hg/lazyproject/internal/apperrors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const rateLimiterExpiry = 5 * time.Minute

// errorMiddleware writes handler errors as {"message": ...} with the status
// their type maps to. Echo's own errors pass through unchanged.
func errorMiddleware(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			appErr := apperrors.AsError(err)
			logError(log, c, appErr)
			if err := c.JSON(appErr.HTTPStatus(), appErr.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

func logError(log logrus.FieldLogger, c echo.Context, err *apperrors.Error) {
	entry := log.WithFields(logrus.Fields{
		"error_type": err.Type,
		"path":       c.Request().URL.Path,
		"status":     err.HTTPStatus(),
	})
	for k, v := range err.Context {
		entry = entry.WithField(k, v)
	}
	if userID, ok := c.Get(userIDKey).(string); ok {
		entry = entry.WithField("user_id", userID)
	}

	switch err.Type {
	case apperrors.TypeValidation, apperrors.TypeNotFound, apperrors.TypeUnauthorized:
		entry.Info(err.Message)
	case apperrors.TypeConflict:
		entry.Warn(err.Message)
	default:
		entry.WithError(err.Cause).Error(err.Message)
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.WithFields(logrus.Fields{
				"method":  v.Method,
				"path":    v.URIPath,
				"status":  v.Status,
				"latency": v.Latency,
			}).Debug("Request")
			return nil
		},
	})
}

// authRateLimiter limits login and register attempts per client IP.
func (s *Server) authRateLimiter() echo.MiddlewareFunc {
	if s.cfg.AuthRate <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	burst := s.cfg.AuthBurst
	if burst <= 0 {
		burst = DefaultAuthBurst
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(s.cfg.AuthRate),
			Burst:     burst,
			ExpiresIn: rateLimiterExpiry,
		},
	)
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"message": "too many attempts, try again later",
			})
		},
	})
}

// latency holds every API response back by the configured delay.
func (s *Server) latency(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.cfg.Latency > 0 {
			select {
			case <-s.clock.After(s.cfg.Latency):
			case <-c.Request().Context().Done():
				return c.Request().Context().Err()
			}
		}
		return next(c)
	}
}
