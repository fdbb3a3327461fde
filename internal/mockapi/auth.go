package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Joseda-hg/lazyproject/internal/apperrors"
	"github.com/Joseda-hg/lazyproject/internal/db"
	"github.com/Joseda-hg/lazyproject/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const userIDKey = "userID"

type loginRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// authResponse is result.user: the user record with its bearer token.
type authResponse struct {
	User model.User `json:"user"`
}

func (s *Server) issueToken(userID string) (string, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parseToken returns the user id a valid token was issued to.
func (s *Server) parseToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// requireAuth accepts "Authorization: Bearer <token>" for an existing user
// and stores the user id in the echo context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return apperrors.UnauthorizedError("missing bearer token")
		}

		userID, err := s.parseToken(strings.TrimSpace(raw))
		if err != nil {
			return apperrors.UnauthorizedError("invalid token")
		}
		if _, err := s.store.GetUser(c.Request().Context(), userID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return apperrors.UnauthorizedError("invalid token")
			}
			return apperrors.InternalError("failed to load user", err)
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.EmailOrPhone) == "" || req.Password == "" {
		return apperrors.ValidationError("emailOrPhone and password are required")
	}

	ctx := c.Request().Context()
	record, err := s.store.FindUserByLogin(ctx, req.EmailOrPhone)
	if errors.Is(err, db.ErrNotFound) {
		return apperrors.UnauthorizedError("invalid credentials")
	}
	if err != nil {
		return apperrors.InternalError("failed to look up user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(req.Password)); err != nil {
		return apperrors.UnauthorizedError("invalid credentials")
	}

	return s.respondWithToken(c, http.StatusOK, record.User)
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	switch {
	case req.Name == "":
		return apperrors.ValidationError("name is required")
	case !strings.Contains(req.Email, "@"):
		return apperrors.ValidationError("a valid email is required")
	case len(req.Password) < 6:
		return apperrors.ValidationError("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return apperrors.InternalError("failed to hash password", err)
	}

	record, err := s.store.CreateUser(c.Request().Context(), db.UserInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
	})
	if errors.Is(err, db.ErrConflict) {
		return apperrors.ConflictError("user already exists")
	}
	if err != nil {
		return apperrors.InternalError("failed to create user", err)
	}

	s.log.WithField("user_id", record.ID).Info("Registered user")
	return s.respondWithToken(c, http.StatusCreated, record.User)
}

func (s *Server) respondWithToken(c echo.Context, status int, user model.User) error {
	token, err := s.issueToken(user.ID)
	if err != nil {
		return apperrors.InternalError("failed to issue token", err)
	}
	user.Token = token
	return c.JSON(status, envelope{Result: authResponse{User: user}})
}

func currentUser(c echo.Context) string {
	userID, _ := c.Get(userIDKey).(string)
	return userID
}
