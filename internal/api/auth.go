package api

import (
	"context"
	"encoding/json"

	"github.com/Joseda-hg/lazyproject/internal/apperrors"
	"github.com/Joseda-hg/lazyproject/internal/model"
)

type loginRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// Login exchanges credentials for the user record. The returned user carries
// the bearer token in its Token field.
func (c *Client) Login(ctx context.Context, identifier, password string) (model.User, error) {
	env, err := c.postJSON(ctx, OpLogin, loginPath, "", loginRequest{EmailOrPhone: identifier, Password: password})
	if err != nil {
		return model.User{}, err
	}
	return decodeAuthenticatedUser(OpLogin, env)
}

// Register creates an account. The response has the same shape as Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	env, err := c.postJSON(ctx, OpRegister, c.registerPath, "", req)
	if err != nil {
		return model.User{}, err
	}
	return decodeAuthenticatedUser(OpRegister, env)
}

// decodeAuthenticatedUser requires result.user with a non-empty token.
func decodeAuthenticatedUser(op string, env envelope) (model.User, error) {
	if err := requireResult(op, env); err != nil {
		return model.User{}, err
	}

	var result struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(env.Result, &result); err != nil || len(result.User) == 0 {
		return model.User{}, apperrors.MalformedError("response has no user", err).WithField("operation", op)
	}

	var user model.User
	if err := json.Unmarshal(result.User, &user); err != nil {
		return model.User{}, apperrors.MalformedError("decode user", err).WithField("operation", op)
	}
	if user.ID == "" {
		user.ID = documentID(result.User)
	}
	if user.Token == "" {
		return model.User{}, apperrors.MalformedError("response user has no token", nil).WithField("operation", op)
	}
	return user, nil
}
