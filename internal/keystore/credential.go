package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Joseda-hg/lazyproject/internal/model"
)

const (
	TokenKey = "Usertoken"
	UserKey  = "authUser"
)

// Credential is the persisted session: bearer token plus the user it belongs to.
type Credential struct {
	Token string
	User  model.User
}

// SaveCredential writes the token and user entries as a pair. If the second
// write fails the first is removed again, so storage never holds only one half.
func SaveCredential(ctx context.Context, kv Store, cred Credential) error {
	if cred.Token == "" {
		return errors.New("credential token is empty")
	}

	user := cred.User
	user.Token = ""
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	if err := kv.Set(ctx, TokenKey, cred.Token); err != nil {
		return err
	}
	if err := kv.Set(ctx, UserKey, string(payload)); err != nil {
		if rmErr := kv.Remove(ctx, TokenKey); rmErr != nil {
			return errors.Join(err, fmt.Errorf("roll back token: %w", rmErr))
		}
		return err
	}
	return nil
}

// LoadCredential reads the persisted pair. ok is false when either entry is
// missing or empty, or when the user record does not decode.
func LoadCredential(ctx context.Context, kv Store) (Credential, bool, error) {
	token, hasToken, err := kv.Get(ctx, TokenKey)
	if err != nil {
		return Credential{}, false, err
	}
	rawUser, hasUser, err := kv.Get(ctx, UserKey)
	if err != nil {
		return Credential{}, false, err
	}
	if !hasToken || !hasUser || token == "" || rawUser == "" {
		return Credential{}, false, nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return Credential{}, false, nil
	}
	user.Token = ""
	return Credential{Token: token, User: user}, true, nil
}

// ClearCredential removes both entries. Both removals are attempted even if
// the first fails.
func ClearCredential(ctx context.Context, kv Store) error {
	return errors.Join(kv.Remove(ctx, TokenKey), kv.Remove(ctx, UserKey))
}
