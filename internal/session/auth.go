package session

import (
	"context"

	"plannest/internal/service"
)

// Authenticator is the session-changing half of the API.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	Logout(ctx context.Context) (service.AuthResult, error)
}

// Login calls the API and, on success, stores the returned user.
// The store reports loading for the duration of the call.
func Login(ctx context.Context, store *Store, auth Authenticator, email, password string) (service.AuthResult, error) {
	store.SetLoading(true)
	res, err := auth.Login(ctx, email, password)
	if err != nil || !res.Success || res.User == nil {
		store.SetLoading(false)
		return res, err
	}
	store.SetUser(*res.User)
	return res, nil
}

// Logout calls the API and, on success, clears the user.
func Logout(ctx context.Context, store *Store, auth Authenticator) (service.AuthResult, error) {
	store.SetLoading(true)
	res, err := auth.Logout(ctx)
	if err != nil || !res.Success {
		store.SetLoading(false)
		return res, err
	}
	store.ClearUser()
	return res, nil
}
