// Package auth holds the session handed to components that need to know who the visitor is.
// Authentication itself is done by an external service; see the echo api for how tokens become sessions.
package auth

import "context"

// User is the authenticated visitor as described by the auth service.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"-"`
}

// Session is passed explicitly to the components that need it.
type Session struct {
	User *User

	setRedirectPath func(path string)
}

// NewSession returns a Session for `usr` (nil for anonymous visitors).
// setRedirectPath is called when a component wants the visitor sent back to a path after login.
func NewSession(usr *User, setRedirectPath func(path string)) Session {
	return Session{User: usr, setRedirectPath: setRedirectPath}
}

func (s Session) IsLoggedIn() bool { return s.User != nil }

func (s Session) SetRedirectPath(path string) {
	if s.setRedirectPath != nil && path != "" {
		s.setRedirectPath(path)
	}
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying `usr`.
func WithUser(ctx context.Context, usr *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, usr)
}

// UserFromContext returns the user stored by WithUser, or nil.
func UserFromContext(ctx context.Context) *User {
	usr, _ := ctx.Value(ctxKey{}).(*User)
	return usr
}
