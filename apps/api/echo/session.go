package echoapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Diva-jaw/Frontend--sub001/core"
)

const (
	visitorContextKey = "visitorSession"

	visitorIDKey    = "visitor_id"
	redirectPathKey = "redirect_path"
)

func newCookieStore(conf *core.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(conf.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
		Secure:   !(conf.Debug || conf.TestMode),
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// visitorSession is the cookie session of a visitor, loaded once per request.
type visitorSession struct {
	sess *sessions.Session
}

func (vs *visitorSession) ID() string {
	id, _ := vs.sess.Values[visitorIDKey].(string)
	return id
}

func (vs *visitorSession) setRedirectPath(ctx echo.Context, path string) error {
	vs.sess.Values[redirectPathKey] = path
	return vs.sess.Save(ctx.Request(), ctx.Response())
}

// popRedirectPath returns the stored redirect path and forgets it.
func (vs *visitorSession) popRedirectPath(ctx echo.Context) (string, error) {
	path, _ := vs.sess.Values[redirectPathKey].(string)
	if path == "" {
		return "", nil
	}
	delete(vs.sess.Values, redirectPathKey)
	return path, vs.sess.Save(ctx.Request(), ctx.Response())
}

// visitorMiddleware loads the visitor's cookie session, giving new visitors a random id.
func visitorMiddleware(store sessions.Store, name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, ok := ctx.Get(visitorContextKey).(*visitorSession); ok {
				return next(ctx)
			}

			// a cookie that cannot be decoded yields a fresh session
			sess, _ := store.Get(ctx.Request(), name)
			if sess == nil {
				sess = sessions.NewSession(store, name)
			}
			vs := &visitorSession{sess: sess}
			if vs.ID() == "" {
				sess.Values[visitorIDKey] = uuid.NewString()
				if err := sess.Save(ctx.Request(), ctx.Response()); err != nil {
					return errors.Wrap(err, "saving visitor session")
				}
			}
			ctx.Set(visitorContextKey, vs)
			return next(ctx)
		}
	}
}

func getVisitorSession(ctx echo.Context) (*visitorSession, error) {
	if vs, ok := ctx.Get(visitorContextKey).(*visitorSession); ok {
		return vs, nil
	}
	return nil, errors.New("visitor session not found in echo.Context")
}

func registerSessionAPI(g *echo.Group) {
	g.GET("/session/redirect", popRedirect)
}

// popRedirect answers the path the visitor should be sent back to after login, once.
func popRedirect(ctx echo.Context) error {
	vs, err := getVisitorSession(ctx)
	if err != nil {
		return err
	}
	path, err := vs.popRedirectPath(ctx)
	if err != nil {
		return errors.Wrap(err, "popping redirect path")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"redirect_path": path})
}
