package echoapi

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/auth"
)

const tokenContextKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
// Tokens are issued by the auth service and signed with the shared secret key.
type Claims struct {
	jwt.StandardClaims
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

func (c Claims) User() auth.User {
	return auth.User{ID: c.Subject, Name: c.Name, Email: c.Email, IsAdmin: c.IsAdmin}
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// optionalJWT validates the bearer token when there is one. Anonymous visitors go through.
func optionalJWT(conf *core.Config) echo.MiddlewareFunc {
	jwtConf := newJWTConfig(conf)
	jwtConf.Skipper = func(ctx echo.Context) bool {
		return !strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderAuthorization), middleware.DefaultJWTConfig.AuthScheme)
	}
	return middleware.JWTWithConfig(jwtConf)
}

// NewClaims returns the claims of a token valid for `ttl`, as the auth service would issue it.
func NewClaims(conf *core.Config, usr auth.User, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:    usr.Name,
		Email:   usr.Email,
		IsAdmin: usr.IsAdmin,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	jwtConf := newJWTConfig(conf)
	method := jwt.GetSigningMethod(jwtConf.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(jwtConf.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// contextSession builds the auth.Session of the request; the user is nil for anonymous visitors.
// Redirect paths are kept in the visitor's cookie session.
func contextSession(ctx echo.Context, vs *visitorSession) auth.Session {
	var usr *auth.User
	if claims, err := getContextClaims(ctx); err == nil {
		u := claims.User()
		usr = &u
	}
	return auth.NewSession(usr, func(path string) {
		if err := vs.setRedirectPath(ctx, path); err != nil {
			ctx.Logger().Error(errors.Wrap(err, "saving redirect path"))
		}
	})
}

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
