package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/auth"
	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
	"github.com/Diva-jaw/Frontend--sub001/core/menu"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errNoLeads       = echo.NewHTTPError(http.StatusNotFound, "leads are only stored by the local enrollment backend")
)

// statusCodes maps the sentinel errors of the domain packages to a response status.
var statusCodes = map[error]int{
	enrollment.ErrSessionMissing: http.StatusUnauthorized,
	enrollment.ErrSubmitInFlight: http.StatusConflict,
	enrollment.ErrModalClosed:    http.StatusConflict,
	enrollment.ErrUnknownField:   http.StatusBadRequest,
	catalog.ErrNotFound:          http.StatusNotFound,
	menu.ErrNoCategory:           http.StatusBadRequest,
	menu.ErrNoModal:              http.StatusBadRequest,
	menu.ErrOutOfRange:           http.StatusNotFound,
	menu.ErrUnknownModal:         http.StatusBadRequest,
}

// loginRequiredError is returned when an anonymous visitor submits an enrollment.
type loginRequiredError struct {
	RedirectPath string
}

func (e *loginRequiredError) Error() string { return enrollment.MsgLoginRequired }

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, fErr := range core.TranslateErrors(origErr, translator) {
				fldErrs[fErr.Field] = fErr.Error
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			// a guard failure carries one message for the whole form; bare field errors come from binding
			if origErr.Err == nil && origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *loginRequiredError:
			code = http.StatusUnauthorized
			message = echo.Map{"error": origErr.Error(), "redirect_path": origErr.RedirectPath}
		case *enrollment.ServiceError:
			code = http.StatusBadGateway
			message = enrollment.MessageOf(origErr)
		default:
			if sc, ok := sentinelStatus(origErr); ok {
				code = sc
				message = origErr.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr auth.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr = claims.User()
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func sentinelStatus(err error) (int, bool) {
	for sentinel, code := range statusCodes {
		if err == sentinel {
			return code, true
		}
	}
	return 0, false
}
