// Package logsvc prints log lines and reports them to Rollbar.
package logsvc

import (
	"io"
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/auth"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

// NewDiscardLogger returns a logger that neither prints nor reports.
func NewDiscardLogger() *RollbarLogger {
	rollbar.SetEnabled(false)
	return &RollbarLogger{std: log.New(io.Discard, "", 0)}
}

func (l RollbarLogger) Enable(enabled bool) { rollbar.SetEnabled(enabled) }

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.INFO, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.WARN, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}

// log reports the item as the visitor in args, if any, and prints everything but the visitor.
func (l RollbarLogger) log(level, msg string, args []interface{}) {
	usr, extra := splitUser(args)
	if usr != nil && usr.ID != "" {
		rollbar.SetPerson(usr.ID, usr.Name, usr.Email)
	} else {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, append([]interface{}{msg}, extra...)...)

	l.std.Println(msg)
	for _, arg := range extra {
		l.std.Printf("%+v\n", arg)
	}
}

// splitUser takes the first auth.User (or *auth.User) out of args.
func splitUser(args []interface{}) (*auth.User, []interface{}) {
	var usr *auth.User
	rest := make([]interface{}, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case auth.User:
			if usr == nil {
				usr = &v
			}
		case *auth.User:
			if usr == nil && v != nil {
				usr = v
			}
		default:
			rest = append(rest, arg)
		}
	}
	return usr, rest
}
