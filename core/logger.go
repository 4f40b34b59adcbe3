package core

// Logger logs messages and reports them to an error tracker.
// args may contain errors, maps of extras and the current auth.User.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
