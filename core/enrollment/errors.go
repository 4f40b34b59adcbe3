package enrollment

import "github.com/pkg/errors"

// Messages shown to the visitor.
const (
	MsgLoginRequired   = "Please login to enroll in this course"
	MsgRequiredFields  = "Please fill in all required fields"
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgInvalidPhone    = "Please enter a valid phone number"
	MsgGenericFailure  = "Enrollment failed. Please try again."
	MsgCourseNotFound  = "Course not found"
	MsgAlreadyEnrolled = "You are already enrolled in this level"
	MsgNetworkError    = "Network error"
)

var (
	ErrSessionMissing = errors.New(MsgLoginRequired)
	ErrSubmitInFlight = errors.New("an enrollment is already being submitted")
	ErrModalClosed    = errors.New("the enrollment modal is not open")
	ErrDuplicateLead  = errors.New("lead already exists")
	ErrUnknownField   = errors.New("unknown form field")
)

// ServiceError is a rejection by the enrollment service. Message is safe to show to the visitor.
type ServiceError struct {
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError returns a ServiceError showing `msg` for `err` (which may be nil).
func NewServiceError(msg string, err error) error {
	return &ServiceError{Message: msg, Err: err}
}

// MessageOf extracts the message to show for a failed submission.
// Errors that are not a *ServiceError give a generic message.
func MessageOf(err error) string {
	if svcErr, ok := errors.Cause(err).(*ServiceError); ok && svcErr.Message != "" {
		return svcErr.Message
	}
	return MsgGenericFailure
}

// IsServiceError reports whether err is a rejection by the enrollment service.
func IsServiceError(err error) bool {
	_, ok := errors.Cause(err).(*ServiceError)
	return ok
}
