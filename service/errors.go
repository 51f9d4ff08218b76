package service

import "fmt"

// InvalidArgumentError reports a caller-supplied parameter that is missing,
// of the wrong type, or outside an allowed choice set. It is returned
// synchronously during validation, before any request is dispatched.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// NewInvalidArgument creates an InvalidArgumentError with a formatted message.
func NewInvalidArgument(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	_, ok := err.(*InvalidArgumentError)
	return ok
}

// ServiceError reports a completed HTTP exchange whose outcome the service
// flagged as a failure: a vendor status code outside [200, 206], a body that
// could not be parsed, or a job response missing an expected field.
type ServiceError struct {
	Message           string
	ServiceStatusCode int
	HTTPStatusCode    int
	RequestURL        string
}

func (e *ServiceError) Error() string {
	if e.ServiceStatusCode != 0 {
		return fmt.Sprintf("service error %d: %s", e.ServiceStatusCode, e.Message)
	}
	return fmt.Sprintf("service error: %s", e.Message)
}
