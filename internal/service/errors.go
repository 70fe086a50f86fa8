package service

import "fmt"

// RequestError reports invalid input or a violated business rule. Handlers
// render it as a 400; untyped errors are treated as store failures.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func requestErrorf(format string, args ...interface{}) error {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}
