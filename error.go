package locator

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID   = "invalid"
	ENOTFOUND  = "not_found"
	EINTERNAL  = "internal"
	EFETCH     = "fetch"
	EMALFORMED = "malformed"
	EEMPTY     = "empty"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("locator error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return EFETCH
	}
	var me *MalformedElementError
	if errors.As(err, &me) {
		return EMALFORMED
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	var me *MalformedElementError
	if errors.As(err, &me) {
		return me.Error()
	}
	return "Internal error."
}

// FetchError reports a network or HTTP failure while retrieving a page.
// StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MalformedElementError identifies an element that could not be turned into
// a locator. Index is the element's 1-based position in document order.
type MalformedElementError struct {
	Index    int
	Tag      string
	Category Category
	Reason   string
}

func (e *MalformedElementError) Error() string {
	tag := e.Tag
	if tag == "" {
		tag = "?"
	}
	if e.Category == "" {
		return fmt.Sprintf("malformed element #%d <%s>: %s", e.Index, tag, e.Reason)
	}
	return fmt.Sprintf("malformed element #%d <%s> in %s: %s", e.Index, tag, e.Category, e.Reason)
}
