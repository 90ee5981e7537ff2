package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidParams = New(BizCodeInvalidParams, http.StatusBadRequest, "invalid params", nil)
	ErrUnauthorized  = New(BizCodeUnauthorized, http.StatusUnauthorized, "unauthorized", nil)

	ErrNotConfigured = New(BizCodeNotConfigured, http.StatusPreconditionFailed, "GitHub token not configured", nil)
	ErrBusy          = New(BizCodeBusy, http.StatusConflict, "update check or install already in progress", nil)

	// ErrNetwork and its variants share one biz code, errors.Is matches any of them.
	ErrNetwork        = New(BizCodeNetwork, http.StatusBadGateway, "Failed to check for updates, check token and network", nil)
	ErrOffline        = New(BizCodeNetwork, http.StatusServiceUnavailable, "DNS resolution failed, check network connection", nil)
	ErrServerRejected = New(BizCodeNetwork, http.StatusBadGateway, "Release server rejected the request", nil)
	ErrDownloadFailed = New(BizCodeNetwork, http.StatusBadGateway, "Download failed", nil)

	ErrParse           = New(BizCodeParse, http.StatusBadGateway, "Failed to parse release info", nil)
	ErrReleaseNotFound = New(BizCodeReleaseNotFound, http.StatusNotFound, "No releases found", nil)

	ErrInvalidSize       = New(BizCodeInvalidSize, http.StatusBadGateway, "Invalid firmware size", nil)
	ErrOpenStagingFailed = New(BizCodeOpenStagingFailed, http.StatusInsufficientStorage, "Not enough space for update", nil)
	ErrWrite             = New(BizCodeWrite, http.StatusInternalServerError, "Firmware write error", nil)
	ErrIncompleteImage   = New(BizCodeIncompleteImage, http.StatusInternalServerError, "Update incomplete", nil)
)

type Error struct {
	bizCode  int
	httpCode int
	message  string
	details  any
	internal error
}

func New(bizCode, httpCode int, message string, internal error) *Error {
	return &Error{
		bizCode:  bizCode,
		httpCode: httpCode,
		message:  message,
		internal: internal,
	}
}

func NewUnexpected(msg string, errs ...error) *Error {
	var err error
	if len(errs) != 0 {
		err = errs[0]
	}
	return &Error{
		bizCode:  -1,
		message:  msg,
		httpCode: http.StatusInternalServerError,
		internal: err,
	}
}

func (e *Error) Error() string {

	if e.internal != nil {
		return fmt.Sprintf("%s: %v", e.message, e.internal)
	}

	return e.message
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	return ok && e.bizCode == t.BizCode()
}

func (e *Error) Unwrap() error {
	return e.internal
}

func (e *Error) BizCode() int {
	return e.bizCode
}

func (e *Error) HTTPCode() int {
	return e.httpCode
}

func (e *Error) Message() string {
	return e.message
}

func (e *Error) Details() any {
	return e.details
}

func (e *Error) Wrap(err error) *Error {
	return &Error{
		bizCode:  e.bizCode,
		httpCode: e.httpCode,
		message:  e.message,
		details:  e.details,
		internal: err,
	}
}

// Wrapf attaches a formatted cause, used where the cause is a plain description rather than an error.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

func (e *Error) WithDetails(details any) *Error {

	return &Error{
		bizCode:  e.bizCode,
		httpCode: e.httpCode,
		message:  e.message,
		details:  details,
		internal: e.internal,
	}
}

// Describe renders err for a human-facing status line. An *Error contributes its message and,
// when detailed is set, its cause; anything else is rendered as is.
func Describe(err error, detailed bool) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if detailed {
		return e.Error()
	}
	return e.message
}
