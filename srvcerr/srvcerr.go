package srvcerr

import (
	"errors"
	"net/http"
)

type Error struct {
	errorCode  string
	msgToUser  string // public
	dbgInfoErr error  // private, for debugging

	httpStatus int // optional, for HTTP responses
}

func (e *Error) Error() string {
	return e.msgToUser
}

func (e *Error) ErrorCode() string {
	return e.errorCode
}

func (e *Error) DebugInfo() error {
	return e.dbgInfoErr
}

func (e *Error) SetDebug(err error) *Error {
	e.dbgInfoErr = err
	return e
}

func (e *Error) Unwrap() error {
	return e.dbgInfoErr
}

func (e *Error) HttpStatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

func (e *Error) SetHttpStatusCode(code int) *Error {
	e.httpStatus = code
	return e
}

func New(errorCode string, msgToUser string) *Error {
	return &Error{
		errorCode: errorCode,
		msgToUser: msgToUser,
	}
}

// HasCode reports whether err is a service error carrying the given code.
func HasCode(err error, code string) bool {
	var srvcErr *Error
	if errors.As(err, &srvcErr) {
		return srvcErr.errorCode == code
	}
	return false
}

const ErrCodeInternalServerError = "internal_server_error"

func ErrInternalSE() *Error {
	return New(
		ErrCodeInternalServerError,
		"terjadi kesalahan internal server",
	).SetHttpStatusCode(http.StatusInternalServerError)
}

const ErrCodeInvalidRequest = "invalid_request"

func ErrInvalidRequest(msg string) *Error {
	return New(
		ErrCodeInvalidRequest,
		msg,
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeUnauthorized = "unauthorized"

func ErrUnauthorized() *Error {
	return New(
		ErrCodeUnauthorized,
		"silakan masuk terlebih dahulu",
	).SetHttpStatusCode(http.StatusUnauthorized)
}

const ErrCodeForbidden = "forbidden"

func ErrForbidden() *Error {
	return New(
		ErrCodeForbidden,
		"anda tidak memiliki akses untuk tindakan ini",
	).SetHttpStatusCode(http.StatusForbidden)
}
