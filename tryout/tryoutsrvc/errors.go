package tryoutsrvc

import (
	"net/http"

	"github.com/snbtku/backend/srvcerr"
)

const ErrCodeTryoutNotFound = "tryout_not_found"

func newErrTryoutNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeTryoutNotFound,
		"tryout tidak ditemukan",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeSubtestNotFound = "subtest_not_found"

func newErrSubtestNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeSubtestNotFound,
		"subtes tidak ditemukan atau belum memiliki soal",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeTryoutResultNotFound = "tryout_result_not_found"

func newErrTryoutResultNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeTryoutResultNotFound,
		"hasil tryout tidak ditemukan",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeTryoutHasResults = "tryout_has_results"

func newErrTryoutHasResults() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeTryoutHasResults,
		"tryout tidak dapat dihapus karena sudah memiliki hasil",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeInvalidTryout = "invalid_tryout"

func newErrInvalidTryout() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidTryout,
		"data tryout tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeUnknownSubtest = "unknown_subtest"

func newErrUnknownSubtest(name string) *srvcerr.Error {
	return srvcerr.New(
		ErrCodeUnknownSubtest,
		"subtes "+name+" tidak ada dalam tryout ini",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeScheduledTryoutNotFound = "scheduled_tryout_not_found"

func newErrScheduledTryoutNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeScheduledTryoutNotFound,
		"jadwal tryout tidak ditemukan",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeInvalidScheduledTryout = "invalid_scheduled_tryout"

func newErrInvalidScheduledTryout() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidScheduledTryout,
		"data jadwal tryout tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeAlreadyRegistered = "already_registered"

func newErrAlreadyRegistered() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeAlreadyRegistered,
		"anda sudah terdaftar untuk tryout ini",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeRegistrationClosed = "registration_closed"

func newErrRegistrationClosed() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeRegistrationClosed,
		"pendaftaran tryout ini sudah ditutup",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeInvalidCursor = "invalid_cursor"

func newErrInvalidCursor() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidCursor,
		"penanda halaman tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}
