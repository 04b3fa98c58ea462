package user

import (
	"fmt"
	"net/http"

	"github.com/snbtku/backend/srvcerr"
)

const ErrCodeUsernameTooShort = "username_too_short"

func newErrUsernameTooShort(minLength int) *srvcerr.Error {
	return srvcerr.New(
		ErrCodeUsernameTooShort,
		fmt.Sprintf("nama pengguna minimal %d karakter", minLength),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeUsernameTooLong = "username_too_long"

func newErrUsernameTooLong() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeUsernameTooLong,
		"nama pengguna terlalu panjang",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeUsernameInvalid = "username_invalid"

func newErrUsernameInvalid() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeUsernameInvalid,
		"nama pengguna hanya boleh berisi huruf, angka, titik, garis bawah dan tanda hubung",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeUsernameAlreadyExists = "username_exists"

func newErrUsernameExists() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeUsernameAlreadyExists,
		"nama pengguna sudah digunakan",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeEmailAlreadyExists = "email_exists"

func newErrEmailExists() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeEmailAlreadyExists,
		"email sudah terdaftar",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeEmailTooLong = "email_too_long"

func newErrEmailTooLong() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeEmailTooLong,
		"email terlalu panjang",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmailEmpty = "email_empty"

func newErrEmailEmpty() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeEmailEmpty,
		"email tidak boleh kosong",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmailInvalid = "email_invalid"

func newErrEmailInvalid() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeEmailInvalid,
		"email tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodePasswordTooShort = "password_too_short"

func newErrPasswordTooShort(minLength int) *srvcerr.Error {
	return srvcerr.New(
		ErrCodePasswordTooShort,
		fmt.Sprintf("kata sandi minimal %d karakter", minLength),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodePasswordTooLong = "password_too_long"

func newErrPasswordTooLong() *srvcerr.Error {
	return srvcerr.New(
		ErrCodePasswordTooLong,
		"kata sandi terlalu panjang",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeFirstnameTooLong = "firstname_too_long"

func newErrFirstnameTooLong(maxLength int) *srvcerr.Error {
	return srvcerr.New(
		ErrCodeFirstnameTooLong,
		fmt.Sprintf("nama depan maksimal %d karakter", maxLength),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeLastnameTooLong = "lastname_too_long"

func newErrLastnameTooLong(maxLength int) *srvcerr.Error {
	return srvcerr.New(
		ErrCodeLastnameTooLong,
		fmt.Sprintf("nama belakang maksimal %d karakter", maxLength),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeUserNotFound = "user_not_found"

func newErrUserNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeUserNotFound,
		"pengguna tidak ditemukan",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeUsernameOrPasswordIncorrect = "username_or_password_incorrect"

func newErrUsernameOrPasswordIncorrect() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeUsernameOrPasswordIncorrect,
		"nama pengguna atau kata sandi salah",
	).SetHttpStatusCode(http.StatusUnauthorized)
}
