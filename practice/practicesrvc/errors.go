package practicesrvc

import (
	"net/http"

	"github.com/snbtku/backend/srvcerr"
)

const ErrCodeQuestionSetNotFound = "question_set_not_found"

func newErrQuestionSetNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeQuestionSetNotFound,
		"set soal tidak ditemukan",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeQuestionNotFound = "question_not_found"

func newErrQuestionNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeQuestionNotFound,
		"soal tidak ditemukan",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodePracticeResultNotFound = "practice_result_not_found"

func newErrPracticeResultNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodePracticeResultNotFound,
		"hasil latihan tidak ditemukan",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeQuestionInUse = "question_in_use"

func newErrQuestionInUse() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeQuestionInUse,
		"soal tidak dapat dihapus karena digunakan dalam set soal",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeQuestionSetHasResults = "question_set_has_results"

func newErrQuestionSetHasResults() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeQuestionSetHasResults,
		"set soal tidak dapat dihapus karena sudah memiliki hasil latihan",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeInvalidQuestion = "invalid_question"

func newErrInvalidQuestion() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidQuestion,
		"data soal tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidQuestionSet = "invalid_question_set"

func newErrInvalidQuestionSet() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidQuestionSet,
		"data set soal tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidPracticeResult = "invalid_practice_result"

func newErrInvalidPracticeResult() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidPracticeResult,
		"data hasil latihan tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeNoAnswers = "no_answers"

func newErrNoAnswers() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeNoAnswers,
		"tidak ada jawaban yang dapat dinilai",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidCursor = "invalid_cursor"

func newErrInvalidCursor() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidCursor,
		"penanda halaman tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}
