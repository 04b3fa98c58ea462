package materialsrvc

import (
	"net/http"

	"github.com/snbtku/backend/srvcerr"
)

const ErrCodeMaterialNotFound = "material_not_found"

func newErrMaterialNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeMaterialNotFound,
		"materi tidak ditemukan",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeInvalidMaterial = "invalid_material"

func newErrInvalidMaterial() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidMaterial,
		"data materi tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeWrongMaterialType = "wrong_material_type"

func newErrWrongMaterialType(want string) *srvcerr.Error {
	return srvcerr.New(
		ErrCodeWrongMaterialType,
		"jenis materi harus "+want,
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidFile = "invalid_file"

func newErrInvalidFile() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidFile,
		"berkas tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidCursor = "invalid_cursor"

func newErrInvalidCursor() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidCursor,
		"penanda halaman tidak valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}
