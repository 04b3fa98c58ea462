package leaderboard

import (
	"net/http"

	"github.com/snbtku/backend/srvcerr"
)

const ErrCodeProgressBusy = "progress_busy"

func newErrProgressBusy() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeProgressBusy,
		"progres sedang diperbarui, coba lagi nanti",
	).SetHttpStatusCode(http.StatusConflict)
}
