package srvcerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/snbtku/backend/srvcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorDefaultsToInternalStatus(t *testing.T) {
	err := srvcerr.New("some_code", "pesan")
	assert.Equal(t, http.StatusInternalServerError, err.HttpStatusCode())
	assert.Equal(t, "pesan", err.Error())
	assert.Equal(t, "some_code", err.ErrorCode())
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := srvcerr.ErrForbidden()
	wrapped := fmt.Errorf("handler: %w", inner)

	assert.True(t, srvcerr.HasCode(wrapped, srvcerr.ErrCodeForbidden))
	assert.False(t, srvcerr.HasCode(wrapped, srvcerr.ErrCodeUnauthorized))
	assert.False(t, srvcerr.HasCode(errors.New("plain"), srvcerr.ErrCodeForbidden))
}

func TestDebugInfoIsUnwrapped(t *testing.T) {
	cause := errors.New("dynamodb timeout")
	err := srvcerr.ErrInternalSE().SetDebug(cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.DebugInfo())
	assert.NotContains(t, err.Error(), "dynamodb")
}
