package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("SNBTKU_HTTP_ADDR", ":9999")
	t.Setenv("SNBTKU_TABLE_USERS", "TestUsers")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HttpAddr)
	assert.Equal(t, "TestUsers", cfg.Tables.Users)
	assert.Equal(t, "SnbtkuPracticeResults", cfg.Tables.PracticeResults)
	assert.Equal(t, "Asia/Jakarta", cfg.TimeZone)
	assert.Equal(t, 5, cfg.AwsMaxAttempts)
	assert.Equal(t, "https://snbtku-public.s3.ap-southeast-3.amazonaws.com/", cfg.S3PublicURL)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestParseJwtSecret(t *testing.T) {
	key, err := parseJwtSecret(`{"jwt_key":"abc"}`)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), key)

	key, err = parseJwtSecret("plain-key")
	require.NoError(t, err)
	assert.Equal(t, []byte("plain-key"), key)

	_, err = parseJwtSecret(`{"jwt_key":""}`)
	assert.Error(t, err)
}
