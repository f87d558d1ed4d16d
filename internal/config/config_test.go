package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naat/pkg/logger"
)

func TestSplitKeyValue(t *testing.T) {
	cases := []struct {
		line  string
		key   string
		value string
		ok    bool
	}{
		{line: "HTTP_PORT=9090", key: "HTTP_PORT", value: "9090", ok: true},
		{line: `NAME="Naat \"prod\""`, key: "NAME", value: `Naat "prod"`, ok: true},
		{line: "SINGLE='a b'", key: "SINGLE", value: "a b", ok: true},
		{line: "TTL=30s # inline", key: "TTL", value: "30s", ok: true},
		{line: "URL=http://x/#frag", key: "URL", value: "http://x/#frag", ok: true},
		{line: "EMPTY=", key: "EMPTY", value: "", ok: true},
		{line: "=nokey", ok: false},
		{line: "garbage", ok: false},
	}

	for _, tc := range cases {
		key, value, ok := splitKeyValue(tc.line)
		assert.Equal(t, tc.ok, ok, tc.line)
		if tc.ok {
			assert.Equal(t, tc.key, key, tc.line)
			assert.Equal(t, tc.value, value, tc.line)
		}
	}
}

func TestLoadReadsDotEnvWithoutOverridingEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "naat.env")
	contents := "export PAGE_SIZE_DEFAULT=10\nPAGE_SIZE_MAX=50\nQUERY_CACHE_TTL=2m\nHTTP_PORT=7000\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	t.Setenv(dotenvPathEnv, path)
	t.Setenv("HTTP_PORT", "9000")
	// Registered so t.Setenv restores the pre-test state of the keys the file sets.
	for _, key := range []string{"PAGE_SIZE_DEFAULT", "PAGE_SIZE_MAX", "QUERY_CACHE_TTL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://naat.app , ,http://localhost:5173")

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 10, cfg.Pagination.DefaultPageSize)
	assert.Equal(t, 50, cfg.Pagination.MaxPageSize)
	assert.Equal(t, 2*time.Minute, cfg.QueryCache.TTL)
	assert.Equal(t, []string{"https://naat.app", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadRejectsInconsistentPagination(t *testing.T) {
	t.Setenv(dotenvPathEnv, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PAGE_SIZE_DEFAULT", "50")
	t.Setenv("PAGE_SIZE_MAX", "10")

	_, err := Load(logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_SIZE_MAX")
}

func TestGetDSN(t *testing.T) {
	assert.Equal(t, "postgres://x", DBConfig{DSN: "postgres://x"}.GetDSN())

	dsn := DBConfig{Host: "db", User: "u", Password: "p", Name: "naat", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}.GetDSN()
	assert.Equal(t, "host=db user=u password=p dbname=naat port=5432 sslmode=disable TimeZone=UTC", dsn)
}
