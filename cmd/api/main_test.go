package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ConfigErrorIsReturned(t *testing.T) {
	t.Setenv("HR_API_BASE_URL", "https://hr.example.com/api")
	t.Setenv("JWT_SECRET_KEY", "")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_AuditDatabaseErrorIsReturned(t *testing.T) {
	t.Setenv("HR_API_BASE_URL", "https://hr.example.com/api")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "1")
	t.Setenv("DB_PASSWORD", "pw")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to audit database")
}
