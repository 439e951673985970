package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_FileEnvAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"DB_HOST: db.local\nSTORE_DRIVER: redis\nOPENAI_RPS: 0.5\nREDIS_DB: 3\n",
	), 0o600))
	LoadConfigFile(path)
	t.Cleanup(func() { config = Config{} })

	assert.Equal(t, "db.local", GetConfig("DB_HOST"))
	assert.Equal(t, "redis", GetConfig("STORE_DRIVER"))
	assert.Equal(t, "0.5", GetConfig("OPENAI_RPS"))
	assert.Equal(t, "3", GetConfig("REDIS_DB"))
	assert.Equal(t, "8080", GetConfig("APP_PORT"))
	assert.Equal(t, "gpt-4o-mini", GetConfig("OPENAI_MODEL"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))

	t.Setenv("DB_HOST", "override.local")
	assert.Equal(t, "override.local", GetConfig("DB_HOST"))
}

func TestLoadConfigFile_MissingFileKeepsDefaults(t *testing.T) {
	LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	t.Cleanup(func() { config = Config{} })

	assert.Equal(t, "postgres", GetConfig("STORE_DRIVER"))
	assert.Equal(t, "@every 1m", GetConfig("RECONCILE_SCHEDULE"))
}

func TestValidator_KcalTag(t *testing.T) {
	type payload struct {
		Kcal string `validate:"required,kcal"`
	}
	v := NewValidator()

	assert.NoError(t, v.Struct(payload{Kcal: "150"}))
	assert.Error(t, v.Struct(payload{Kcal: "-1"}))
	assert.Error(t, v.Struct(payload{Kcal: "12.5"}))
	assert.Error(t, v.Struct(payload{Kcal: "abc"}))
}
