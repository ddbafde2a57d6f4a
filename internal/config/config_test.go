package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearFarumEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"FARUM_CONFIG_FILE", "FARUM_MODE", "FARUM_PORT", "PORT",
		"FARUM_GCP_PROJECT", "FARUM_GCP_LOCATION",
		"FARUM_STORAGE_BACKEND", "FARUM_SQLITE_PATH",
		"FARUM_INFERENCE_PROVIDER", "FARUM_SENTIMENT_URL", "FARUM_EMOTION_URL",
		"FARUM_MODEL_NAME", "FARUM_INFERENCE_TIMEOUT",
		"FARUM_INFERENCE_TOKEN", "FARUM_LOG_LEVEL", "FARUM_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearFarumEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, ProviderMock, cfg.Inference.Provider)
	assert.Equal(t, 15*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, "local", cfg.Inference.Credential)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearFarumEnv(t)
	t.Setenv("FARUM_STORAGE_BACKEND", "sqlite")
	t.Setenv("FARUM_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("FARUM_INFERENCE_PROVIDER", "http")
	t.Setenv("FARUM_INFERENCE_TIMEOUT", "3s")
	t.Setenv("FARUM_INFERENCE_TOKEN", "hf-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, cfg.StorageBackend)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, ProviderHTTP, cfg.Inference.Provider)
	assert.Equal(t, 3*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, "hf-token", cfg.Inference.Credential)
}

func TestLoad_HTTPWithoutTokenHasNoCredential(t *testing.T) {
	clearFarumEnv(t)
	t.Setenv("FARUM_INFERENCE_PROVIDER", "http")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Inference.Credential)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	clearFarumEnv(t)

	dir := t.TempDir()
	p := filepath.Join(dir, "farum.yaml")
	body := []byte(`
port: "9090"
storage_backend: sqlite
sqlite_path: /var/lib/farum.db
inference:
  provider: openai
  model: gpt-4o-mini
  timeout: 5s
`)
	require.NoError(t, os.WriteFile(p, body, 0o644))

	t.Setenv("FARUM_CONFIG_FILE", p)
	t.Setenv("FARUM_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port, "env wins over file")
	assert.Equal(t, StorageSQLite, cfg.StorageBackend)
	assert.Equal(t, "/var/lib/farum.db", cfg.SQLitePath)
	assert.Equal(t, ProviderOpenAI, cfg.Inference.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Inference.Model)
	assert.Equal(t, 5*time.Second, cfg.Inference.Timeout)
}

func TestValidate(t *testing.T) {
	t.Run("firestore needs a project", func(t *testing.T) {
		cfg := Default()
		cfg.StorageBackend = StorageFirestore
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := Default()
		cfg.Inference.Provider = "carrier-pigeon"
		assert.Error(t, cfg.Validate())
	})

	t.Run("gcp mode needs a project", func(t *testing.T) {
		cfg := Default()
		cfg.Mode = ModeGCP
		assert.Error(t, cfg.Validate())
	})

	t.Run("default is valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})
}

func TestVertexUsesProjectAsCredential(t *testing.T) {
	clearFarumEnv(t)
	t.Setenv("FARUM_INFERENCE_PROVIDER", "vertex")
	t.Setenv("FARUM_GCP_PROJECT", "farum-prod")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "farum-prod", cfg.Inference.Credential)
}

func TestProviderNameIsCaseInsensitive(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		clearFarumEnv(t)
		t.Setenv("FARUM_INFERENCE_PROVIDER", " HTTP ")
		t.Setenv("FARUM_INFERENCE_TOKEN", "hf-token")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ProviderHTTP, cfg.Inference.Provider)
		assert.Equal(t, "hf-token", cfg.Inference.Credential)
	})

	t.Run("mock keeps its local credential", func(t *testing.T) {
		clearFarumEnv(t)
		t.Setenv("FARUM_INFERENCE_PROVIDER", "Mock")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ProviderMock, cfg.Inference.Provider)
		assert.Equal(t, "local", cfg.Inference.Credential)
	})

	t.Run("yaml", func(t *testing.T) {
		clearFarumEnv(t)
		p := filepath.Join(t.TempDir(), "farum.yaml")
		require.NoError(t, os.WriteFile(p, []byte("inference:\n  provider: OpenAI\n"), 0o644))
		t.Setenv("FARUM_CONFIG_FILE", p)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, cfg.Inference.Provider)
	})
}
