package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "trendify.db", cfg.Journal.Path)
	require.Equal(t, 4, cfg.Model.Precision)
	require.Equal(t, "zstd", cfg.Artifact.Codec)
	require.Equal(t, 6.0, cfg.Plot.Width)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trendify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
transport:
  mode: http
model:
  precision: 2
artifact:
  codec: lz4
plot:
  width: 8
`), 0o644))

	t.Setenv("TRENDIFY_CONFIG_PATH", path)
	t.Setenv("TRENDIFY_SERVER_PORT", "9100")
	t.Setenv("TRENDIFY_JOURNAL_PATH", ":memory:")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 2, cfg.Model.Precision)
	require.Equal(t, "lz4", cfg.Artifact.Codec)
	require.Equal(t, 8.0, cfg.Plot.Width)
	require.Equal(t, 6.0, cfg.Plot.Height)
	require.Equal(t, ":memory:", cfg.Journal.Path)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"TRENDIFY_SERVER_PORT":     "eighty",
		"TRENDIFY_TRANSPORT":       "carrier-pigeon",
		"TRENDIFY_ARTIFACT_CODEC":  "brotli",
		"TRENDIFY_MODEL_PRECISION": "-1",
		"TRENDIFY_AUTH_ENABLED":    "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_AuthRequiresToken(t *testing.T) {
	t.Setenv("TRENDIFY_AUTH_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("TRENDIFY_AUTH_TOKEN", "secret")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Auth.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("TRENDIFY_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}
