package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namitjain73/IPEC-Hackethon/pkg/tlsutil"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"ML_PORT", "MODELS_DIR", "KAFKA_BROKERS", "DEBUG", "TRACING_ENABLED", "LOG_FORMAT", "RATE_LIMIT_RPS", "KAFKA_TLS_CA_FILE", "KAFKA_TLS_INSECURE_SKIP_VERIFY"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg := FromEnv()

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, ":5001", cfg.HTTPAddress())
	assert.Equal(t, "models", cfg.ModelsDir)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Tracing)
	assert.False(t, cfg.TLSEnabled())
	assert.Zero(t, cfg.RateLimitRPS)
	assert.NoError(t, cfg.Validate())

	kafkaTLS, err := cfg.KafkaTLS()
	require.NoError(t, err)
	assert.Nil(t, kafkaTLS)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ML_PORT", "6000")
	t.Setenv("DEBUG", "True")
	t.Setenv("TRACING_ENABLED", "1")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("TLS_CERT_FILE", "cert.pem")
	t.Setenv("TLS_KEY_FILE", "key.pem")
	t.Setenv("RATE_LIMIT_RPS", " 50 ")

	cfg := FromEnv()

	assert.Equal(t, ":6000", cfg.HTTPAddress())
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Tracing)
	assert.Equal(t, "a:9092,b:9092", cfg.KafkaBrokers)
	assert.True(t, cfg.TLSEnabled())
	assert.Equal(t, 50, cfg.RateLimitRPS)
}

func TestKafkaTLS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, tlsutil.GenerateSelfSignedCert([]string{"localhost"}, dir))

	t.Run("trusts the configured CA", func(t *testing.T) {
		t.Setenv("KAFKA_TLS_CA_FILE", filepath.Join(dir, "ca.pem"))
		cfg := FromEnv()

		tlsCfg, err := cfg.KafkaTLS()
		require.NoError(t, err)
		require.NotNil(t, tlsCfg)
		assert.NotNil(t, tlsCfg.RootCAs)
		assert.False(t, tlsCfg.InsecureSkipVerify)
	})

	t.Run("insecure without a CA", func(t *testing.T) {
		cfg := Config{KafkaTLSInsecure: true}

		tlsCfg, err := cfg.KafkaTLS()
		require.NoError(t, err)
		require.NotNil(t, tlsCfg)
		assert.True(t, tlsCfg.InsecureSkipVerify)
		assert.Nil(t, tlsCfg.RootCAs)
	})

	t.Run("missing CA file", func(t *testing.T) {
		cfg := Config{KafkaTLSCAFile: filepath.Join(dir, "absent.pem")}

		_, err := cfg.KafkaTLS()
		assert.ErrorContains(t, err, "KAFKA_TLS_CA_FILE")
	})
}

func TestGetEnvBool_InvalidFallsBack(t *testing.T) {
	t.Setenv("DEBUG", "sometimes")
	assert.True(t, getEnvBool("DEBUG", true))
	assert.False(t, getEnvBool("DEBUG", false))
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "fast")
	assert.Equal(t, 7, getEnvInt("RATE_LIMIT_RPS", 7))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "bad port", cfg: Config{Port: "http"}, wantErr: "invalid ML_PORT"},
		{name: "port out of range", cfg: Config{Port: "70000"}, wantErr: "invalid ML_PORT"},
		{name: "cert without key", cfg: Config{Port: "5001", TLSCertFile: "c.pem"}, wantErr: "must be set together"},
		{name: "negative rate limit", cfg: Config{Port: "5001", RateLimitRPS: -1}, wantErr: "invalid RATE_LIMIT_RPS"},
		{name: "ok", cfg: Config{Port: "5001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MODELS_DIR=/srv/models\nML_PORT=7001\n"), 0o600))
	t.Setenv("ML_PORT", "8001")
	t.Setenv("MODELS_DIR", "")
	require.NoError(t, os.Unsetenv("MODELS_DIR"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))

	cfg := FromEnv()
	assert.Equal(t, "/srv/models", cfg.ModelsDir)
	assert.Equal(t, "8001", cfg.Port)
}
