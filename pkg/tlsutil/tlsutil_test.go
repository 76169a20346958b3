package tlsutil

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, GenerateSelfSignedCert([]string{"localhost", "127.0.0.1"}, dir))

	for _, name := range []string{"ca.pem", "ca-key.pem", "server.pem", "server-key.pem"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	srv, err := ServerConfig(filepath.Join(dir, "server.pem"), filepath.Join(dir, "server-key.pem"))
	require.NoError(t, err)
	assert.Len(t, srv.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS12), srv.MinVersion)

	cli, err := ClientConfig(filepath.Join(dir, "ca.pem"), false)
	require.NoError(t, err)
	assert.NotNil(t, cli.RootCAs)
}

func TestServerConfig_MissingFiles(t *testing.T) {
	_, err := ServerConfig("nope.pem", "nope-key.pem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load server key pair")
}

func TestClientConfig_BadCA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a cert"), 0o600))

	_, err := ClientConfig(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no certificates parsed")
}

func TestClientConfig_SystemPool(t *testing.T) {
	cfg, err := ClientConfig("", true)
	require.NoError(t, err)
	assert.Nil(t, cfg.RootCAs)
	assert.True(t, cfg.InsecureSkipVerify)
}
