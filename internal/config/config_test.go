package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "./imagevault.db", cfg.DatabasePath)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, 24, cfg.TokenTTLHours)
	assert.Equal(t, "admin", cfg.AdminUsername)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
listen_addr = ":9090"
database_path = "/data/catalog.db"
upload_dir = "/data/uploads"
jwt_secret = "from-file"
token_ttl_hours = 2
admin_password = "hunter2"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/data/catalog.db", cfg.DatabasePath)
	assert.Equal(t, "/data/uploads", cfg.UploadDir)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 2, cfg.TokenTTLHours)
	assert.Equal(t, "admin", cfg.AdminUsername, "unset keys keep their defaults")
	assert.Equal(t, "hunter2", cfg.AdminPassword)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr = ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`jwt_secret = "from-file"`), 0o600))

	t.Setenv("IMAGEVAULT_JWT_SECRET", "from-env")
	t.Setenv("IMAGEVAULT_LISTEN_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, ":7070", cfg.ListenAddr)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.JWTSecret = "secret"
	cfg.AdminPassword = "pw"
	assert.NoError(t, cfg.Validate())

	missingSecret := cfg
	missingSecret.JWTSecret = ""
	assert.Error(t, missingSecret.Validate())

	missingAdminPw := cfg
	missingAdminPw.AdminPassword = ""
	assert.Error(t, missingAdminPw.Validate())
}
