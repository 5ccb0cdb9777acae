package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
}

func TestLoadFromYAMLWithEnvOverride(t *testing.T) {
	setSecrets(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  addr: ":9000"
database:
  driver: SQLite
  dsn: "file:livery.db"
outbox:
  interval: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("SERVER_ADDR", ":9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:livery.db", cfg.Database.DSN)
	assert.Equal(t, 5*time.Second, cfg.Outbox.Interval)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, "local", cfg.Media.Driver)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DB_DSN", "file:x.db")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "mysql", DSN: "user:pw@tcp(localhost:3306)/livery"},
			JWT:      JWTConfig{AccessSecret: "a", RefreshSecret: "r"},
			Media:    MediaConfig{Driver: "local"},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Database.DSN = ""
	assert.ErrorIs(t, c.Validate(), ErrMissingDSN)

	c = base()
	c.Database.Driver = "oracle"
	assert.ErrorIs(t, c.Validate(), ErrUnknownStoreDriver)

	c = base()
	c.Media.Driver = "cloudinary"
	assert.ErrorIs(t, c.Validate(), ErrMissingCloudinary)

	c = base()
	c.Media.Driver = "s3"
	assert.ErrorIs(t, c.Validate(), ErrUnknownMediaDriver)
}
