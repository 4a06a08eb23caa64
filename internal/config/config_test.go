package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[storage]
driver = "memory"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 0.5, cfg.Booking.LimitedThreshold)
	assert.Equal(t, 30, cfg.Booking.DefaultGranularity)
	assert.Equal(t, "memory", cfg.Booking.Locker)
	assert.Equal(t, "memory", cfg.Calendar.Mode)
	assert.Equal(t, "UTC", cfg.Studio.Timezone)
	assert.Equal(t, "studio:v1:events", cfg.Redis.EventsChannel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db.local"
dbname = "studio"

[logs]
level = "info"
`)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Contains(t, cfg.Database.DSN(), "host=db.local")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "unknown storage driver",
			body: "[storage]\ndriver = \"sqlite\"",
			want: "storage.driver",
		},
		{
			name: "threshold out of range",
			body: "[storage]\ndriver = \"memory\"\n[booking]\nlimited_threshold = 1.5",
			want: "booking.limited_threshold",
		},
		{
			name: "redis locker without redis",
			body: "[storage]\ndriver = \"memory\"\n[booking]\nlocker = \"redis\"",
			want: "booking.locker = redis",
		},
		{
			name: "http calendar without url",
			body: "[storage]\ndriver = \"memory\"\n[calendar]\nmode = \"http\"",
			want: "calendar.url",
		},
		{
			name: "bad timezone",
			body: "[storage]\ndriver = \"memory\"\n[studio]\ntimezone = \"Mars/Olympus\"",
			want: "studio.timezone",
		},
		{
			name: "postgres without host",
			body: "[storage]\ndriver = \"postgres\"",
			want: "database.host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
