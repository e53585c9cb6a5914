package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

const sampleConfig = `
[server]
http_port = 8081

[database]
host = "db"
user = "salon"
password = "from-file"
dbname = "salon"

[redis]
enabled = true
ttl_seconds = 30

[booking]
duration_policy = "live"

[schedule]
open = "09:00"
last_start = "17:30"
slot_minutes = 30

[schedule.days.sunday]
closed = true

[schedule.days.saturday]
open = "10:00"
last_start = "14:00"
slot_minutes = 60
`

func TestParse(t *testing.T) {
	cfg, err := Parse(sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL())
	assert.Equal(t, domain.DurationLive, cfg.Booking.Policy())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 256, cfg.RabbitMQ.BufferSize)
	assert.Contains(t, cfg.Database.DSN(), "host=db port=5432 user=salon")
}

func TestParse_DefaultPolicyIsSnapshot(t *testing.T) {
	cfg, err := Parse(`
[database]
user = "salon"
dbname = "salon"
`)
	require.NoError(t, err)
	assert.Equal(t, domain.DurationSnapshot, cfg.Booking.Policy())

	schedule, err := cfg.SalonSchedule()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWindow(), schedule.Default)
	assert.Empty(t, schedule.Days)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv(EnvDBPassword, "secret")
	t.Setenv(EnvRedisAddr, "redis:6380")

	cfg, err := Parse(sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing dbname", data: "[database]\nuser = \"x\"\n"},
		{name: "bad policy", data: "[database]\nuser = \"x\"\ndbname = \"y\"\n[booking]\nduration_policy = \"sometimes\"\n"},
		{name: "bad window", data: "[database]\nuser = \"x\"\ndbname = \"y\"\n[schedule]\nopen = \"18:00\"\nlast_start = \"09:00\"\n"},
		{name: "unknown weekday", data: "[database]\nuser = \"x\"\ndbname = \"y\"\n[schedule.days.funday]\nclosed = true\n"},
		{name: "bad proxy", data: "[database]\nuser = \"x\"\ndbname = \"y\"\n[rate_limit]\ntrusted_proxies = [\"10.0.0.0/99\"]\n"},
		{name: "broken toml", data: "[database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestRateLimitConfig_Proxies(t *testing.T) {
	cfg := RateLimitConfig{TrustedProxies: []string{"10.0.0.0/8", " 192.0.2.1 ", "2001:db8::/32"}}

	prefixes, err := cfg.Proxies()
	require.NoError(t, err)
	require.Len(t, prefixes, 3)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "192.0.2.1/32", prefixes[1].String())
	assert.Equal(t, "2001:db8::/32", prefixes[2].String())

	empty, err := RateLimitConfig{}.Proxies()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSalonSchedule(t *testing.T) {
	cfg, err := Parse(sampleConfig)
	require.NoError(t, err)

	schedule, err := cfg.SalonSchedule()
	require.NoError(t, err)

	assert.False(t, schedule.ForWeekday(time.Sunday).IsOpen)

	saturday := schedule.ForWeekday(time.Saturday)
	assert.True(t, saturday.IsOpen)
	assert.Equal(t, types.TimeString("10:00"), saturday.Window.Open)
	assert.Equal(t, 60, saturday.Window.SlotMinutes)

	assert.Equal(t, domain.ScheduleLevelSalonDefault, schedule.ForWeekday(time.Tuesday).Level)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_SALON_DB", "expanded")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database]\nuser = \"salon\"\ndbname = \"${TEST_SALON_DB}\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded", cfg.Database.DBName)
}
