package config_test

import (
	"testing"
	"time"

	"denuncia/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, config.DefaultSessionTTL, cfg.SessionTTL)
	assert.Equal(t, config.DefaultCreateRateLimit, cfg.CreateRateLimit)
	assert.Equal(t, "evidence", cfg.MinioBucket)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.TelegramEnabled())
	assert.False(t, cfg.MinioEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "minio")
	t.Setenv("MINIO_SECRET_KEY", "minio123")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CORS_ORIGINS", "https://portal.example.org, https://admin.example.org,")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, int64(-100200300), cfg.TelegramChatID)
	assert.True(t, cfg.TelegramEnabled())
	assert.True(t, cfg.MinioEnabled())
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, []string{"https://portal.example.org", "https://admin.example.org"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"bad redis db", map[string]string{"JWT_SECRET": testSecret, "REDIS_DB": "x"}},
		{"bad ttl", map[string]string{"JWT_SECRET": testSecret, "SESSION_TTL": "forever"}},
		{"zero ttl", map[string]string{"JWT_SECRET": testSecret, "SESSION_TTL": "0s"}},
		{"telegram without chat", map[string]string{"JWT_SECRET": testSecret, "TELEGRAM_BOT_TOKEN": "t"}},
		{"bad chat id", map[string]string{"JWT_SECRET": testSecret, "TELEGRAM_CHAT_ID": "abc"}},
		{"bad ssl flag", map[string]string{"JWT_SECRET": testSecret, "MINIO_USE_SSL": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := config.NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	_, err = config.NewLogger("loud")
	assert.Error(t, err)
}
