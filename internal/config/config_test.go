package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", c.ServerPort)
	assert.Equal(t, DriverMongo, c.StoreDriver)
	assert.Equal(t, "mestodb", c.MongoDatabase)
	assert.Equal(t, 7*24*time.Hour, c.JWTTTL)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Empty(t, c.NATSURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.ServerPort)
	assert.Equal(t, DriverMemory, c.StoreDriver)
	assert.Equal(t, time.Hour, c.JWTTTL)
	assert.Equal(t, "console", c.LogFormat)
	assert.InDelta(t, 2.5, c.RateLimitRPS, 0.0001)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "STORE_DRIVER", "postgres"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"bcrypt cost too low", "BCRYPT_COST", "2"},
		{"non numeric port", "SERVER_PORT", "http"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
