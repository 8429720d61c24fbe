package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ENV", "")
		conf, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "DEV", conf.Env)
		assert.False(t, conf.TestMode)
		assert.Equal(t, "admin", conf.Auth.Username)
		assert.Equal(t, "memory", conf.Session.Driver)
		assert.Equal(t, "http://localhost:5000/api", conf.Store.BaseURL)
		assert.Equal(t, 10*time.Second, conf.Store.Timeout)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("ENV", "test")
		t.Setenv("TEST_STORE_BASEURL", "https://store.example.com/api/")
		t.Setenv("TEST_SESSION_DRIVER", "Redis")
		t.Setenv("TEST_AUTH_TOKENTTL", "30m")
		conf, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "TEST", conf.Env)
		assert.True(t, conf.TestMode)
		assert.Equal(t, "https://store.example.com/api", conf.Store.BaseURL)
		assert.Equal(t, "redis", conf.Session.Driver)
		assert.Equal(t, 30*time.Minute, conf.Auth.TokenTTL)
	})
}
