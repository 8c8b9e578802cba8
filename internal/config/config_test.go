package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := Load()
	require.NotNil(t, c)

	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, "mongodb://localhost:27017", c.MongoURI)
	assert.Equal(t, "userdb", c.MongoDB)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, "", c.RedisPassword)
	assert.Equal(t, "web", c.StaticDir)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("MONGO_DB", "registry")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, http://localhost:3000")

	c := Load()
	assert.Equal(t, "8081", c.Port)
	assert.Equal(t, "mongodb://db:27017", c.MongoURI)
	assert.Equal(t, "registry", c.MongoDB)
	assert.Equal(t, "redis:6379", c.RedisAddr)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, c.CORSOrigins)
}
