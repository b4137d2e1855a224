package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(logrus.New())
	require.NoError(t, err)

	assert.Equal(t, "backoffice", cfg.DBName)
	assert.Equal(t, 12*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, ":4001", cfg.Addr())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
	assert.Empty(t, cfg.AMQPURL)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "admin", cfg.AdminUsername)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(logrus.New())
	assert.Error(t, err)
}

func TestLoadNormalizesPrefixAndOrigins(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_PREFIX", "v1/")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("LOG_LEVEL", "nonsense")

	cfg, err := Load(logrus.New())
	require.NoError(t, err)

	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL", "-1m")

	_, err := Load(logrus.New())
	assert.Error(t, err)
}

func TestLoadMemoryDriverSkipsMongoURI(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(logrus.New())
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
}

func TestLoadRejectsUnknownDriverAndHalfAdmin(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("STORE_DRIVER", "postgres")
	_, err := Load(logrus.New())
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	_, err = Load(logrus.New())
	assert.Error(t, err)
}
