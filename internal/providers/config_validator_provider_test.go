package providers

import (
	"promod/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Persistence: structures.Persistence{
			FilePath:     "/tmp/transients.dat",
			SaveInterval: 30 * time.Second,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Promo: structures.PromoConfig{
			Endpoint: DefaultEndpoint,
			Locale:   DefaultLocale,
			Prefix:   DefaultPrefix,
		},
		Cache: structures.CacheConfig{Size: 8},
		Options: structures.OptionsConfig{
			Driver: "sqlite",
			Dsn:    "/tmp/options.db",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *structures.Config)
	}{
		{"empty host", func(c *structures.Config) { c.WebServer.Host = "" }},
		{"zero port", func(c *structures.Config) { c.WebServer.Port = 0 }},
		{"empty log level", func(c *structures.Config) { c.Logger.Level = "" }},
		{"invalid log level", func(c *structures.Config) { c.Logger.Level = "verbose" }},
		{"empty endpoint", func(c *structures.Config) { c.Promo.Endpoint = "" }},
		{"relative endpoint", func(c *structures.Config) { c.Promo.Endpoint = "promo/feed" }},
		{"empty prefix", func(c *structures.Config) { c.Promo.Prefix = "" }},
		{"unknown driver", func(c *structures.Config) { c.Options.Driver = "mysql" }},
		{"empty dsn", func(c *structures.Config) { c.Options.Dsn = "" }},
		{"zero cache", func(c *structures.Config) { c.Cache.Size = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, NewCnfValidator(c).Validate())
		})
	}
}

func TestConfigValidator_PostgresDriver(t *testing.T) {
	c := validConfig()
	c.Options.Driver = "pgx"
	c.Options.Dsn = "postgres://localhost/promod?sslmode=disable"
	assert.NoError(t, NewCnfValidator(c).Validate())
}
