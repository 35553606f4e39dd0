package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Config reads so the host environment
// can't leak into a test. t.Setenv registers the restore first.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "LOG_LEVEL", "PORT", "ROUTE_PREFIX",
		"STORE_DRIVER", "DB_PATH", "DATABASE_URL", "KV_TABLE",
		"MONGO_URI", "MONGO_DATABASE", "MONGO_COLLECTION",
		"IDENTITY_PROVIDER", "SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := parse()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "", cfg.RoutePrefix)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "data/snippets.db", cfg.Store.DBPath)
	assert.Equal(t, "kv_store", cfg.Store.Table)
	assert.Equal(t, "snippets", cfg.Store.MongoDatabase)
	assert.Equal(t, "kv_store", cfg.Store.MongoCollection)
	assert.Equal(t, ProviderLocal, cfg.Identity.Provider)
	assert.False(t, cfg.IsProduction())
}

func TestParse_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("ROUTE_PREFIX", "make-server-8768a732/")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("KV_TABLE", "kv_store_8768a732")
	t.Setenv("IDENTITY_PROVIDER", "supabase")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")

	cfg, err := parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/make-server-8768a732", cfg.RoutePrefix)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "kv_store_8768a732", cfg.Store.Table)
	assert.Equal(t, ProviderSupabase, cfg.Identity.Provider)
	assert.Equal(t, "https://abc.supabase.co", cfg.Identity.SupabaseURL)
}

func TestParse_InvalidPortType(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")

	_, err := parse()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:     8080,
			Store:    StoreConfig{Driver: DriverMemory},
			Identity: IdentityConfig{Provider: ProviderLocal},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port out of range", func(c *Config) { c.Port = 70000 }, "PORT"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "redis" }, "STORE_DRIVER"},
		{"sqlite without path", func(c *Config) { c.Store.Driver = DriverSQLite }, "DB_PATH"},
		{"postgres without url", func(c *Config) { c.Store.Driver = DriverPostgres }, "DATABASE_URL"},
		{"mongo without uri", func(c *Config) { c.Store.Driver = DriverMongo }, "MONGO_URI"},
		{"unknown provider", func(c *Config) { c.Identity.Provider = "okta" }, "IDENTITY_PROVIDER"},
		{"supabase without key", func(c *Config) {
			c.Identity.Provider = ProviderSupabase
			c.Identity.SupabaseURL = "https://abc.supabase.co"
		}, "SUPABASE_SERVICE_ROLE_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Config{Port: 0, Store: StoreConfig{Driver: "x"}, Identity: IdentityConfig{Provider: "y"}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "STORE_DRIVER")
	assert.Contains(t, err.Error(), "IDENTITY_PROVIDER")
}
