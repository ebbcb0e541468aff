package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "ENV", "DATABASE_URL", "SERVER_PORT", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"DB_MAX_CONN_IDLE_TIME", "APPLY_SCHEMA_ON_START", "SCHEMA_PATH", "LOG_LEVEL", "LOG_FORMAT",
		"CORS_ALLOWED_ORIGINS", "CORS_ALLOW_CREDENTIALS", "ENABLE_TLS", "TLS_CERT_PATH",
		"TLS_KEY_PATH", "TLS_CERT", "TLS_KEY", "TLS_SELF_SIGNED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, _ := Load()

	require.Equal(t, "development", cfg.Env)
	require.Equal(t, "8080", cfg.Port)
	require.EqualValues(t, 10, cfg.DBMaxConns)
	require.EqualValues(t, 2, cfg.DBMinConns)
	require.Equal(t, 5*time.Minute, cfg.DBMaxConnIdle)
	require.True(t, cfg.ApplySchema)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	require.False(t, cfg.CORSAllowCredentials)
	require.False(t, cfg.TLS.EnableTLS)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/assets")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MIN_CONNS", "not-a-number")
	t.Setenv("DB_MAX_CONN_IDLE_TIME", "90s")
	t.Setenv("APPLY_SCHEMA_ON_START", "FALSE")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LOG_FORMAT", "json")

	cfg, _ := Load()

	require.Equal(t, "9000", cfg.Port)
	require.EqualValues(t, 25, cfg.DBMaxConns)
	require.EqualValues(t, 2, cfg.DBMinConns)
	require.Equal(t, 90*time.Second, cfg.DBMaxConnIdle)
	require.False(t, cfg.ApplySchema)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, "json", cfg.LogFormat)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ProductionForcesTLS(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("DATABASE_URL", "postgres://localhost/assets")

	cfg, _ := Load()

	require.Equal(t, "production", cfg.Env)
	require.True(t, cfg.TLS.EnableTLS)
	require.Equal(t, "8443", cfg.Port)
	require.Equal(t, "json", cfg.LogFormat)
	require.EqualError(t, cfg.Validate(), "TLS_CERT_PATH and TLS_KEY_PATH are required in production")
}

func TestValidate_RequiresDatabaseURL(t *testing.T) {
	clearEnv(t)

	cfg, _ := Load()

	require.EqualError(t, cfg.Validate(), "DATABASE_URL environment variable not set")
}

func TestTLSBuild_SelfSignedOutsideProduction(t *testing.T) {
	s := TLSSettings{EnableTLS: true, Env: "development", AllowSelfSigned: true}

	tlsCfg, err := s.Build()

	require.NoError(t, err)
	require.Len(t, tlsCfg.Certificates, 1)
}

func TestTLSBuild_NoMaterial(t *testing.T) {
	cases := map[string]TLSSettings{
		"production":          {EnableTLS: true, Env: "production", AllowSelfSigned: true},
		"self-signed disabled": {EnableTLS: true, Env: "development"},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Build()
			require.EqualError(t, err, "no TLS certificates available")
		})
	}
}

func TestTLSBuild_MissingFiles(t *testing.T) {
	s := TLSSettings{EnableTLS: true, CertPath: "/nonexistent/cert.pem", KeyPath: "/nonexistent/key.pem"}

	_, err := s.Build()

	require.Error(t, err)
}
