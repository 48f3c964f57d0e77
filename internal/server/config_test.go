package server

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiohub/internal/domain/errors"
)

type fakeFlags map[string]any

func (f fakeFlags) Changed(name string) bool {
	_, ok := f[name]
	return ok
}

func (f fakeFlags) GetString(name string) (string, error) {
	v, ok := f[name]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("flag %s is not a string", name)
	}
	return s, nil
}

func (f fakeFlags) GetInt(name string) (int, error) {
	v, ok := f[name].(int)
	if !ok {
		return 0, fmt.Errorf("flag %s is not an int", name)
	}
	return v, nil
}

func (f fakeFlags) GetStringSlice(name string) ([]string, error) {
	v, ok := f[name].([]string)
	if !ok {
		return nil, fmt.Errorf("flag %s is not a string slice", name)
	}
	return v, nil
}

var configEnv = []string{
	"CONFIG", "ADDR", "PORT", "DATABASE_URL", "DB_STR", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT",
	"DB_NAME", "MIGRATE_PATH", "REDIS_URL", "ENVIRONMENT", "VERSION", "LOG_LEVEL", "ALLOWED_ORIGINS",
	"WHATSAPP_API_URL", "WHATSAPP_API_VERSION", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_TOKEN",
	"WHATSAPP_RATE", "MAX_HOURLY_RATE", "MAX_MARGIN_PERCENTAGE",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := ReadConfig(fakeFlags{FlagEnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "0.0.0.0:8000", cfg.ListenAddr())
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestReadConfigLayers(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		body  string
		env   map[string]string
		flags fakeFlags
		want  func(t *testing.T, cfg *Config)
	}{
		{
			name: "json file",
			file: "config.json",
			body: `{"addr":"127.0.0.1","port":9000,"log_level":"debug","whatsapp":{"phone_number_id":"42","token":"t"}}`,
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "127.0.0.1", cfg.Addr)
				assert.Equal(t, 9000, cfg.Port)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.True(t, cfg.WhatsApp.Enabled())
				assert.Equal(t, defaultMigratePath, cfg.MigratePath)
			},
		},
		{
			name: "yaml file",
			file: "config.yaml",
			body: "port: 9100\nredis_url: redis://cache:6379/0\nallowed_origins:\n  - https://studio.example\n",
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9100, cfg.Port)
				assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
				assert.Equal(t, []string{"https://studio.example"}, cfg.AllowedOrigins)
			},
		},
		{
			name: "env beats file",
			file: "config.json",
			body: `{"port":9000}`,
			env:  map[string]string{"PORT": "9200", "ALLOWED_ORIGINS": "https://a.example, https://b.example"},
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9200, cfg.Port)
				assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
			},
		},
		{
			name:  "flags beat env",
			env:   map[string]string{"PORT": "9200", "ADDR": "10.0.0.1"},
			flags: fakeFlags{FlagPort: 9300, FlagAllowedOrigins: []string{"https://c.example"}},
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9300, cfg.Port)
				assert.Equal(t, "10.0.0.1", cfg.Addr)
				assert.Equal(t, []string{"https://c.example"}, cfg.AllowedOrigins)
			},
		},
		{
			name: "database components",
			env: map[string]string{
				"DB_USER": "studio", "DB_PASSWORD": "pw", "DB_HOST": "db", "DB_PORT": "5433", "DB_NAME": "hub",
			},
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgresql://studio:pw@db:5433/hub?sslmode=disable", cfg.DBStr)
			},
		},
		{
			name: "database url wins over components",
			env: map[string]string{
				"DATABASE_URL": "postgres://x@y/z", "DB_USER": "studio", "DB_PASSWORD": "pw",
				"DB_HOST": "db", "DB_PORT": "5433", "DB_NAME": "hub",
			},
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgres://x@y/z", cfg.DBStr)
			},
		},
		{
			name: "policy ceilings",
			env:  map[string]string{"MAX_HOURLY_RATE": "250", "MAX_MARGIN_PERCENTAGE": "60.5"},
			want: func(t *testing.T, cfg *Config) {
				p := cfg.Policy()
				assert.Equal(t, "250", p.MaxHourlyRate.String())
				assert.Equal(t, "60.5", p.MaxMarginPercentage.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			flags := fakeFlags{FlagEnvFile: filepath.Join(t.TempDir(), "missing.env")}
			for k, v := range tt.flags {
				flags[k] = v
			}
			if tt.file != "" {
				flags[FlagConfig] = writeFile(t, tt.file, tt.body)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := ReadConfig(flags)
			require.NoError(t, err)
			tt.want(t, cfg)
		})
	}
}

func TestReadConfigFromDotEnv(t *testing.T) {
	clearConfigEnv(t)
	require.NoError(t, os.Unsetenv("VERSION"))
	t.Cleanup(func() { _ = os.Unsetenv("VERSION") })

	path := writeFile(t, ".env", "VERSION=2.3.4\nLOG_LEVEL=warn\n")
	cfg, err := ReadConfig(fakeFlags{FlagEnvFile: path})
	require.NoError(t, err)

	assert.Equal(t, "2.3.4", cfg.Version)
	// LOG_LEVEL is present (empty) in the environment, which .env never overrides.
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		env     map[string]string
		flags   fakeFlags
		wantErr error
	}{
		{
			name:    "missing config file",
			flags:   fakeFlags{FlagConfig: "/nonexistent/config.json"},
			wantErr: errors.ErrConfigFileReadFailed,
		},
		{
			name:    "malformed json",
			file:    "config.json",
			body:    `{"port":`,
			wantErr: errors.ErrConfigParseFailed,
		},
		{
			name:    "malformed yaml",
			file:    "config.yml",
			body:    "port: [",
			wantErr: errors.ErrConfigParseFailed,
		},
		{
			name:    "non numeric port",
			env:     map[string]string{"PORT": "eighty"},
			wantErr: errors.ErrConfigInvalidFormat,
		},
		{
			name:    "port out of range",
			env:     map[string]string{"PORT": "70000"},
			wantErr: errors.ErrConfigInvalidFormat,
		},
		{
			name:    "bad float",
			env:     map[string]string{"MAX_HOURLY_RATE": "lots"},
			wantErr: errors.ErrConfigInvalidFormat,
		},
		{
			name:    "negative ceiling",
			env:     map[string]string{"MAX_MARGIN_PERCENTAGE": "-1"},
			wantErr: errors.ErrConfigInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			flags := fakeFlags{FlagEnvFile: filepath.Join(t.TempDir(), "missing.env")}
			for k, v := range tt.flags {
				flags[k] = v
			}
			if tt.file != "" {
				flags[FlagConfig] = writeFile(t, tt.file, tt.body)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := ReadConfig(flags)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadConfigNilFlags(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := ReadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultPort, cfg.Port)
}
