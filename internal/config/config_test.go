package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				// Verify some key fields are populated
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "movies_db", cfg.Database.Database)
				assert.True(t, cfg.RabbitMQ.Enabled)
				assert.Equal(t, "job_events", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "movie-catalog-api", cfg.App.Name)
				assert.Equal(t, 10*time.Second, cfg.Validation.ProbeTimeout)
				assert.Equal(t, "image/", cfg.Validation.ContentTypePrefix)
				assert.Equal(t, int64(10485760), cfg.Validation.MaxFileSizeBytes)
				assert.Equal(t, 100, cfg.Validation.DefaultBatchSize)
				assert.Equal(t, 10, cfg.Validation.DefaultConcurrency)
				assert.Equal(t, 24*time.Hour, cfg.Jobs.RetentionWindow)
				assert.Equal(t, time.Hour, cfg.Jobs.SweepInterval)
			}
		})
	}
}

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "movies_db",
		},
		Validation: ValidationConfig{
			ProbeTimeout:       10 * time.Second,
			DefaultBatchSize:   100,
			DefaultConcurrency: 10,
			MaxBatchSize:       1000,
		},
		Jobs: JobsConfig{
			RetentionWindow: 24 * time.Hour,
			SweepInterval:   time.Hour,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "invalid server port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "invalid server port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "missing database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name:      "missing database name",
			mutate:    func(c *Config) { c.Database.Database = "" },
			wantErr:   true,
			errString: "database name is required",
		},
		{
			name: "rabbitmq enabled without host",
			mutate: func(c *Config) {
				c.RabbitMQ.Enabled = true
			},
			wantErr:   true,
			errString: "rabbitmq host is required",
		},
		{
			name: "rabbitmq enabled without exchange",
			mutate: func(c *Config) {
				c.RabbitMQ.Enabled = true
				c.RabbitMQ.Host = "localhost"
				c.RabbitMQ.Port = 5672
			},
			wantErr:   true,
			errString: "rabbitmq exchange name is required",
		},
		{
			name:      "rabbitmq disabled skips rabbitmq checks",
			mutate:    func(c *Config) { c.RabbitMQ.Enabled = false },
			wantErr:   false,
			errString: "",
		},
		{
			name:      "zero probe timeout",
			mutate:    func(c *Config) { c.Validation.ProbeTimeout = 0 },
			wantErr:   true,
			errString: "probe_timeout must be greater than 0",
		},
		{
			name:      "zero default batch size",
			mutate:    func(c *Config) { c.Validation.DefaultBatchSize = 0 },
			wantErr:   true,
			errString: "default_batch_size must be greater than 0",
		},
		{
			name:      "zero default concurrency",
			mutate:    func(c *Config) { c.Validation.DefaultConcurrency = 0 },
			wantErr:   true,
			errString: "default_concurrency must be greater than 0",
		},
		{
			name: "default batch size over max",
			mutate: func(c *Config) {
				c.Validation.DefaultBatchSize = 2000
				c.Validation.MaxBatchSize = 1000
			},
			wantErr:   true,
			errString: "default_batch_size exceeds max_batch_size",
		},
		{
			name:      "zero retention window",
			mutate:    func(c *Config) { c.Jobs.RetentionWindow = 0 },
			wantErr:   true,
			errString: "retention_window must be greater than 0",
		},
		{
			name:      "zero sweep interval",
			mutate:    func(c *Config) { c.Jobs.SweepInterval = 0 },
			wantErr:   true,
			errString: "sweep_interval must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
