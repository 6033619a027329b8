package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "console",
		},
		Learner: LearnerConfig{
			MinObservations:  365,
			OutlierThreshold: 3.0,
			HolidayWindow:    3,
			TrimFraction:     0.05,
			BucketEarlyEnd:   10,
			BucketMidEnd:     20,
		},
		Forecast: ForecastConfig{
			ConstrainMonthly: true,
			SumTolerance:     1e-6,
			WeekendDamping:   0.3,
		},
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad logging output", func(c *Config) { c.Logging.Output = "syslog" }},
		{"zero min observations", func(c *Config) { c.Learner.MinObservations = 0 }},
		{"negative outlier threshold", func(c *Config) { c.Learner.OutlierThreshold = -1 }},
		{"trim fraction too large", func(c *Config) { c.Learner.TrimFraction = 0.6 }},
		{"inverted buckets", func(c *Config) { c.Learner.BucketEarlyEnd = 20; c.Learner.BucketMidEnd = 10 }},
		{"zero sum tolerance", func(c *Config) { c.Forecast.SumTolerance = 0 }},
		{"damping above one", func(c *Config) { c.Forecast.WeekendDamping = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := validConfig()
	fileCfg.Logging.Level = "debug"
	fileCfg.Learner.MinObservations = 500

	// Env left everything unset; file values win.
	merged := mergeConfigs(fileCfg, Config{})
	assert.Equal(t, "debug", merged.Logging.Level)
	assert.Equal(t, 500, merged.Learner.MinObservations)

	// Env set a value; it wins over the file.
	envCfg := Config{}
	envCfg.Learner.MinObservations = 200
	merged = mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 200, merged.Learner.MinObservations)
	assert.Equal(t, "debug", merged.Logging.Level)
}
