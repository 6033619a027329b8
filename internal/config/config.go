package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration for the pattern
// learner and forecast disaggregator CLIs.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Learner  LearnerConfig  `yaml:"learner" envconfig:"LEARNER"`
	Forecast ForecastConfig `yaml:"forecast" envconfig:"FORECAST"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// LearnerConfig contains the pattern-learning parameters. The bucket
// boundaries and trim fraction are configuration rather than constants
// because payday clustering and tail behavior differ per market.
type LearnerConfig struct {
	MinObservations  int     `yaml:"min_observations" envconfig:"MIN_OBSERVATIONS" default:"365" validate:"min=1"`
	OutlierThreshold float64 `yaml:"outlier_threshold" envconfig:"OUTLIER_THRESHOLD" default:"3.0" validate:"gt=0"`
	HolidayWindow    int     `yaml:"holiday_window" envconfig:"HOLIDAY_WINDOW" default:"3" validate:"min=0,max=15"`
	TrimFraction     float64 `yaml:"trim_fraction" envconfig:"TRIM_FRACTION" default:"0.05" validate:"gte=0,lt=0.5"`
	BucketEarlyEnd   int     `yaml:"bucket_early_end" envconfig:"BUCKET_EARLY_END" default:"10" validate:"min=1,max=26"`
	BucketMidEnd     int     `yaml:"bucket_mid_end" envconfig:"BUCKET_MID_END" default:"20" validate:"min=2,max=27,gtfield=BucketEarlyEnd"`
}

// ForecastConfig contains the disaggregation parameters.
type ForecastConfig struct {
	ConstrainMonthly bool    `yaml:"constrain_monthly" envconfig:"CONSTRAIN_MONTHLY" default:"true"`
	SumTolerance     float64 `yaml:"sum_tolerance" envconfig:"SUM_TOLERANCE" default:"1e-6" validate:"gt=0"`
	AdjustHolidays   bool    `yaml:"adjust_holidays" envconfig:"ADJUST_HOLIDAYS" default:"false"`
	SmoothWeekends   bool    `yaml:"smooth_weekends" envconfig:"SMOOTH_WEEKENDS" default:"false"`
	WeekendDamping   float64 `yaml:"weekend_damping" envconfig:"WEEKEND_DAMPING" default:"0.30" validate:"gte=0,lte=1"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables (TOPLINE_ prefix) and
// an optional config.yaml next to the executable. envconfig fills struct tag
// defaults up front, so environment and defaults win over the file; YAML
// values apply only to fields both left empty.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TOPLINE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. Nonzero env-side values
// (which include struct tag defaults) win; the file fills what remains zero.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Learner.MinObservations == 0 {
		envConfig.Learner.MinObservations = fileConfig.Learner.MinObservations
	}
	if envConfig.Learner.OutlierThreshold == 0 {
		envConfig.Learner.OutlierThreshold = fileConfig.Learner.OutlierThreshold
	}
	if envConfig.Learner.HolidayWindow == 0 {
		envConfig.Learner.HolidayWindow = fileConfig.Learner.HolidayWindow
	}
	if envConfig.Learner.BucketEarlyEnd == 0 {
		envConfig.Learner.BucketEarlyEnd = fileConfig.Learner.BucketEarlyEnd
	}
	if envConfig.Learner.BucketMidEnd == 0 {
		envConfig.Learner.BucketMidEnd = fileConfig.Learner.BucketMidEnd
	}
	if envConfig.Forecast.WeekendDamping == 0 {
		envConfig.Forecast.WeekendDamping = fileConfig.Forecast.WeekendDamping
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	return envConfig
}

// Validate checks configuration values via struct tags plus the enumerated
// logging output modes.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	switch c.Logging.Output {
	case "console", "file", "both", "":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to config.yaml next to the executable,
// falling back to the working directory when the executable is unknown.
func getConfigFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "config.yaml")
}
