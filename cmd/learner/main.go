package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"toplinecli/internal/calendar"
	"toplinecli/internal/config"
	"toplinecli/internal/dataprocessing"
	"toplinecli/internal/diagnostics"
	"toplinecli/internal/infrastructure"
	"toplinecli/internal/pattern"
)

func main() {
	actualsPath := flag.String("actuals", "", "historical daily actuals CSV (defaults to data/actuals.csv)")
	modelPath := flag.String("model", "", "output path for the pattern model YAML (defaults to data/models/pattern_model.yaml)")
	holidaysPath := flag.String("holidays", "", "holiday calendar YAML (defaults to data/holidays.yaml, optional)")
	minObservations := flag.Int("min-observations", 0, "minimum distinct dates per country (overrides config)")
	outlierThreshold := flag.Float64("outlier-threshold", 0, "outlier sigma threshold (overrides config)")
	holidayWindow := flag.Int("holiday-window", -1, "holiday offset window in days (overrides config)")
	flag.Parse()

	// Initialize paths
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logCfg := cfg.Logging
	logCfg.FilePath = paths.GetLogPath("learner.log")
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	runID := uuid.New().String()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	// Flag overrides on top of env/file config.
	learnerCfg := pattern.Config{
		MinObservations:  cfg.Learner.MinObservations,
		OutlierThreshold: cfg.Learner.OutlierThreshold,
		HolidayWindow:    cfg.Learner.HolidayWindow,
		TrimFraction:     cfg.Learner.TrimFraction,
		Buckets: calendar.BucketBoundaries{
			EarlyEnd: cfg.Learner.BucketEarlyEnd,
			MidEnd:   cfg.Learner.BucketMidEnd,
		},
	}
	if *minObservations > 0 {
		learnerCfg.MinObservations = *minObservations
	}
	if *outlierThreshold > 0 {
		learnerCfg.OutlierThreshold = *outlierThreshold
	}
	if *holidayWindow >= 0 {
		learnerCfg.HolidayWindow = *holidayWindow
	}

	if *actualsPath == "" {
		*actualsPath = paths.ActualsCSV
	}
	if *modelPath == "" {
		*modelPath = paths.ModelYAML
	}
	if *holidaysPath == "" {
		*holidaysPath = paths.HolidaysYAML
	}

	logger.InfoContext(ctx, "learner starting",
		"actuals", *actualsPath,
		"model", *modelPath,
		"min_observations", learnerCfg.MinObservations)

	holidays := loadHolidays(ctx, logger, *holidaysPath)
	diags := diagnostics.NewCollector(logger)

	actuals, err := dataprocessing.ParseActuals(*actualsPath, diags)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to parse actuals", "error", err)
		os.Exit(1)
	}
	if len(actuals) == 0 {
		logger.ErrorContext(ctx, "Actuals file contains no usable rows", "path", *actualsPath)
		os.Exit(1)
	}

	history := dataprocessing.SummarizeHistory(actuals)
	historyPath := filepath.Join(paths.ReportsDir, "history_summary.csv")
	if err := dataprocessing.WriteHistoryCSV(history, historyPath); err != nil {
		logger.ErrorContext(ctx, "Failed to write history summary", "error", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "History summarized", "countries", len(history), "path", historyPath)

	learner := pattern.NewLearner(learnerCfg, holidays, logger, diags)
	model, err := learner.Learn(ctx, actuals)
	if err != nil {
		logger.ErrorContext(ctx, "Pattern learning failed", "error", err)
		os.Exit(1)
	}

	if err := pattern.SaveModel(model, *modelPath); err != nil {
		logger.ErrorContext(ctx, "Failed to save model", "error", err)
		os.Exit(1)
	}

	reportPath := filepath.Join(paths.ReportsDir, "learning_summary.txt")
	if err := pattern.WriteLearningReport(runID, model, diags, reportPath); err != nil {
		logger.ErrorContext(ctx, "Failed to write learning report", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "learner finished",
		"countries_modeled", len(model.Countries),
		"model", *modelPath,
		"report", reportPath,
		"diagnostics", diags.Len())
}

// loadHolidays reads the optional holiday calendar. A missing file disables
// the holiday index family.
func loadHolidays(ctx context.Context, logger *slog.Logger, path string) calendar.HolidaySource {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.InfoContext(ctx, "No holiday calendar found, holiday indices disabled", "path", path)
		return calendar.NoHolidays{}
	}

	src, err := calendar.LoadStaticSource(path)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load holiday calendar", "path", path, "error", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Holiday calendar loaded", "path", path, "countries", len(src.Countries()))
	return src
}
