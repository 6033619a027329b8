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
	"toplinecli/internal/exporter"
	"toplinecli/internal/forecast"
	"toplinecli/internal/infrastructure"
	"toplinecli/internal/pattern"
)

func main() {
	targetsPath := flag.String("targets", "", "monthly targets CSV (defaults to data/targets.csv)")
	modelPath := flag.String("model", "", "pattern model YAML (defaults to data/models/pattern_model.yaml)")
	holidaysPath := flag.String("holidays", "", "holiday calendar YAML (defaults to data/holidays.yaml, optional)")
	outputDir := flag.String("out", "", "output directory for forecast files (defaults to data/reports)")
	adjustHolidays := flag.Bool("adjust-holidays", false, "apply holiday indices to the forecast (overrides config)")
	smoothWeekends := flag.Bool("smooth-weekends", false, "dampen weekend days and redistribute to weekdays (overrides config)")
	weekendDamping := flag.Float64("weekend-damping", 0, "fraction of weekend value to redistribute (overrides config)")
	writeXLSX := flag.Bool("xlsx", false, "also write the Excel workbook")
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
	logCfg.FilePath = paths.GetLogPath("forecaster.log")
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	runID := uuid.New().String()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	opts := forecast.Options{
		AdjustHolidays:   cfg.Forecast.AdjustHolidays,
		SmoothWeekends:   cfg.Forecast.SmoothWeekends,
		WeekendDamping:   cfg.Forecast.WeekendDamping,
		ConstrainMonthly: cfg.Forecast.ConstrainMonthly,
		SumTolerance:     cfg.Forecast.SumTolerance,
	}
	applyFlagOverrides(&opts, setFlags, *adjustHolidays, *smoothWeekends, *weekendDamping)

	if *targetsPath == "" {
		*targetsPath = paths.TargetsCSV
	}
	if *modelPath == "" {
		*modelPath = paths.ModelYAML
	}
	if *holidaysPath == "" {
		*holidaysPath = paths.HolidaysYAML
	}
	if *outputDir == "" {
		*outputDir = paths.ReportsDir
	}

	logger.InfoContext(ctx, "forecaster starting",
		"targets", *targetsPath,
		"model", *modelPath,
		"out", *outputDir)

	model, err := pattern.LoadModel(*modelPath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load pattern model",
			"path", *modelPath,
			"error", err,
			"hint", "Run learner first to generate the model")
		os.Exit(1)
	}

	targets, err := dataprocessing.ParseTargets(*targetsPath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to parse targets", "error", err)
		os.Exit(1)
	}

	var holidays calendar.HolidaySource = calendar.NoHolidays{}
	if opts.AdjustHolidays {
		if _, err := os.Stat(*holidaysPath); err == nil {
			src, err := calendar.LoadStaticSource(*holidaysPath)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to load holiday calendar", "path", *holidaysPath, "error", err)
				os.Exit(1)
			}
			holidays = src
		} else {
			logger.WarnContext(ctx, "Holiday adjustment requested but no calendar found", "path", *holidaysPath)
		}
	}

	diags := diagnostics.NewCollector(logger)
	dis := forecast.NewDisaggregator(model, holidays, opts, logger, diags)

	rows, err := dis.Forecast(ctx, targets)
	if err != nil {
		logger.ErrorContext(ctx, "Disaggregation failed", "error", err)
		os.Exit(1)
	}

	csvPath := filepath.Join(*outputDir, "daily_forecast.csv")
	if err := exporter.WriteForecastCSV(rows, csvPath); err != nil {
		logger.ErrorContext(ctx, "Failed to write forecast CSV", "error", err)
		os.Exit(1)
	}

	if *writeXLSX {
		xlsxPath := filepath.Join(*outputDir, "daily_forecast.xlsx")
		if err := exporter.WriteWorkbook(rows, model, xlsxPath); err != nil {
			logger.ErrorContext(ctx, "Failed to write forecast workbook", "error", err)
			os.Exit(1)
		}
		logger.InfoContext(ctx, "Workbook written", "path", xlsxPath)
	}

	summary := forecast.Validate(runID, targets, rows, diags)
	validationPath := filepath.Join(*outputDir, "validation_metrics.json")
	if err := forecast.WriteValidationJSON(summary, validationPath); err != nil {
		logger.ErrorContext(ctx, "Failed to write validation metrics", "error", err)
		os.Exit(1)
	}

	summaryPath := filepath.Join(*outputDir, "forecast_summary.txt")
	if err := forecast.WriteSummaryReport(summary, targets, rows, model, summaryPath); err != nil {
		logger.ErrorContext(ctx, "Failed to write summary report", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "forecaster finished",
		"forecast_rows", len(rows),
		"coverage", summary.CoverageRatio,
		"max_rel_sum_error", summary.MaxRelSumError,
		"csv", csvPath,
		"summary", summaryPath)
}

// applyFlagOverrides layers explicitly-set command line flags on top of the
// configured options. Flags the user did not pass leave config/env values
// alone, so a flag can switch an option off as well as on.
func applyFlagOverrides(opts *forecast.Options, set map[string]bool, adjustHolidays, smoothWeekends bool, weekendDamping float64) {
	if set["adjust-holidays"] {
		opts.AdjustHolidays = adjustHolidays
	}
	if set["smooth-weekends"] {
		opts.SmoothWeekends = smoothWeekends
	}
	if set["weekend-damping"] {
		opts.WeekendDamping = weekendDamping
	}
}
