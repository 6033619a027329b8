package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations across the CLIs.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	ModelsDir     string
	LogsDir       string

	// Well-known input files
	ActualsCSV   string
	TargetsCSV   string
	HolidaysYAML string

	// Well-known output files
	ModelYAML      string
	ForecastCSV    string
	ForecastXLSX   string
	SummaryTXT     string
	ValidationJSON string
}

// GetPaths returns the application paths relative to the executable location.
// Paths are always relative to the executable directory, never the current
// working directory, so the tools behave the same from any shell.
//
// Directory structure:
//
//	<exe dir>/
//	  ├── config.yaml          (optional)
//	  ├── data/
//	  │   ├── actuals.csv      (historical daily actuals)
//	  │   ├── targets.csv      (monthly targets)
//	  │   ├── holidays.yaml    (holiday calendar)
//	  │   ├── models/          (learned pattern models)
//	  │   └── reports/         (forecast CSV/XLSX, summaries, validation)
//	  └── logs/
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	dataDir := filepath.Join(exeDir, "data")
	reportsDir := filepath.Join(dataDir, "reports")
	modelsDir := filepath.Join(dataDir, "models")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		ReportsDir:    reportsDir,
		ModelsDir:     modelsDir,
		LogsDir:       filepath.Join(exeDir, "logs"),

		ActualsCSV:   filepath.Join(dataDir, "actuals.csv"),
		TargetsCSV:   filepath.Join(dataDir, "targets.csv"),
		HolidaysYAML: filepath.Join(dataDir, "holidays.yaml"),

		ModelYAML:      filepath.Join(modelsDir, "pattern_model.yaml"),
		ForecastCSV:    filepath.Join(reportsDir, "daily_forecast.csv"),
		ForecastXLSX:   filepath.Join(reportsDir, "daily_forecast.xlsx"),
		SummaryTXT:     filepath.Join(reportsDir, "forecast_summary.txt"),
		ValidationJSON: filepath.Join(reportsDir, "validation_metrics.json"),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.ReportsDir,
		p.ModelsDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetLogPath returns the full path for a named log file.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}
