// Package config loads surveylog settings from defaults, an optional YAML
// file and SURVEYLOG_* environment variables, in that order of precedence
// (later wins), and validates the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/surveylog/internal/logging"
	"github.com/roach88/surveylog/internal/store"
)

// Config holds all surveylog configuration.
type Config struct {
	// DataDir is the directory holding the backing CSV file
	// (default: ~/.local/share/surveylog).
	DataDir string `yaml:"data_dir"`

	// FileName is the backing CSV file name (default: surveyData.csv).
	FileName string `yaml:"file_name"`

	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `yaml:"level"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format"`
}

// ExportConfig holds the export boundary settings.
type ExportConfig struct {
	// SpoolDir receives the file handed to a share target
	// (default: <os temp dir>/surveylog).
	SpoolDir string `yaml:"spool_dir"`

	// Dir is a synced folder (e.g. OneDrive) that "export --to-dir" copies into.
	Dir string `yaml:"dir"`

	// ShareCommand opens the exported file, e.g. "xdg-open" or "open -a Mail".
	// The file path is appended as the last argument.
	ShareCommand string `yaml:"share_command"`

	// MailTo is the default recipient for "export --mail".
	MailTo string `yaml:"mail_to"`

	// Sendmail is the sendmail-compatible binary used for mail export
	// (default: sendmail).
	Sendmail string `yaml:"sendmail"`

	// Subject and Body of the export mail (defaults: CSV_EXPORT, "CSV attached.").
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// Env var names, applied after the YAML file.
const (
	EnvDataDir      = "SURVEYLOG_DATA_DIR"
	EnvFileName     = "SURVEYLOG_FILE"
	EnvLogLevel     = "SURVEYLOG_LOG_LEVEL"
	EnvLogFormat    = "SURVEYLOG_LOG_FORMAT"
	EnvSpoolDir     = "SURVEYLOG_SPOOL_DIR"
	EnvExportDir    = "SURVEYLOG_EXPORT_DIR"
	EnvShareCommand = "SURVEYLOG_SHARE_COMMAND"
	EnvMailTo       = "SURVEYLOG_MAIL_TO"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:  filepath.Join("~", ".local", "share", "surveylog"),
		FileName: store.DefaultFileName,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Export: ExportConfig{
			SpoolDir: filepath.Join(os.TempDir(), "surveylog"),
			Sendmail: "sendmail",
			Subject:  "CSV_EXPORT",
			Body:     "CSV attached.",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.DataDir == "" {
		errs = append(errs, "data_dir is required")
	}
	if c.FileName == "" {
		errs = append(errs, "file_name is required")
	} else if strings.ContainsAny(c.FileName, `/\`) || c.FileName == "." || c.FileName == ".." {
		errs = append(errs, fmt.Sprintf("file_name %q must be a bare file name", c.FileName))
	}
	if err := logging.ValidateLevel(c.Logging.Level); err != nil {
		errs = append(errs, err.Error())
	}
	if err := logging.ValidateFormat(c.Logging.Format); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Export.SpoolDir == "" {
		errs = append(errs, "export.spool_dir is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Path returns the full path of the backing CSV file.
func (c *Config) Path() string {
	return filepath.Join(c.DataDir, c.FileName)
}
