package cli

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/roach88/surveylog/internal/config"
	"github.com/roach88/surveylog/internal/logging"
	"github.com/roach88/surveylog/internal/store"
)

// Clock supplies the current time for new records and export names.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	DataDir    string
	FileName   string

	// Config, FS and Clock override what the commands would otherwise load
	// or construct (for testing). A nil Config is loaded from ConfigPath.
	Config *config.Config
	FS     store.FS
	Clock  Clock

	logger *slog.Logger
	store  *store.Store
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the surveylog CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surveylog",
		Short: "surveylog - daily student support survey log",
		Long: `Record one survey entry per day in a local CSV file and export
the file for sharing.

The backing file lives in the data directory (default
~/.local/share/surveylog/surveyData.csv) and always starts with the
column header.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/surveylog/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "directory holding the survey file")
	cmd.PersistentFlags().StringVar(&opts.FileName, "file", "", "survey file name")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewPathCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// loadConfig resolves the configuration once: the injected Config or the
// config file, then the --data-dir and --file flags on top.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.Config == nil {
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeConfig+": failed to load config", err)
		}
		o.Config = cfg
	}

	if o.DataDir != "" {
		dir, err := homedir.Expand(o.DataDir)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeConfig+": invalid --data-dir", err)
		}
		o.Config.DataDir = dir
		o.DataDir = ""
	}
	if o.FileName != "" {
		o.Config.FileName = o.FileName
		o.FileName = ""
	}
	if err := o.Config.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeConfig+": invalid config", err)
	}
	return o.Config, nil
}

// openStore loads config, configures logging on the command's stderr and
// returns the store for the configured file.
func (o *RootOptions) openStore(cmd *cobra.Command) (*store.Store, error) {
	if o.store != nil {
		return o.store, nil
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if o.Verbose {
		level = "debug"
	}
	o.logger = logging.Setup(level, cfg.Logging.Format, cmd.ErrOrStderr())

	fs := o.FS
	if fs == nil {
		fs = store.NewOSFS(cfg.DataDir)
	}
	o.store = store.New(fs, cfg.FileName, store.WithLogger(o.logger))
	o.logger.Debug("store ready", "data_dir", cfg.DataDir, "file", cfg.FileName)
	return o.store, nil
}

func (o *RootOptions) now() time.Time {
	if o.Clock == nil {
		return systemClock{}.Now()
	}
	return o.Clock.Now()
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // diagnostics go to stderr to keep JSON clean
		Verbose:   o.Verbose,
	}
}
