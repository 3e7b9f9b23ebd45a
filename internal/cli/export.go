package cli

import (
	"fmt"
	"io"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/roach88/surveylog/internal/config"
	"github.com/roach88/surveylog/internal/export"
)

// mailFromConfig is the --mail value used when the flag is given bare.
const mailFromConfig = "config"

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	ToDir   string
	Command string
	MailTo  string
	SQLite  string
	Stdout  bool
}

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	ID     string `json:"id"`
	Target string `json:"target"`
	Path   string `json:"path"`
	Bytes  int    `json:"bytes"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the survey file for sharing",
		Long: `Export the full survey file, header included, and hand it to a share
target.

Targets:
  --to-dir D    copy into directory D (a OneDrive folder, say)
  --command C   open with command C, the file path appended
  --mail ADDR   mail as an attachment via sendmail (bare --mail uses export.mail_to)
  --sqlite DB   mirror the entries into a SQLite database
  --stdout      print the CSV text

Without a target flag the configured export.dir, then export.share_command,
is used. Exporting an empty survey file fails.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ToDir, "to-dir", "", "copy the export into this directory")
	f.StringVar(&opts.Command, "command", "", "open the export with this command")
	f.StringVar(&opts.MailTo, "mail", "", "mail the export to this address")
	f.Lookup("mail").NoOptDefVal = mailFromConfig
	f.StringVar(&opts.SQLite, "sqlite", "", "mirror the export into this SQLite database")
	f.BoolVar(&opts.Stdout, "stdout", false, "print the export to stdout")
	cmd.MarkFlagsMutuallyExclusive("to-dir", "command", "mail", "sqlite", "stdout")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if opts.Stdout {
		text, err := st.ExportText(ctx)
		if err != nil {
			return formatter.failFor("export failed", err)
		}
		_, err = io.WriteString(formatter.Writer, text)
		return err
	}

	sharer, fileName, err := opts.target(opts.Config)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeUsage, "no export target", nil, err)
	}

	exporter := export.New(st, opts.Config.Export.SpoolDir, export.WithLogger(opts.logger))
	res, err := exporter.Share(ctx, sharer, fileName)
	if err != nil {
		return formatter.failFor("export failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ExportResult{
			ID:     res.ID.String(),
			Target: res.Target,
			Path:   res.Path,
			Bytes:  res.Bytes,
		})
	}
	fmt.Fprintf(formatter.Writer, "✓ Exported %d bytes via %s\n", res.Bytes, res.Target)
	formatter.VerboseLog("spool file: %s", res.Path)
	return nil
}

// target picks the sharer from the flags, falling back to the configured
// export directory and share command.
func (o *ExportOptions) target(cfg *config.Config) (export.Sharer, string, error) {
	switch {
	case o.ToDir != "":
		dir, err := homedir.Expand(o.ToDir)
		if err != nil {
			return nil, "", err
		}
		return export.DirSharer{Dir: dir}, cfg.FileName, nil
	case o.Command != "":
		return export.CommandSharer{Command: o.Command}, cfg.FileName, nil
	case o.MailTo != "":
		to := o.MailTo
		if to == mailFromConfig {
			to = cfg.Export.MailTo
		}
		if to == "" {
			return nil, "", fmt.Errorf("--mail needs an address or export.mail_to")
		}
		return export.Mailer{
			To:       to,
			Subject:  cfg.Export.Subject,
			Body:     cfg.Export.Body,
			Sendmail: cfg.Export.Sendmail,
		}, export.TimestampedName(o.now()), nil
	case o.SQLite != "":
		path, err := homedir.Expand(o.SQLite)
		if err != nil {
			return nil, "", err
		}
		return export.SQLiteSink{Path: path}, cfg.FileName, nil
	case cfg.Export.Dir != "":
		return export.DirSharer{Dir: cfg.Export.Dir}, cfg.FileName, nil
	case cfg.Export.ShareCommand != "":
		return export.CommandSharer{Command: cfg.Export.ShareCommand}, cfg.FileName, nil
	}
	return nil, "", fmt.Errorf("pass --to-dir, --command, --mail, --sqlite or --stdout, or set export.dir or export.share_command")
}
