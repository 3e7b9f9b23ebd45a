package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the survey file with its header",
		Long: `Create the survey file containing only the column header.

An existing file is left untouched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}

	if err := st.EnsureHeader(cmd.Context()); err != nil {
		return formatter.failFor("failed to initialize survey file", err)
	}

	path := opts.Config.Path()
	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"path": path})
	}
	fmt.Fprintf(formatter.Writer, "✓ Survey file ready: %s\n", path)
	return nil
}
