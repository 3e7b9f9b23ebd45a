package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	*RootOptions
	Yes bool
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded entry",
		Long: `Delete every recorded entry, leaving the survey file with only its
header. Requires --yes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm deleting all entries")

	return cmd
}

func runClear(opts *ClearOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if !opts.Yes {
		return formatter.fail(ExitCommandError, ErrCodeUsage, "refusing to clear without --yes", nil, nil)
	}

	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	if err := st.Clear(cmd.Context()); err != nil {
		return formatter.failFor("failed to clear survey file", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]bool{"cleared": true})
	}
	fmt.Fprintln(formatter.Writer, "✓ All entries deleted")
	return nil
}
