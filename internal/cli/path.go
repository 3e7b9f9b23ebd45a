package cli

import (
	"github.com/spf13/cobra"
)

// NewPathCommand creates the path command.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "path",
		Short:         "Print the survey file path",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			if formatter.Format == "json" {
				return formatter.Success(map[string]string{"path": cfg.Path()})
			}
			return formatter.Success(cfg.Path())
		},
	}
}
