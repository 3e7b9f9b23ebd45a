package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/surveylog/internal/record"
	"github.com/roach88/surveylog/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Strict bool
}

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	Path           string             `json:"path"`
	Records        int                `json:"records"`
	HeaderMismatch bool               `json:"header_mismatch"`
	Header         []string           `json:"header,omitempty"`
	Skipped        []store.SkippedRow `json:"skipped,omitempty"`
}

// OK reports whether the file loaded without diagnostics.
func (r CheckResult) OK() bool {
	return !r.HeaderMismatch && len(r.Skipped) == 0
}

// String renders the check report.
func (r CheckResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", r.Path)
	fmt.Fprintf(&b, "Entries: %d\n", r.Records)
	if r.HeaderMismatch {
		fmt.Fprintf(&b, "✗ Header mismatch: %s\n", strings.Join(r.Header, ","))
	}
	for _, s := range r.Skipped {
		fmt.Fprintf(&b, "✗ Line %d skipped: %d of %d columns\n", s.Line, s.Fields, record.NumColumns)
	}
	if r.OK() {
		b.WriteString("✓ File is consistent\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report header and row problems in the survey file",
		Long: `Load the survey file and report a header that does not match the
expected columns and any rows skipped for having too few columns.

Problems are reported but do not fail the command unless --strict is set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when any problem is found")

	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}

	res, err := st.LoadAll(cmd.Context())
	if err != nil {
		return formatter.failFor("failed to load entries", err)
	}

	result := CheckResult{
		Path:    opts.Config.Path(),
		Records: len(res.Records),
		Skipped: res.Skipped,
	}
	if res.HeaderMismatch != nil {
		result.HeaderMismatch = true
		result.Header = res.HeaderMismatch.Got
	}

	if err := formatter.Success(result); err != nil {
		return err
	}
	if opts.Strict && !result.OK() {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%s: %d skipped row(s), header mismatch: %t", ErrCodeCheckFailed, len(result.Skipped), result.HeaderMismatch))
	}
	return nil
}
