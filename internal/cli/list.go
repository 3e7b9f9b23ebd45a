package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/surveylog/internal/record"
	"github.com/roach88/surveylog/internal/store"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every recorded entry",
		Long: `Show every recorded entry in file order.

A header that does not match the expected columns is reported on stderr;
the entries are still listed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Count   int                   `json:"count"`
	Records []record.SurveyRecord `json:"records"`
}

// String renders the entries the way the survey app's history screen does.
func (r ListResult) String() string {
	if r.Count == 0 {
		return "No entries recorded."
	}
	var b strings.Builder
	for i, rec := range r.Records {
		if i > 0 {
			b.WriteString("\n")
		}
		writeEntry(&b, i+1, rec)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeEntry(b *strings.Builder, n int, r record.SurveyRecord) {
	fmt.Fprintf(b, "Entry %d (%s)\n", n, r.Date)
	for _, row := range []struct {
		label string
		value string
	}{
		{"ACTC", yesNo(r.WentToACTC)},
		{"Peer Tutoring", yesNo(r.PeerTutoring)},
		{"Writing Center", yesNo(r.WritingCenter)},
		{"Math Center", yesNo(r.MathCenter)},
		{"TRIO", yesNo(r.Trio)},
		{"Faculty Office Hours", yesNo(r.FacultyOfficeHours)},
		{"Informal Study Group", yesNo(r.InformalStudyGroup)},
		{"Exercise", r.Exercise},
		{"Meditation", yesNo(r.Meditation)},
		{"Sleep", r.SleepHours + " hours"},
		{"TAO", yesNo(r.Tao)},
		{"Togetherall", yesNo(r.TogetherAll)},
		{"Meds", r.Meds},
		{"Therapy", yesNo(r.Therapy)},
	} {
		fmt.Fprintf(b, "  %-21s %s\n", row.label+":", row.value)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}

	res, err := st.LoadAll(cmd.Context())
	if err != nil {
		return formatter.failFor("failed to load entries", err)
	}
	reportDiagnostics(formatter, res)

	return formatter.Success(ListResult{Count: len(res.Records), Records: res.Records})
}

// reportDiagnostics writes load warnings to the diagnostic writer.
func reportDiagnostics(formatter *OutputFormatter, res *store.LoadResult) {
	if m := res.HeaderMismatch; m != nil {
		formatter.Warn("header does not match the expected columns (got %s)", strings.Join(m.Got, ","))
	}
	for _, s := range res.Skipped {
		formatter.VerboseLog("skipped line %d: %d of %d columns", s.Line, s.Fields, record.NumColumns)
	}
}
