package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/surveylog/internal/record"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Record record.SurveyRecord
}

// AddResult is the JSON payload of a rejected add.
type AddResult struct {
	Valid  bool                     `json:"valid"`
	Errors []record.ValidationError `json:"errors,omitempty"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}
	r := &opts.Record

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a survey entry",
		Long: `Record one survey entry.

The id and date default to the current time and day. Unset flags take the
form defaults: no support resources used, exercise none, 0 hours of sleep,
meds no. The entry is validated before it is written.

Example:
  surveylog add --actc --exercise medium --sleep 7.5 --meds n/a`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&r.ID, "id", 0, "entry id (default: current Unix time in ms)")
	f.StringVar(&r.Date, "date", "", "entry date YYYY-MM-DD (default: today)")
	f.BoolVar(&r.WentToACTC, "actc", false, "went to the ACTC")
	f.BoolVar(&r.PeerTutoring, "peer-tutoring", false, "used peer tutoring")
	f.BoolVar(&r.WritingCenter, "writing-center", false, "used the writing center")
	f.BoolVar(&r.MathCenter, "math-center", false, "used the math center")
	f.BoolVar(&r.Trio, "trio", false, "used TRIO")
	f.BoolVar(&r.FacultyOfficeHours, "office-hours", false, "went to faculty office hours")
	f.BoolVar(&r.InformalStudyGroup, "study-group", false, "joined an informal study group")
	f.StringVar(&r.Exercise, "exercise", record.ExerciseNone, "exercise level (none|low|medium|high)")
	f.BoolVar(&r.Meditation, "meditation", false, "meditated")
	f.StringVar(&r.SleepHours, "sleep", "0", "hours of sleep")
	f.BoolVar(&r.Tao, "tao", false, "used TAO")
	f.BoolVar(&r.TogetherAll, "together-all", false, "used Togetherall")
	f.StringVar(&r.Meds, "meds", record.MedsNo, "took medication (yes|no|n/a)")
	f.BoolVar(&r.Therapy, "therapy", false, "went to therapy")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	defaults := record.New(opts.now())
	r := opts.Record
	if !cmd.Flags().Changed("id") {
		r.ID = defaults.ID
	}
	if !cmd.Flags().Changed("date") {
		r.Date = defaults.Date
	}
	r = record.Normalize(r)

	if errs := record.Validate(r); len(errs) > 0 {
		return outputRecordErrors(formatter, errs)
	}

	st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	if err := st.Append(cmd.Context(), r); err != nil {
		return formatter.failFor("failed to record entry", err)
	}
	formatter.VerboseLog("appended entry %d to %s", r.ID, st.Name())

	if formatter.Format == "json" {
		return formatter.Success(r)
	}
	fmt.Fprintf(formatter.Writer, "✓ Recorded entry for %s (id %d)\n", r.Date, r.ID)
	return nil
}

func outputRecordErrors(formatter *OutputFormatter, errs []record.ValidationError) error {
	if formatter.Format == "json" {
		encoder := json.NewEncoder(formatter.Writer)
		if err := encoder.Encode(CLIResponse{
			Status: "error",
			Data:   AddResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    ErrCodeInvalidRecord,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Entry rejected")
		for _, e := range errs {
			fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", e.Code, e.Field, e.Message)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%s: entry rejected with %d error(s)", ErrCodeInvalidRecord, len(errs)))
}
