package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() SurveyRecord {
	return SurveyRecord{
		ID:         1736000000000,
		Date:       "2025-01-04",
		Exercise:   ExerciseMedium,
		SleepHours: "7.5",
		Meds:       MedsNA,
		Meditation: true,
	}
}

func codes(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateValid(t *testing.T) {
	assert.Empty(t, Validate(validRecord()))
}

func TestValidateAcceptsEveryEnumeration(t *testing.T) {
	for _, ex := range ExerciseLevels {
		for _, m := range MedsAnswers {
			r := validRecord()
			r.Exercise = ex
			r.Meds = m
			assert.Empty(t, Validate(r), "exercise=%s meds=%s", ex, m)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SurveyRecord)
		code   string
		field  string
	}{
		{"zero id", func(r *SurveyRecord) { r.ID = 0 }, ErrInvalidID, ColID},
		{"negative id", func(r *SurveyRecord) { r.ID = -5 }, ErrInvalidID, ColID},
		{"date shape", func(r *SurveyRecord) { r.Date = "01/04/2025" }, ErrBadDate, ColDate},
		{"date not on calendar", func(r *SurveyRecord) { r.Date = "2025-02-30" }, ErrBadDate, ColDate},
		{"unknown exercise", func(r *SurveyRecord) { r.Exercise = "extreme" }, ErrBadExercise, ColExercise},
		{"sleep not a number", func(r *SurveyRecord) { r.SleepHours = "eight" }, ErrBadSleep, ColSleepHours},
		{"sleep above range", func(r *SurveyRecord) { r.SleepHours = "24.5" }, ErrBadSleep, ColSleepHours},
		{"sleep negative", func(r *SurveyRecord) { r.SleepHours = "-1" }, ErrBadSleep, ColSleepHours},
		{"unknown meds", func(r *SurveyRecord) { r.Meds = "maybe" }, ErrBadMeds, ColMeds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)

			errs := Validate(r)
			require.Len(t, errs, 1, "got %v", errs)
			assert.Equal(t, tt.code, errs[0].Code)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidateSleepBoundaries(t *testing.T) {
	for _, h := range []string{"0", "24", "0.5", "23.75"} {
		r := validRecord()
		r.SleepHours = h
		assert.Empty(t, Validate(r), "sleep=%s", h)
	}
}

func TestValidateReportsAllFields(t *testing.T) {
	r := SurveyRecord{Date: "yesterday", Exercise: "?", SleepHours: "x", Meds: "?"}

	errs := Validate(r)

	assert.ElementsMatch(t,
		[]string{ErrInvalidID, ErrBadDate, ErrBadExercise, ErrBadSleep, ErrBadMeds},
		codes(errs))
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Field: "meds", Code: ErrBadMeds, Message: "bad"}
	assert.Equal(t, "[E205] meds: bad", e.Error())
}
