package testutil

import (
	"time"

	"github.com/roach88/surveylog/internal/record"
)

// Record returns a valid record for day n after DefaultEpoch, with flags and
// answers varied by n so consecutive fixtures differ.
func Record(n int) record.SurveyRecord {
	at := DefaultEpoch.Add(time.Duration(n) * 24 * time.Hour)
	r := record.New(at)
	r.WentToACTC = n%2 == 0
	r.PeerTutoring = n%3 == 0
	r.Meditation = n%2 == 1
	r.Therapy = n%4 == 0
	r.Exercise = record.ExerciseLevels[n%len(record.ExerciseLevels)]
	r.Meds = record.MedsAnswers[n%len(record.MedsAnswers)]
	r.SleepHours = []string{"7", "7.5", "8", "6.25"}[n%4]
	return r
}

// Records returns Record(0) through Record(n-1).
func Records(n int) []record.SurveyRecord {
	out := make([]record.SurveyRecord, n)
	for i := range out {
		out[i] = Record(i)
	}
	return out
}
