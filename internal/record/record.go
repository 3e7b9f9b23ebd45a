package record

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Column names in canonical order.
const (
	ColID                 = "id"
	ColDate               = "date"
	ColWentToACTC         = "wentToACTC"
	ColPeerTutoring       = "peerTutoring"
	ColWritingCenter      = "writingCenter"
	ColMathCenter         = "mathCenter"
	ColTrio               = "trio"
	ColFacultyOfficeHours = "facultyOfficeHours"
	ColInformalStudyGroup = "informalStudyGroup"
	ColExercise           = "exercise"
	ColMeditation         = "meditation"
	ColSleepHours         = "sleepHours"
	ColTao                = "tao"
	ColTogetherAll        = "togetherAll"
	ColMeds               = "meds"
	ColTherapy            = "therapy"
)

// Columns is the fixed column order of the header row and every data row.
var Columns = []string{
	ColID,
	ColDate,
	ColWentToACTC,
	ColPeerTutoring,
	ColWritingCenter,
	ColMathCenter,
	ColTrio,
	ColFacultyOfficeHours,
	ColInformalStudyGroup,
	ColExercise,
	ColMeditation,
	ColSleepHours,
	ColTao,
	ColTogetherAll,
	ColMeds,
	ColTherapy,
}

// NumColumns is the number of columns every data row must carry.
const NumColumns = 16

// Exercise levels.
const (
	ExerciseNone   = "none"
	ExerciseLow    = "low"
	ExerciseMedium = "medium"
	ExerciseHigh   = "high"
)

// ExerciseLevels lists the accepted exercise values in display order.
var ExerciseLevels = []string{ExerciseNone, ExerciseLow, ExerciseMedium, ExerciseHigh}

// Medication answers.
const (
	MedsYes = "yes"
	MedsNo  = "no"
	MedsNA  = "n/a"
)

// MedsAnswers lists the accepted meds values in display order.
var MedsAnswers = []string{MedsYes, MedsNo, MedsNA}

// DateLayout is the layout of SurveyRecord.Date.
const DateLayout = "2006-01-02"

// SurveyRecord is one submission for one calendar day.
//
// Exercise, SleepHours and Meds are stored as free text; the store copies them
// verbatim and never range-checks them.
type SurveyRecord struct {
	ID                 int64  `json:"id"`
	Date               string `json:"date"`
	WentToACTC         bool   `json:"wentToACTC"`
	PeerTutoring       bool   `json:"peerTutoring"`
	WritingCenter      bool   `json:"writingCenter"`
	MathCenter         bool   `json:"mathCenter"`
	Trio               bool   `json:"trio"`
	FacultyOfficeHours bool   `json:"facultyOfficeHours"`
	InformalStudyGroup bool   `json:"informalStudyGroup"`
	Exercise           string `json:"exercise"`
	Meditation         bool   `json:"meditation"`
	SleepHours         string `json:"sleepHours"`
	Tao                bool   `json:"tao"`
	TogetherAll        bool   `json:"togetherAll"`
	Meds               string `json:"meds"`
	Therapy            bool   `json:"therapy"`
}

// New returns a record stamped with now, carrying the form defaults:
// no exercise, zero hours of sleep, no medication and every flag unset.
// The ID is the Unix time in milliseconds.
func New(now time.Time) SurveyRecord {
	return SurveyRecord{
		ID:         now.UnixMilli(),
		Date:       now.Format(DateLayout),
		Exercise:   ExerciseNone,
		SleepHours: "0",
		Meds:       MedsNo,
	}
}

// Normalize returns a copy of r with its free-text fields cleaned up the way
// the survey form produces them: NFC-normalized and trimmed, enumerations
// lower-cased, and a numeric SleepHours rewritten in its shortest decimal
// form ("7.50" becomes "7.5"). Non-numeric SleepHours is left for Validate
// to reject.
func Normalize(r SurveyRecord) SurveyRecord {
	r.Date = clean(r.Date)
	r.Exercise = strings.ToLower(clean(r.Exercise))
	r.Meds = strings.ToLower(clean(r.Meds))
	r.SleepHours = clean(r.SleepHours)
	if f, err := strconv.ParseFloat(r.SleepHours, 64); err == nil {
		r.SleepHours = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return r
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
