package record

import (
	_ "embed"
	"fmt"
	"strconv"
	"sync"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// Validation error codes (E200-E209)
const (
	ErrSchema      = "E200" // schema could not be compiled or applied
	ErrInvalidID   = "E201" // id must be a positive integer
	ErrBadDate     = "E202" // date must be a real YYYY-MM-DD calendar date
	ErrBadExercise = "E203" // exercise must be none, low, medium or high
	ErrBadSleep    = "E204" // sleep hours must be a number in [0, 24]
	ErrBadMeds     = "E205" // meds must be yes, no or n/a
)

// MaxSleepHours is the upper bound accepted for SleepHours.
const MaxSleepHours = 24

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var fieldRules = map[string]ValidationError{
	ColID:         {Field: ColID, Code: ErrInvalidID, Message: "id must be a positive integer"},
	ColDate:       {Field: ColDate, Code: ErrBadDate, Message: "date must be in YYYY-MM-DD form"},
	ColExercise:   {Field: ColExercise, Code: ErrBadExercise, Message: "exercise must be one of none, low, medium, high"},
	ColSleepHours: {Field: ColSleepHours, Code: ErrBadSleep, Message: "sleep hours must be a number between 0 and 24"},
	ColMeds:       {Field: ColMeds, Code: ErrBadMeds, Message: "meds must be one of yes, no, n/a"},
}

// cue.Context is not safe for concurrent use.
var (
	schemaMu   sync.Mutex
	schemaOnce sync.Once
	cueCtx     *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

func loadSchema() {
	cueCtx = cuecontext.New()
	v := cueCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		schemaErr = fmt.Errorf("compile record schema: %w", err)
		return
	}
	schemaDef = v.LookupPath(cue.ParsePath("#SurveyRecord"))
	if !schemaDef.Exists() {
		schemaErr = fmt.Errorf("record schema: #SurveyRecord not found")
	}
}

// Validate checks r against the survey schema and returns every problem
// found (it does not fail fast). A nil result means r is valid.
//
// Shape checks (enumerations, date and number syntax, positive id) come from
// the embedded CUE schema; the calendar date and the [0, 24] range of
// SleepHours are checked here.
func Validate(r SurveyRecord) []ValidationError {
	errs := validateSchema(r)
	failed := make(map[string]bool, len(errs))
	for _, e := range errs {
		failed[e.Field] = true
	}

	if !failed[ColDate] {
		if _, err := time.Parse(DateLayout, r.Date); err != nil {
			errs = append(errs, ValidationError{
				Field:   ColDate,
				Code:    ErrBadDate,
				Message: fmt.Sprintf("%q is not a calendar date", r.Date),
			})
		}
	}

	if !failed[ColSleepHours] {
		f, err := strconv.ParseFloat(r.SleepHours, 64)
		if err != nil || f < 0 || f > MaxSleepHours {
			errs = append(errs, fieldRules[ColSleepHours])
		}
	}

	return errs
}

func validateSchema(r SurveyRecord) []ValidationError {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	schemaOnce.Do(loadSchema)
	if schemaErr != nil {
		return []ValidationError{{Field: "schema", Code: ErrSchema, Message: schemaErr.Error()}}
	}

	unified := schemaDef.Unify(cueCtx.Encode(r))
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []ValidationError
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		path := e.Path()
		if len(path) == 0 {
			continue
		}
		field := path[len(path)-1]
		if seen[field] {
			continue
		}
		seen[field] = true

		if rule, ok := fieldRules[field]; ok {
			errs = append(errs, rule)
			continue
		}
		errs = append(errs, ValidationError{Field: field, Code: ErrSchema, Message: e.Error()})
	}
	if len(errs) == 0 {
		// An error with no field path is still a rejection.
		errs = append(errs, ValidationError{Field: "record", Code: ErrSchema, Message: err.Error()})
	}
	return errs
}
