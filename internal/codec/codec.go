package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/surveylog/internal/record"
)

// InvalidID is the id given to a decoded row whose id column is not an integer.
const InvalidID int64 = math.MinInt64

// ErrMalformedRow reports a data row with fewer columns than the schema.
var ErrMalformedRow = errors.New("malformed row")

// RowError carries the column count of a malformed row.
type RowError struct {
	Fields int // columns found
	Want   int // columns required
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%v: %d fields, want at least %d", ErrMalformedRow, e.Fields, e.Want)
}

func (e *RowError) Unwrap() error {
	return ErrMalformedRow
}

const (
	yes = "Y"
	no  = "N"
)

// EscapeField quotes v if it contains a comma, a double quote or a newline,
// doubling every inner quote. Any other value is returned unchanged.
func EscapeField(v string) string {
	if !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func yn(b bool) string {
	if b {
		return yes
	}
	return no
}

// HeaderLine returns the header row without a line terminator.
func HeaderLine() string {
	return strings.Join(record.Columns, ",")
}

// EncodeRow renders r as one CSV line in column order, without a line
// terminator.
func EncodeRow(r record.SurveyRecord) string {
	fields := [record.NumColumns]string{
		strconv.FormatInt(r.ID, 10),
		EscapeField(r.Date),
		yn(r.WentToACTC),
		yn(r.PeerTutoring),
		yn(r.WritingCenter),
		yn(r.MathCenter),
		yn(r.Trio),
		yn(r.FacultyOfficeHours),
		yn(r.InformalStudyGroup),
		EscapeField(r.Exercise),
		yn(r.Meditation),
		EscapeField(r.SleepHours),
		yn(r.Tao),
		yn(r.TogetherAll),
		EscapeField(r.Meds),
		yn(r.Therapy),
	}
	return strings.Join(fields[:], ",")
}

// SplitLine splits one CSV line into its fields.
//
// Outside quotes a comma ends the field and a quote opens quoted mode.
// Inside quotes a doubled quote yields one literal quote and a lone quote
// closes quoted mode. The final field is always emitted, so an empty line
// yields one empty field.
func SplitLine(line string) []string {
	var (
		out []string
		cur strings.Builder
		inQ bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		if inQ {
			switch {
			case c == '"' && i+1 < len(line) && line[i+1] == '"':
				cur.WriteByte('"')
				i++
			case c == '"':
				inQ = false
			default:
				cur.WriteByte(c)
			}
			continue
		}

		switch c {
		case ',':
			out = append(out, cur.String())
			cur.Reset()
		case '"':
			inQ = true
		default:
			cur.WriteByte(c)
		}
	}

	return append(out, cur.String())
}

// HeaderIndex maps a column name to its position in a row.
type HeaderIndex map[string]int

// NewHeaderIndex builds an index from header fields. The first occurrence of a
// duplicated name wins.
func NewHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

// DefaultHeaderIndex returns the index of the canonical column order.
func DefaultHeaderIndex() HeaderIndex {
	return NewHeaderIndex(record.Columns)
}

// Covers reports whether every schema column is present in idx.
func (h HeaderIndex) Covers() bool {
	for _, name := range record.Columns {
		if _, ok := h[name]; !ok {
			return false
		}
	}
	return true
}

// position returns where name lives in a row, falling back to its canonical
// position when idx does not know it.
func (h HeaderIndex) position(name string, canonical int) int {
	if p, ok := h[name]; ok {
		return p
	}
	return canonical
}

// DecodeRow maps split fields back to a record, looking every column up by
// name through idx. Rows with fewer than record.NumColumns fields fail with a
// *RowError wrapping ErrMalformedRow.
func DecodeRow(fields []string, idx HeaderIndex) (record.SurveyRecord, error) {
	if len(fields) < record.NumColumns {
		return record.SurveyRecord{}, &RowError{Fields: len(fields), Want: record.NumColumns}
	}

	get := func(col int) string {
		p := idx.position(record.Columns[col], col)
		if p < 0 || p >= len(fields) {
			return ""
		}
		return fields[p]
	}
	flag := func(col int) bool {
		return strings.EqualFold(strings.TrimSpace(get(col)), yes)
	}

	return record.SurveyRecord{
		ID:                 parseID(get(0)),
		Date:               get(1),
		WentToACTC:         flag(2),
		PeerTutoring:       flag(3),
		WritingCenter:      flag(4),
		MathCenter:         flag(5),
		Trio:               flag(6),
		FacultyOfficeHours: flag(7),
		InformalStudyGroup: flag(8),
		Exercise:           get(9),
		Meditation:         flag(10),
		SleepHours:         get(11),
		Tao:                flag(12),
		TogetherAll:        flag(13),
		Meds:               get(14),
		Therapy:            flag(15),
	}, nil
}

// DecodeLine is SplitLine followed by DecodeRow.
func DecodeLine(line string, idx HeaderIndex) (record.SurveyRecord, error) {
	return DecodeRow(SplitLine(line), idx)
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return InvalidID
	}
	return id
}
