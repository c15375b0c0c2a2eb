package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Field is one value of a record. Null is set for \N.
type Field struct {
	Value string
	Null  bool
}

// NullField returns a NULL field.
func NullField() Field { return Field{Null: true} }

// ValueField returns a non-NULL field.
func ValueField(s string) Field { return Field{Value: s} }

// String renders the field the way it appears in a .dat file, unquoted.
func (f Field) String() string {
	if f.Null {
		return airroutes.NullSentinel
	}
	return f.Value
}

// Record is one line of a .dat file.
type Record struct {
	// Line is the 1-based line the record starts on; 0 for records built in memory.
	Line   int
	Fields []Field
}

// Get returns field i, or a NULL field when the record is short.
func (r Record) Get(i int) Field {
	if i < 0 || i >= len(r.Fields) {
		return NullField()
	}
	return r.Fields[i]
}

// Clone returns a copy whose fields can be modified independently.
func (r Record) Clone() Record {
	fields := make([]Field, len(r.Fields))
	copy(fields, r.Fields)
	return Record{Line: r.Line, Fields: fields}
}

// String joins the fields as they would be written, for error previews.
func (r Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, string(airroutes.FieldDelimiter))
}

// Read parses every record of a .dat stream.
// A syntax error is reported with its line and wraps ErrMalformedInput.
// Like COPY, only an unquoted \N is NULL and a blank line is an error.
func Read(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src := newSourceText(data)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = airroutes.FieldDelimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records []Record
	lastLine := 0
	for {
		raw, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("line %d: %s: %w", parseErr.StartLine, parseErr.Err, airroutes.ErrMalformedInput)
			}
			return nil, err
		}

		line, _ := cr.FieldPos(0)
		if line > lastLine+1 {
			return nil, blankLineError(lastLine + 1)
		}

		fields := make([]Field, len(raw))
		for i, v := range raw {
			if v == airroutes.NullSentinel && !src.quoted(cr.FieldPos(i)) {
				fields[i] = NullField()
			} else {
				fields[i] = ValueField(v)
			}
		}
		records = append(records, Record{Line: line, Fields: fields})

		last := len(raw) - 1
		endLine, _ := cr.FieldPos(last)
		lastLine = endLine + strings.Count(raw[last], "\n")
	}

	if src.lines() > lastLine {
		return nil, blankLineError(lastLine + 1)
	}
	return records, nil
}

func blankLineError(line int) error {
	return fmt.Errorf("line %d: empty line: %w", line, airroutes.ErrMalformedInput)
}

// sourceText locates csv field positions in the raw input.
type sourceText struct {
	data  []byte
	start []int // byte offset of each line
}

func newSourceText(data []byte) sourceText {
	start := []int{0}
	for i, b := range data {
		if b == '\n' && i+1 < len(data) {
			start = append(start, i+1)
		}
	}
	return sourceText{data: data, start: start}
}

// lines counts the lines of the input; a final newline does not open a new one.
func (s sourceText) lines() int {
	if len(s.data) == 0 {
		return 0
	}
	return len(s.start)
}

// quoted reports whether the field at 1-based line and column opens with a quote.
func (s sourceText) quoted(line, column int) bool {
	if line < 1 || line > len(s.start) {
		return false
	}
	i := s.start[line-1] + column - 1
	return i >= 0 && i < len(s.data) && s.data[i] == '"'
}

// Write emits records in .dat format. NULL is written as a bare \N and
// values are quoted only when they would otherwise be misread.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		for i, f := range rec.Fields {
			if i > 0 {
				if err := bw.WriteByte(airroutes.FieldDelimiter); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(encodeField(f)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encodeField(f Field) string {
	if f.Null {
		return airroutes.NullSentinel
	}
	if !needsQuotes(f.Value) {
		return f.Value
	}
	return `"` + strings.ReplaceAll(f.Value, `"`, `""`) + `"`
}

func needsQuotes(v string) bool {
	if v == airroutes.NullSentinel {
		return true
	}
	return strings.ContainsAny(v, "\",\r\n")
}
