package dataset

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/vvka-141/airroutes/internal/schema"
)

// File is the parsed content of one table's .dat file.
type File struct {
	Table    schema.Table
	Name     string
	Records  []Record
	Checksum string
}

// Parse reads data as the .dat file name for table.
func Parse(table schema.Table, name string, data []byte) (*File, error) {
	records, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &File{Table: table, Name: name, Records: records}, nil
}

// Dataset holds parsed files keyed by table name. Tables may be missing.
type Dataset map[string]*File

// Get returns the file for table, or nil.
func (d Dataset) Get(table string) *File {
	return d[table]
}

// Records returns the records of table, or nil when the table is missing.
func (d Dataset) Records(table string) []Record {
	if f := d[table]; f != nil {
		return f.Records
	}
	return nil
}

// key builds a comparable identity from the given columns of rec.
// Integer columns are canonicalized so that "01" and "1" collide like they do
// in the database. ok is false when any part is NULL.
func key(table schema.Table, rec Record, columns []string) (string, bool) {
	parts := make([]string, len(columns))
	for i, name := range columns {
		idx := table.Index(name)
		f := rec.Get(idx)
		if f.Null {
			return "", false
		}
		parts[i] = canonical(table.Columns[idx].Type, f.Value)
	}
	return strings.Join(parts, "\x00"), true
}

func canonical(t schema.ColumnType, v string) string {
	if t == schema.Integer {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32); err == nil {
			return strconv.FormatInt(n, 10)
		}
	}
	return v
}

// intValue parses an integer field. ok is false for NULL or non-integers.
func intValue(f Field) (int64, bool) {
	if f.Null {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(f.Value), 10, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}
