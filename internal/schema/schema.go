package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

//go:embed schema.sql
var schemaSQL string

const sqlStateDuplicateTable = "42P07"

// Table names.
const (
	Countries = "Countries"
	Airlines  = "Airlines"
	Airports  = "Airports"
	Planes    = "Planes"
	Routes    = "Routes"
)

// ColumnType is the storage type of a column, used for offline validation.
type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Float
	Numeric
)

// String returns the SQL name of the type.
func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Float:
		return "DOUBLE PRECISION"
	case Numeric:
		return "NUMERIC"
	default:
		return "TEXT"
	}
}

// Column describes one column of a table, in file order.
type Column struct {
	Name    string
	Type    ColumnType
	NotNull bool

	// Allowed lists the permitted values when a CHECK constraint restricts
	// the column. NULL is permitted unless NotNull is set.
	Allowed []string
}

// ForeignKey links Columns of the owning table to RefColumns of RefTable.
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

// Table describes a table of the dataset.
type Table struct {
	Name        string
	File        string
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
}

// ColumnNames returns the column names in file order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of column name, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// Parents returns the distinct tables referenced by t.
func (t Table) Parents() []string {
	var parents []string
	seen := make(map[string]bool)
	for _, fk := range t.ForeignKeys {
		if !seen[fk.RefTable] {
			seen[fk.RefTable] = true
			parents = append(parents, fk.RefTable)
		}
	}
	return parents
}

func text(name string) Column    { return Column{Name: name, Type: Text} }
func integer(name string) Column { return Column{Name: name, Type: Integer} }

var tables = []Table{
	{
		Name:       Countries,
		File:       "countries.dat",
		Columns:    []Column{{Name: "Name", Type: Text, NotNull: true}, text("ISOCode"), text("DAFIFCode")},
		PrimaryKey: []string{"Name"},
	},
	{
		Name: Airlines,
		File: "airlines.dat",
		Columns: []Column{
			{Name: "AirlineID", Type: Integer, NotNull: true},
			text("Name"), text("Alias"), text("IATA"), text("ICAO"), text("Callsign"), text("Country"),
			{Name: "Active", Type: Text, NotNull: true, Allowed: []string{"Y", "N"}},
		},
		PrimaryKey: []string{"AirlineID"},
		ForeignKeys: []ForeignKey{
			{Columns: []string{"Country"}, RefTable: Countries, RefColumns: []string{"Name"}},
		},
	},
	{
		Name: Airports,
		File: "airports.dat",
		Columns: []Column{
			{Name: "AirportID", Type: Integer, NotNull: true},
			text("Name"), text("City"), text("Country"), text("IATA"), text("ICAO"),
			{Name: "Latitude", Type: Float}, {Name: "Longitude", Type: Float},
			integer("Altitude"), {Name: "Timezone", Type: Numeric},
			text("DST"), text("TzDatabase"), text("Type"), text("Source"),
		},
		PrimaryKey: []string{"AirportID"},
		ForeignKeys: []ForeignKey{
			{Columns: []string{"Country"}, RefTable: Countries, RefColumns: []string{"Name"}},
		},
	},
	{
		Name:       Planes,
		File:       "planes.dat",
		Columns:    []Column{text("Name"), {Name: "IATACode", Type: Text, NotNull: true}, text("ICAOCode")},
		PrimaryKey: []string{"IATACode"},
	},
	{
		Name: Routes,
		File: "routes.dat",
		Columns: []Column{
			text("Airline"),
			{Name: "AirlineID", Type: Integer, NotNull: true},
			text("SourceAirport"),
			{Name: "SourceAirportID", Type: Integer, NotNull: true},
			text("DestinationAirport"),
			{Name: "DestinationAirportID", Type: Integer, NotNull: true},
			{Name: "Codeshare", Type: Text, Allowed: []string{"Y", ""}},
			integer("Stops"),
			{Name: "Equipment", Type: Text, NotNull: true},
		},
		PrimaryKey: []string{"AirlineID", "SourceAirportID", "DestinationAirportID", "Equipment"},
		ForeignKeys: []ForeignKey{
			{Columns: []string{"AirlineID"}, RefTable: Airlines, RefColumns: []string{"AirlineID"}},
			{Columns: []string{"SourceAirportID"}, RefTable: Airports, RefColumns: []string{"AirportID"}},
			{Columns: []string{"DestinationAirportID"}, RefTable: Airports, RefColumns: []string{"AirportID"}},
			{Columns: []string{"Equipment"}, RefTable: Planes, RefColumns: []string{"IATACode"}},
		},
	},
}

// DDL returns the CREATE TABLE script.
func DDL() string {
	return schemaSQL
}

// Tables returns all tables in load order.
func Tables() []Table {
	out := make([]Table, len(tables))
	copy(out, tables)
	return out
}

// ReverseOrder returns all tables in delete order, children first.
func ReverseOrder() []Table {
	out := make([]Table, len(tables))
	for i, t := range tables {
		out[len(tables)-1-i] = t
	}
	return out
}

// Names returns the table names in load order.
func Names() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

// Lookup resolves a table by name, case-insensitively.
func Lookup(name string) (Table, bool) {
	for _, t := range tables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Table{}, false
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) Table {
	t, ok := Lookup(name)
	if !ok {
		panic("schema: unknown table " + name)
	}
	return t
}

// Apply creates all tables. It must run against a database without them;
// if any table already exists the whole script fails with ErrSchemaExists.
func Apply(ctx context.Context, conn airroutes.DBConnection) error {
	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == sqlStateDuplicateTable {
			return fmt.Errorf("%s: %w", pgErr.Message, airroutes.ErrSchemaExists)
		}
		return fmt.Errorf("failed to create tables: %w: %w", airroutes.ErrExecutionFailed, err)
	}
	return nil
}
