package loader_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/internal/source"
	testhelpers "github.com/vvka-141/airroutes/internal/testing"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// fakeDB models the five tables as row counters behind a FakeConnection.
type fakeDB struct {
	*testhelpers.FakeConnection

	mu       sync.Mutex
	schema   bool
	counts   map[string]int64
	copyErrs map[string]error
}

func newFakeDB(withSchema bool, counts map[string]int64) *fakeDB {
	f := &fakeDB{schema: withSchema, counts: map[string]int64{}, copyErrs: map[string]error{}}
	for k, v := range counts {
		f.counts[k] = v
	}

	f.FakeConnection = &testhelpers.FakeConnection{
		QueryRowFunc: func(context.Context, string, ...any) airroutes.Row {
			f.mu.Lock()
			defer f.mu.Unlock()
			if !f.schema {
				return &testhelpers.FakeRow{Values: []any{int64(0)}}
			}
			return &testhelpers.FakeRow{Values: []any{int64(len(schema.Names()))}}
		},
		QueryFunc: func(context.Context, string, ...any) (airroutes.Rows, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			rows := &testhelpers.FakeRows{}
			for _, name := range schema.Names() {
				rows.Data = append(rows.Data, []any{name, f.counts[name]})
			}
			return rows, nil
		},
		CopyFunc: func(_ context.Context, sql, data string) (pgconn.CommandTag, error) {
			table := strings.Fields(sql)[1]
			f.mu.Lock()
			defer f.mu.Unlock()
			if err := f.copyErrs[table]; err != nil {
				return pgconn.CommandTag{}, err
			}
			n := int64(strings.Count(data, "\n"))
			f.counts[table] += n
			return pgconn.NewCommandTag(fmt.Sprintf("COPY %d", n)), nil
		},
		ExecFunc: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
			if table, ok := strings.CutPrefix(sql, "DELETE FROM "); ok {
				f.mu.Lock()
				defer f.mu.Unlock()
				n := f.counts[table]
				f.counts[table] = 0
				return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", n)), nil
			}
			return pgconn.CommandTag{}, nil
		},
	}
	return f
}

func (f *fakeDB) failCopy(table string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copyErrs[table] = err
}

func (f *fakeDB) copiedTables() []string {
	var tables []string
	for _, c := range f.Copies() {
		tables = append(tables, strings.Fields(c.SQL)[1])
	}
	return tables
}

func fixtureSource(t *testing.T, files map[string]string) source.Source {
	t.Helper()
	src, err := source.NewDir(testhelpers.WriteDataDir(t, files))
	require.NoError(t, err)
	return src
}

// loadedThrough returns fixture counts for the tables up to and including last.
func loadedThrough(last string) map[string]int64 {
	counts := map[string]int64{}
	for _, name := range schema.Names() {
		counts[name] = testhelpers.FixtureCounts[name]
		if name == last {
			break
		}
	}
	return counts
}
