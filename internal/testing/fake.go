package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// CopyCall records one CopyFrom invocation.
type CopyCall struct {
	SQL  string
	Data string
}

// FakeConnection is an in-memory airroutes.DBConnection. It records every
// statement and delegates results to the optional hooks.
type FakeConnection struct {
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) airroutes.Row
	QueryFunc    func(ctx context.Context, sql string, args ...any) (airroutes.Rows, error)
	CopyFunc     func(ctx context.Context, sql string, data string) (pgconn.CommandTag, error)
	AcquireErr   error

	mu     sync.Mutex
	execs  []string
	copies []CopyCall
}

// Exec records sql and calls ExecFunc.
func (f *FakeConnection) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	f.execs = append(f.execs, sql)
	f.mu.Unlock()

	if f.ExecFunc != nil {
		return f.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

// QueryRow calls QueryRowFunc, or returns a row that fails to scan.
func (f *FakeConnection) QueryRow(ctx context.Context, sql string, args ...any) airroutes.Row {
	if f.QueryRowFunc != nil {
		return f.QueryRowFunc(ctx, sql, args...)
	}
	return &FakeRow{Err: fmt.Errorf("unexpected QueryRow: %s", sql)}
}

// Query calls QueryFunc, or returns an empty result.
func (f *FakeConnection) Query(ctx context.Context, sql string, args ...any) (airroutes.Rows, error) {
	if f.QueryFunc != nil {
		return f.QueryFunc(ctx, sql, args...)
	}
	return &FakeRows{}, nil
}

// CopyFrom drains r, records it and calls CopyFunc.
func (f *FakeConnection) CopyFrom(ctx context.Context, r io.Reader, sql string) (pgconn.CommandTag, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return pgconn.CommandTag{}, err
	}

	f.mu.Lock()
	f.copies = append(f.copies, CopyCall{SQL: sql, Data: string(data)})
	f.mu.Unlock()

	if f.CopyFunc != nil {
		return f.CopyFunc(ctx, sql, string(data))
	}
	return pgconn.NewCommandTag("COPY 0"), nil
}

// Acquire returns a pooled connection that shares this fake's hooks.
func (f *FakeConnection) Acquire(context.Context) (airroutes.PooledConnection, error) {
	if f.AcquireErr != nil {
		return nil, f.AcquireErr
	}
	return &fakePooled{parent: f}, nil
}

// Execs returns the statements run through Exec, in order.
func (f *FakeConnection) Execs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.execs...)
}

// Copies returns the CopyFrom calls, in order.
func (f *FakeConnection) Copies() []CopyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CopyCall(nil), f.copies...)
}

type fakePooled struct {
	parent *FakeConnection
}

func (p *fakePooled) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.parent.Exec(ctx, sql, args...)
}

func (p *fakePooled) Release() {}

// FakeRow scans Values into the destinations, or returns Err.
type FakeRow struct {
	Values []any
	Err    error
}

// Scan assigns Values to dest in order. Types must match exactly.
func (r *FakeRow) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(dest, r.Values)
}

// FakeRows iterates over Data and reports Failure from Err.
type FakeRows struct {
	Data    [][]any
	Failure error

	pos int
}

func (r *FakeRows) Next() bool {
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *FakeRows) Scan(dest ...any) error {
	if r.pos == 0 || r.pos > len(r.Data) {
		return errors.New("scan called without a current row")
	}
	return assign(dest, r.Data[r.pos-1])
}

func (r *FakeRows) Err() error { return r.Failure }

func (r *FakeRows) Close() {}

func assign(dest, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i])
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		if v == nil {
			target.Elem().SetZero()
			continue
		}
		val := reflect.ValueOf(v)
		if !val.Type().AssignableTo(target.Elem().Type()) {
			return fmt.Errorf("scan: cannot assign %T to %s", v, target.Elem().Type())
		}
		target.Elem().Set(val)
	}
	return nil
}

var (
	_ airroutes.DBConnection = (*FakeConnection)(nil)
	_ airroutes.Rows         = (*FakeRows)(nil)
	_ airroutes.Row          = (*FakeRow)(nil)
	_ airroutes.Approver     = (*ForceApprover)(nil)
	_ airroutes.Approver     = (*DenyApprover)(nil)
)
