// Package testutil provides an in-memory stub database for postgres store
// tests, so the driver's SQL surface is exercised without a server.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

var stubSeq uint64

// StubConn records statements and keeps bucket payloads in memory.
type StubConn struct {
	Execs    []string
	Buckets  map[string][]byte
	FailPing bool
	FailExec bool
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Buckets: make(map[string][]byte)}
	name := fmt.Sprintf("stubpg%d", atomic.AddUint64(&stubSeq, 1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) { return nil, fmt.Errorf("not implemented") }

// Ping implements driver.Pinger.
func (c *StubConn) Ping(context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	upper := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(upper, "CREATE TABLE"):
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(upper, "INSERT INTO"):
		if len(args) != 2 {
			return nil, fmt.Errorf("expected bucket and payload, got %d args", len(args))
		}
		bucket, _ := args[0].Value.(string)
		switch payload := args[1].Value.(type) {
		case []byte:
			c.Buckets[bucket] = append([]byte(nil), payload...)
		case string:
			c.Buckets[bucket] = []byte(payload)
		default:
			return nil, fmt.Errorf("unexpected payload type %T", args[1].Value)
		}
		return driver.RowsAffected(1), nil
	case strings.HasPrefix(upper, "DELETE FROM"):
		for _, arg := range args {
			if bucket, ok := arg.Value.(string); ok {
				delete(c.Buckets, bucket)
			}
		}
		return driver.RowsAffected(int64(len(args))), nil
	default:
		return nil, fmt.Errorf("unexpected statement: %s", query)
	}
}

// QueryContext implements driver.QueryerContext.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if !strings.Contains(strings.ToUpper(query), "SELECT") {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("expected bucket arg, got %d", len(args))
	}
	bucket, _ := args[0].Value.(string)
	payload, ok := c.Buckets[bucket]
	rows := &stubRows{}
	if ok {
		rows.values = [][]driver.Value{{append([]byte(nil), payload...)}}
	}
	return rows, nil
}

type stubRows struct {
	values [][]driver.Value
	pos    int
}

func (r *stubRows) Columns() []string { return []string{"payload"} }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.values) {
		return io.EOF
	}
	copy(dest, r.values[r.pos])
	r.pos++
	return nil
}
