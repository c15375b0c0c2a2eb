package db

import (
	"fmt"
	"strings"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// failureTarget is what a connection attempt was aimed at.
type failureTarget struct {
	host     string
	port     int
	database string
}

func (t failureTarget) addr() string { return fmt.Sprintf("%s:%d", t.host, t.port) }

// connectFailure matches a driver error message (lower-cased) to operator
// guidance. The first matching rule wins.
type connectFailure struct {
	markers []string
	explain func(t failureTarget) string
}

var connectFailures = []connectFailure{
	{[]string{"connection refused", "actively refused"}, func(t failureTarget) string {
		return fmt.Sprintf("connection refused to %s\n\nIs PostgreSQL running and listening there? Check with:\n  pg_isready -h %s -p %d",
			t.addr(), t.host, t.port)
	}},
	{[]string{"no such host", "no host"}, func(t failureTarget) string {
		return fmt.Sprintf("cannot resolve host %q\n\nCheck the spelling of -h / PGHOST and that DNS is reachable.", t.host)
	}},
	{[]string{"password authentication failed"}, func(t failureTarget) string {
		return fmt.Sprintf("password authentication failed for database %q\n\n"+
			"Check -U / PGUSER and the password in $PGPASSWORD, ~/.pgpass or the connection string.", t.database)
	}},
	{[]string{"does not exist"}, func(t failureTarget) string {
		return fmt.Sprintf("database %q does not exist\n\nCreate it with the airline-route schema:\n  airroutes init -d %s",
			t.database, t.database)
	}},
	{[]string{"timeout", "timed out"}, func(t failureTarget) string {
		return fmt.Sprintf("connection timed out to %s\n\nThe server is unreachable, overloaded, or a firewall drops the packets.", t.addr())
	}},
	{[]string{"ssl", "tls"}, func(failureTarget) string {
		return "SSL/TLS connection error\n\nCheck --sslmode; managed servers usually need --sslmode=require."
	}},
	{[]string{"too many connections"}, func(t failureTarget) string {
		return fmt.Sprintf("too many connections to database %q\n\n"+
			"An aborted load may have left sessions behind:\n"+
			"  SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = '%s';", t.database, t.database)
	}},
}

// wrapConnectionError prefixes err with guidance for the failure it
// describes. The result matches both airroutes.ErrConnectionFailed and err.
func wrapConnectionError(err error, host string, port int, database string) error {
	msg := strings.ToLower(err.Error())
	target := failureTarget{host: host, port: port, database: database}

	for _, f := range connectFailures {
		for _, m := range f.markers {
			if strings.Contains(msg, m) {
				return fmt.Errorf("%s\n\n%w: %w", f.explain(target), airroutes.ErrConnectionFailed, err)
			}
		}
	}
	return fmt.Errorf("failed to connect to database: %w: %w", airroutes.ErrConnectionFailed, err)
}
