// Command airroutes provisions the airline-route schema and bulk-loads its
// data files into PostgreSQL.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/airroutes/internal/cli"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func main() {
	os.Exit(run())
}

// run maps the command outcome to a process exit code. A panic anywhere in a
// command ends with ExitPanic and its stack on stderr.
func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "airroutes crashed: %v\n\n%s", r, debug.Stack())
			code = airroutes.ExitPanic
		}
	}()

	// Lets tests observe the crash path end to end.
	if os.Getenv("AIRROUTES_TEST_PANIC") == "1" {
		panic("AIRROUTES_TEST_PANIC set")
	}

	return airroutes.ExitCodeForError(cli.Execute())
}
