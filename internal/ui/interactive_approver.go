package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// InteractiveApprover asks the operator to type the database name back.
// Anything else, including an empty line, denies the action.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

func NewInteractiveApprover(verbose bool) airroutes.Approver {
	return &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
}

func (a *InteractiveApprover) RequestApproval(ctx context.Context, action, dbName string) (bool, error) {
	headline, consequence := describe(action, dbName)
	fmt.Fprintf(a.output, "\n%s\n%s\n\nType '%s' to confirm: ",
		WarningStyle.Render("WARNING: about to "+headline), consequence, dbName)

	answer, err := a.readLine(ctx)
	if err != nil {
		return false, err
	}
	if answer != dbName {
		fmt.Fprintf(a.output, "%s '%s' does not match '%s'; %s cancelled.\n", SymbolCross, answer, dbName, action)
		return false, nil
	}
	fmt.Fprintf(a.output, "%s Confirmed %s of '%s'.\n", SymbolCheck, action, dbName)
	return true, nil
}

type lineResult struct {
	line string
	err  error
}

// readLine waits for one line of input or ctx, whichever comes first. A read
// blocked on a terminal cannot be interrupted, so the goroutine may outlive
// a cancelled call; the buffered channel lets it finish.
func (a *InteractiveApprover) readLine(ctx context.Context) (string, error) {
	result := make(chan lineResult, 1)
	go func() {
		line, err := bufio.NewReader(a.input).ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		result <- lineResult{strings.TrimSpace(line), err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(a.output)
		return "", ctx.Err()
	case r := <-result:
		if r.err != nil {
			return "", fmt.Errorf("failed to read input: %w", r.err)
		}
		return r.line, nil
	}
}

var _ airroutes.Approver = (*InteractiveApprover)(nil)
