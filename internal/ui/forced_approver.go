package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// ForcedApprover backs --force. It approves after a countdown of
// DefaultForceApprovalCountdown that Ctrl+C still interrupts.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

func NewForcedApprover(verbose bool) airroutes.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr, sleepFn: time.Sleep}
}

func (a *ForcedApprover) RequestApproval(ctx context.Context, action, dbName string) (bool, error) {
	headline, consequence := describe(action, dbName)
	fmt.Fprintf(a.output, "\n%s\n%s\n\n", DangerStyle.Render("DANGER: --force will "+headline), consequence)

	if err := a.countdown(ctx, int(airroutes.DefaultForceApprovalCountdown/time.Second)); err != nil {
		fmt.Fprintln(a.output)
		return false, err
	}

	fmt.Fprintf(a.output, "\r%s Proceeding with %s of '%s'%30s\n", SymbolCheck, action, dbName, "")
	return true, nil
}

func (a *ForcedApprover) countdown(ctx context.Context, seconds int) error {
	for left := seconds; left > 0; left-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(a.output, "\rProceeding in %ds (Ctrl+C to cancel)", left)
		a.sleepFn(time.Second)
	}
	return ctx.Err()
}

var _ airroutes.Approver = (*ForcedApprover)(nil)
