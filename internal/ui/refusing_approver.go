package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// RefusingApprover denies every request. It is used when no terminal is
// attached and --force was not given, so scripts never block on a prompt.
type RefusingApprover struct {
	output io.Writer
}

// NewRefusingApprover creates a RefusingApprover explaining itself on output.
func NewRefusingApprover(output io.Writer) airroutes.Approver {
	return &RefusingApprover{output: output}
}

// RequestApproval always returns false.
func (a *RefusingApprover) RequestApproval(_ context.Context, action, dbName string) (bool, error) {
	headline, _ := describe(action, dbName)
	why := "no terminal"
	if reason := nonInteractiveReason(); reason != "" {
		why = reason
	}
	fmt.Fprintf(a.output, "Refusing to %s: %s. Re-run with --force to proceed after a countdown.\n", headline, why)
	return false, nil
}

var _ airroutes.Approver = (*RefusingApprover)(nil)
