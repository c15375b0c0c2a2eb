package ui

import (
	"fmt"
	"os"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// describe returns what action does to dbName, as a headline and the
// consequence the operator has to accept.
func describe(action, dbName string) (string, string) {
	switch action {
	case airroutes.ActionOverwrite:
		return fmt.Sprintf("DROP and RECREATE the database '%s'", dbName),
			"This will permanently delete all data in this database!"
	case airroutes.ActionReset:
		return fmt.Sprintf("DELETE every row of every table in '%s'", dbName),
			"This will permanently delete all loaded routes, planes, airports, airlines and countries!"
	default:
		return fmt.Sprintf("run '%s' against the database '%s'", action, dbName),
			"This operation cannot be undone!"
	}
}

// NewApprover picks the approver for a destructive command: a countdown with
// --force, a typed confirmation on a terminal and a refusal otherwise.
func NewApprover(force, verbose bool) airroutes.Approver {
	switch {
	case force:
		return NewForcedApprover(verbose)
	case IsInteractive():
		return NewInteractiveApprover(verbose)
	default:
		return NewRefusingApprover(os.Stderr)
	}
}
