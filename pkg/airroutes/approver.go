package airroutes

import "context"

// Approver handles user interaction for destructive operations: dropping a
// database with --overwrite and deleting every loaded row with reset.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type the database name for confirmation
//   - RefusingApprover: Denies when no terminal is attached
type Approver interface {
	// RequestApproval asks for confirmation of action against dbName.
	// Returns true if approved, false if denied.
	RequestApproval(ctx context.Context, action, dbName string) (bool, error)
}

// Destructive actions passed to Approver.RequestApproval.
const (
	// ActionOverwrite drops and recreates the target database.
	ActionOverwrite = "overwrite"

	// ActionReset deletes every row of every table.
	ActionReset = "reset"
)
