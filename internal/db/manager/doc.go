// Package manager creates, drops and inspects the target database through a
// connection to the maintenance database.
//
// Identifiers are quoted with pgx.Identifier.Sanitize(), so names with
// spaces, quotes or semicolons are passed through literally.
//
//	mgr := manager.New()
//	exists, err := mgr.Exists(ctx, conn, "airroutes")
//	if !exists {
//	    err = mgr.Create(ctx, conn, "airroutes")
//	}
//
// Dropping requires terminating other sessions first:
//
//	err = mgr.TerminateConnections(ctx, conn, "airroutes")
//	err = mgr.Drop(ctx, conn, "airroutes")
package manager
