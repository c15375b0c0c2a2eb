// Package services orchestrates the airroutes commands: provisioning the
// database and schema, loading the dataset in foreign-key order, resetting
// it, reporting its stage and verifying the loaded rows.
//
// Services own connection lifecycles and approval of destructive actions.
// The SQL itself lives in the schema, loader and verify packages.
package services
