// Package schema holds the DDL for the five route tables and the column
// metadata the loader, validator and sampler are driven by.
//
// The DDL is applied exactly once to an empty database. It deliberately has
// no IF NOT EXISTS clauses: a second Apply fails with ErrSchemaExists.
//
// Tables are returned in load order (parents before children):
//
//	Countries → Airlines, Airports → Planes → Routes
//
// and deleted in ReverseOrder.
package schema
