// Package loader bulk-loads .dat files into the route tables with COPY and
// tracks how far a database has progressed through the load sequence.
//
// Loading happens in steps, each of which requires the previous one to be
// complete:
//
//	SchemaCreated             → Countries
//	CountriesLoaded           → Airlines, Airports
//	AirlinesAndAirportsLoaded → Planes
//	PlanesLoaded              → Routes
//
// Every table is loaded by a single COPY, so a file is either loaded
// completely or not at all. Constraint failures are classified by SQLSTATE
// into the airroutes sentinels and never retried; the way back from a failed
// or repeated load is Reset followed by a new load.
package loader
