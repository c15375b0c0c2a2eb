package dataset

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Sampler defaults.
const (
	DefaultSampleRoutes = 350
	DefaultSampleSeed   = 42
)

// SampleOptions controls Sample.
type SampleOptions struct {
	// Routes is the number of routes drawn before referential filtering.
	Routes int

	// Seed makes the draw reproducible.
	Seed uint64

	// Normalize rewrites routes so the subset loads under the schema:
	// multi-code Equipment is split into one row per code, codes without a
	// plane are dropped and duplicate route keys are removed.
	Normalize bool
}

// DefaultSampleOptions returns the options used when none are given.
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{
		Routes:    DefaultSampleRoutes,
		Seed:      DefaultSampleSeed,
		Normalize: true,
	}
}

// SampleStats reports what Sample dropped along the way.
type SampleStats struct {
	CleanRoutes      int
	SampledRoutes    int
	MissingAirlines  int
	MissingAirports  int
	MissingCountries int
	EquipmentCodes   int
	NormalizedRoutes int
}

// SmallName returns the output file name for a sampled table file.
func SmallName(name string) string {
	return strings.TrimSuffix(name, ".dat") + "_small.dat"
}

type routeCols struct {
	airline, airlineID, src, srcID, dst, dstID, equipment int
}

// Sample draws opts.Routes routes from ds and keeps only the airlines,
// airports, countries and planes they use. Routes whose parents are missing
// are dropped, so the result passes ValidateReferences. Routes, Airlines and
// Airports are required; Countries and Planes are optional.
func Sample(ds Dataset, opts SampleOptions) (Dataset, SampleStats, error) {
	var stats SampleStats

	for _, name := range []string{schema.Routes, schema.Airlines, schema.Airports} {
		if ds.Get(name) == nil {
			return nil, stats, fmt.Errorf("sampling requires %s: %w", name, airroutes.ErrDataFileNotFound)
		}
	}
	if opts.Routes < 0 {
		return nil, stats, fmt.Errorf("route count cannot be negative: %w", airroutes.ErrInvalidConfig)
	}

	rt := schema.MustLookup(schema.Routes)
	at := schema.MustLookup(schema.Airlines)
	pt := schema.MustLookup(schema.Airports)
	rc := routeCols{
		airline:   rt.Index("Airline"),
		airlineID: rt.Index("AirlineID"),
		src:       rt.Index("SourceAirport"),
		srcID:     rt.Index("SourceAirportID"),
		dst:       rt.Index("DestinationAirport"),
		dstID:     rt.Index("DestinationAirportID"),
		equipment: rt.Index("Equipment"),
	}

	var clean []Record
	for _, r := range ds.Records(schema.Routes) {
		_, okAirline := intValue(r.Get(rc.airlineID))
		_, okSrc := intValue(r.Get(rc.srcID))
		_, okDst := intValue(r.Get(rc.dstID))
		if len(r.Fields) == len(rt.Columns) && okAirline && okSrc && okDst {
			clean = append(clean, r)
		}
	}
	stats.CleanRoutes = len(clean)

	n := min(opts.Routes, len(clean))
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	perm := rng.Perm(len(clean))
	routes := make([]Record, n)
	for i := range n {
		routes[i] = clean[perm[i]]
	}
	stats.SampledRoutes = n

	airlines := indexByID(ds.Records(schema.Airlines), at, "AirlineID")
	airports := indexByID(ds.Records(schema.Airports), pt, "AirportID")

	stats.MissingAirlines = countMissing(routes, airlines, rc.airlineID)
	stats.MissingAirports = countMissing(routes, airports, rc.srcID, rc.dstID)
	routes = slices.DeleteFunc(routes, func(r Record) bool {
		return !has(airlines, r, rc.airlineID) || !has(airports, r, rc.srcID) || !has(airports, r, rc.dstID)
	})

	if countries := ds.Get(schema.Countries); countries != nil {
		names := make(map[string]bool)
		for _, c := range countries.Records {
			if f := c.Get(0); !f.Null {
				names[f.Value] = true
			}
		}
		airlineCountry := at.Index("Country")
		airportCountry := pt.Index("Country")
		valid := func(rec Record, idx int) bool {
			f := rec.Get(idx)
			return !f.Null && names[f.Value]
		}

		missing := make(map[string]bool)
		for _, r := range routes {
			for _, c := range []Field{
				airlines.byID[id(r, rc.airlineID)].Get(airlineCountry),
				airports.byID[id(r, rc.srcID)].Get(airportCountry),
				airports.byID[id(r, rc.dstID)].Get(airportCountry),
			} {
				if !c.Null && !names[c.Value] {
					missing[c.Value] = true
				}
			}
		}
		stats.MissingCountries = len(missing)

		routes = slices.DeleteFunc(routes, func(r Record) bool {
			return !valid(airlines.byID[id(r, rc.airlineID)], airlineCountry) ||
				!valid(airports.byID[id(r, rc.srcID)], airportCountry) ||
				!valid(airports.byID[id(r, rc.dstID)], airportCountry)
		})
	}

	planes := ds.Get(schema.Planes)
	codes := equipmentCodes(routes, rc.equipment)
	stats.EquipmentCodes = len(codes)

	if opts.Normalize {
		routes = normalizeEquipment(rt, routes, rc.equipment, planes)
		stats.NormalizedRoutes = len(routes)
	}

	sortRoutes(routes, rc)

	out := Dataset{
		schema.Routes: &File{Table: rt, Name: SmallName(rt.File), Records: routes},
	}

	airlineIDs := make(map[int64]bool)
	airportIDs := make(map[int64]bool)
	for _, r := range routes {
		airlineIDs[id(r, rc.airlineID)] = true
		airportIDs[id(r, rc.srcID)] = true
		airportIDs[id(r, rc.dstID)] = true
	}
	out[schema.Airlines] = &File{Table: at, Name: SmallName(at.File), Records: pick(airlines, airlineIDs)}
	out[schema.Airports] = &File{Table: pt, Name: SmallName(pt.File), Records: pick(airports, airportIDs)}

	if countries := ds.Get(schema.Countries); countries != nil {
		used := make(map[string]bool)
		for _, rec := range out.Records(schema.Airlines) {
			if f := rec.Get(at.Index("Country")); !f.Null {
				used[f.Value] = true
			}
		}
		for _, rec := range out.Records(schema.Airports) {
			if f := rec.Get(pt.Index("Country")); !f.Null {
				used[f.Value] = true
			}
		}
		seen := make(map[string]bool)
		var kept []Record
		for _, c := range countries.Records {
			name := c.Get(0)
			if !name.Null && used[name.Value] && !seen[name.Value] {
				seen[name.Value] = true
				kept = append(kept, c)
			}
		}
		slices.SortStableFunc(kept, func(a, b Record) int { return compareText(a.Get(0), b.Get(0)) })
		out[schema.Countries] = &File{Table: countries.Table, Name: SmallName(countries.Table.File), Records: kept}
	}

	if planes != nil {
		kept := selectPlanes(planes, routes, rc.equipment, codes, opts.Normalize)
		out[schema.Planes] = &File{Table: planes.Table, Name: SmallName(planes.Table.File), Records: kept}
	}

	return out, stats, nil
}

// normalizeEquipment emits one route per equipment code. With planes
// available, codes are matched case-insensitively against plane IATA codes
// and rewritten to the plane's spelling; unmatched codes are dropped.
func normalizeEquipment(rt schema.Table, routes []Record, equipment int, planes *File) []Record {
	var known map[string]string
	if planes != nil {
		iata := planes.Table.Index("IATACode")
		known = make(map[string]string)
		for _, p := range planes.Records {
			if f := p.Get(iata); !f.Null && f.Value != "" {
				upper := strings.ToUpper(f.Value)
				if _, dup := known[upper]; !dup {
					known[upper] = f.Value
				}
			}
		}
	}

	seen := make(map[string]bool)
	var out []Record
	for _, r := range routes {
		eq := r.Get(equipment)
		if eq.Null {
			continue
		}
		for _, code := range strings.Fields(eq.Value) {
			if known != nil {
				canonical, ok := known[strings.ToUpper(code)]
				if !ok {
					continue
				}
				code = canonical
			}
			nr := r.Clone()
			nr.Fields[equipment] = ValueField(code)
			k, _ := key(rt, nr, rt.PrimaryKey)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, nr)
		}
	}
	return out
}

func selectPlanes(planes *File, routes []Record, equipment int, codes map[string]bool, normalized bool) []Record {
	iata := planes.Table.Index("IATACode")
	icao := planes.Table.Index("ICAOCode")

	var kept []Record
	if normalized {
		used := make(map[string]bool)
		for _, r := range routes {
			used[r.Get(equipment).Value] = true
		}
		seen := make(map[string]bool)
		for _, p := range planes.Records {
			f := p.Get(iata)
			if !f.Null && used[f.Value] && !seen[f.Value] {
				seen[f.Value] = true
				kept = append(kept, p)
			}
		}
	} else {
		for _, p := range planes.Records {
			a, c := p.Get(iata), p.Get(icao)
			if (!a.Null && codes[a.Value]) || (!c.Null && codes[c.Value]) {
				kept = append(kept, p)
			}
		}
	}

	name := planes.Table.Index("Name")
	slices.SortStableFunc(kept, func(a, b Record) int {
		return cmp.Or(
			compareText(a.Get(iata), b.Get(iata)),
			compareText(a.Get(icao), b.Get(icao)),
			compareText(a.Get(name), b.Get(name)),
		)
	})
	return kept
}

func equipmentCodes(routes []Record, equipment int) map[string]bool {
	codes := make(map[string]bool)
	for _, r := range routes {
		eq := r.Get(equipment)
		if eq.Null {
			continue
		}
		for _, code := range strings.Fields(eq.Value) {
			codes[strings.ToUpper(code)] = true
		}
	}
	return codes
}

func sortRoutes(routes []Record, rc routeCols) {
	slices.SortStableFunc(routes, func(a, b Record) int {
		return cmp.Or(
			cmp.Compare(id(a, rc.airlineID), id(b, rc.airlineID)),
			cmp.Compare(id(a, rc.srcID), id(b, rc.srcID)),
			cmp.Compare(id(a, rc.dstID), id(b, rc.dstID)),
			compareText(a.Get(rc.airline), b.Get(rc.airline)),
			compareText(a.Get(rc.src), b.Get(rc.src)),
			compareText(a.Get(rc.dst), b.Get(rc.dst)),
			compareText(a.Get(rc.equipment), b.Get(rc.equipment)),
		)
	})
}

// compareText orders NULL after every value.
func compareText(a, b Field) int {
	switch {
	case a.Null && b.Null:
		return 0
	case a.Null:
		return 1
	case b.Null:
		return -1
	}
	return strings.Compare(a.Value, b.Value)
}

// indexedRecords keeps the first record per integer ID, remembering file order.
type indexedRecords struct {
	byID  map[int64]Record
	order []int64
}

func indexByID(records []Record, table schema.Table, column string) indexedRecords {
	idx := table.Index(column)
	ir := indexedRecords{byID: make(map[int64]Record)}
	for _, r := range records {
		n, ok := intValue(r.Get(idx))
		if !ok || len(r.Fields) != len(table.Columns) {
			continue
		}
		if _, dup := ir.byID[n]; dup {
			continue
		}
		ir.byID[n] = r
		ir.order = append(ir.order, n)
	}
	return ir
}

func (ir indexedRecords) Get(n int64) (Record, bool) {
	r, ok := ir.byID[n]
	return r, ok
}

// pick returns the records whose ID is in ids, sorted by ID.
func pick(ir indexedRecords, ids map[int64]bool) []Record {
	var kept []int64
	for _, n := range ir.order {
		if ids[n] {
			kept = append(kept, n)
		}
	}
	slices.Sort(kept)
	out := make([]Record, len(kept))
	for i, n := range kept {
		out[i] = ir.byID[n]
	}
	return out
}

func id(r Record, idx int) int64 {
	n, _ := intValue(r.Get(idx))
	return n
}

func has(ir indexedRecords, r Record, idx int) bool {
	_, ok := ir.Get(id(r, idx))
	return ok
}

func countMissing(routes []Record, ir indexedRecords, columns ...int) int {
	missing := make(map[int64]bool)
	for _, r := range routes {
		for _, c := range columns {
			if n := id(r, c); !has(ir, r, c) {
				missing[n] = true
			}
		}
	}
	return len(missing)
}
