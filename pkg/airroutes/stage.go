package airroutes

import "fmt"

// Stage is the progress of a database through the load sequence.
// Stages only move forward; the way back is a reset to SchemaCreated.
type Stage int

const (
	StageEmpty Stage = iota
	StageSchemaCreated
	StageCountriesLoaded
	StageAirlinesAndAirportsLoaded
	StagePlanesLoaded
	StageRoutesLoaded
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageEmpty:
		return "Empty"
	case StageSchemaCreated:
		return "SchemaCreated"
	case StageCountriesLoaded:
		return "CountriesLoaded"
	case StageAirlinesAndAirportsLoaded:
		return "AirlinesAndAirportsLoaded"
	case StagePlanesLoaded:
		return "PlanesLoaded"
	case StageRoutesLoaded:
		return "RoutesLoaded"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// IsValid returns true if s is a defined stage.
func (s Stage) IsValid() bool {
	return s >= StageEmpty && s <= StageRoutesLoaded
}

// Next returns the stage that follows s. RoutesLoaded is terminal.
func (s Stage) Next() Stage {
	if s >= StageRoutesLoaded {
		return StageRoutesLoaded
	}
	return s + 1
}

// Reached reports whether s is at or beyond target.
func (s Stage) Reached(target Stage) bool {
	return s >= target
}
