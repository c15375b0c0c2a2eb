// Package models maps the route tables for gorm. The tables are created by
// package schema; these types only read them.
package models

import (
	"fmt"
	"strings"
)

type Country struct {
	Name      string  `gorm:"column:name;primaryKey"`
	ISOCode   *string `gorm:"column:isocode"`
	DAFIFCode *string `gorm:"column:dafifcode"`
}

func (Country) TableName() string {
	return "countries"
}

type Airline struct {
	AirlineID int32   `gorm:"column:airlineid;primaryKey;autoIncrement:false"`
	Name      *string `gorm:"column:name"`
	Alias     *string `gorm:"column:alias"`
	IATA      *string `gorm:"column:iata"`
	ICAO      *string `gorm:"column:icao"`
	Callsign  *string `gorm:"column:callsign"`
	Country   *string `gorm:"column:country"`
	Active    string  `gorm:"column:active"`
}

func (Airline) TableName() string {
	return "airlines"
}

type Airport struct {
	AirportID  int32    `gorm:"column:airportid;primaryKey;autoIncrement:false"`
	Name       *string  `gorm:"column:name"`
	City       *string  `gorm:"column:city"`
	Country    *string  `gorm:"column:country"`
	IATA       *string  `gorm:"column:iata"`
	ICAO       *string  `gorm:"column:icao"`
	Latitude   *float64 `gorm:"column:latitude"`
	Longitude  *float64 `gorm:"column:longitude"`
	Altitude   *int32   `gorm:"column:altitude"`
	Timezone   *float64 `gorm:"column:timezone"`
	DST        *string  `gorm:"column:dst"`
	TzDatabase *string  `gorm:"column:tzdatabase"`
	Type       *string  `gorm:"column:type"`
	Source     *string  `gorm:"column:source"`
}

func (Airport) TableName() string {
	return "airports"
}

type Plane struct {
	Name     *string `gorm:"column:name"`
	IATACode string  `gorm:"column:iatacode;primaryKey"`
	ICAOCode *string `gorm:"column:icaocode"`
}

func (Plane) TableName() string {
	return "planes"
}

// Route is one airline/source/destination/equipment combination, with its
// parents attached when preloaded.
type Route struct {
	Airline              *string `gorm:"column:airline"`
	AirlineID            int32   `gorm:"column:airlineid;primaryKey;autoIncrement:false"`
	SourceAirport        *string `gorm:"column:sourceairport"`
	SourceAirportID      int32   `gorm:"column:sourceairportid;primaryKey;autoIncrement:false"`
	DestinationAirport   *string `gorm:"column:destinationairport"`
	DestinationAirportID int32   `gorm:"column:destinationairportid;primaryKey;autoIncrement:false"`
	Codeshare            *string `gorm:"column:codeshare"`
	Stops                *int32  `gorm:"column:stops"`
	Equipment            string  `gorm:"column:equipment;primaryKey"`

	Carrier     Airline `gorm:"foreignKey:AirlineID;references:AirlineID"`
	Source      Airport `gorm:"foreignKey:SourceAirportID;references:AirportID"`
	Destination Airport `gorm:"foreignKey:DestinationAirportID;references:AirportID"`
	Plane       Plane   `gorm:"foreignKey:Equipment;references:IATACode"`
}

func (Route) TableName() string {
	return "routes"
}

// String renders the route on one line, e.g.
// "Test Air (TA): AAA Springfield → BBB Shelbyville, Airbus A320, nonstop".
func (r Route) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %s → %s, %s",
		value(r.Carrier.Name, r.Airline),
		value(r.Carrier.IATA, r.Airline),
		place(r.Source, r.SourceAirport),
		place(r.Destination, r.DestinationAirport),
		value(r.Plane.Name, &r.Equipment),
	)
	switch {
	case r.Stops == nil:
	case *r.Stops == 0:
		b.WriteString(", nonstop")
	default:
		fmt.Fprintf(&b, ", %d stops", *r.Stops)
	}
	if r.Codeshare != nil && *r.Codeshare == "Y" {
		b.WriteString(", codeshare")
	}
	return b.String()
}

func place(a Airport, code *string) string {
	if a.City == nil || *a.City == "" {
		return value(a.IATA, code)
	}
	return value(a.IATA, code) + " " + *a.City
}

// value returns the first non-empty string, or "?".
func value(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return "?"
}
