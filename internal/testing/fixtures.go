package testing

import (
	"os"
	"path/filepath"
	"testing"
)

// A small dataset that loads cleanly under the schema, keyed by file name.
const (
	CountriesDat = `United States,US,USA
Germany,DE,DEU
`
	AirlinesDat = `1,Test Air,,TA,TST,TESTAIR,United States,Y
2,"Luft Test",\N,"LT","LTT","LUFTTEST","Germany","N"
`
	AirportsDat = `10,"Alpha Field","Springfield","United States","AAA","KAAA",40.1,-75.2,100,-5,"A","America/New_York","airport","OurAirports"
11,"Bravo Intl","Shelbyville","United States","BBB","KBBB",41.5,-74.9,250,-5,"A","America/New_York","airport","OurAirports"
20,"Charlie Flughafen","Berlin","Germany","CCC","EDCC",52.5,13.4,34,1,"E","Europe/Berlin","airport","OurAirports"
`
	PlanesDat = `"Airbus A320","320","A320"
"Boeing 737-800","738","B738"
"Embraer 190","E90","E190"
`
	RoutesDat = `TA,1,AAA,10,BBB,11,,0,320
TA,1,BBB,11,AAA,10,Y,0,738
LT,2,CCC,20,AAA,10,,0,E90
LT,2,AAA,10,CCC,20,\N,0,E90
`
)

// FixtureCounts are the row counts of the fixture files, in load order.
var FixtureCounts = map[string]int64{
	"Countries": 2,
	"Airlines":  2,
	"Airports":  3,
	"Planes":    3,
	"Routes":    4,
}

// FixtureFiles returns the fixture dataset keyed by default file name.
func FixtureFiles() map[string]string {
	return map[string]string{
		"countries.dat": CountriesDat,
		"airlines.dat":  AirlinesDat,
		"airports.dat":  AirportsDat,
		"planes.dat":    PlanesDat,
		"routes.dat":    RoutesDat,
	}
}

// WriteDataDir writes files into a temporary directory and returns its path.
func WriteDataDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}
