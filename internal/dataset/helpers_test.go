package dataset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vvka-141/airroutes/internal/dataset"
	"github.com/vvka-141/airroutes/internal/schema"
)

const (
	countriesDat = `United States,US,US
Germany,DE,GM
Nowhere Land,\N,\N
`
	airlinesDat = `1,"Test Air",\N,"TA","TST","TESTAIR","United States","Y"
2,"Luft Test",\N,"LT","LTT","LUFTTEST","Germany","N"
3,"Ghost Air",\N,"GA","GHO","GHOST","Atlantis","Y"
`
	airportsDat = `10,"Alpha Field","Springfield","United States","AAA","KAAA",40.1,-75.2,100,-5,"A","America/New_York","airport","OurAirports"
11,"Bravo Intl","Shelbyville","United States","BBB","KBBB",41.5,-74.9,250,-5,"A","America/New_York","airport","OurAirports"
20,"Charlie Flughafen","Berlin","Germany","CCC","EDCC",52.5,13.4,34,1,"E","Europe/Berlin","airport","OurAirports"
30,"Lost Strip","Atlantis","Atlantis","LLL","XLLL",0,0,0,0,"U",\N,"airport","OurAirports"
`
	planesDat = `"Airbus A320","320","A320"
"Boeing 737-800","738","B738"
"Embraer 190","E90","E190"
`
	routesDat = `TA,1,AAA,10,BBB,11,,0,320 738
TA,1,BBB,11,AAA,10,Y,0,320
LT,2,CCC,20,AAA,10,,0,E90
LT,2,AAA,10,CCC,20,,0,E90 XXX
GA,3,LLL,30,AAA,10,,0,320
TA,1,AAA,10,ZZZ,99,,0,320
TA,\N,AAA,10,BBB,11,,0,320
`
)

func parse(t *testing.T, table, content string) *dataset.File {
	t.Helper()
	tbl := schema.MustLookup(table)
	f, err := dataset.Parse(tbl, tbl.File, []byte(content))
	require.NoError(t, err)
	return f
}

func fullDataset(t *testing.T) dataset.Dataset {
	t.Helper()
	return dataset.Dataset{
		schema.Countries: parse(t, schema.Countries, countriesDat),
		schema.Airlines:  parse(t, schema.Airlines, airlinesDat),
		schema.Airports:  parse(t, schema.Airports, airportsDat),
		schema.Planes:    parse(t, schema.Planes, planesDat),
		schema.Routes:    parse(t, schema.Routes, routesDat),
	}
}

func column(f *dataset.File, name string) []string {
	idx := f.Table.Index(name)
	var out []string
	for _, r := range f.Records {
		out = append(out, r.Get(idx).String())
	}
	return out
}

func encode(t *testing.T, records []dataset.Record) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, dataset.Write(&sb, records))
	return sb.String()
}
