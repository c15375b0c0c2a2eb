package dataset

import (
	"context"
	"errors"

	"github.com/vvka-141/airroutes/internal/checksum"
	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/internal/source"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Load reads and parses the data file of every table from src. files
// overrides the file name per table. Tables whose file is absent are left
// out of the result; an empty result is reported as ErrDataFileNotFound.
// Each file carries the normalized checksum of its content.
func Load(ctx context.Context, src source.Source, files map[string]string) (Dataset, error) {
	ds := Dataset{}
	for _, table := range schema.Tables() {
		name := table.File
		if override := files[table.Name]; override != "" {
			name = override
		}

		data, err := src.ReadFile(ctx, name)
		if errors.Is(err, airroutes.ErrDataFileNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		f, err := Parse(table, name, data)
		if err != nil {
			return nil, err
		}
		f.Checksum = checksum.New().CalculateNormalized(data)
		ds[table.Name] = f
	}

	if len(ds) == 0 {
		return nil, errors.Join(errors.New("no data files in "+src.Location()), airroutes.ErrDataFileNotFound)
	}
	return ds, nil
}
