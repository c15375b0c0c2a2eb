// Package source locates .dat files in a local directory or an S3 prefix.
//
// Files may be stored snappy-compressed with a ".sz" suffix; callers always
// ask for the plain name ("routes.dat") and receive decoded bytes.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
)

// CompressedSuffix marks a snappy-compressed data file.
const CompressedSuffix = ".sz"

// streamMagic starts every snappy framed stream.
var streamMagic = []byte("\xff\x06\x00\x00sNaPpY")

// Source reads data files by name.
type Source interface {
	// Location describes where files are read from.
	Location() string

	// ReadFile returns the decoded content of name. If name is absent but
	// name+".sz" exists, the compressed file is decoded instead.
	// A missing file wraps airroutes.ErrDataFileNotFound.
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// Open returns the Source for location: an S3 prefix for s3:// URIs and a
// local directory otherwise.
func Open(ctx context.Context, location string, s3cfg S3Config) (Source, error) {
	if strings.HasPrefix(location, s3Scheme) {
		return NewS3(ctx, location, s3cfg)
	}
	return NewDir(location)
}

// Decode returns data uncompressed when name carries the ".sz" suffix.
// Both the snappy framing format and raw snappy blocks are accepted.
func Decode(name string, data []byte) ([]byte, error) {
	if !strings.HasSuffix(name, CompressedSuffix) {
		return data, nil
	}
	if bytes.HasPrefix(data, streamMagic) {
		out, err := io.ReadAll(snappy.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("%s: snappy stream: %w", name, err)
		}
		return out, nil
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%s: snappy decompress failed: %w", name, err)
	}
	return out, nil
}

// Encode compresses data as a snappy framed stream when name carries the
// ".sz" suffix and returns it unchanged otherwise.
func Encode(name string, data []byte) ([]byte, error) {
	if !strings.HasSuffix(name, CompressedSuffix) {
		return data, nil
	}
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
