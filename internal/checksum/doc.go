// Package checksum fingerprints .dat files.
//
// Two digests are computed:
//
//   - Raw: SHA-256 of the exact bytes, as read from the source.
//   - Normalized: SHA-256 after dropping a UTF-8 byte order mark, turning
//     CRLF and CR line endings into LF and trimming trailing blank lines.
//
// The normalized digest stays the same when a file is copied between
// platforms or re-saved by an editor, so it identifies the dataset content.
// Compressed .sz files are fingerprinted after decompression.
//
// # Example Usage
//
//	calc := checksum.New()
//	raw := calc.CalculateRaw(data)
//	content := calc.CalculateNormalized(data)
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
