package checksum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
)

// Calculator computes file checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of the content with line
	// endings, byte order mark and trailing blank lines normalized.
	CalculateNormalized(content []byte) string
}

// SHA256 implements Calculator using SHA-256.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	hash := sha256.Sum256(c.normalize(content))
	return hex.EncodeToString(hash[:])
}

// normalize returns content with LF line endings, no BOM and exactly one
// trailing newline. Empty content stays empty.
func (c SHA256) normalize(content []byte) []byte {
	content = bytes.TrimPrefix(content, utf8BOM)

	out := make([]byte, 0, len(content)+1)
	for i := 0; i < len(content); i++ {
		ch := content[i]
		if ch == '\r' {
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			ch = '\n'
		}
		out = append(out, ch)
	}

	out = bytes.TrimRight(out, "\n")
	if len(out) == 0 {
		return out
	}
	return append(out, '\n')
}

// Short abbreviates a hex digest for log lines.
func Short(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
