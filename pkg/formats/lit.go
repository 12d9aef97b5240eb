// Package formats provides parsers for brush model lighting data.
package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// LIT format errors.
var (
	ErrInvalidLITMagic       = errors.New("invalid LIT magic: expected 'QLIT'")
	ErrUnsupportedLITVersion = errors.New("unsupported LIT version")
	ErrTruncatedLITData      = errors.New("truncated LIT data")
)

// LITMagic identifies a colored lighting file.
const LITMagic = "QLIT"

// LITVersion is the only version in circulation.
const LITVersion = 1

// litHeaderSize is the magic plus a little-endian uint32 version.
const litHeaderSize = 8

// LIT holds colored light samples: three bytes (RGB) for every byte of the
// level's monochrome lighting, in the same order.
type LIT struct {
	Version uint32
	Samples []byte
}

// ParseLIT parses a colored lighting file from raw bytes.
// Samples aliases data.
func ParseLIT(data []byte) (*LIT, error) {
	if len(data) < litHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedLITData, len(data))
	}
	if string(data[0:4]) != LITMagic {
		return nil, ErrInvalidLITMagic
	}

	version := binary.LittleEndian.Uint32(data[4:8])
	if version != LITVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLITVersion, version)
	}

	body := data[litHeaderSize:]
	if len(body)%3 != 0 {
		return nil, fmt.Errorf("%w: body of %d bytes is not RGB triplets", ErrTruncatedLITData, len(body))
	}

	return &LIT{Version: version, Samples: body}, nil
}

// NumSamples returns the number of RGB samples.
func (l *LIT) NumSamples() int {
	return len(l.Samples) / 3
}

// SurfaceSamples returns the n RGB samples of a surface whose monochrome
// lighting starts at offset.
func (l *LIT) SurfaceSamples(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 {
		return nil, fmt.Errorf("%w: offset %d, count %d", ErrTruncatedLITData, offset, n)
	}
	start, end := offset*3, (offset+n)*3
	if end > len(l.Samples) {
		return nil, fmt.Errorf("%w: samples %d..%d of %d", ErrTruncatedLITData, offset, offset+n, l.NumSamples())
	}
	return l.Samples[start:end], nil
}

// EncodeLIT builds a colored lighting file from RGB samples.
func EncodeLIT(samples []byte) []byte {
	out := make([]byte, litHeaderSize+len(samples))
	copy(out, LITMagic)
	binary.LittleEndian.PutUint32(out[4:8], LITVersion)
	copy(out[litHeaderSize:], samples)
	return out
}
