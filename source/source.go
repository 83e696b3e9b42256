// Package source provides the lines of PDB files, either from the local file
// system or from one of the mirrors of the Protein Data Bank.
//
// Sources may return gzipped or plain text data. Either way, the caller gets
// back the decompressed lines.
package source

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrSourceUnavailable is wrapped by every error returned from a Source.
	ErrSourceUnavailable = errors.New("structure source unavailable")

	// ErrTooLarge is returned when decoded data goes over its size limit.
	ErrTooLarge = errors.New("decoded data too large")
)

// DefaultMaxDecoded is the most bytes Decode produces. The largest entries
// of the PDB are far smaller than this.
const DefaultMaxDecoded = 512 << 20

// A Source provides the raw lines of a single PDB file for an identifier.
// What an identifier means depends on the source: a path for Local, and an
// accession code for Remote.
type Source interface {
	Lines(ctx context.Context, ident string) ([]string, error)
}

var gzipMagic = []byte{0x1f, 0x8b}

// Decode returns the lines of data, decompressing it first if it starts
// with the gzip magic number. Trailing carriage returns are dropped.
// At most DefaultMaxDecoded bytes are decoded.
func Decode(data []byte) ([]string, error) {
	return DecodeLimit(data, DefaultMaxDecoded)
}

// DecodeLimit is like Decode, but fails with ErrTooLarge as soon as more
// than limit bytes have been decoded. A limit of zero or less means
// DefaultMaxDecoded.
func DecodeLimit(data []byte, limit int64) ([]string, error) {
	if limit <= 0 {
		limit = DefaultMaxDecoded
	}
	var r io.Reader = bytes.NewReader(data)
	if bytes.HasPrefix(data, gzipMagic) {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	lines, err := readLines(&capReader{r: r, left: limit})
	if errors.Is(err, ErrTooLarge) {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return lines, err
}

// capReader reads from r until more than left bytes came out of it.
type capReader struct {
	r    io.Reader
	left int64
}

func (c *capReader) Read(p []byte) (int, error) {
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}
	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return n, ErrTooLarge
	}
	return n, err
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
