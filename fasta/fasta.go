package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/TuftsBCB/seq"
)

// DefaultColumns is the width at which sequences are wrapped by default.
const DefaultColumns = 60

// Format returns the FASTA string of a single sequence with its residues
// wrapped at the number of columns given. There is no trailing new line.
//
// If cols is <= 0, then no wrapping is done.
func Format(s seq.Sequence, cols int) string {
	residues := string(s.Residues)
	if cols <= 0 || len(residues) == 0 {
		return fmt.Sprintf(">%s\n%s", s.Name, residues)
	}

	wrapped := make([]string, 1+((len(residues)-1)/cols))
	for i := range wrapped {
		start := cols * i
		end := start + cols
		if end > len(residues) {
			end = len(residues)
		}
		wrapped[i] = residues[start:end]
	}
	return fmt.Sprintf(">%s\n%s", s.Name, strings.Join(wrapped, "\n"))
}

// A Writer writes sequences to a FASTA encoded file.
//
// The header of each entry is the Name of the sequence, and it is never
// wrapped.
type Writer struct {
	// The number of columns to wrap a sequence at. By default, this
	// is set to DefaultColumns. A value <= 0 will result in no wrapping.
	Columns int
	buf     *bufio.Writer
}

// NewWriter creates a new FASTA writer that can write sequences to
// an io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		Columns: DefaultColumns,
		buf:     bufio.NewWriter(w),
	}
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// Write writes a single FASTA entry to the underlying io.Writer.
//
// You may need to call Flush in order for the changes to be written.
func (w *Writer) Write(s seq.Sequence) error {
	_, err := fmt.Fprintf(w.buf, "%s\n", Format(s, w.Columns))
	return err
}

// WriteAll writes a slice of sequences to the underlying io.Writer, and
// calls Flush.
func (w *Writer) WriteAll(seqs []seq.Sequence) error {
	for _, s := range seqs {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	return w.Flush()
}
