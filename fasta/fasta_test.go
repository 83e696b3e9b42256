package fasta

import (
	"bytes"
	"testing"

	"github.com/TuftsBCB/seq"
	"github.com/google/go-cmp/cmp"
)

func sequence(name, residues string) seq.Sequence {
	return seq.Sequence{Name: name, Residues: []seq.Residue(residues)}
}

func TestFormat(t *testing.T) {
	s := sequence("2abc A :: TEST KINASE", "MKTAyIAKQR")
	tests := []struct {
		cols int
		want string
	}{
		{0, ">2abc A :: TEST KINASE\nMKTAyIAKQR"},
		{4, ">2abc A :: TEST KINASE\nMKTA\nyIAK\nQR"},
		{5, ">2abc A :: TEST KINASE\nMKTAy\nIAKQR"},
		{60, ">2abc A :: TEST KINASE\nMKTAyIAKQR"},
	}
	for _, test := range tests {
		if diff := cmp.Diff(test.want, Format(s, test.cols)); diff != "" {
			t.Errorf("cols=%d (-want +got):\n%s", test.cols, diff)
		}
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(sequence("E", ""), 10); got != ">E\n" {
		t.Fatalf("Unexpected entry for an empty sequence: %q", got)
	}
}

func TestWriteAll(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewWriter(buf)
	w.Columns = 8
	err := w.WriteAll([]seq.Sequence{
		sequence("A", "MKTA-IAKQR"),
		sequence("B", "MKTAYIAKQR"),
	})
	if err != nil {
		t.Fatalf("%s", err)
	}
	want := ">A\nMKTA-IAK\nQR\n>B\nMKTAYIAK\nQR\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteNeedsFlush(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewWriter(buf)
	if err := w.Write(sequence("A", "GG")); err != nil {
		t.Fatalf("%s", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("Nothing should be written before Flush.")
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("%s", err)
	}
	if got := buf.String(); got != ">A\nGG\n" {
		t.Fatalf("Unexpected output: %q", got)
	}
}
