package pdb

import (
	"iter"
	"strconv"
	"strings"
)

// Records groups the lines of a PDB file by the record types that matter
// for reconciling chains. Each group is a lazy sequence over the original
// lines; iterating one group does not consume any of the others, and every
// group may be iterated more than once.
//
// Lines that belong to no group are simply never produced. An absent record
// type yields an empty sequence.
type Records struct {
	// COMPND records, in file order.
	Compounds iter.Seq[string]

	// SEQRES records, in file order.
	Seqres iter.Seq[string]

	// MODRES records, in file order.
	Modres iter.Seq[string]

	// REMARK 465 records (missing residues), in file order.
	Missing iter.Seq[string]

	// ATOM and HETATM records, along with the MODEL and ENDMDL records that
	// delimit them.
	Coords iter.Seq[string]
}

// ReadRecords splits the raw lines of a single PDB file into record groups.
// It does not interpret any of the records.
func ReadRecords(lines []string) Records {
	return Records{
		Compounds: recordLines(lines, "COMPND"),
		Seqres:    recordLines(lines, "SEQRES"),
		Modres:    recordLines(lines, "MODRES"),
		Missing:   remarkLines(lines, 465),
		Coords:    recordLines(lines, "ATOM", "HETATM", "MODEL", "ENDMDL"),
	}
}

func recordLines(lines []string, names ...string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			name := recordName(line)
			for _, want := range names {
				if name != want {
					continue
				}
				if !yield(line) {
					return
				}
				break
			}
		}
	}
}

func remarkLines(lines []string, num int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if recordName(line) != "REMARK" {
				continue
			}
			if n, err := atoi(line, 8, 10); err != nil || n != num {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// recordName returns the record name, which is always in the first six
// columns.
func recordName(line string) string {
	return cols(line, 1, 6)
}

// cols returns the trimmed text between the 1-based, inclusive columns
// start and end. Columns past the end of the line are treated as blank.
func cols(line string, start, end int) string {
	rs, re := start-1, end
	if rs >= len(line) || rs < 0 {
		return ""
	}
	if re > len(line) {
		re = len(line)
	}
	if re < rs {
		return ""
	}
	return strings.TrimSpace(line[rs:re])
}

// at returns the byte in the 1-based column given, or a space if the line
// is too short.
func at(line string, column int) byte {
	i := column - 1
	if i < 0 || i >= len(line) {
		return ' '
	}
	return line[i]
}

func atoi(line string, start, end int) (int, error) {
	return strconv.Atoi(cols(line, start, end))
}

func atof(line string, start, end int) (float64, error) {
	return strconv.ParseFloat(cols(line, start, end), 64)
}
