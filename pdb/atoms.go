package pdb

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/TuftsBCB/seq"
	"github.com/TuftsBCB/structure"
)

// DefaultRepresentative is the atom that stands in for the position of a
// residue: the alpha-carbon.
const DefaultRepresentative = "CA"

// AtomSample is the representative atom of a single residue, as read from an
// ATOM (or HETATM) record.
type AtomSample struct {
	Chain     string
	Number    int
	Insertion byte
	Name      seq.Residue
	Atom      string
	structure.Coords
}

// seqNum is an author residue number with its insertion code, which is zero
// when there is none. seqNums order the residues of a chain.
type seqNum struct {
	num   int
	icode byte
}

func (a seqNum) less(b seqNum) bool {
	return a.num < b.num || (a.num == b.num && a.icode < b.icode)
}

func (a seqNum) String() string {
	if a.icode == 0 {
		return strconv.Itoa(a.num)
	}
	return fmt.Sprintf("%d%c", a.num, a.icode)
}

type residueKey struct {
	chain string
	seqNum
}

// insertion reads an insertion code column.
func insertion(b byte) byte {
	if b == ' ' {
		return 0
	}
	return b
}

// extractAtoms picks the representative atom of every residue in the first
// model of each chain in idx, preserving file order.
//
// Only the first matching atom of a residue (number and insertion code) is
// kept, which drops alternate locations.
// Records for chains that aren't in the index are dropped with a single
// warning per chain. Records that can't be parsed are dropped with a
// warning.
func extractAtoms(lines iter.Seq[string], idx *ChainIndex, mods modres,
	representative string, rep *reporter) []AtomSample {

	samples := make([]AtomSample, 0, 100)
	seen := make(map[residueKey]bool, 100)

	var unknown []string
	dropped := make(map[string]int)

records:
	for line := range lines {
		switch recordName(line) {
		case "ENDMDL":
			// Only the first model is used.
			break records
		case "MODEL":
			continue
		}

		ident := chainIdent(at(line, 22))
		if !idx.Has(ident) {
			if dropped[ident] == 0 {
				unknown = append(unknown, ident)
			}
			dropped[ident]++
			continue
		}
		if cols(line, 13, 16) != representative {
			continue
		}
		resName := cols(line, 18, 20)
		if !mods.polymer(ident, resName) {
			continue
		}

		num, err := atoi(line, 23, 26)
		if err != nil {
			rep.warnf(WarnBadRecord, ident,
				"skipping ATOM record with bad residue number '%s'",
				cols(line, 23, 26))
			continue
		}
		key := residueKey{ident, seqNum{num, insertion(at(line, 27))}}
		if seen[key] {
			continue
		}

		var c structure.Coords
		var errx, erry, errz error
		c.X, errx = atof(line, 31, 38)
		c.Y, erry = atof(line, 39, 46)
		c.Z, errz = atof(line, 47, 54)
		if errx != nil || erry != nil || errz != nil {
			rep.residuef(WarnBadRecord, ident, key.seqNum,
				"skipping ATOM record with bad coordinates '%s'",
				strings.TrimSpace(safeSlice(line, 30, 54)))
			continue
		}

		seen[key] = true
		samples = append(samples, AtomSample{
			Chain:     ident,
			Number:    num,
			Insertion: key.icode,
			Name:      mods.abbrev(ident, resName),
			Atom:      representative,
			Coords:    c,
		})
	}
	for _, ident := range unknown {
		rep.warnf(WarnUnknownChain, ident,
			"dropped %d coordinate records for a chain not in COMPND",
			dropped[ident])
	}
	return samples
}

// chainIdent converts the chain identifier column to a string. A blank
// identifier is represented by an underscore.
func chainIdent(b byte) string {
	if b == ' ' {
		return "_"
	}
	return string(b)
}

func safeSlice(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}
