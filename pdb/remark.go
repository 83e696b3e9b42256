package pdb

import (
	"iter"

	"github.com/TuftsBCB/seq"
)

// MissingAnnotation is a residue listed in REMARK 465, i.e., a residue that
// was declared in SEQRES but has no coordinates in the file.
type MissingAnnotation struct {
	Chain     string
	Number    int
	Insertion byte
	Name      seq.Residue
}

// readMissing reads the residues listed in REMARK 465 records.
//
// The records look like this:
//
//	REMARK 465   M RES C SSSEQI
//	REMARK 465     MET A     1
//	REMARK 465     GLY A     2
//	REMARK 465     SER A    52A
//
// where I is the insertion code and M is a model number that is only present
// for NMR entries. Rows that aren't residues (the column header and the free
// text preceding it) are skipped. For NMR entries, only residues missing
// from the first model are kept.
func readMissing(lines iter.Seq[string], idx *ChainIndex,
	mods modres) []MissingAnnotation {

	var missing []MissingAnnotation
	seen := make(map[residueKey]bool)
	for line := range lines {
		resName := cols(line, 16, 18)
		ident := cols(line, 20, 20)
		if len(resName) == 0 || len(ident) == 0 || !isAlnum(resName) {
			continue
		}
		num, err := atoi(line, 22, 26)
		if err != nil {
			continue
		}
		if model := cols(line, 12, 14); len(model) > 0 {
			if m, err := atoi(line, 12, 14); err != nil || m != 1 {
				continue
			}
		}
		if !idx.Has(ident) {
			continue
		}

		key := residueKey{ident, seqNum{num, insertion(at(line, 27))}}
		if seen[key] {
			continue
		}
		seen[key] = true
		missing = append(missing, MissingAnnotation{
			Chain:     ident,
			Number:    num,
			Insertion: key.icode,
			Name:      mods.abbrev(ident, resName),
		})
	}
	return missing
}

// readModres reads MODRES records into a map from modified residue names to
// standard residue names, per chain.
//
//	MODRES 1ABC MSE A   32  MET  SELENOMETHIONINE
func readModres(lines iter.Seq[string]) modres {
	mods := make(modres)
	for line := range lines {
		from, std := cols(line, 13, 15), cols(line, 25, 27)
		if len(from) == 0 || len(std) == 0 {
			continue
		}
		mods[modification{chainIdent(at(line, 17)), from}] = std
	}
	return mods
}

func isAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !(b >= 'A' && b <= 'Z') && !(b >= '0' && b <= '9') {
			return false
		}
	}
	return true
}
