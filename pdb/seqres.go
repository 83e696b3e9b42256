package pdb

import (
	"iter"

	"github.com/TuftsBCB/seq"
)

// DeclaredResidue is a residue of the full sequence of a chain as declared
// in SEQRES, along with the residue number it was assigned.
type DeclaredResidue struct {
	Chain     string
	Number    int
	Insertion byte
	Name      seq.Residue
}

// readSeqres loads the residues from SEQRES records for every chain in the
// index. The residues of a chain are in columns 20-22, 24-26, ..., 68-70.
//
// N.B. This assumes that the SEQRES records of a chain are in order, which
// they always are in files from the PDB.
func readSeqres(lines iter.Seq[string], idx *ChainIndex,
	mods modres) map[string][]seq.Residue {

	seqres := make(map[string][]seq.Residue, idx.Len())
	for line := range lines {
		ident := chainIdent(at(line, 12))
		if !idx.Has(ident) {
			continue
		}
		for c := 20; c <= 68; c += 4 {
			res := cols(line, c, c+2)
			if len(res) == 0 {
				break
			}
			seqres[ident] = append(seqres[ident], mods.abbrev(ident, res))
		}
	}
	return seqres
}

// numberSeqres assigns residue numbers (and insertion codes) to the SEQRES
// residues of one chain.
//
// SEQRES records carry no residue numbers, while ATOM and REMARK 465 records
// use the author's numbering, which need not start at 1, may skip numbers and
// may use insertion codes. So SEQRES residues are first mapped to the
// observed residues (see mapSeqres), and each mapped residue takes the number
// of the residue it was mapped to. The residues in between are numbered from
// their mapped neighbors. If nothing was observed, residues are numbered
// from 1.
//
// observed must be sorted by residue number and insertion code.
func numberSeqres(ident string, seqres []seq.Residue, observed []observedResidue,
	rep *reporter) []DeclaredResidue {

	mapping, aligned := mapSeqres(seqres, observed)
	if aligned {
		rep.warnf(WarnAlignedSeqres, ident,
			"SEQRES does not contain the observed residues run by run; "+
				"numbered by sequence alignment instead")
	}

	keys := make([]seqNum, len(seqres))
	mapped := make([]bool, len(seqres))
	used := make(map[seqNum]bool, len(observed))
	for _, o := range observed {
		used[o.seqNum] = true
	}
	firstMapped := -1
	for i, oi := range mapping {
		if oi < 0 {
			continue
		}
		keys[i], mapped[i] = observed[oi].seqNum, true
		if firstMapped < 0 {
			firstMapped = i
		}
	}

	switch {
	case firstMapped < 0:
		for i := range keys {
			keys[i] = seqNum{num: i + 1}
		}
	default:
		next := keys[firstMapped]
		for i := firstMapped - 1; i >= 0; i-- {
			next = freeBefore(next, used)
			keys[i] = next
		}
		prev := keys[firstMapped]
		for i := firstMapped + 1; i < len(keys); i++ {
			if mapped[i] {
				prev = keys[i]
				continue
			}
			bound, bounded := nextMapped(keys, mapped, i)
			prev = freeAfter(prev, bound, bounded, used)
			keys[i] = prev
		}
	}

	declared := make([]DeclaredResidue, len(seqres))
	for i, r := range seqres {
		declared[i] = DeclaredResidue{
			Chain:     ident,
			Number:    keys[i].num,
			Insertion: keys[i].icode,
			Name:      r,
		}
	}
	return declared
}

func nextMapped(keys []seqNum, mapped []bool, from int) (seqNum, bool) {
	for i := from; i < len(keys); i++ {
		if mapped[i] {
			return keys[i], true
		}
	}
	return seqNum{}, false
}

// freeBefore returns the closest unused residue number below k.
func freeBefore(k seqNum, used map[seqNum]bool) seqNum {
	cand := seqNum{num: k.num - 1}
	for used[cand] {
		cand.num--
	}
	return cand
}

// freeAfter returns the closest unused residue number after prev and, when
// bounded, before bound. If every number up to bound is taken, the next free
// insertion code of prev is used. As a last resort prev itself is returned,
// which shows up as a duplicate SEQRES residue.
func freeAfter(prev, bound seqNum, bounded bool,
	used map[seqNum]bool) seqNum {

	cand := seqNum{num: prev.num + 1}
	for used[cand] {
		cand.num++
	}
	if !bounded || cand.less(bound) {
		return cand
	}

	icode := byte('A')
	if prev.icode != 0 {
		icode = prev.icode + 1
	}
	for ; icode <= 'Z'; icode++ {
		cand = seqNum{prev.num, icode}
		if !cand.less(bound) {
			break
		}
		if !used[cand] {
			return cand
		}
	}
	return prev
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
