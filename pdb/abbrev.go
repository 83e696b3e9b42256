package pdb

import (
	"github.com/TuftsBCB/seq"
)

var aminoMap = map[string]seq.Residue{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
	"UNK": 'X', "ACE": 'X', "NH2": 'X',
	"ASX": 'X', "GLX": 'X',
	"MSE": 'M', "CSA": 'C', "LLP": 'K', "CSW": 'C', "STE": 'X',
}

var deoxyMap = map[string]seq.Residue{
	"DA": 'A', "DC": 'C', "DG": 'G', "DT": 'T', "DI": 'I', "DU": 'U',
}

var riboMap = map[string]seq.Residue{
	"A": 'A', "C": 'C', "G": 'G', "U": 'U', "I": 'I',
}

// modres maps (chain, non-standard residue name) to the standard residue
// name given in MODRES records.
type modres map[modification]string

type modification struct {
	chain string
	from  string
}

// abbrev translates a residue name as found in SEQRES, REMARK 465 or ATOM
// records into its one letter code. MODRES translations for the chain take
// precedence. Unknown residues become 'X'.
func (mods modres) abbrev(chain, name string) seq.Residue {
	if std, ok := mods[modification{chain, name}]; ok {
		name = std
	}
	if r, ok := aminoMap[name]; ok {
		return r
	}
	if r, ok := deoxyMap[name]; ok {
		return r
	}
	if r, ok := riboMap[name]; ok {
		return r
	}
	return 'X'
}

// polymer reports whether name is a residue that belongs in a polymer
// chain. This keeps ions like calcium (whose atom is also named "CA") and
// waters out of the coordinate set.
func (mods modres) polymer(chain, name string) bool {
	if _, ok := mods[modification{chain, name}]; ok {
		return true
	}
	if _, ok := aminoMap[name]; ok {
		return true
	}
	if _, ok := deoxyMap[name]; ok {
		return true
	}
	_, ok := riboMap[name]
	return ok
}
