package pdb

import (
	"fmt"
	"iter"
	"strings"
)

// ChainRecord associates a chain identifier with the name of the compound
// (the MOLECULE token of a COMPND record) it belongs to.
type ChainRecord struct {
	Ident    string `json:"chain"`
	Compound string `json:"compound"`
}

// ChainIndex maps chain identifiers to compounds. The order of chains is
// the order in which they first appear in the COMPND records, and this is
// the order used for everything else in this package.
type ChainIndex struct {
	chains []ChainRecord
	pos    map[string]int
}

// NewChainIndex builds a chain index from COMPND records.
//
// An error wrapping ErrMalformedHeader is returned if the records cannot be
// decomposed into "KEY: value;" tokens or if no chain is declared at all.
// When a chain identifier appears under more than one molecule, the first
// one wins.
func NewChainIndex(compnd iter.Seq[string]) (*ChainIndex, error) {
	return newChainIndex(compnd, newReporter(nil))
}

// compound is one MOL_ID block of the COMPND records.
type compound struct {
	name   string
	chains []string
}

func newChainIndex(compnd iter.Seq[string], rep *reporter) (*ChainIndex, error) {
	// Tokens may be continued over several records, so we glue all
	// of the text together before looking for tokens. The text is in columns
	// 11-80.
	var text []string
	for line := range compnd {
		if t := cols(line, 11, 80); len(t) > 0 {
			text = append(text, t)
		}
	}
	if len(text) == 0 {
		return nil, fmt.Errorf("%w: there are no COMPND records", ErrMalformedHeader)
	}

	var mols []*compound
	cur := func() *compound {
		if len(mols) == 0 {
			mols = append(mols, &compound{})
		}
		return mols[len(mols)-1]
	}
	for _, tok := range strings.Split(strings.Join(text, " "), ";") {
		tok = strings.TrimSpace(tok)
		if len(tok) == 0 {
			continue
		}
		key, val, ok := strings.Cut(tok, ":")
		if !ok {
			return nil, fmt.Errorf("%w: token '%s' is not of the form "+
				"'KEY: value'", ErrMalformedHeader, tok)
		}
		key, val = strings.ToUpper(strings.TrimSpace(key)), strings.TrimSpace(val)
		switch key {
		case "MOL_ID":
			mols = append(mols, &compound{})
		case "MOLECULE":
			cur().name = val
		case "CHAIN":
			ids, err := splitChainIds(val)
			if err != nil {
				return nil, err
			}
			mol := cur()
			mol.chains = append(mol.chains, ids...)
		}
	}

	idx := &ChainIndex{pos: make(map[string]int, 4)}
	for _, mol := range mols {
		for _, ident := range mol.chains {
			if i, ok := idx.pos[ident]; ok {
				rep.warnf(WarnDuplicateChain, ident,
					"chain declared again for '%s'; keeping '%s'",
					mol.name, idx.chains[i].Compound)
				continue
			}
			idx.pos[ident] = len(idx.chains)
			idx.chains = append(idx.chains,
				ChainRecord{Ident: ident, Compound: mol.name})
		}
	}
	if len(idx.chains) == 0 {
		return nil, fmt.Errorf("%w: no CHAIN token found", ErrMalformedHeader)
	}
	return idx, nil
}

// splitChainIds decomposes the value of a CHAIN token, like "A, C".
// Chain identifiers are one character wide in every other record, so longer
// ones are rejected.
func splitChainIds(val string) ([]string, error) {
	var ids []string
	for _, ident := range strings.Split(val, ",") {
		ident = strings.TrimSpace(ident)
		if len(ident) != 1 {
			return nil, fmt.Errorf("%w: bad chain identifier '%s' in 'CHAIN: %s'",
				ErrMalformedHeader, ident, val)
		}
		ids = append(ids, ident)
	}
	return ids, nil
}

// Len returns the number of chains.
func (idx *ChainIndex) Len() int {
	return len(idx.chains)
}

// Chains returns the chains in canonical order.
func (idx *ChainIndex) Chains() []ChainRecord {
	return append([]ChainRecord(nil), idx.chains...)
}

// Has returns true if ident names a chain in the index.
func (idx *ChainIndex) Has(ident string) bool {
	_, ok := idx.pos[ident]
	return ok
}

// Compound returns the compound name of the chain given.
func (idx *ChainIndex) Compound(ident string) (string, bool) {
	i, ok := idx.pos[ident]
	if !ok {
		return "", false
	}
	return idx.chains[i].Compound, true
}

// Idents returns the chain identifiers in canonical order.
func (idx *ChainIndex) Idents() []string {
	ids := make([]string, len(idx.chains))
	for i, c := range idx.chains {
		ids[i] = c.Ident
	}
	return ids
}
