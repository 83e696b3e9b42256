package pdb

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/TuftsBCB/seq"
	"github.com/TuftsBCB/structure"
)

// Assembly is everything this package knows about a single PDB entry: its
// chains in COMPND order, each with a reconciled residue ledger, and any
// anomalies found along the way.
//
// An Assembly is never modified after it is returned.
type Assembly struct {
	ID       string    `json:"id"`
	Chains   []*Chain  `json:"chains"`
	Warnings []Warning `json:"warnings"`
}

// Chain is a polymer chain and its ledger: one Residue for every residue
// number (and insertion code) between the first and last declared residue,
// in increasing order.
type Chain struct {
	Ident    string    `json:"chain"`
	Compound string    `json:"compound"`
	Residues []Residue `json:"residues"`
}

// Residue is one entry of a chain's ledger. Ca is nil if and only if
// Present is false.
//
// Insertion is the insertion code of the residue, or zero if it has none.
// An Implicit residue only fills a residue number that the author's
// numbering skipped; it is never present and is not part of the chain's
// sequence.
type Residue struct {
	Number    int
	Insertion byte
	Name      seq.Residue
	Present   bool
	Implicit  bool
	Ca        *structure.Coords
}

// ID returns the residue number followed by its insertion code, e.g. "52A".
func (r Residue) ID() string {
	return seqNum{r.Number, r.Insertion}.String()
}

// Chain returns the chain with the given identifier.
// If such a chain does not exist, nil is returned.
func (a *Assembly) Chain(ident string) *Chain {
	for _, c := range a.Chains {
		if c.Ident == ident {
			return c
		}
	}
	return nil
}

// Idents returns the chain identifiers in COMPND order.
func (a *Assembly) Idents() []string {
	ids := make([]string, len(a.Chains))
	for i, c := range a.Chains {
		ids[i] = c.Ident
	}
	return ids
}

// String returns a FASTA-like summary of every chain.
func (a *Assembly) String() string {
	lines := make([]string, 0, len(a.Chains))
	for _, c := range a.Chains {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, "\n")
}

// Sequence returns the residues of the ledger as a sequence. Residues
// without coordinates are in lower case. Implicit residues are skipped.
func (c *Chain) Sequence() seq.Sequence {
	rs := make([]seq.Residue, 0, len(c.Residues))
	for _, r := range c.Residues {
		switch {
		case r.Implicit:
		case r.Present:
			rs = append(rs, r.Name)
		default:
			rs = append(rs, seq.Residue(unicode.ToLower(rune(r.Name))))
		}
	}
	return seq.Sequence{Name: c.Ident, Residues: rs}
}

// Gapped is like Sequence, except residues without coordinates are '-'.
func (c *Chain) Gapped() seq.Sequence {
	rs := make([]seq.Residue, 0, len(c.Residues))
	for _, r := range c.Residues {
		switch {
		case r.Implicit:
		case r.Present:
			rs = append(rs, r.Name)
		default:
			rs = append(rs, '-')
		}
	}
	return seq.Sequence{Name: c.Ident, Residues: rs}
}

// CaAtoms returns the coordinates of every present residue, in order.
func (c *Chain) CaAtoms() []structure.Coords {
	cas := make([]structure.Coords, 0, len(c.Residues))
	for _, r := range c.Residues {
		if r.Present {
			cas = append(cas, *r.Ca)
		}
	}
	return cas
}

// Missing returns the residues of the ledger without coordinates, not
// counting implicit ones.
func (c *Chain) Missing() []Residue {
	var missing []Residue
	for _, r := range c.Residues {
		if !r.Present && !r.Implicit {
			missing = append(missing, r)
		}
	}
	return missing
}

// Span returns the first and last residue numbers of the ledger. Both are
// zero for an empty ledger.
func (c *Chain) Span() (first, last int) {
	if len(c.Residues) == 0 {
		return 0, 0
	}
	return c.Residues[0].Number, c.Residues[len(c.Residues)-1].Number
}

// String returns a FASTA-like formatted string of this chain.
func (c *Chain) String() string {
	first, last := c.Span()
	s := c.Sequence()
	return fmt.Sprintf("> Chain %s (%d, %d) :: %s :: length %d, missing %d\n%s",
		c.Ident, first, last, c.Compound, len(s.Residues), len(c.Missing()),
		residueString(s.Residues))
}

func residueString(rs []seq.Residue) string {
	bs := make([]byte, len(rs))
	for i, r := range rs {
		bs[i] = byte(r)
	}
	return string(bs)
}
