package pdb

import (
	"log/slog"
	"sort"

	"github.com/TuftsBCB/seq"
)

// Observations are the three independently recorded views of the residues
// of a structure: the declared sequence (SEQRES), the residues explicitly
// reported as missing (REMARK 465) and the residues with a representative
// atom (ATOM).
type Observations struct {
	Declared []DeclaredResidue
	Missing  []MissingAnnotation
	Atoms    []AtomSample
}

// Reconcile merges the observations of every chain in idx into a ledger.
// Chains are returned in index order. Observations for chains not in the
// index are ignored.
//
// Residues are identified by their number and insertion code. For each
// chain, the ledger has an entry for every declared residue, in order. If a
// chain has no declared residues, the residues are inferred from its atoms
// and missing residues instead. Observed residues inside the declared span
// that were not declared are added (and reported). Residue numbers skipped
// between two entries get an entry of their own, so that the numbers of the
// ledger never jump: when the chain has declared residues, such an entry is
// Implicit (it stands for no residue of the chain), otherwise it is an
// unknown residue that is not present.
//
// A residue is present if and only if it has an atom and is not listed as
// missing: an explicit REMARK 465 entry always beats a stray ATOM record.
//
// The residue type comes from the declared sequence if possible, then the
// missing residue record, then the atom record. Disagreements are reported
// as warnings, as are observations that fall outside of the declared span.
// Reconcile never fails and never modifies obs.
func Reconcile(idx *ChainIndex, obs Observations,
	log *slog.Logger) ([]*Chain, []Warning) {

	rep := newReporter(log)
	chains := reconcile(idx, obs, rep)
	return chains, rep.warnings
}

func reconcile(idx *ChainIndex, obs Observations, rep *reporter) []*Chain {
	chains := make([]*Chain, 0, idx.Len())
	for _, rec := range idx.chains {
		chains = append(chains, reconcileChain(rec, obs, rep))
	}
	return chains
}

func reconcileChain(rec ChainRecord, obs Observations, rep *reporter) *Chain {
	ident := rec.Ident
	chain := &Chain{Ident: ident, Compound: rec.Compound}

	declared := make(map[seqNum]DeclaredResidue)
	var keys []seqNum
	for _, d := range obs.Declared {
		if d.Chain != ident {
			continue
		}
		k := seqNum{d.Number, d.Insertion}
		if prev, ok := declared[k]; ok {
			rep.residuef(WarnDuplicateSeq, ident, k,
				"residue declared more than once; keeping %c over %c",
				prev.Name, d.Name)
			continue
		}
		declared[k] = d
		keys = append(keys, k)
	}

	// Observed residues in file order, without duplicates.
	var seen []seqNum
	missing := make(map[seqNum]MissingAnnotation)
	for _, m := range obs.Missing {
		k := seqNum{m.Number, m.Insertion}
		if _, ok := missing[k]; m.Chain == ident && !ok {
			missing[k] = m
			seen = append(seen, k)
		}
	}
	atoms := make(map[seqNum]AtomSample)
	for _, a := range obs.Atoms {
		k := seqNum{a.Number, a.Insertion}
		if _, ok := atoms[k]; a.Chain == ident && !ok {
			atoms[k] = a
			if _, ok := missing[k]; !ok {
				seen = append(seen, k)
			}
		}
	}

	inferred := len(keys) == 0
	if inferred {
		keys = seen
	}
	if len(keys) == 0 {
		return chain
	}
	sortKeys(keys)

	if !inferred {
		first, last := keys[0], keys[len(keys)-1]
		outside := func(k seqNum) bool {
			return k.less(first) || last.less(k)
		}
		for _, a := range obs.Atoms {
			k := seqNum{a.Number, a.Insertion}
			if a.Chain == ident && outside(k) {
				rep.residuef(WarnOutsideSpan, ident, k,
					"atom outside of the declared residues %s-%s is ignored",
					first, last)
			}
		}
		for _, m := range obs.Missing {
			k := seqNum{m.Number, m.Insertion}
			if m.Chain == ident && outside(k) {
				rep.residuef(WarnOutsideSpan, ident, k,
					"missing residue outside of the declared residues %s-%s "+
						"is ignored", first, last)
			}
		}
		undeclared := false
		for _, k := range seen {
			if _, ok := declared[k]; ok || outside(k) {
				continue
			}
			rep.residuef(WarnUndeclared, ident, k,
				"residue is not in SEQRES; adding it to the ledger")
			keys = append(keys, k)
			undeclared = true
		}
		if undeclared {
			sortKeys(keys)
		}
	}

	chain.Residues = make([]Residue, 0, len(keys))
	for i, k := range keys {
		if i > 0 {
			for num := keys[i-1].num + 1; num < k.num; num++ {
				chain.Residues = append(chain.Residues,
					Residue{Number: num, Name: 'X', Implicit: !inferred})
			}
		}

		d, hasDecl := declared[k]
		m, hasMiss := missing[k]
		a, hasAtom := atoms[k]

		r := Residue{Number: k.num, Insertion: k.icode, Name: 'X'}
		switch {
		case hasDecl:
			r.Name = d.Name
		case hasMiss:
			r.Name = m.Name
		case hasAtom:
			r.Name = a.Name
		}
		if (hasMiss && m.Name != r.Name) || (hasAtom && a.Name != r.Name) {
			rep.residuef(WarnTypeMismatch, ident, k,
				"residue types disagree (SEQRES %s, REMARK 465 %s, ATOM %s); "+
					"using %c",
				nameOr(d.Name, hasDecl), nameOr(m.Name, hasMiss),
				nameOr(a.Name, hasAtom), r.Name)
		}

		switch {
		case hasAtom && hasMiss:
			rep.residuef(WarnMissingHasAtom, ident, k,
				"residue is listed in REMARK 465 but has an ATOM record; "+
					"treating it as missing")
		case hasAtom:
			ca := a.Coords
			r.Present, r.Ca = true, &ca
		}
		chain.Residues = append(chain.Residues, r)
	}
	return chain
}

func sortKeys(keys []seqNum) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
}

func nameOr(r seq.Residue, ok bool) string {
	if !ok {
		return "-"
	}
	return string(rune(r))
}
