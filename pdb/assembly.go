package pdb

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/TuftsBCB/seq"
)

// Options control how a structure is read. The zero value is ready to use.
type Options struct {
	// The name of the atom picked to represent each residue.
	// When empty, DefaultRepresentative is used.
	Representative string

	// Where diagnostics go. When nil, they are discarded (warnings are still
	// recorded in the Assembly).
	Log *slog.Logger
}

// ParseAndReconcile reads the lines of a single PDB file and returns the
// reconciled ledger of every chain. The id is only used to identify the
// structure in the result and in errors.
//
// The only failure is a set of COMPND records that does not establish chain
// identity, in which case the error is an *Error wrapping
// ErrMalformedHeader. Everything else that looks wrong in the file is a
// warning recorded in the returned Assembly.
//
// ParseAndReconcile does no I/O and holds on to nothing after it returns,
// so it is safe to call concurrently on different inputs.
func ParseAndReconcile(id string, lines []string, opts Options) (*Assembly, error) {
	representative := opts.Representative
	if len(representative) == 0 {
		representative = DefaultRepresentative
	}
	rep := newReporter(opts.Log)
	rep.log = rep.log.With("structure", id)
	log := rep.log

	records := ReadRecords(lines)
	idx, err := newChainIndex(records.Compounds, rep)
	if err != nil {
		return nil, &Error{ID: id, Stage: StageParse, Err: err}
	}
	idents := idx.Idents()
	log.Info("detected chains", "chains", strings.Join(idents, " "))
	if idx.Len() > 1 {
		log.Info("structure has more than one chain; partition it with a "+
			"mer count to pick a biological unit", "first", idents[0])
	}

	mods := readModres(records.Modres)
	log.Info("retrieving representative atoms", "atom", representative)
	atoms := extractAtoms(records.Coords, idx, mods, representative, rep)
	missing := readMissing(records.Missing, idx, mods)
	seqres := readSeqres(records.Seqres, idx, mods)

	// SEQRES has no residue numbers of its own, so they are derived from
	// what we know about the residues that were observed.
	var declared []DeclaredResidue
	for _, ident := range idents {
		if len(seqres[ident]) == 0 {
			continue
		}
		declared = append(declared,
			numberSeqres(ident, seqres[ident],
				observed(ident, atoms, missing), rep)...)
	}

	log.Info("checking for missing residues",
		"atoms", len(atoms), "missing", len(missing), "declared", len(declared))
	chains := reconcile(idx, Observations{
		Declared: declared,
		Missing:  missing,
		Atoms:    atoms,
	}, rep)
	return &Assembly{ID: id, Chains: chains, Warnings: rep.warnings}, nil
}

// observed returns the residues of one chain referred to by REMARK 465 and
// ATOM records, sorted by residue number and insertion code. The REMARK 465
// type wins ties.
func observed(ident string, atoms []AtomSample,
	missing []MissingAnnotation) []observedResidue {

	names := make(map[seqNum]seq.Residue)
	for _, a := range atoms {
		if a.Chain == ident {
			names[seqNum{a.Number, a.Insertion}] = a.Name
		}
	}
	for _, m := range missing {
		if m.Chain == ident {
			names[seqNum{m.Number, m.Insertion}] = m.Name
		}
	}
	obs := make([]observedResidue, 0, len(names))
	for k, name := range names {
		obs = append(obs, observedResidue{k, name})
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].less(obs[j].seqNum) })
	return obs
}
