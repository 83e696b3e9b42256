package pdb

import (
	"fmt"
	"log/slog"
)

// MerGroup is one biological unit of an assembly: a set of chains, in
// COMPND order.
type MerGroup struct {
	Index  int
	Chains []*Chain
}

// Idents returns the identifiers of the chains in the group.
func (g MerGroup) Idents() []string {
	ids := make([]string, len(g.Chains))
	for i, c := range g.Chains {
		ids[i] = c.Ident
	}
	return ids
}

// Partitioning is the result of dividing an assembly into mers.
type Partitioning struct {
	Groups []MerGroup `json:"groups"`

	// Heuristic is true when the chains were split into contiguous runs
	// according to COMPND order. Nothing verifies that the order of chains
	// reflects the biological grouping.
	Heuristic bool `json:"heuristic"`

	Warnings []Warning `json:"warnings"`
}

// PartitionOptions control the policy of Partition for ambiguous requests.
type PartitionOptions struct {
	// When set, asking for a single mer from a multi-chain assembly fails
	// with ErrForcedMonomer instead of picking the first chain.
	StrictMonomer bool

	Log *slog.Logger
}

// Partition divides the chains of an assembly into m biological units.
// With n chains:
//
//	m == n           one chain per unit
//	m == 1, n != 1   a single unit with the first chain (and a warning)
//	m < n, n%m == 0  m contiguous units of n/m chains (and a warning)
//	m < n, n%m != 0  ErrAmbiguousAssembly
//	m > n            ErrIncompleteAssembly
//
// An error from Partition says nothing about the validity of the assembly
// itself, which is never modified.
func Partition(a *Assembly, m int, opts PartitionOptions) (*Partitioning, error) {
	rep := newReporter(opts.Log)
	rep.log = rep.log.With("structure", a.ID)

	n := len(a.Chains)
	rep.log.Info("multimeric option chosen", "mers", m, "chains", n)
	switch {
	case m <= 0:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMerCount, m)
	case m > n:
		rep.critical("structure contains fewer chains than the requested "+
			"mers; assuming an incomplete structure", "mers", m, "chains", n)
		return nil, fmt.Errorf("%w: %d mers requested but '%s' has %d chains",
			ErrIncompleteAssembly, m, a.ID, n)
	case m == n:
		return &Partitioning{Groups: split(a.Chains, n)}, nil
	case m == 1:
		if opts.StrictMonomer {
			rep.critical("monomer requested for a multi-chain structure",
				"chains", n)
			return nil, fmt.Errorf("%w: '%s' has %d chains",
				ErrForcedMonomer, a.ID, n)
		}
		rep.warnf(WarnForcedMonomer, "",
			"assuming a monomeric assembly; only chain %s of %d chains is used",
			a.Chains[0].Ident, n)
		return &Partitioning{
			Groups:   []MerGroup{{Index: 0, Chains: a.Chains[:1:1]}},
			Warnings: rep.warnings,
		}, nil
	case n%m != 0:
		rep.critical("cannot determine the biological assembly; provide "+
			"your own chain mapping", "mers", m, "chains", n)
		return nil, fmt.Errorf("%w: %d chains cannot be split into %d mers",
			ErrAmbiguousAssembly, n, m)
	}
	rep.warnf(WarnHeuristicSplit, "",
		"structure contains more than one biological assembly; splitting "+
			"%d chains into %d mers of %d chains in COMPND order", n, m, n/m)
	return &Partitioning{
		Groups:    split(a.Chains, m),
		Heuristic: true,
		Warnings:  rep.warnings,
	}, nil
}

// split divides chains into m contiguous groups of equal size.
// len(chains) must be a multiple of m.
func split(chains []*Chain, m int) []MerGroup {
	size := len(chains) / m
	groups := make([]MerGroup, m)
	for i := range groups {
		lo, hi := i*size, (i+1)*size
		groups[i] = MerGroup{Index: i, Chains: chains[lo:hi:hi]}
	}
	return groups
}
