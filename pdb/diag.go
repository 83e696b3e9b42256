package pdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// LevelCritical is used for events that stop a processing step, like a mer
// partition that cannot be determined. It sits above slog.LevelError.
const LevelCritical = slog.Level(12)

// WarningKind classifies a recoverable anomaly found while reading or
// partitioning a structure.
type WarningKind string

const (
	WarnUnknownChain   WarningKind = "unknown-chain"
	WarnDuplicateChain WarningKind = "duplicate-chain"
	WarnBadRecord      WarningKind = "bad-record"
	WarnTypeMismatch   WarningKind = "type-mismatch"
	WarnMissingHasAtom WarningKind = "missing-has-atom"
	WarnOutsideSpan    WarningKind = "outside-span"
	WarnDuplicateSeq   WarningKind = "duplicate-seqres"
	WarnAlignedSeqres  WarningKind = "aligned-seqres"
	WarnUndeclared     WarningKind = "undeclared-residue"
	WarnHeuristicSplit WarningKind = "heuristic-split"
	WarnForcedMonomer  WarningKind = "forced-monomer"
)

// Warning is a recoverable anomaly. Chain is empty when the warning is not
// about a particular chain, and Number is nil when it is not about a
// particular residue. (Residue number 0 is legal in PDB files.) Insertion
// is the insertion code of the residue, if it has one.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	Chain     string      `json:"chain,omitempty"`
	Number    *int        `json:"number,omitempty"`
	Insertion string      `json:"insertion,omitempty"`
	Msg       string      `json:"msg"`
}

func (w Warning) String() string {
	switch {
	case w.Chain != "" && w.Number != nil:
		return fmt.Sprintf("[%s] %s:%d%s %s",
			w.Kind, w.Chain, *w.Number, w.Insertion, w.Msg)
	case w.Chain != "":
		return fmt.Sprintf("[%s] %s %s", w.Kind, w.Chain, w.Msg)
	}
	return fmt.Sprintf("[%s] %s", w.Kind, w.Msg)
}

// reporter collects warnings and mirrors each one to the logger.
type reporter struct {
	log      *slog.Logger
	warnings []Warning
}

func newReporter(log *slog.Logger) *reporter {
	if log == nil {
		log = discard
	}
	return &reporter{log: log}
}

// warnf records a warning about a chain (or the whole structure when chain
// is empty).
func (r *reporter) warnf(kind WarningKind, chain string,
	format string, v ...interface{}) {

	r.add(Warning{Kind: kind, Chain: chain, Msg: fmt.Sprintf(format, v...)})
}

// residuef records a warning about a single residue.
func (r *reporter) residuef(kind WarningKind, chain string, k seqNum,
	format string, v ...interface{}) {

	w := Warning{Kind: kind, Chain: chain, Number: &k.num,
		Msg: fmt.Sprintf(format, v...)}
	if k.icode != 0 {
		w.Insertion = string(rune(k.icode))
	}
	r.add(w)
}

func (r *reporter) add(w Warning) {
	r.warnings = append(r.warnings, w)

	attrs := []interface{}{"kind", string(w.Kind)}
	if w.Chain != "" {
		attrs = append(attrs, "chain", w.Chain)
	}
	if w.Number != nil {
		attrs = append(attrs, "residue",
			fmt.Sprintf("%d%s", *w.Number, w.Insertion))
	}
	r.log.Warn(w.Msg, attrs...)
}

func (r *reporter) critical(msg string, args ...interface{}) {
	r.log.Log(context.Background(), LevelCritical, msg, args...)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
