// Package report runs a structure through reconciliation and, optionally,
// mer partitioning, and renders the result.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/TuftsBCB/pdbmissing/fasta"
	"github.com/TuftsBCB/pdbmissing/pdb"
	"github.com/TuftsBCB/seq"
)

// Options for Build. A zero Mers skips partitioning.
type Options struct {
	Mers           int
	StrictMonomer  bool
	Representative string
	Log            *slog.Logger
}

// Report is the outcome for a single structure.
type Report struct {
	Assembly  *pdb.Assembly     `json:"assembly"`
	Partition *pdb.Partitioning `json:"partition,omitempty"`

	// Set when partitioning was asked for and failed. The Assembly is
	// still complete.
	PartitionErr   error  `json:"-"`
	PartitionError string `json:"partition_error,omitempty"`
}

// Build reconciles the lines of one PDB file. The only error is a
// *pdb.Error from the parse stage. A failed partition is recorded in the
// Report as a *pdb.Error from the partition stage.
func Build(id string, lines []string, opts Options) (*Report, error) {
	a, err := pdb.ParseAndReconcile(id, lines, pdb.Options{
		Representative: opts.Representative,
		Log:            opts.Log,
	})
	if err != nil {
		return nil, err
	}
	r := &Report{Assembly: a}
	if opts.Mers == 0 {
		return r, nil
	}
	p, err := pdb.Partition(a, opts.Mers, pdb.PartitionOptions{
		StrictMonomer: opts.StrictMonomer,
		Log:           opts.Log,
	})
	if err != nil {
		r.PartitionErr = &pdb.Error{ID: id, Stage: pdb.StagePartition, Err: err}
		r.PartitionError = err.Error()
		return r, nil
	}
	r.Partition = p
	return r, nil
}

// Sequences returns the gapped sequence of every chain to report on, named
// after the structure and chain. When the structure was partitioned, only
// chains in a mer are included.
func (r *Report) Sequences() []seq.Sequence {
	var seqs []seq.Sequence
	add := func(group int, c *pdb.Chain) {
		s := c.Gapped()
		first, last := c.Span()
		name := fmt.Sprintf("%s %s (%d, %d) :: %s", r.Assembly.ID, c.Ident,
			first, last, c.Compound)
		if group >= 0 {
			name = fmt.Sprintf("%s :: mer %d", name, group+1)
		}
		s.Name = name
		seqs = append(seqs, s)
	}
	if r.Partition == nil {
		for _, c := range r.Assembly.Chains {
			add(-1, c)
		}
		return seqs
	}
	for _, g := range r.Partition.Groups {
		for _, c := range g.Chains {
			add(g.Index, c)
		}
	}
	return seqs
}

// Format names an output format of Write.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatFasta Format = "fasta"
)

// ParseFormat returns the format with the name given.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatFasta:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format '%s' (want text, json "+
		"or fasta)", s)
}

// Write renders the report to w.
func (r *Report) Write(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatFasta:
		return fasta.NewWriter(w).WriteAll(r.Sequences())
	}
	return r.writeText(w)
}

func (r *Report) writeText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Assembly)
	for _, c := range r.Assembly.Chains {
		missing := c.Missing()
		if len(missing) == 0 {
			continue
		}
		nums := make([]string, len(missing))
		for i, res := range missing {
			nums[i] = fmt.Sprintf("%c%s", res.Name, res.ID())
		}
		fmt.Fprintf(&b, "# %s %s missing: %s\n", r.Assembly.ID, c.Ident,
			strings.Join(nums, " "))
	}
	if r.Partition != nil {
		for _, g := range r.Partition.Groups {
			fmt.Fprintf(&b, "# %s mer %d: %s\n", r.Assembly.ID, g.Index+1,
				strings.Join(g.Idents(), " "))
		}
	}
	for _, warn := range r.Assembly.Warnings {
		fmt.Fprintf(&b, "# warning: %s\n", warn)
	}
	if r.Partition != nil {
		for _, warn := range r.Partition.Warnings {
			fmt.Fprintf(&b, "# warning: %s\n", warn)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
