package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/TuftsBCB/pdbmissing/internal/report"
	"github.com/TuftsBCB/pdbmissing/pdb"
	"github.com/TuftsBCB/pdbmissing/source"
)

type runner struct {
	src     source.Source
	timeout time.Duration
	workers int
	format  report.Format
	opts    report.Options
	log     *slog.Logger
}

// result is sent from a worker for every structure.
type result struct {
	index int
	rep   *report.Report
	err   error
}

// run processes every structure and writes the reports to w in the order
// given. It returns the number of structures that failed.
func (r runner) run(ctx context.Context, idents []string, w io.Writer) int {
	workers := r.workers
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int, len(idents))
	results := make(chan result, len(idents))
	for i := 0; i < workers; i++ {
		go r.worker(ctx, idents, jobs, results)
	}
	for i := range idents {
		jobs <- i
	}
	close(jobs)

	reports := make([]result, len(idents))
	for range idents {
		res := <-results
		reports[res.index] = res
	}

	failed := 0
	for _, res := range reports {
		if res.err != nil {
			failed++
			r.reportError(res.err)
			continue
		}
		if err := res.rep.Write(w, r.format); err != nil {
			r.log.Error("cannot write report", "error", err)
			failed++
			continue
		}
		if res.rep.PartitionErr != nil {
			failed++
			r.reportError(res.rep.PartitionErr)
		}
	}
	return failed
}

// worker processes structures until jobs is closed.
func (r runner) worker(ctx context.Context, idents []string, jobs <-chan int,
	results chan<- result) {

	for i := range jobs {
		rep, err := r.process(ctx, idents[i])
		results <- result{index: i, rep: rep, err: err}
	}
}

func (r runner) process(ctx context.Context, ident string) (*report.Report, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	lines, err := r.src.Lines(ctx, ident)
	if err != nil {
		return nil, &pdb.Error{ID: ident, Stage: pdb.StageFetch, Err: err}
	}
	return report.Build(ident, lines, r.opts)
}

func (r runner) reportError(err error) {
	var perr *pdb.Error
	if errors.As(err, &perr) {
		r.log.Error("structure failed", "structure", perr.ID,
			"stage", string(perr.Stage), "error", perr.Err)
		return
	}
	r.log.Error("structure failed", "error", err)
}
