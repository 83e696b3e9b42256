package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultMirrors are tried in order by a Remote with no mirrors of its own.
var DefaultMirrors = []string{
	"https://files.rcsb.org/download/{id}.pdb.gz",
	"https://www.ebi.ac.uk/pdbe/entry-files/download/pdb{id}.ent",
}

// Remote fetches PDB files by accession code.
type Remote struct {
	// URL templates, where "{id}" is replaced by the lower case accession
	// code. Responses may be gzipped or not.
	Mirrors []string

	// When nil, http.DefaultClient is used.
	Client *http.Client

	// The most bytes read from a response, and the most bytes it may
	// decompress to. When zero, DefaultMaxDecoded is used.
	MaxBytes int64

	// When nil, nothing is logged.
	Log *slog.Logger
}

// NewRemote returns a Remote using the mirrors given, or DefaultMirrors if
// there are none.
func NewRemote(log *slog.Logger, mirrors ...string) *Remote {
	if len(mirrors) == 0 {
		mirrors = DefaultMirrors
	}
	return &Remote{Mirrors: mirrors, Log: log}
}

// ValidMirror reports whether a mirror template can be used by a Remote.
func ValidMirror(template string) error {
	if !strings.HasPrefix(template, "http://") &&
		!strings.HasPrefix(template, "https://") {
		return fmt.Errorf("mirror '%s' is not an http(s) URL", template)
	}
	if !strings.Contains(template, "{id}") {
		return fmt.Errorf("mirror '%s' has no {id} placeholder", template)
	}
	return nil
}

// Lines fetches the PDB file with the accession code given. Each mirror is
// tried in turn until one of them answers with the file.
func (r *Remote) Lines(ctx context.Context, code string) ([]string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) != 4 || !isAlnum(code) {
		return nil, fmt.Errorf("%w: accession code should be four "+
			"alphanumeric characters, not '%s'", ErrSourceUnavailable, code)
	}

	mirrors := r.Mirrors
	if len(mirrors) == 0 {
		mirrors = DefaultMirrors
	}
	var errs []error
	for _, mirror := range mirrors {
		url := strings.ReplaceAll(mirror, "{id}", code)
		lines, err := r.fetch(ctx, url)
		if err == nil {
			r.logger().Info("fetched structure", "code", code, "url", url,
				"lines", len(lines))
			return lines, nil
		}
		r.logger().Warn("mirror failed", "code", code, "url", url, "error", err)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, errors.Join(errs...))
}

func (r *Remote) fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wanted %s, got %s", url, resp.Status)
	}
	limit := r.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxDecoded
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is more than %d bytes",
			ErrTooLarge, url, limit)
	}
	lines, err := DecodeLimit(data, limit)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s returned an empty file", url)
	}
	return lines, nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func (r *Remote) logger() *slog.Logger {
	if r.Log == nil {
		return discard
	}
	return r.Log
}

func isAlnum(s string) bool {
	for _, c := range s {
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
