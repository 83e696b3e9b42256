package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
)

// Local reads PDB files from the file system. Files may be gzipped.
type Local struct {
	// When set, relative identifiers are resolved against Dir.
	Dir string
}

// Lines memory maps the file named by path and returns its lines. An empty
// file has no lines.
func (l Local) Lines(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, err)
	}
	if len(l.Dir) > 0 && !filepath.IsAbs(path) {
		path = filepath.Join(l.Dir, path)
	}
	lines, err := mapLines(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, err)
	}
	return lines, nil
}

func mapLines(path string) ([]string, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	info, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("'%s' is a directory", path)
	}
	// Zero length files cannot be mapped.
	if info.Size() == 0 {
		return nil, nil
	}

	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer mm.Unmap()
	return Decode(mm)
}
