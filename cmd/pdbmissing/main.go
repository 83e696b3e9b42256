// Command pdbmissing reports which residues of the chains of PDB structures
// have no coordinates.
//
// Structures are named with -start and -end (the two ends of a
// conformational change) and any number of extra arguments. They are read
// from the file system with -local, and fetched from the Protein Data Bank
// otherwise. Every structure is processed independently: a failure for one
// is reported on stderr and does not stop the others. The exit status is 1
// if any structure failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/TuftsBCB/pdbmissing/internal/config"
	"github.com/TuftsBCB/pdbmissing/internal/report"
	"github.com/TuftsBCB/pdbmissing/pdb"
	"github.com/TuftsBCB/pdbmissing/source"
)

var (
	flagStart         string
	flagEnd           string
	flagLocal         bool
	flagMers          int
	flagStrictMonomer bool
	flagFormat        = "text"
	flagLogLevel      = "info"
	flagTimeout       = 30 * time.Second
	flagWorkers       = runtime.NumCPU()
	flagAtom          = pdb.DefaultRepresentative
)

func init() {
	flag.StringVar(&flagStart, "start", flagStart,
		"The starting structure (an accession code, or a file with -local).")
	flag.StringVar(&flagEnd, "end", flagEnd,
		"The ending structure (an accession code, or a file with -local).")
	flag.BoolVar(&flagLocal, "local", flagLocal,
		"When set, structures are read from PDB files instead of being "+
			"fetched from the Protein Data Bank.")
	flag.IntVar(&flagMers, "mer", flagMers,
		"The number of biological units to split each structure into. "+
			"Zero disables partitioning.")
	flag.BoolVar(&flagStrictMonomer, "strict-monomer", flagStrictMonomer,
		"When set, asking for a single mer from a structure with several "+
			"chains is an error instead of picking the first chain.")
	flag.StringVar(&flagFormat, "format", flagFormat,
		"The output format: text, json or fasta.")
	flag.StringVar(&flagLogLevel, "log-level", flagLogLevel,
		"The minimum level of log messages: debug, info, warn, error "+
			"or critical.")
	flag.DurationVar(&flagTimeout, "timeout", flagTimeout,
		"The time allowed to fetch each structure.")
	flag.IntVar(&flagWorkers, "workers", flagWorkers,
		"The number of structures processed at the same time.")
	flag.StringVar(&flagAtom, "atom", flagAtom,
		"The name of the atom that represents a residue.")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Usage: %s -start structure [ -end structure ] [ structure ... ]\n",
		path.Base(os.Args[0]))
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nex. '%s -start 1ake -end 4ake -mer 1'\n",
		path.Base(os.Args[0]))
	os.Exit(2)
}

func main() {
	flag.Parse()

	var idents []string
	for _, id := range append([]string{flagStart, flagEnd}, flag.Args()...) {
		if len(id) > 0 {
			idents = append(idents, id)
		}
	}
	if len(idents) == 0 {
		usage()
	}
	format, err := report.ParseFormat(flagFormat)
	if err != nil {
		fatalf("%s", err)
	}
	level, err := config.ParseLevel(flagLogLevel)
	if err != nil {
		fatalf("invalid -log-level: %s", err)
	}
	if flagMers < 0 {
		fatalf("-mer must not be negative")
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLevel,
	}))

	var src source.Source = source.NewRemote(log)
	if flagLocal {
		src = source.Local{}
	}
	r := runner{
		src:     src,
		timeout: flagTimeout,
		workers: flagWorkers,
		format:  format,
		opts: report.Options{
			Mers:           flagMers,
			StrictMonomer:  flagStrictMonomer,
			Representative: flagAtom,
			Log:            log,
		},
		log: log,
	}
	if failed := r.run(context.Background(), idents, os.Stdout); failed > 0 {
		os.Exit(1)
	}
}

func fatalf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", v...)
	os.Exit(2)
}
