package pdb

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader is returned when the COMPND records cannot be
	// decomposed into chain identifiers and compound names. Without chain
	// identity nothing else in the file can be interpreted.
	ErrMalformedHeader = errors.New("malformed COMPND header")

	// ErrAmbiguousAssembly is returned by Partition when the number of chains
	// is not a multiple of the requested mer count.
	ErrAmbiguousAssembly = errors.New("cannot determine the biological assembly")

	// ErrIncompleteAssembly is returned by Partition when more mers are
	// requested than there are chains.
	ErrIncompleteAssembly = errors.New("structure has fewer chains than requested mers")

	// ErrForcedMonomer is returned by Partition when a monomer is requested
	// from a multi-chain structure and PartitionOptions.StrictMonomer is set.
	ErrForcedMonomer = errors.New("monomer requested for a multi-chain structure")

	// ErrInvalidMerCount is returned by Partition for mer counts below one.
	ErrInvalidMerCount = errors.New("mer count must be positive")
)

// Stage names the step of processing a single structure that failed.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageParse     Stage = "parse"
	StagePartition Stage = "partition"
)

// Error identifies which structure and which stage of processing failed.
// The underlying error is available through errors.Is and errors.As.
type Error struct {
	ID    string
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.ID, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
