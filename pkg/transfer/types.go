// Package transfer models one batch run of the mover: classified
// (source, destination) pairs, the four-way transfer kind, and the
// immutable per-run configuration.
package transfer

import (
	"fmt"
	"strings"

	"github.com/hpcdata/datamove/pkg/pathutil"
)

// Kind classifies a transfer by which side of the pair addresses the
// object store. The classification is total: every pair of classified
// endpoints maps to exactly one Kind.
type Kind int

const (
	ObjectToObject Kind = iota
	ObjectToLocal
	LocalToObject
	LocalToLocal
)

func (k Kind) String() string {
	switch k {
	case ObjectToObject:
		return "object-to-object"
	case ObjectToLocal:
		return "object-to-local"
	case LocalToObject:
		return "local-to-object"
	case LocalToLocal:
		return "local-to-local"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ResolveKind is a pure function of the two endpoints' remote/local
// tags. No I/O, no hidden state.
func ResolveKind(src, dst pathutil.Location) Kind {
	switch {
	case src.Remote && dst.Remote:
		return ObjectToObject
	case src.Remote:
		return ObjectToLocal
	case dst.Remote:
		return LocalToObject
	default:
		return LocalToLocal
	}
}

// StorageClass is the closed set of object-store tiers the mover can
// write to.
type StorageClass string

const (
	StorageStandard    StorageClass = "STANDARD"
	StorageGlacier     StorageClass = "GLACIER"
	StorageDeepArchive StorageClass = "DEEP_ARCHIVE"
)

// ParseStorageClass maps flag text onto the closed set. Anything else
// is a usage error.
func ParseStorageClass(s string) (StorageClass, error) {
	switch strings.ToUpper(strings.ReplaceAll(s, "-", "_")) {
	case "", "STANDARD":
		return StorageStandard, nil
	case "GLACIER":
		return StorageGlacier, nil
	case "DEEP_ARCHIVE":
		return StorageDeepArchive, nil
	default:
		return "", fmt.Errorf("unknown storage class %q (want standard, glacier or deep-archive)", s)
	}
}

// Config holds the per-invocation options. It is built once from the
// command line and never mutated during a run.
type Config struct {
	Recursive    bool
	DryRun       bool
	KeepSource   bool
	StorageClass StorageClass
	Excludes     []string
}

// Item is one planned transfer. Items are built by the planner and
// consumed exactly once by the executor.
type Item struct {
	Source pathutil.Location
	Dest   pathutil.Location
	Kind   Kind
}
