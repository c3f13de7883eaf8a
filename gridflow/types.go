package gridflow

import (
	"context"

	"github.com/odanek/gridcut/neighborhood"
)

// Label is a node's final tree membership once Compute has returned.
type Label uint8

const (
	// Sink marks a node strictly on the sink side of the minimum cut.
	Sink Label = iota
	// Source marks a node on the source side of the minimum cut
	// (includes remaining FREE nodes, which are unreachable from the
	// sink and therefore counted as source side).
	Source
)

// treeLabel is a node's internal search-tree membership.
type treeLabel uint8

const (
	treeFree treeLabel = iota
	treeSource
	treeSink
)

// OrphanOrder selects FIFO or LIFO processing of the orphan set during
// adoption. LIFO (a stack) is the usual implementation choice; FIFO is
// required for deterministic behaviour across Kohli-dynamic reuses.
type OrphanOrder uint8

const (
	// OrphanLIFO processes orphans most-recently-queued first.
	OrphanLIFO OrphanOrder = iota
	// OrphanFIFO processes orphans in insertion order.
	OrphanFIFO
)

// Logger is the injectable logging sink gridflow and segment use instead
// of a process-wide singleton: the core carries no global mutable state.
type Logger interface {
	Logf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Logf(string, ...interface{}) {}

// Options configures a Compute call.
type Options struct {
	// DynamicReuse is not read by any backend. Graph.Compute always
	// resumes from the tree state left by a previous call or by
	// Graph.ReuseWithDeltas, whatever this field says.
	DynamicReuse bool
	// OrphanOrder selects FIFO or LIFO orphan processing. Zero value is
	// OrphanLIFO.
	OrphanOrder OrphanOrder
	// Epsilon is the residual/excess magnitude below which a capacity is
	// treated as exhausted. Defaults to 1e-9.
	Epsilon float64
	// Logger receives progress diagnostics. Defaults to a no-op sink.
	Logger Logger
}

// normalize fills in defaults the way flow.FlowOptions.normalize() does,
// so every entry point can call it unconditionally.
func (o *Options) normalize() {
	if o.Epsilon <= 0 {
		o.Epsilon = 1e-9
	}
	if o.Logger == nil {
		o.Logger = noopLogger{}
	}
}

// Backend is the capability set the segmentation drivers talk to a
// max-flow object through: Chan-Vese/Mumford-Shah/Rousson-Deriche stay
// agnostic to which grid max-flow implementation sits behind the
// selector symbol.
type Backend interface {
	// SetTerminalCap sets c_s(v) and c_t(v) for node v, overwriting any
	// previous value.
	SetTerminalCap(v int, srcCap, sinkCap float64)
	// SetEdgeCap sets the forward residual capacity r(v, dir).
	SetEdgeCap(v, dir int, cap float64)
	// Compute runs the backend's max-flow algorithm to completion.
	Compute(ctx context.Context, opts Options) (maxFlow float64, err error)
	// LabelOf reads node v's side of the minimum cut after Compute.
	LabelOf(v int) Label
	// SetInitialLabelling seeds tree membership before the first Growth
	// phase (used by topology-aware callers to bias which minimum the
	// cut lands on; does not constrain topology itself).
	SetInitialLabelling(labels []Label)
	// NumNodes reports |V|.
	NumNodes() int
}

// Factory maps a max-flow selector symbol to a Backend implementation
// over the given grid shape and neighbourhood.
//
// Steps:
//  1. "GRD-KO"  -> *Graph (the Kohli dynamic engine of this package).
//  2. "GRD-PRF" -> grid push-relabel, FIFO active-node selection.
//  3. "GRD-PRH" -> grid push-relabel, highest-level active-node selection.
//  4. "GEN-*"   -> recognized but rejected: ErrGeneralGraphUnsupported.
//  5. anything else -> ErrUnknownBackend.
func Factory(selector string, shape []int, nb *neighborhood.System) (Backend, error) {
	switch selector {
	case "GRD-KO":
		return New(shape, nb), nil
	case "GRD-PRF":
		return newPushRelabel(shape, nb, prfFIFO), nil
	case "GRD-PRH":
		return newPushRelabel(shape, nb, prhHighestLevel), nil
	case "GEN-FF", "GEN-EK", "GEN-DI", "GEN-BK", "GEN-KO", "GEN-PRF", "GEN-PRH":
		return nil, ErrGeneralGraphUnsupported
	default:
		return nil, ErrUnknownBackend
	}
}
