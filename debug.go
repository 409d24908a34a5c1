package arbor

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// debugStats holds per-frame timings and counts.
// Only populated when Scene.debug is true.
type debugStats struct {
	layoutTime   time.Duration
	projectTime  time.Duration
	inputTime    time.Duration
	dispatchTime time.Duration
	layerCount   int
	nodeCount    int
	accessCount  int
	eventCount   int
}

// debugLogger receives warnings from node operations, which have no scene to
// ask. SetDebugMode points it at the scene's logger.
var debugLogger atomic.Pointer[slog.Logger]

func nodeLogger() *slog.Logger {
	if l := debugLogger.Load(); l != nil {
		return l
	}
	return discardLogger
}

// debugLog logs timing and count stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.layoutTime + stats.projectTime + stats.inputTime + stats.dispatchTime
	s.logger.Debug("frame",
		"frame", s.frame,
		"layout", stats.layoutTime,
		"project", stats.projectTime,
		"input", stats.inputTime,
		"dispatch", stats.dispatchTime,
		"total", total,
		"layers", stats.layerCount,
		"nodes", stats.nodeCount,
		"accessible", stats.accessCount,
		"events", stats.eventCount,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("arbor debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		nodeLogger().Warn("tree depth exceeds threshold",
			"node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		nodeLogger().Warn("child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
