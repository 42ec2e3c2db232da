// Package hoist implements the dependency-hoisting engine: it takes an
// immutable input dependency tree and produces a flattened output tree in
// which every package sits as high as it can while still resolving its
// own dependencies and peer dependencies correctly.
package hoist

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/AlexandreBonaventure/nodehoist/pkg/graph"
)

// unsetDebugLevel marks an Options.DebugLevel that hasn't been set
// explicitly by the caller, deferring to the NM_DEBUG_LEVEL environment
// variable instead.
const unsetDebugLevel = -1

// Options configures one Hoist call.
type Options struct {
	// DebugLevel controls diagnostic verbosity and failure handling:
	//   0: silent candidate search, best-effort result on a failed check.
	//   1: same search, but a failed check aborts the call with a
	//      ConsistencyError instead of returning a best-effort result.
	//   2: also records why each rejected candidate was rejected; Explain
	//      returns those reasons (the tree dump does not show them).
	// Set to -1, as DefaultOptions() does, to read NM_DEBUG_LEVEL instead.
	DebugLevel int
}

// DefaultOptions returns Options that defer DebugLevel to the
// NM_DEBUG_LEVEL environment variable, read once per Hoist call.
func DefaultOptions() Options {
	return Options{DebugLevel: unsetDebugLevel}
}

func resolveDebugLevel(level int) int {
	if level != unsetDebugLevel {
		return level
	}
	raw := os.Getenv("NM_DEBUG_LEVEL")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// Hoist runs the engine end to end: clone the input into internal
// bookkeeping form, index ancestor popularity, repeatedly find and apply
// promotable candidates at every root in the graph, self-check the result,
// and shrink it back down to the caller-facing shape.
func Hoist(tree *graph.InputNode, opts Options) (*graph.OutputNode, error) {
	start := time.Now()
	debugLevel := resolveDebugLevel(opts.DebugLevel)

	root := clone(tree)
	ancestry := buildAncestorIndex(root)

	seenRoots := make(map[*WorkNode]bool)
	processRoot(root, newOrderedMap[graph.PackageName, *WorkNode](), ancestry, debugLevel, seenRoots)

	if ok, logs := check(root); !ok {
		err := &ConsistencyError{Log: logs, Dump: dumpTree(root)}
		if debugLevel >= 1 {
			return nil, err
		}
		log.Printf("[WARN] hoist: consistency check failed with %d problem(s), returning best-effort result", len(logs))
	}

	out := shrink(root)

	if debugLevel >= 0 {
		log.Printf("[INFO] hoist: completed in %s", time.Since(start))
	}

	return out, nil
}

// Rejection is one promotion attempt the Candidate Finder turned down,
// surfaced for diagnostic narration (see internal/explain).
type Rejection struct {
	Package    graph.PackageName
	Diagnostic string
}

// Explain runs the same pipeline as Hoist but, instead of the output
// graph, returns every rejection reason recorded along the way. It always
// runs with a debug level of at least 2 regardless of opts, since a lower
// level never records reasons in the first place.
func Explain(tree *graph.InputNode, opts Options) ([]Rejection, error) {
	debugLevel := resolveDebugLevel(opts.DebugLevel)
	if debugLevel < 2 {
		debugLevel = 2
	}

	root := clone(tree)
	ancestry := buildAncestorIndex(root)

	seenRoots := make(map[*WorkNode]bool)
	processRoot(root, newOrderedMap[graph.PackageName, *WorkNode](), ancestry, debugLevel, seenRoots)

	var out []Rejection
	visited := make(map[*WorkNode]bool)

	var walk func(n *WorkNode)
	walk = func(n *WorkNode) {
		if visited[n] {
			return
		}
		visited[n] = true

		for _, name := range n.Reasons.Keys() {
			r, _ := n.Reasons.Get(name)
			out = append(out, Rejection{Package: name, Diagnostic: r.Text})
		}

		for _, name := range n.Dependencies.Keys() {
			if n.isPeer(name) {
				continue
			}
			child, _ := n.Dependencies.Get(name)
			walk(child)
		}
	}
	walk(root)

	return out, nil
}
