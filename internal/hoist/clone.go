package hoist

import "github.com/AlexandreBonaventure/nodehoist/pkg/graph"

// clone converts an InputNode tree into an internal WorkNode graph,
// memoizing by input-node identity so that cycles in the input are
// preserved rather than expanded infinitely. This is the Input Cloner
// (SPEC_FULL.md §4.A): a single depth-first traversal, first visit
// creates, later visits reuse.
func clone(input *graph.InputNode) *WorkNode {
	memo := make(map[*graph.InputNode]*WorkNode)

	var visit func(n *graph.InputNode) *WorkNode
	visit = func(n *graph.InputNode) *WorkNode {
		if wn, ok := memo[n]; ok {
			return wn
		}

		locator := graph.Locator{Name: n.Name, Reference: n.Reference}
		wn := newWorkNode(n.Name, locator, n.PeerNames)
		wn.References.Set(n.Reference, struct{}{})

		// Register before recursing: self-references and cycles must see
		// this WorkNode, not trigger a second allocation.
		memo[n] = wn

		for _, dep := range n.Dependencies {
			child := visit(dep)
			wn.Dependencies.Set(child.Name, child)
			wn.OriginalDependencies.Set(child.Name, child)
		}

		return wn
	}

	return visit(input)
}
