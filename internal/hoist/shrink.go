package hoist

import "github.com/AlexandreBonaventure/nodehoist/pkg/graph"

// shrink is the Shrinker (SPEC_FULL.md §4.E): it projects the internal
// WorkNode graph into the caller-facing OutputNode shape, memoized by
// WorkNode identity so that sharing and cycles in the hoisted graph are
// preserved rather than duplicated or expanded.
func shrink(root *WorkNode) *graph.OutputNode {
	memo := make(map[*WorkNode]*graph.OutputNode)

	var visit func(n *WorkNode) *graph.OutputNode
	visit = func(n *WorkNode) *graph.OutputNode {
		if on, ok := memo[n]; ok {
			return on
		}

		refs := make([]graph.Reference, 0, n.References.Len())
		for _, r := range n.References.Keys() {
			refs = append(refs, r)
		}

		on := &graph.OutputNode{Name: n.Name, References: refs}
		memo[n] = on

		for _, name := range n.Dependencies.Keys() {
			if n.isPeer(name) {
				continue
			}
			child, _ := n.Dependencies.Get(name)
			on.Dependencies = append(on.Dependencies, visit(child))
		}

		return on
	}

	return visit(root)
}
