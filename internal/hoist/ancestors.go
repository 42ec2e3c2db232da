package hoist

import "github.com/AlexandreBonaventure/nodehoist/pkg/graph"

// ancestorIndex maps each package identity to the set of distinct package
// identities that depend on it through a non-peer edge. Its cardinality
// per Ident is the popularity weight used to break hoisting ties.
type ancestorIndex map[graph.Ident]map[graph.Ident]struct{}

// weight returns the popularity of ident: how many distinct package
// identities depend on it in the original input graph.
func (a ancestorIndex) weight(ident graph.Ident) int {
	return len(a[ident])
}

// buildAncestorIndex traverses the WorkGraph once, memoized by WorkNode
// identity, recording every non-peer (parent -> child) edge. Peer edges
// are skipped: a peer's popularity is inherited from whoever regularly
// depends on the same package, never from the peer declaration itself.
func buildAncestorIndex(root *WorkNode) ancestorIndex {
	index := make(ancestorIndex)
	visited := make(map[*WorkNode]bool)

	var visit func(n *WorkNode)
	visit = func(n *WorkNode) {
		if visited[n] {
			return
		}
		visited[n] = true

		for _, name := range n.Dependencies.Keys() {
			child, _ := n.Dependencies.Get(name)
			if n.isPeer(name) {
				continue
			}
			set, ok := index[child.Ident]
			if !ok {
				set = make(map[graph.Ident]struct{})
				index[child.Ident] = set
			}
			set[n.Ident] = struct{}{}
			visit(child)
		}
	}

	visit(root)
	return index
}
