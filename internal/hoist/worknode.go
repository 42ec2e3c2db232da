package hoist

import "github.com/AlexandreBonaventure/nodehoist/pkg/graph"

// reason records why a candidate node was rejected during a search rooted
// at a particular target: the target itself (the "rejecting root") and a
// human-readable explanation. Informational only — see hoist.go.
type reason struct {
	Root *WorkNode
	Text string
}

// WorkNode is the engine's internal, mutable representation of a package
// instance. The six maps are all insertion-ordered and mutable for the
// lifetime of one Hoist call; see SPEC_FULL.md §3 for field semantics.
type WorkNode struct {
	Name    graph.PackageName
	Ident   graph.Ident
	Locator graph.Locator

	References *orderedMap[graph.Reference, struct{}]

	Dependencies         *orderedMap[graph.PackageName, *WorkNode]
	OriginalDependencies *orderedMap[graph.PackageName, *WorkNode]
	HoistedDependencies  *orderedMap[graph.PackageName, *WorkNode]
	RelayedDependencies  *orderedMap[graph.PackageName, *WorkNode]

	PeerNames map[graph.PackageName]bool

	Reasons *orderedMap[graph.PackageName, reason]
}

func newWorkNode(name graph.PackageName, locator graph.Locator, peerNames map[graph.PackageName]bool) *WorkNode {
	peers := make(map[graph.PackageName]bool, len(peerNames))
	for n, v := range peerNames {
		peers[n] = v
	}
	return &WorkNode{
		Name:                 name,
		Ident:                graph.MakeIdent(name, locator.Reference),
		Locator:              locator,
		References:           newOrderedMap[graph.Reference, struct{}](),
		Dependencies:         newOrderedMap[graph.PackageName, *WorkNode](),
		OriginalDependencies: newOrderedMap[graph.PackageName, *WorkNode](),
		HoistedDependencies:  newOrderedMap[graph.PackageName, *WorkNode](),
		RelayedDependencies:  newOrderedMap[graph.PackageName, *WorkNode](),
		PeerNames:            peers,
		Reasons:              newOrderedMap[graph.PackageName, reason](),
	}
}

// isPeer reports whether name is one of n's declared peer dependencies.
func (n *WorkNode) isPeer(name graph.PackageName) bool {
	return n.PeerNames[name]
}

// shallowClone produces a copy-on-write duplicate of n: all six maps and
// the peer-name set are copied by value, Name/Ident/Locator are shared.
// Used by the Hoist Applier when an intermediate ancestor needs a view of
// the graph that diverges from what unrelated subtrees still see.
func (n *WorkNode) shallowClone() *WorkNode {
	peers := make(map[graph.PackageName]bool, len(n.PeerNames))
	for name, v := range n.PeerNames {
		peers[name] = v
	}
	return &WorkNode{
		Name:                 n.Name,
		Ident:                n.Ident,
		Locator:              n.Locator,
		References:           n.References.Clone(),
		Dependencies:         n.Dependencies.Clone(),
		OriginalDependencies: n.OriginalDependencies.Clone(),
		HoistedDependencies:  n.HoistedDependencies.Clone(),
		RelayedDependencies:  n.RelayedDependencies.Clone(),
		PeerNames:            peers,
		Reasons:              n.Reasons.Clone(),
	}
}
