package graph

// InputNode is the caller-facing, immutable contract the hoisting engine
// accepts: a dependency tree (or graph, if it contains cycles) built by
// whatever resolved the package set upstream of this engine.
type InputNode struct {
	Name         PackageName
	Reference    Reference
	Dependencies []*InputNode
	PeerNames    map[PackageName]bool
}

// NewInputNode creates an InputNode with no dependencies yet.
func NewInputNode(name PackageName, reference Reference) *InputNode {
	return &InputNode{
		Name:      name,
		Reference: reference,
		PeerNames: make(map[PackageName]bool),
	}
}

// AddDependency appends a child, optionally marking it as a peer
// dependency. Order of calls is preserved and observable by the engine's
// depth-first traversals (popularity tie-breaking is first-encounter).
func (n *InputNode) AddDependency(child *InputNode, peer bool) {
	n.Dependencies = append(n.Dependencies, child)
	if peer {
		n.PeerNames[child.Name] = true
	}
}

// OutputNode is the caller-facing result of a hoist: the same shape as
// InputNode minus peerNames (peers are never emitted as children) and
// with References merged rather than singular, since hoisting can fold
// several originally-distinct instances into one output node.
type OutputNode struct {
	Name         PackageName
	References   []Reference
	Dependencies []*OutputNode
}
