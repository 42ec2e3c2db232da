package hoist

import "github.com/AlexandreBonaventure/nodehoist/pkg/graph"

// applyCandidate is the Hoist Applier (SPEC_FULL.md §4.D) for one
// HoistCandidateSet: every location recorded by the Candidate Finder is
// rewired so that node hangs directly off rootNode instead of off its
// original intermediate ancestor.
//
// cloneMap scopes copy-on-write cloning to the current pass: an
// intermediate shared by several locations (of this candidate or another
// one applied in the same pass) is cloned at most once, and every location
// that passes through it sees the same clone.
func applyCandidate(rootNode *WorkNode, cs *HoistCandidateSet, ancestorDeps *orderedMap[graph.PackageName, *WorkNode], cloneMap map[*WorkNode]*WorkNode) {
	// Predicate 2 should already have kept a node sharing rootNode's own
	// Name with a differing Ident out of cs, but a hoist target is never
	// the place to find out that assumption was wrong: double-check and
	// skip rather than corrupt the root's own identity.
	if cs.Node.Name == rootNode.Name && cs.Node.Ident != rootNode.Ident {
		return
	}

	getOrClone := func(n *WorkNode) *WorkNode {
		if c, ok := cloneMap[n]; ok {
			return c
		}
		c := n.shallowClone()
		cloneMap[n] = c
		return c
	}

	for _, loc := range cs.Locations {
		parent := rootNode
		var terminal *WorkNode = rootNode

		for i, anc := range loc.path {
			clonedAnc := getOrClone(anc)
			parent.Dependencies.Set(clonedAnc.Name, clonedAnc)
			if i == len(loc.path)-1 {
				terminal = clonedAnc
			}
			clonedAnc.RelayedDependencies.Set(loc.node.Name, loc.node)
			parent = clonedAnc
		}

		if terminal != rootNode {
			terminal.Dependencies.Delete(loc.node.Name)
			terminal.Reasons.Delete(loc.node.Name)
		}
	}

	// Insert at the root, merging References into an already-hoisted sibling
	// of the same identity rather than replacing it outright.
	if existing, ok := rootNode.Dependencies.Get(cs.Node.Name); ok && existing.Ident == cs.Node.Ident {
		for _, ref := range cs.Node.References.Keys() {
			existing.References.Set(ref, struct{}{})
		}
	} else {
		rootNode.Dependencies.Set(cs.Node.Name, cs.Node)
	}
	rootNode.HoistedDependencies.Set(cs.Node.Name, cs.Node)

	stampHoistedDependencies(cs.Node, rootNode, ancestorDeps)
}

// stampHoistedDependencies records, for each of node's own regular
// dependencies, what name now resolves to once node lives under rootNode:
// either a new sibling at rootNode, or whatever ancestorDeps already
// promised further up. A later attempt to hoist node even higher checks
// these promises against predicate 5 (SPEC_FULL.md §4.C).
func stampHoistedDependencies(node *WorkNode, rootNode *WorkNode, ancestorDeps *orderedMap[graph.PackageName, *WorkNode]) {
	for _, name := range node.OriginalDependencies.Keys() {
		if node.isPeer(name) {
			continue
		}
		want, _ := node.OriginalDependencies.Get(name)

		if sib, ok := rootNode.Dependencies.Get(name); ok && sib.Ident == want.Ident {
			node.HoistedDependencies.Set(name, sib)
			continue
		}
		if anc, ok := ancestorDeps.Get(name); ok {
			node.HoistedDependencies.Set(name, anc)
		}
	}
}

// processRoot drives one root through the fixed-point hoist/recurse cycle:
// repeatedly find and apply candidates until none remain, then descend into
// each non-peer child with its own root. seenRoots guards against
// re-entering a root already being processed higher up a cyclic graph.
func processRoot(rootNode *WorkNode, ancestorDeps *orderedMap[graph.PackageName, *WorkNode], ancestry ancestorIndex, debugLevel int, seenRoots map[*WorkNode]bool) {
	if seenRoots[rootNode] {
		return
	}
	seenRoots[rootNode] = true

	for {
		candidates := findCandidates(rootNode, ancestry, ancestorDeps, debugLevel)
		if len(candidates) == 0 {
			break
		}
		cloneMap := make(map[*WorkNode]*WorkNode)
		for _, cs := range candidates {
			applyCandidate(rootNode, cs, ancestorDeps, cloneMap)
		}
	}

	childDeps := ancestorDeps.Clone()
	for _, name := range rootNode.Dependencies.Keys() {
		if rootNode.isPeer(name) {
			continue
		}
		child, _ := rootNode.Dependencies.Get(name)
		childDeps.Set(name, child)
	}

	for _, name := range rootNode.Dependencies.Keys() {
		if rootNode.isPeer(name) {
			continue
		}
		child, _ := rootNode.Dependencies.Get(name)
		processRoot(child, childDeps, ancestry, debugLevel, seenRoots)
	}
}
