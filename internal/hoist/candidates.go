package hoist

import (
	"fmt"

	"github.com/AlexandreBonaventure/nodehoist/pkg/graph"
)

// location is one place in rootNode's subtree where a promotable instance
// of a candidate's package was found: the chain of intermediate ancestors
// between rootNode and node (exclusive of both), and the node itself.
type location struct {
	path []*WorkNode
	node *WorkNode
}

// HoistCandidateSet groups every location in a subtree where some Name
// could be promoted to a given root, naming the single representative
// (highest-weight) node among them.
type HoistCandidateSet struct {
	Name      graph.PackageName
	Node      *WorkNode
	Weight    int
	Locations []location
}

// findCandidates is the Candidate Finder (SPEC_FULL.md §4.C): for a given
// rootNode, it walks the subtree beneath it and returns one
// HoistCandidateSet per promotable Name.
//
// ancestorDeps is the cumulative Name -> WorkNode view as seen from just
// above rootNode; it is consulted by predicate 5 and is unrelated to
// rootNode's own Dependencies map.
func findCandidates(rootNode *WorkNode, ancestry ancestorIndex, ancestorDeps *orderedMap[graph.PackageName, *WorkNode], debugLevel int) []*HoistCandidateSet {
	result := newOrderedMap[graph.PackageName, *HoistCandidateSet]()
	seenLocators := make(map[graph.Locator]bool)

	reject := func(node, parent *WorkNode, text string) {
		if debugLevel < 2 {
			return
		}
		parent.Reasons.Set(node.Name, reason{Root: rootNode, Text: text})
	}

	promotable := func(node, parent *WorkNode, path []*WorkNode) bool {
		// Predicate 1: not a peer at the root.
		if rootNode.isPeer(node.Name) {
			reject(node, parent, fmt.Sprintf("%s is a peer dependency at the hoist target", node.Name))
			return false
		}

		// Predicate 2: no identity conflict with the root itself.
		if rootNode.Name == node.Name && rootNode.Ident != node.Ident {
			reject(node, parent, fmt.Sprintf("%s conflicts with the hoist target's own identity", node.Name))
			return false
		}

		// Predicate 3: name available at the root and along the path.
		if existing, ok := rootNode.OriginalDependencies.Get(node.Name); ok && existing.Ident != node.Ident {
			reject(node, parent, fmt.Sprintf("%s is already declared at the hoist target with a different identity", node.Name))
			return false
		}
		if existing, ok := rootNode.Dependencies.Get(node.Name); ok && existing.Ident != node.Ident {
			reject(node, parent, fmt.Sprintf("%s is already hoisted to the hoist target with a different identity", node.Name))
			return false
		}
		for _, anc := range path {
			if d, ok := anc.Dependencies.Get(node.Name); ok && d.Ident != node.Ident {
				reject(node, parent, fmt.Sprintf("%s is shadowed by a differing dependency at an intermediate ancestor", node.Name))
				return false
			}
			if d, ok := anc.RelayedDependencies.Get(node.Name); ok && d.Ident != node.Ident {
				reject(node, parent, fmt.Sprintf("%s was already relayed past an intermediate ancestor with a different identity", node.Name))
				return false
			}
		}

		// Predicate 4: popularity — only the most popular identity per
		// Name survives; a lower-weight contender for an already-claimed
		// Name with a different identity is rejected outright.
		weight := ancestry.weight(node.Ident)
		if existing, ok := result.Get(node.Name); ok && existing.Node.Ident != node.Ident && weight < existing.Weight {
			reject(node, parent, fmt.Sprintf("%s has lower popularity than the already-recorded candidate", node.Name))
			return false
		}

		// Predicate 5: regular dependencies will still be satisfied after
		// promotion.
		if existing, ok := rootNode.Dependencies.Get(node.Name); !ok || existing.Ident != node.Ident {
			for _, name := range node.HoistedDependencies.Keys() {
				if _, declared := node.OriginalDependencies.Get(name); !declared {
					continue
				}
				d, _ := node.HoistedDependencies.Get(name)
				anc, ok := ancestorDeps.Get(d.Name)
				if !ok || anc.Ident != d.Ident {
					reject(node, parent, fmt.Sprintf("%s's own dependency %s would no longer resolve correctly", node.Name, d.Name))
					return false
				}
			}
		}

		// Predicate 6: peer dependencies are already satisfied upstream.
		if !peersSatisfied(node, rootNode, path) {
			reject(node, parent, fmt.Sprintf("%s has a peer dependency not yet resolved at the hoist target", node.Name))
			return false
		}

		return true
	}

	record := func(node *WorkNode, path []*WorkNode) {
		weight := ancestry.weight(node.Ident)
		existing, ok := result.Get(node.Name)
		switch {
		case !ok:
			result.Set(node.Name, &HoistCandidateSet{Name: node.Name, Node: node, Weight: weight, Locations: []location{{path: path, node: node}}})
		case existing.Node.Ident == node.Ident:
			existing.Locations = append(existing.Locations, location{path: path, node: node})
		default:
			// Different identity, already confirmed to have equal-or-higher
			// weight by predicate 4: replace outright, discarding the
			// previously recorded locations (verbatim per design notes).
			result.Set(node.Name, &HoistCandidateSet{Name: node.Name, Node: node, Weight: weight, Locations: []location{{path: path, node: node}}})
		}
	}

	var walk func(parent, node *WorkNode, path []*WorkNode)
	walk = func(parent, node *WorkNode, path []*WorkNode) {
		for _, anc := range path {
			if anc == node {
				return // cycle: node already present in the current nodePath
			}
		}

		firstVisit := !seenLocators[node.Locator]
		seenLocators[node.Locator] = true

		// A node already hanging directly off rootNode (no intermediate
		// ancestor in between) is not a promotion: recording it here would
		// make every pass see a "candidate" even once nothing is left to
		// hoist, and the fixed-point loop in processRoot would never see
		// an empty result.
		if len(path) > 0 && promotable(node, parent, path) {
			record(node, path)
		}

		if !firstVisit {
			return // subtree already explored once for this Locator
		}

		nextPath := make([]*WorkNode, len(path)+1)
		copy(nextPath, path)
		nextPath[len(path)] = node

		for _, name := range node.Dependencies.Keys() {
			if node.isPeer(name) {
				continue
			}
			child, _ := node.Dependencies.Get(name)
			walk(node, child, nextPath)
		}
	}

	for _, name := range rootNode.Dependencies.Keys() {
		if rootNode.isPeer(name) {
			continue
		}
		child, _ := rootNode.Dependencies.Get(name)
		walk(rootNode, child, nil)
	}

	out := make([]*HoistCandidateSet, 0, result.Len())
	for _, name := range result.Keys() {
		cs, _ := result.Get(name)
		out = append(out, cs)
	}
	return out
}

// peersSatisfied implements predicate 6: walking the intermediate
// ancestors from deepest to shallowest, then finally the hoist target
// itself, every peer name node declares must already resolve to something
// that will still be visible once node sits at rootNode.
func peersSatisfied(node, rootNode *WorkNode, path []*WorkNode) bool {
	required := make(map[graph.PackageName]bool, len(node.PeerNames))
	for name, isPeer := range node.PeerNames {
		if isPeer {
			required[name] = true
		}
	}
	if len(required) == 0 {
		return true
	}

	for i := len(path) - 1; i >= 0 && len(required) > 0; i-- {
		anc := path[i]
		for name := range required {
			if d, ok := anc.Dependencies.Get(name); ok {
				if anc.isPeer(name) {
					continue // re-declared as a peer: keep looking further out
				}
				_ = d
				return false // a concrete binding sits between node and the target
			}
			delete(required, name) // silent at this level: satisfied from here out
		}
	}

	for name := range required {
		if _, ok := rootNode.Dependencies.Get(name); ok {
			continue
		}
		if _, ok := rootNode.OriginalDependencies.Get(name); ok {
			continue
		}
		return false
	}

	return true
}
