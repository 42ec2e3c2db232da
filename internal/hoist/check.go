package hoist

import (
	"fmt"

	"github.com/AlexandreBonaventure/nodehoist/pkg/graph"
)

// check is the Self-Checker (SPEC_FULL.md §4.E): a depth-first walk over
// the post-hoist graph verifying that every original dependency and peer
// dependency promise is still kept. It returns false and a human-readable
// log of every broken promise found; an empty, true result means the
// hoisted graph is a faithful flattening of the original.
func check(root *WorkNode) (bool, []string) {
	var logs []string
	visited := make(map[*WorkNode]bool)
	ok := checkNode(root, nil, nil, visited, &logs)
	return ok, logs
}

// checkNode carries visible, the cumulative Name -> WorkNode resolution a
// node_modules-style parent-directory walk would find looking up from
// node's parent: node's own non-peer dependencies overlay it before
// recursing into children, exactly mirroring real module resolution.
func checkNode(node *WorkNode, stack []*WorkNode, visible *orderedMap[graph.PackageName, *WorkNode], visited map[*WorkNode]bool, logs *[]string) bool {
	for _, s := range stack {
		if s == node {
			return true // cycle: already being verified higher up this path
		}
	}
	if visited[node] {
		return true
	}
	visited[node] = true

	nodeVisible := newOrderedMap[graph.PackageName, *WorkNode]()
	if visible != nil {
		nodeVisible = visible.Clone()
	}
	for _, name := range node.Dependencies.Keys() {
		if node.isPeer(name) {
			continue
		}
		child, _ := node.Dependencies.Get(name)
		nodeVisible.Set(name, child)
	}

	ok := true
	for _, name := range node.OriginalDependencies.Keys() {
		want, _ := node.OriginalDependencies.Get(name)

		if node.isPeer(name) {
			got, present := lookup(visible, name)
			if !present || got.Ident != want.Ident {
				*logs = append(*logs, fmt.Sprintf("%s: peer dependency %s does not resolve to the same identity its parent sees", node.Locator, name))
				ok = false
			}
			continue
		}

		got, present := nodeVisible.Get(name)
		if !present || got.Ident != want.Ident {
			*logs = append(*logs, fmt.Sprintf("%s: dependency %s no longer resolves to its original identity", node.Locator, name))
			ok = false
		}
	}

	nextStack := make([]*WorkNode, len(stack)+1)
	copy(nextStack, stack)
	nextStack[len(stack)] = node

	for _, name := range node.Dependencies.Keys() {
		if node.isPeer(name) {
			continue
		}
		child, _ := node.Dependencies.Get(name)
		if !checkNode(child, nextStack, nodeVisible, visited, logs) {
			ok = false
		}
	}
	return ok
}

func lookup(m *orderedMap[graph.PackageName, *WorkNode], name graph.PackageName) (*WorkNode, bool) {
	if m == nil {
		return nil, false
	}
	return m.Get(name)
}
