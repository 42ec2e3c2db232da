package hoist

import (
	"strings"

	"github.com/AlexandreBonaventure/nodehoist/pkg/graph"
)

// maxDumpNodes caps how many lines dumpTree will ever emit. Real graphs
// this large are almost certainly a cyclic-input bug rather than a
// legitimate install, but the dump must still terminate.
const maxDumpNodes = 50000

// dumpTree renders a human-readable tree of the post-hoist graph, used in
// consistency-error diagnostics. Already-printed nodes are shown once in
// full and referenced afterward with a ">" marker instead of being
// re-expanded, since a flattened graph routinely shares subtrees across
// many parents.
func dumpTree(root *WorkNode) string {
	var b strings.Builder
	b.WriteString(prettyLocator(root.Locator))
	b.WriteString("\n")

	visited := map[*WorkNode]bool{root: true}
	count := 1
	writeChildren(&b, root, "", visited, &count)
	return b.String()
}

func writeChildren(b *strings.Builder, n *WorkNode, prefix string, visited map[*WorkNode]bool, count *int) {
	var keys []graph.PackageName
	for _, name := range n.Dependencies.Keys() {
		if n.isPeer(name) {
			continue
		}
		keys = append(keys, name)
	}

	for i, name := range keys {
		if *count >= maxDumpNodes {
			b.WriteString(prefix + "└─ ... (truncated)\n")
			return
		}

		child, _ := n.Dependencies.Get(name)
		last := i == len(keys)-1
		connector, nextPrefix := "├─ ", prefix+"│  "
		if last {
			connector, nextPrefix = "└─ ", prefix+"   "
		}

		back := visited[child]
		marker := ""
		if back {
			marker = "> "
		}

		b.WriteString(prefix + connector + marker + prettyLocator(child.Locator) + "\n")
		*count++

		if back {
			continue
		}
		visited[child] = true
		writeChildren(b, child, nextPrefix, visited, count)
	}
}

// prettyLocator renders a Locator the way a dump or log line should show
// it: the workspace root collapses to ".", virtual decorations collapse to
// a "v:" prefix, and a bare "npm:" resolution protocol is dropped as noise.
func prettyLocator(l graph.Locator) string {
	ref := string(l.Reference)
	if ref == "workspace:." {
		return "."
	}

	virtual := strings.HasPrefix(ref, "virtual")
	if idx := strings.LastIndex(ref, "#"); idx != -1 {
		ref = ref[idx+1:]
	}
	ref = strings.TrimPrefix(ref, "npm:")

	out := string(l.Name) + "@" + ref
	if virtual {
		out = "v:" + out
	}
	return out
}
