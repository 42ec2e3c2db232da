// Package fixture loads already-resolved dependency graphs from a flat
// JSON format into the shape internal/hoist expects. It does not resolve
// anything itself: no registry lookups, no semver ranges, no
// package.json manifests — the resolution decisions are assumed already
// made by whatever produced the fixture.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlexandreBonaventure/nodehoist/pkg/graph"
)

// Entry is one package instance in the fixture format: a name, a
// reference, the names of its dependencies, and which of those names are
// peer dependencies. The same shape is used on disk and over the wire
// (internal/server accepts an identical JSON body).
type Entry struct {
	Name         string   `json:"name"`
	Reference    string   `json:"reference"`
	Dependencies []string `json:"dependencies"`
	Peers        []string `json:"peers"`
}

// file is the on-disk fixture shape: a root identity plus a flat list of
// every package instance reachable from it. Root is a "name@reference"
// key; dependencies refer to entries by bare name or by that same key.
type file struct {
	Root    string  `json:"root"`
	Entries []Entry `json:"entries"`
}

// Load reads path and builds the graph.InputNode tree it describes. It is
// a two-pass reader: the first pass allocates one InputNode per entry
// keyed by "name@reference", the second pass wires each entry's declared
// dependency names to those nodes.
func Load(path string) (*graph.InputNode, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: reading %s: %w", path, err)
	}

	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("fixture: parsing %s: %w", path, err)
	}

	return BuildGraph(f.Root, f.Entries)
}

// BuildGraph builds a graph.InputNode tree from a root key
// ("name@reference") and a flat entry list, the same two passes Load
// performs after reading a file. Callers that already have entries in
// memory (internal/server, for one) use this directly.
func BuildGraph(rootKey string, entries []Entry) (*graph.InputNode, error) {
	byKey := make(map[string]*graph.InputNode, len(entries))
	byName := make(map[string][]string) // name -> all keys declaring that name

	for _, e := range entries {
		key := e.Name + "@" + e.Reference
		if _, dup := byKey[key]; dup {
			return nil, fmt.Errorf("fixture: duplicate entry %s", key)
		}
		node := graph.NewInputNode(graph.PackageName(e.Name), graph.Reference(e.Reference))
		for _, p := range e.Peers {
			node.PeerNames[graph.PackageName(p)] = true
		}
		byKey[key] = node
		byName[e.Name] = append(byName[e.Name], key)
	}

	for _, e := range entries {
		key := e.Name + "@" + e.Reference
		node := byKey[key]
		for _, depName := range e.Dependencies {
			depKey, err := resolveDependency(depName, byName, byKey)
			if err != nil {
				return nil, fmt.Errorf("fixture: %s depends on %s: %w", key, depName, err)
			}
			node.AddDependency(byKey[depKey], node.PeerNames[graph.PackageName(depName)])
		}
	}

	root, ok := byKey[rootKey]
	if !ok {
		return nil, fmt.Errorf("fixture: root %q not found among entries", rootKey)
	}
	return root, nil
}

// resolveDependency accepts either a bare package name (resolved uniquely
// if it appears in exactly one entry) or a full "name@reference" key.
func resolveDependency(depName string, byName map[string][]string, byKey map[string]*graph.InputNode) (string, error) {
	if _, ok := byKey[depName]; ok {
		return depName, nil
	}
	keys := byName[depName]
	switch len(keys) {
	case 0:
		return "", fmt.Errorf("no entry named %q", depName)
	case 1:
		return keys[0], nil
	default:
		return "", fmt.Errorf("name %q is ambiguous among %d entries, use name@reference", depName, len(keys))
	}
}
