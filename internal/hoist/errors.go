package hoist

import (
	"fmt"
	"strings"
)

// ConsistencyError is returned when the Self-Checker finds that hoisting
// broke a dependency or peer-dependency promise. Log holds one line per
// broken promise; Dump is a full tree rendering of the graph as it stood
// when the check ran, for offline debugging.
type ConsistencyError struct {
	Log  []string
	Dump string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("hoisted graph failed consistency check (%d problem(s)):\n%s", len(e.Log), strings.Join(e.Log, "\n"))
}
