package server

import (
	"encoding/json"
	"fmt"

	"github.com/AlexandreBonaventure/nodehoist/pkg/graph"
)

// MessageType represents the type of WebSocket message.
type MessageType string

const (
	// Client -> Server
	TypeHoist MessageType = "hoist" // Client sends a graph to hoist
	TypePing  MessageType = "ping"  // Keep-alive

	// Server -> Client
	TypeGraph    MessageType = "graph"    // Parsed input graph's root and entry count
	TypeProgress MessageType = "progress" // Progress updates
	TypeLog      MessageType = "log"      // Log messages for terminal
	TypeResult   MessageType = "result"   // The hoisted output graph
	TypeComplete MessageType = "complete" // Hoist complete
	TypeError    MessageType = "error"    // Error message
)

// Message is the base WebSocket message structure.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// HoistPayload is sent by the client to request a hoist, carrying the
// same flat entry shape internal/fixture reads from disk.
type HoistPayload struct {
	Root    string         `json:"root"`
	Entries []FixtureEntry `json:"entries"`
}

// FixtureEntry mirrors internal/fixture's on-disk entry shape so the
// wire format and the file format stay identical.
type FixtureEntry struct {
	Name         string   `json:"name"`
	Reference    string   `json:"reference"`
	Dependencies []string `json:"dependencies"`
	Peers        []string `json:"peers"`
}

// GraphPayload tells the client which root was parsed and how many
// package entries the input graph has, before the hoist runs.
type GraphPayload struct {
	Root      string `json:"root"`
	NodeCount int    `json:"node_count"`
}

// ProgressPayload for progress bar updates.
type ProgressPayload struct {
	Percent int    `json:"percent"` // 0-100
	Stage   string `json:"stage"`   // "parse", "hoist", "check"
	Message string `json:"message"`
}

// LogPayload for terminal output.
type LogPayload struct {
	Message string `json:"message"`
	Level   string `json:"level,omitempty"` // "info", "success", "warning", "error"
}

// ResultPayload carries the hoisted output graph as an index-addressed
// node list, plus an optional pretty-printed tree dump (Session leaves
// Dump empty).
type ResultPayload struct {
	Root         string       `json:"root"`
	Dump         string       `json:"dump"`
	OutputGraph  *outputGraph `json:"output_graph"`
	ConsistentOK bool         `json:"consistent"`
}

type outputNode struct {
	Name         string   `json:"name"`
	References   []string `json:"references"`
	Dependencies []int    `json:"dependencies"` // indices into outputGraph.Nodes
}

type outputGraph struct {
	RootIndex int          `json:"root_index"`
	Nodes     []outputNode `json:"nodes"`
}

// CompletePayload sent when a hoist is done.
type CompletePayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorPayload for error messages.
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func NewGraphMessage(root string, nodeCount int) Message {
	return mustMessage(TypeGraph, GraphPayload{Root: root, NodeCount: nodeCount})
}

func NewProgressMessage(percent int, stage, message string) Message {
	return mustMessage(TypeProgress, ProgressPayload{Percent: percent, Stage: stage, Message: message})
}

func NewLogMessage(message, level string) Message {
	return mustMessage(TypeLog, LogPayload{Message: message, Level: level})
}

// NewResultMessage flattens out (which may share and cycle through nodes)
// into an index-addressed node list, memoized by pointer identity so each
// shared subtree is emitted exactly once.
func NewResultMessage(root string, out *graph.OutputNode, dump string, consistentOK bool) Message {
	index := make(map[*graph.OutputNode]int)
	var nodes []outputNode

	var visit func(n *graph.OutputNode) int
	visit = func(n *graph.OutputNode) int {
		if i, ok := index[n]; ok {
			return i
		}
		i := len(nodes)
		index[n] = i
		refs := make([]string, len(n.References))
		for j, r := range n.References {
			refs[j] = string(r)
		}
		nodes = append(nodes, outputNode{Name: string(n.Name), References: refs})
		deps := make([]int, len(n.Dependencies))
		for j, d := range n.Dependencies {
			deps[j] = visit(d)
		}
		nodes[i].Dependencies = deps
		return i
	}

	rootIndex := visit(out)

	return mustMessage(TypeResult, ResultPayload{
		Root:         root,
		Dump:         dump,
		ConsistentOK: consistentOK,
		OutputGraph:  &outputGraph{RootIndex: rootIndex, Nodes: nodes},
	})
}

func NewCompleteMessage(success bool, message string) Message {
	return mustMessage(TypeComplete, CompletePayload{Success: success, Message: message})
}

func NewErrorMessage(message string, err error) Message {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	return mustMessage(TypeError, ErrorPayload{Message: message})
}

// ParseHoistPayload extracts the hoist request from a client message.
func ParseHoistPayload(msg Message) (*HoistPayload, error) {
	var payload HoistPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse hoist payload: %w", err)
	}
	return &payload, nil
}

func mustMessage(t MessageType, payload any) Message {
	b, _ := json.Marshal(payload)
	return Message{Type: t, Payload: b}
}
