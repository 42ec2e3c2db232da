package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexandreBonaventure/nodehoist/pkg/graph"
)

func TestParseHoistPayloadRoundTrips(t *testing.T) {
	raw := `{"root":".","entries":[{"name":"A","reference":"npm:1.0.0","dependencies":["B"],"peers":[]}]}`
	msg := Message{Type: TypeHoist, Payload: json.RawMessage(raw)}

	payload, err := ParseHoistPayload(msg)
	require.NoError(t, err)
	assert.Equal(t, ".", payload.Root)
	require.Len(t, payload.Entries, 1)
	assert.Equal(t, "A", payload.Entries[0].Name)
	assert.Equal(t, []string{"B"}, payload.Entries[0].Dependencies)
}

func TestParseHoistPayloadRejectsMalformedJSON(t *testing.T) {
	msg := Message{Type: TypeHoist, Payload: json.RawMessage(`not json`)}
	_, err := ParseHoistPayload(msg)
	assert.Error(t, err)
}

func TestNewResultMessageDeduplicatesSharedNodes(t *testing.T) {
	b := &graph.OutputNode{Name: "B", References: []graph.Reference{"npm:1.0.0"}}
	a := &graph.OutputNode{Name: "A", References: []graph.Reference{"npm:1.0.0"}, Dependencies: []*graph.OutputNode{b}}
	c := &graph.OutputNode{Name: "C", References: []graph.Reference{"npm:1.0.0"}, Dependencies: []*graph.OutputNode{b}}
	root := &graph.OutputNode{Name: ".", References: []graph.Reference{"workspace:."}, Dependencies: []*graph.OutputNode{a, c}}

	msg := NewResultMessage(".", root, "", true)
	assert.Equal(t, TypeResult, msg.Type)

	var payload ResultPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	require.NotNil(t, payload.OutputGraph)

	// b is shared by a and c but must appear exactly once in the flattened list.
	bCount := 0
	for _, n := range payload.OutputGraph.Nodes {
		if n.Name == "B" {
			bCount++
		}
	}
	assert.Equal(t, 1, bCount)
	assert.True(t, payload.ConsistentOK)
}

func TestNewErrorMessageIncludesUnderlyingError(t *testing.T) {
	msg := NewErrorMessage("hoist failed", assert.AnError)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Contains(t, payload.Message, "hoist failed")
	assert.Contains(t, payload.Message, assert.AnError.Error())
}
