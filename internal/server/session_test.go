package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records every message sent through it instead of writing to a
// real WebSocket connection.
type fakeSender struct {
	messages []Message
}

func (f *fakeSender) SendMessage(msg Message) {
	f.messages = append(f.messages, msg)
}

func (f *fakeSender) SendLog(message, level string) {
	f.SendMessage(NewLogMessage(message, level))
}

func (f *fakeSender) SendProgress(percent int, stage, message string) {
	f.SendMessage(NewProgressMessage(percent, stage, message))
}

func (f *fakeSender) SendError(message string, err error) {
	f.SendMessage(NewErrorMessage(message, err))
}

func (f *fakeSender) ofType(t MessageType) []Message {
	var out []Message
	for _, m := range f.messages {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func TestSessionRunProducesResultAndCompleteOnSuccess(t *testing.T) {
	sender := &fakeSender{}
	session := NewSession(sender, 1)

	payload := &HoistPayload{
		Root: ".@workspace:.",
		Entries: []FixtureEntry{
			{Name: ".", Reference: "workspace:.", Dependencies: []string{"A", "C"}},
			{Name: "A", Reference: "npm:1.0.0", Dependencies: []string{"B"}},
			{Name: "C", Reference: "npm:1.0.0", Dependencies: []string{"B"}},
			{Name: "B", Reference: "npm:1.0.0"},
		},
	}

	err := session.Run(payload)
	require.NoError(t, err)

	require.Len(t, sender.ofType(TypeGraph), 1)
	require.Len(t, sender.ofType(TypeResult), 1)
	complete := sender.ofType(TypeComplete)
	require.Len(t, complete, 1)

	var cp CompletePayload
	require.NoError(t, json.Unmarshal(complete[0].Payload, &cp))
	assert.True(t, cp.Success)

	assert.Empty(t, sender.ofType(TypeError))
}

func TestSessionRunReturnsErrorOnMalformedGraph(t *testing.T) {
	sender := &fakeSender{}
	session := NewSession(sender, 1)

	payload := &HoistPayload{
		Root:    ".@workspace:.",
		Entries: []FixtureEntry{{Name: ".", Reference: "workspace:.", Dependencies: []string{"missing"}}},
	}

	err := session.Run(payload)
	assert.Error(t, err)
	assert.Empty(t, sender.ofType(TypeComplete))
}

func TestSessionRunReportsParseFailureAsGoError(t *testing.T) {
	sender := &fakeSender{}
	session := NewSession(sender, 0)

	payload := &HoistPayload{
		Root:    "unknown-root",
		Entries: []FixtureEntry{{Name: "A", Reference: "npm:1.0.0"}},
	}

	err := session.Run(payload)
	assert.Error(t, err)
	assert.Empty(t, sender.ofType(TypeResult))
}
