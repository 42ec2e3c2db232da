package server

import (
	"fmt"
	"log"

	"github.com/AlexandreBonaventure/nodehoist/internal/fixture"
	"github.com/AlexandreBonaventure/nodehoist/internal/hoist"
)

// ProgressSender is how a Session reports back to its WebSocket
// connection without depending on the transport directly.
type ProgressSender interface {
	SendMessage(msg Message)
	SendLog(message, level string)
	SendProgress(percent int, stage, message string)
	SendError(message string, err error)
}

// Session drives a single hoist over one WebSocket connection: parse the
// client's graph, run the engine, and stream back progress and a result.
type Session struct {
	debugLevel int
	sender     ProgressSender
}

// NewSession creates a Session that reports through sender.
func NewSession(sender ProgressSender, debugLevel int) *Session {
	return &Session{sender: sender, debugLevel: debugLevel}
}

// log sends a log message both to the WebSocket client and to the console.
func (s *Session) log(message, level string) {
	s.sender.SendLog(message, level)

	prefix := "[INFO]"
	switch level {
	case "success":
		prefix = "[SUCCESS]"
	case "warning":
		prefix = "[WARN]"
	case "error":
		prefix = "[ERROR]"
	}
	log.Printf("%s %s", prefix, message)
}

// Run parses payload, hoists it, and streams progress/result/complete
// messages back through the Session's sender.
func (s *Session) Run(payload *HoistPayload) error {
	s.log("Starting hoist...", "info")
	s.sender.SendProgress(0, "parse", "Parsing input graph...")

	entries := make([]fixture.Entry, len(payload.Entries))
	for i, e := range payload.Entries {
		entries[i] = fixture.Entry{
			Name:         e.Name,
			Reference:    e.Reference,
			Dependencies: e.Dependencies,
			Peers:        e.Peers,
		}
	}

	input, err := fixture.BuildGraph(payload.Root, entries)
	if err != nil {
		return fmt.Errorf("failed to parse input graph: %w", err)
	}

	s.sender.SendMessage(NewGraphMessage(payload.Root, len(entries)))
	s.sender.SendProgress(20, "parse", fmt.Sprintf("Parsed %d package instances", len(entries)))

	s.sender.SendProgress(30, "hoist", "Running hoist engine...")
	out, hoistErr := hoist.Hoist(input, hoist.Options{DebugLevel: s.debugLevel})

	if consErr, ok := hoistErr.(*hoist.ConsistencyError); ok {
		s.log(fmt.Sprintf("consistency check failed: %d problem(s)", len(consErr.Log)), "error")
		s.sender.SendError("hoist produced an inconsistent graph", consErr)
		s.sender.SendMessage(NewCompleteMessage(false, "consistency check failed"))
		return nil
	}
	if hoistErr != nil {
		return fmt.Errorf("hoist failed: %w", hoistErr)
	}

	s.sender.SendProgress(90, "check", "Hoist complete, rendering result...")
	s.sender.SendMessage(NewResultMessage(payload.Root, out, "", true))
	s.sender.SendMessage(NewCompleteMessage(true, "hoist complete"))

	s.sender.SendProgress(100, "check", "Done")
	s.log("Hoist complete", "success")
	return nil
}
