package output

import (
	"time"

	"gitship/internal/sequencer"
)

// Event is a lifecycle record for structured output streams.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - precheck.result
// - log
// - run.finished
//
// JSON mode remains an aggregate array of the same Events.
type Event struct {
	Type     string                     `json:"type"`
	RunID    string                     `json:"run_id,omitempty"`
	Level    string                     `json:"level,omitempty"`
	Text     string                     `json:"text,omitempty"`
	Time     time.Time                  `json:"time,omitempty"`
	Precheck *sequencer.PrecheckResult  `json:"precheck,omitempty"`
	Outcome  *sequencer.Outcome         `json:"outcome,omitempty"`
	ExitCode int                        `json:"exit_code,omitempty"`
}

func StartedEvent(runID string) Event {
	return Event{Type: "run.started", RunID: runID, Time: time.Now()}
}

func LogEvent(runID string, e sequencer.Event) Event {
	return Event{Type: "log", RunID: runID, Level: string(e.Level), Text: e.Text, Time: e.Time}
}

func PrecheckEvent(runID string, pre sequencer.PrecheckResult) Event {
	return Event{Type: "precheck.result", RunID: runID, Time: time.Now(), Precheck: &pre}
}

func FinishedEvent(runID string, out sequencer.Outcome, exitCode int) Event {
	return Event{Type: "run.finished", RunID: runID, Time: time.Now(), Outcome: &out, ExitCode: exitCode}
}
