package sequencer

import "time"

// Level tags an Event in the run's log stream.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	// LevelAction marks a remediating mutation the sequence performed itself.
	LevelAction Level = "action"
)

// Event is one entry of the append-only log stream a run emits. Events are
// never mutated after emission.
type Event struct {
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	Time  time.Time `json:"time"`
}

// Outcome is the terminal result of a run, produced exactly once.
type Outcome struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
}

// PrecheckResult summarizes the precheck stage for display and for the sync
// stage's credential gate.
type PrecheckResult struct {
	IgnoreRuleSatisfied bool `json:"ignore_rule_satisfied"`
	CredentialValid     bool `json:"credential_valid"`
	SecretFileTracked   bool `json:"secret_file_tracked"`
}
