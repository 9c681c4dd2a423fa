package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ConsoleSink renders run events for a human at a terminal.
type ConsoleSink struct {
	writer        io.Writer
	format        string // "text", "json", "ndjson"
	mu            sync.Mutex
	events        []Event // for JSON array output
	allowedLevels map[string]bool
}

func NewConsoleSink(w io.Writer, format string, filterLevels []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterLevels) > 0 {
		s.allowedLevels = make(map[string]bool)
		for _, lvl := range filterLevels {
			s.allowedLevels[strings.ToLower(strings.TrimSpace(lvl))] = true
		}
	}

	return s
}

func (s *ConsoleSink) Write(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Level filtering only applies to log events; lifecycle records always pass.
	if len(s.allowedLevels) > 0 && e.Type == "log" && !s.allowedLevels[e.Level] {
		return nil
	}

	switch s.format {
	case "json":
		s.events = append(s.events, e)
		return nil
	case "ndjson":
		if err := json.NewEncoder(s.writer).Encode(e); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	case "text":
		if err := s.writeText(e); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeText(e Event) error {
	switch e.Type {
	case "log":
		label := strings.ToUpper(e.Level)
		switch e.Level {
		case "error":
			label = color.New(color.FgRed).Sprint(label)
		case "warning":
			label = color.New(color.FgYellow).Sprint(label)
		case "action":
			label = color.New(color.FgCyan).Sprint(label)
		}
		_, err := fmt.Fprintf(s.writer, "[%s] %s\n", label, e.Text)
		return err
	case "precheck.result":
		if e.Precheck == nil {
			return nil
		}
		_, err := fmt.Fprintf(s.writer, "Precheck: ignore rule %s | credential %s | secrets file %s\n",
			okLabel(e.Precheck.IgnoreRuleSatisfied),
			okLabel(e.Precheck.CredentialValid),
			trackedLabel(e.Precheck.SecretFileTracked),
		)
		return err
	case "run.finished":
		if e.Outcome == nil {
			return nil
		}
		verdict := color.New(color.FgGreen, color.Bold).Sprint("OK")
		if !e.Outcome.Succeeded {
			verdict = color.New(color.FgRed, color.Bold).Sprint("FAILED")
		}
		_, err := fmt.Fprintf(s.writer, "%s %s\n", verdict, e.Outcome.Message)
		return err
	default:
		// run.started carries nothing a human needs.
		return nil
	}
}

func okLabel(ok bool) string {
	if ok {
		return color.GreenString("ok")
	}
	return color.RedString("not ok")
}

func trackedLabel(tracked bool) string {
	if tracked {
		return color.YellowString("tracked (remediated)")
	}
	return color.GreenString("untracked")
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.events); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
