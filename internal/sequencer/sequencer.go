// Package sequencer runs the guarded deploy sequence: precheck, sync, release.
// Control flows strictly through the three stages, each able to short-circuit
// the run into a terminal Outcome.
package sequencer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitship/internal/checks"
	"gitship/internal/config"
	"gitship/internal/gitcmd"
	"gitship/internal/hosting"
)

// Request carries the per-run secrets and target. It is passed by value and
// immutable for the duration of one run.
type Request struct {
	GitHubToken string
	HostingKey  string
	ServiceID   string
}

// ReleaseClient triggers a redeploy on the hosting provider.
type ReleaseClient interface {
	TriggerDeploy(ctx context.Context, serviceID string) (*hosting.Deploy, error)
}

// Auditor durably records every event of a run. Implementations must never
// fail the run; whatever goes wrong while appending is swallowed.
type Auditor interface {
	Record(runID, level, text string, at time.Time)
}

type Sequencer struct {
	cfg       *config.Config
	repo      *gitcmd.Repo
	validator checks.TokenValidator
	release   ReleaseClient
	auditor   Auditor
}

func New(cfg *config.Config, repo *gitcmd.Repo, validator checks.TokenValidator, release ReleaseClient, auditor Auditor) *Sequencer {
	return &Sequencer{
		cfg:       cfg,
		repo:      repo,
		validator: validator,
		release:   release,
		auditor:   auditor,
	}
}

// RunHandle exposes one in-flight run. Events streams the log; Precheck
// delivers the precheck summary once it is known; Done delivers the terminal
// Outcome and then closes. All three channels close when the run ends.
type RunHandle struct {
	ID       string
	Events   <-chan Event
	Precheck <-chan PrecheckResult
	Done     <-chan Outcome
}

// emitFn appends one event to the run's log stream.
type emitFn func(level Level, format string, args ...any)

// Run starts one deploy sequence on its own goroutine so the caller's
// interactive surface is never blocked by process or network calls. The
// events channel is buffered and sends never block the worker: if the
// consumer lags far behind, events are dropped from the stream (the audit
// log still gets every one). Exactly one Outcome is delivered.
//
// Run does not dedupe: at most one run should be in flight per invocation,
// and re-entrant triggers are the caller's problem.
func (s *Sequencer) Run(ctx context.Context, req Request) RunHandle {
	events := make(chan Event, 256)
	preCh := make(chan PrecheckResult, 1)
	done := make(chan Outcome, 1)
	runID := uuid.NewString()

	emit := func(level Level, format string, args ...any) {
		e := Event{Level: level, Text: fmt.Sprintf(format, args...), Time: time.Now()}
		if s.auditor != nil {
			s.auditor.Record(runID, string(e.Level), e.Text, e.Time)
		}
		select {
		case events <- e:
		default:
		}
	}

	go func() {
		out := s.run(ctx, req, emit, func(p PrecheckResult) { preCh <- p })
		close(preCh)
		close(events)
		done <- out
		close(done)
	}()

	return RunHandle{ID: runID, Events: events, Precheck: preCh, Done: done}
}

// run executes the sequence to a terminal state. Unexpected faults are
// reported as a generic failure outcome; a run never crashes silently.
func (s *Sequencer) run(ctx context.Context, req Request, emit emitFn, sendPre func(PrecheckResult)) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			emit(LevelError, "Unexpected fault: %v", r)
			out = Outcome{Succeeded: false, Message: fmt.Sprintf("unexpected fault: %v", r)}
		}
	}()

	emit(LevelInfo, "Starting guarded deploy...")

	pre := s.precheck(ctx, req, emit)
	sendPre(pre)

	if terminal, ok := s.sync(ctx, req, pre, emit); ok {
		return terminal
	}

	return s.releaseStage(ctx, req, emit)
}

// abort ends a run in the Aborted terminal state.
func abort(emit emitFn, format string, args ...any) Outcome {
	emit(LevelError, format, args...)
	return Outcome{Succeeded: false, Message: fmt.Sprintf(format, args...)}
}

// wrapEmit adapts a synchronous event callback into an emitFn, mirroring
// every event to the audit log under the given run ID.
func wrapEmit(runID string, emit func(Event), auditor Auditor) emitFn {
	return func(level Level, format string, args ...any) {
		e := Event{Level: level, Text: fmt.Sprintf(format, args...), Time: time.Now()}
		if auditor != nil {
			auditor.Record(runID, string(e.Level), e.Text, e.Time)
		}
		emit(e)
	}
}
