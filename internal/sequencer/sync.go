package sequencer

import (
	"context"
	"errors"
	"strings"

	"gitship/internal/gitcmd"
)

// maxStderrExcerpt bounds how much remote stderr a push failure surfaces.
const maxStderrExcerpt = 800

// previewLimit caps how many change paths are listed individually.
const previewLimit = 200

// sync enforces the two hard preconditions, computes and emits the change
// preview, gates on the precheck credential result, then commits and pushes.
// The second return is true when the run reached a terminal state here,
// either an abort or the "nothing to do" success.
func (s *Sequencer) sync(ctx context.Context, req Request, pre PrecheckResult, emit emitFn) (Outcome, bool) {
	branch, err := s.repo.CurrentBranch(ctx)
	if err != nil {
		return abort(emit, "Could not determine current branch: %v", err), true
	}
	if branch != s.cfg.Deploy.Branch {
		return abort(emit, "Branch must be %q, found %q. Switch branches and retry.", s.cfg.Deploy.Branch, branch), true
	}

	author, err := s.repo.UserName(ctx)
	if err != nil {
		return abort(emit, "Could not read git identity: %v", err), true
	}
	if author == "" {
		return abort(emit, `git user.name is not configured. Set it with 'git config user.name "Your Name"'.`), true
	}

	entries, err := s.repo.Status(ctx)
	if err != nil {
		return abort(emit, "Could not enumerate changes: %v", err), true
	}
	cs := buildChangeSet(s.cfg.Deploy.WorkDir, s.cfg.Deploy.SecretsFile, entries)

	if cs.Empty() {
		emit(LevelInfo, "No changes detected. Nothing to send.")
		return Outcome{Succeeded: true, Message: "No changes to send."}, true
	}

	// The preview is emitted before the credential gate so operators can see
	// what would have been sent even on a run that aborts below.
	emit(LevelInfo, "Preview: %d file(s), %d bytes to send", len(cs.Changes), cs.TotalBytes())
	for i, c := range cs.Changes {
		if i == previewLimit {
			emit(LevelInfo, "  ... and %d more", len(cs.Changes)-previewLimit)
			break
		}
		emit(LevelInfo, "  -> %s (%d bytes)", c.Path, c.Size)
	}

	if !pre.CredentialValid {
		return abort(emit, "Repository secret is invalid or missing. Aborting before push."), true
	}

	emit(LevelInfo, "Staging changes...")
	if err := s.repo.AddAll(ctx); err != nil {
		return abort(emit, "Could not stage changes: %v", err), true
	}

	clean, err := s.repo.IndexClean(ctx)
	if err != nil {
		return abort(emit, "Could not inspect the index: %v", err), true
	}
	if clean {
		// The remediation commit already captured everything; an empty commit
		// would fail, and that exact condition is a success.
		emit(LevelInfo, "Nothing left to commit after staging.")
	} else {
		if err := s.repo.Commit(ctx, s.cfg.Deploy.CommitMessage); err != nil {
			return abort(emit, "Commit failed: %v", err), true
		}
		emit(LevelInfo, "Commit created.")
	}

	emit(LevelInfo, "Pushing %s to %s...", s.cfg.Deploy.Branch, s.cfg.Deploy.Remote)
	if err := s.repo.Push(ctx, s.cfg.Deploy.Remote, s.cfg.Deploy.Branch); err != nil {
		var cmdErr *gitcmd.CommandError
		if errors.As(err, &cmdErr) {
			return abort(emit, "Push failed: %s", truncate(strings.TrimSpace(cmdErr.Stderr), maxStderrExcerpt)), true
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return abort(emit, "Push timed out."), true
		}
		return abort(emit, "Push failed: %v", err), true
	}
	emit(LevelInfo, "Push completed.")

	return Outcome{}, false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
