package sequencer

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"gitship/internal/checks"
	"gitship/internal/checks/builtin"
)

// precheck runs the registered checks in fixed order, isolated from each
// other, then applies the one permitted remediation when the secrets file is
// tracked. The stage records failures but never aborts the sequence.
func (s *Sequencer) precheck(ctx context.Context, req Request, emit emitFn) PrecheckResult {
	env := checks.Env{
		WorkDir:     s.cfg.Deploy.WorkDir,
		SecretsFile: s.cfg.Deploy.SecretsFile,
		IgnoreFile:  s.cfg.Deploy.IgnoreFile,
		Token:       req.GitHubToken,
		Repo:        s.repo,
		Validator:   s.validator,
	}

	findings := make(map[string]checks.Finding)
	for _, c := range checks.List() {
		f := c.Run(ctx, env)
		findings[c.ID()] = f
		switch f.Status {
		case checks.StatusOK:
			emit(LevelInfo, "[precheck] %s: %s", c.ID(), f.Message)
		default:
			emit(LevelWarning, "[precheck] %s: %s", c.ID(), f.Message)
		}
	}

	res := PrecheckResult{
		IgnoreRuleSatisfied: findings["ignore-rule"].Status == checks.StatusOK,
		CredentialValid:     findings["credential"].Status == checks.StatusOK,
		SecretFileTracked:   findings["secret-tracked"].Status == checks.StatusFlagged,
	}

	// The remediation commit is unconditional once a tracked secrets file is
	// detected. Its own failures are reported but still do not abort here.
	if res.SecretFileTracked {
		s.remediate(ctx, emit)
	}

	return res
}

// remediate untracks the secrets file, guarantees the ignore entry, and
// commits the fix with the configured message.
func (s *Sequencer) remediate(ctx context.Context, emit emitFn) {
	secrets := s.cfg.Deploy.SecretsFile
	ignore := s.cfg.Deploy.IgnoreFile

	emit(LevelAction, "Removing %s from the index...", secrets)
	if err := s.repo.Untrack(ctx, secrets); err != nil {
		emit(LevelError, "Could not untrack %s: %v", secrets, err)
		return
	}

	if err := s.ensureIgnoreEntry(); err != nil {
		emit(LevelError, "Could not update %s: %v", ignore, err)
		return
	}
	emit(LevelAction, "Ensured %s excludes %s", ignore, secrets)

	if err := s.repo.Add(ctx, ignore); err != nil {
		emit(LevelError, "Could not stage %s: %v", ignore, err)
		return
	}
	if err := s.repo.Commit(ctx, s.cfg.Deploy.RemediationMessage); err != nil {
		emit(LevelError, "Remediation commit failed: %v", err)
		return
	}
	emit(LevelAction, "Committed removal of %s from version control", secrets)
}

// ensureIgnoreEntry creates the ignore file with a single exclusion line, or
// appends the exclusion when the file exists without it.
func (s *Sequencer) ensureIgnoreEntry() error {
	path := filepath.Join(s.cfg.Deploy.WorkDir, s.cfg.Deploy.IgnoreFile)
	entry := s.cfg.Deploy.SecretsFile

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		return os.WriteFile(path, []byte(entry+"\n"), 0o644)
	}

	if builtin.HasIgnoreEntry(string(content), entry) {
		return nil
	}

	text := string(content)
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += entry + "\n"
	return os.WriteFile(path, []byte(text), 0o644)
}

// RunPrecheck executes only the precheck stage, synchronously, for callers
// that want the safety summary without deploying.
func (s *Sequencer) RunPrecheck(ctx context.Context, req Request, runID string, emit func(Event)) PrecheckResult {
	fn := emitFn(func(level Level, format string, args ...any) {})
	if emit != nil {
		fn = wrapEmit(runID, emit, s.auditor)
	}
	return s.precheck(ctx, req, fn)
}
