package gitcmd

import (
	"context"
	"strings"
)

// Repo issues the fixed git queries and mutations the deploy sequence uses.
// It never constructs argument vectors from untrusted input beyond file paths,
// which are always passed after a "--" separator.
type Repo struct {
	runner Runner
}

func NewRepo(r Runner) *Repo {
	return &Repo{runner: r}
}

// CurrentBranch returns the checked-out branch name. A detached HEAD yields
// an empty string, not an error.
func (g *Repo) CurrentBranch(ctx context.Context) (string, error) {
	res, err := g.runner.Run(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &CommandError{Args: []string{"branch", "--show-current"}, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return strings.TrimSpace(res.Stdout), nil
}

// UserName returns the configured git author name, or "" when unset.
// git config exits 1 for an unset key; that is not an error here.
func (g *Repo) UserName(ctx context.Context) (string, error) {
	res, err := g.runner.Run(ctx, "config", "user.name")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// IsTracked reports whether path is present in the version-control index.
func (g *Repo) IsTracked(ctx context.Context, path string) (bool, error) {
	res, err := g.runner.Run(ctx, "ls-files", "--", path)
	if err != nil {
		return false, err
	}
	if res.ExitCode != 0 {
		return false, &CommandError{Args: []string{"ls-files", "--", path}, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

// StatusEntry is one line of porcelain status output.
type StatusEntry struct {
	Code string
	Path string
}

// Status enumerates uncommitted local modifications in porcelain order.
func (g *Repo) Status(ctx context.Context) ([]StatusEntry, error) {
	res, err := g.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &CommandError{Args: []string{"status", "--porcelain"}, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return parsePorcelain(res.Stdout), nil
}

// parsePorcelain splits `git status --porcelain` output into entries.
// Lines are "XY path"; renames are "XY old -> new" and resolve to new.
func parsePorcelain(out string) []StatusEntry {
	var entries []StatusEntry
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" || len(line) < 4 {
			continue
		}
		code := line[:2]
		path := line[3:]
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+len(" -> "):]
		}
		path = strings.Trim(path, `"`)
		entries = append(entries, StatusEntry{Code: code, Path: path})
	}
	return entries
}

// AddAll stages every pending change.
func (g *Repo) AddAll(ctx context.Context) error {
	return g.mutate(ctx, "add", ".")
}

// Add stages a single path.
func (g *Repo) Add(ctx context.Context, path string) error {
	return g.mutate(ctx, "add", "--", path)
}

// Untrack removes path from the index while keeping the working copy.
func (g *Repo) Untrack(ctx context.Context, path string) error {
	return g.mutate(ctx, "rm", "--cached", "--", path)
}

// Commit records the staged changes with the given message.
func (g *Repo) Commit(ctx context.Context, message string) error {
	return g.mutate(ctx, "commit", "-m", message)
}

// IndexClean reports whether the index holds no staged changes. This is the
// explicit signal for "nothing to commit"; command output text is never
// matched because it is locale dependent.
func (g *Repo) IndexClean(ctx context.Context) (bool, error) {
	res, err := g.runner.Run(ctx, "diff", "--cached", "--quiet")
	if err != nil {
		return false, err
	}
	switch res.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, &CommandError{Args: []string{"diff", "--cached", "--quiet"}, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
}

// Push updates branch on remote. A non-zero exit surfaces as a *CommandError
// carrying the remote's stderr.
func (g *Repo) Push(ctx context.Context, remote, branch string) error {
	return g.mutate(ctx, "push", remote, branch)
}

func (g *Repo) mutate(ctx context.Context, args ...string) error {
	res, err := g.runner.Run(ctx, args...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &CommandError{Args: args, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}
