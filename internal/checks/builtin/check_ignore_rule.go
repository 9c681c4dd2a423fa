// Package builtin registers the prechecks a deploy run performs. They run in
// registration order: ignore rule, credential, tracked secrets file.
package builtin

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"gitship/internal/checks"
)

// IgnoreRuleCheck verifies the ignore-rules file carries an exact-line entry
// excluding the secrets file.
type IgnoreRuleCheck struct{}

func (c *IgnoreRuleCheck) ID() string {
	return "ignore-rule"
}

func (c *IgnoreRuleCheck) Title() string {
	return "Secrets File Excluded by Ignore Rules"
}

func (c *IgnoreRuleCheck) Run(ctx context.Context, env checks.Env) checks.Finding {
	path := filepath.Join(env.WorkDir, env.IgnoreFile)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return checks.Flagged(c.ID(), env.IgnoreFile+" does not exist")
		}
		return checks.Error(c.ID(), "could not read "+env.IgnoreFile+": "+err.Error())
	}

	if HasIgnoreEntry(string(content), env.SecretsFile) {
		return checks.OK(c.ID(), env.SecretsFile+" is excluded by "+env.IgnoreFile)
	}
	return checks.Flagged(c.ID(), env.IgnoreFile+" has no entry for "+env.SecretsFile)
}

// HasIgnoreEntry reports whether content contains a line exactly equal to
// entry. Substring matches (e.g. "prod.env" vs ".env") do not count.
func HasIgnoreEntry(content, entry string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == entry {
			return true
		}
	}
	return false
}
