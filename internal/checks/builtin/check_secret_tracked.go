package builtin

import (
	"context"

	"gitship/internal/checks"
)

// SecretTrackedCheck reports whether the secrets file is present in the
// version-control index. A flagged finding triggers the precheck stage's
// remediation.
type SecretTrackedCheck struct{}

func (c *SecretTrackedCheck) ID() string {
	return "secret-tracked"
}

func (c *SecretTrackedCheck) Title() string {
	return "Secrets File Not Tracked"
}

func (c *SecretTrackedCheck) Run(ctx context.Context, env checks.Env) checks.Finding {
	if env.Repo == nil {
		return checks.Error(c.ID(), "no repository access configured")
	}
	tracked, err := env.Repo.IsTracked(ctx, env.SecretsFile)
	if err != nil {
		return checks.Error(c.ID(), "could not query index: "+err.Error())
	}
	if tracked {
		return checks.Flagged(c.ID(), env.SecretsFile+" is tracked by version control")
	}
	return checks.OK(c.ID(), env.SecretsFile+" is not tracked")
}
