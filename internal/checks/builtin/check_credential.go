package builtin

import (
	"context"

	"gitship/internal/checks"
)

// CredentialCheck validates the repository secret against the identity
// endpoint. A missing token, a validation failure, and a network error all
// flag the credential; none of them is a stage failure.
type CredentialCheck struct{}

func (c *CredentialCheck) ID() string {
	return "credential"
}

func (c *CredentialCheck) Title() string {
	return "Repository Secret Valid"
}

func (c *CredentialCheck) Run(ctx context.Context, env checks.Env) checks.Finding {
	if env.Token == "" {
		return checks.Flagged(c.ID(), "no repository secret supplied")
	}
	if env.Validator == nil {
		return checks.Error(c.ID(), "no validator configured")
	}

	valid, login, err := env.Validator.Validate(ctx, env.Token)
	if err != nil {
		return checks.Flagged(c.ID(), "could not validate repository secret: "+err.Error())
	}
	if !valid {
		return checks.Flagged(c.ID(), "repository secret rejected by identity endpoint")
	}

	f := checks.OK(c.ID(), "repository secret valid")
	if login != "" {
		f.Details = map[string]string{"login": login}
	}
	return f
}
