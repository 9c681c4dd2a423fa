package checks

import (
	"context"

	"gitship/internal/gitcmd"
)

// TokenValidator validates a repository secret against the identity endpoint.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (valid bool, login string, err error)
}

// Env gives checks read access to the run's collaborators. Checks only
// inspect state; the one permitted remediation belongs to the precheck stage.
type Env struct {
	WorkDir     string
	SecretsFile string
	IgnoreFile  string
	Token       string
	Repo        *gitcmd.Repo
	Validator   TokenValidator
}

type Check interface {
	ID() string
	Title() string

	// Run inspects local or remote state and reports a Finding. Checks MUST
	// NOT return through a panic or mutate repository state; any internal
	// failure becomes a Finding with StatusError.
	Run(ctx context.Context, env Env) Finding
}
