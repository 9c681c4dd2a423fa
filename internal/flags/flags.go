// Package flags defines canonical CLI flag names shared across the CLI and the
// sequencer wiring. Keeping these as constants avoids drift between Cobra flag
// registration and other code paths that reference flags by name.
package flags

// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Deploy target
	FlagBranch      = "branch"
	FlagRemote      = "remote"
	FlagServiceID   = "service-id"
	FlagServiceURL  = "service-url"
	FlagSecretsFile = "secrets-file"
	FlagIgnoreFile  = "ignore-file"
	FlagDir         = "dir"

	// Credentials
	FlagGitHubToken = "github-token"
	FlagHostingKey  = "hosting-key"
	FlagEnvFile     = "env-file"

	// Output
	FlagConsoleFormat      = "console-format"
	FlagConsoleFilterLevel = "console-filter-level"
	FlagOut                = "out"
	FlagOutFormat          = "out-format"
	FlagEmit               = "emit"
	FlagNoConsole          = "no-console"
	FlagAuditLog           = "audit-log"

	// Runtime
	FlagValidateTimeout = "validate-timeout"
	FlagGitTimeout      = "git-timeout"
	FlagRedeployTimeout = "redeploy-timeout"
)
