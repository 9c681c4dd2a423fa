package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// sequence behavior, keep the CLI flags in internal/cli/deploy.go in sync.
	Deploy      Deploy
	Credentials Credentials
	Output      Output
	Runtime     Runtime
}

type Deploy struct {
	// Branch is the only branch eligible for the deploy sequence (see --branch).
	// Any other current branch, including a detached HEAD, aborts the run.
	Branch string

	// Remote is the git remote the deploy branch is pushed to (see --remote).
	Remote string

	// ServiceID identifies the hosting provider service to redeploy (see --service-id).
	ServiceID string

	// ServiceURL is the public URL of the deployed service, printed after a
	// successful run when set (see --service-url).
	ServiceURL string

	// SecretsFile is the relative path of the local credentials file that must
	// never be tracked by version control (see --secrets-file).
	SecretsFile string

	// IgnoreFile is the ignore-rules file that must carry an exact-line entry
	// for SecretsFile (see --ignore-file).
	IgnoreFile string

	// WorkDir is the repository working directory the sequence operates on
	// (see --dir). Empty means the current directory.
	WorkDir string

	// CommitMessage is the fixed message used for the deploy commit.
	CommitMessage string

	// RemediationMessage is the fixed message used for the commit that removes
	// a tracked secrets file. Empty means derived from SecretsFile.
	RemediationMessage string
}

// Credentials configures where secrets come from. The secret values
// themselves never live in Config; resolution happens in internal/credentials
// and the resolved values travel only inside a run Request.
type Credentials struct {
	// EnvFile is an optional dotenv file to load credentials from (see --env-file).
	EnvFile string
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterLevel filters console output by event level (see --console-filter-level).
	// Allowed values: info, warning, error, action.
	ConsoleFilterLevel []string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool

	// AuditLog is the append-only audit log path (see --audit-log).
	// Empty disables the audit file; write failures never abort a run.
	AuditLog string
}

type Runtime struct {
	// ValidateTimeout bounds the identity-validation call (see --validate-timeout).
	ValidateTimeout time.Duration

	// GitTimeout bounds each git invocation (see --git-timeout).
	GitTimeout time.Duration

	// RedeployTimeout bounds the redeploy-trigger call (see --redeploy-timeout).
	RedeployTimeout time.Duration

	// Verbose enables detailed diagnostics (prints every HTTP call).
	Verbose bool
}

func New() *Config {
	return &Config{
		Deploy: Deploy{
			Branch:        "main",
			Remote:        "origin",
			SecretsFile:   ".env",
			IgnoreFile:    ".gitignore",
			CommitMessage: "Deploy: automated update",
		},
		Output: Output{
			ConsoleFormat: "text",
			AuditLog:      "deploy_log.txt",
		},
		Runtime: Runtime{
			ValidateTimeout: 7 * time.Second,
			GitTimeout:      2 * time.Minute,
			RedeployTimeout: 20 * time.Second,
		},
	}
}

func (c *Config) Validate() error {
	c.Output.Emit = splitCommaList(c.Output.Emit)
	c.Output.ConsoleFilterLevel = splitCommaList(c.Output.ConsoleFilterLevel)

	if strings.TrimSpace(c.Deploy.Branch) == "" {
		return errors.New("--branch must not be empty")
	}
	if strings.ContainsAny(c.Deploy.Branch, " \t") {
		return fmt.Errorf("invalid --branch value: %q", c.Deploy.Branch)
	}
	if strings.TrimSpace(c.Deploy.Remote) == "" {
		return errors.New("--remote must not be empty")
	}
	if strings.TrimSpace(c.Deploy.SecretsFile) == "" {
		return errors.New("--secrets-file must not be empty")
	}
	if strings.TrimSpace(c.Deploy.IgnoreFile) == "" {
		return errors.New("--ignore-file must not be empty")
	}
	if c.Deploy.RemediationMessage == "" {
		c.Deploy.RemediationMessage = fmt.Sprintf("fix: remove %s from version control", c.Deploy.SecretsFile)
	}

	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}
	for _, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", emit)
		}
	}
	for _, lvl := range c.Output.ConsoleFilterLevel {
		v := normalizeEnumValue(lvl)
		if v != "info" && v != "warning" && v != "error" && v != "action" {
			return fmt.Errorf("unsupported --console-filter-level value: %s (must be one of: info, warning, error, action)", lvl)
		}
	}
	if c.Output.OutFormat != "" {
		v := normalizeEnumValue(c.Output.OutFormat)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --out-format: %s (must be one of: json, ndjson)", c.Output.OutFormat)
		}
		c.Output.OutFormat = v
	}

	if c.Runtime.ValidateTimeout <= 0 {
		return errors.New("--validate-timeout must be positive")
	}
	if c.Runtime.GitTimeout <= 0 {
		return errors.New("--git-timeout must be positive")
	}
	if c.Runtime.RedeployTimeout <= 0 {
		return errors.New("--redeploy-timeout must be positive")
	}
	return nil
}

func normalizeEnumValue(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// splitCommaList expands values that themselves contain comma-separated
// entries, so "--emit json,ndjson" and repeated flags behave the same.
func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
