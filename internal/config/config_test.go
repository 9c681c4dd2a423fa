package config

import (
	"strings"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Deploy.Branch != "main" {
		t.Fatalf("want default branch main, got %q", cfg.Deploy.Branch)
	}
	if cfg.Deploy.Remote != "origin" {
		t.Fatalf("want default remote origin, got %q", cfg.Deploy.Remote)
	}
	if cfg.Deploy.SecretsFile != ".env" || cfg.Deploy.IgnoreFile != ".gitignore" {
		t.Fatalf("unexpected file defaults: %q %q", cfg.Deploy.SecretsFile, cfg.Deploy.IgnoreFile)
	}
}

func TestValidateDerivesRemediationMessage(t *testing.T) {
	cfg := New()
	cfg.Deploy.SecretsFile = "secrets.yaml"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := "fix: remove secrets.yaml from version control"
	if cfg.Deploy.RemediationMessage != want {
		t.Fatalf("want %q, got %q", want, cfg.Deploy.RemediationMessage)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty branch", func(c *Config) { c.Deploy.Branch = " " }, "--branch"},
		{"branch with spaces", func(c *Config) { c.Deploy.Branch = "my branch" }, "--branch"},
		{"empty remote", func(c *Config) { c.Deploy.Remote = "" }, "--remote"},
		{"empty secrets file", func(c *Config) { c.Deploy.SecretsFile = "" }, "--secrets-file"},
		{"empty ignore file", func(c *Config) { c.Deploy.IgnoreFile = "" }, "--ignore-file"},
		{"bad console format", func(c *Config) { c.Output.ConsoleFormat = "yaml" }, "--console-format"},
		{"bad emit", func(c *Config) { c.Output.Emit = []string{"xml"} }, "--emit"},
		{"bad filter level", func(c *Config) { c.Output.ConsoleFilterLevel = []string{"debug"} }, "--console-filter-level"},
		{"bad out format", func(c *Config) { c.Output.OutFormat = "csv" }, "--out-format"},
		{"zero validate timeout", func(c *Config) { c.Runtime.ValidateTimeout = 0 }, "--validate-timeout"},
		{"zero git timeout", func(c *Config) { c.Runtime.GitTimeout = 0 }, "--git-timeout"},
		{"zero redeploy timeout", func(c *Config) { c.Runtime.RedeployTimeout = 0 }, "--redeploy-timeout"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("want validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("want error naming %s, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateSplitsCommaLists(t *testing.T) {
	cfg := New()
	cfg.Output.Emit = []string{"json,ndjson"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(cfg.Output.Emit) != 2 || cfg.Output.Emit[0] != "json" || cfg.Output.Emit[1] != "ndjson" {
		t.Fatalf("comma list not split: %v", cfg.Output.Emit)
	}
}
