package credentials

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("GITHUB_TOKEN=dotenv-token\nRENDER_API_KEY=dotenv-key\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		r, err := Resolve(Explicit{GitHubToken: "flag-token"}, envFile)
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if r.GitHubToken != "flag-token" || r.GitHubTokenSource != SourceFlag {
			t.Fatalf("want flag-token/flag, got %q/%q", r.GitHubToken, r.GitHubTokenSource)
		}
	})

	t.Run("env beats dotenv", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		r, err := Resolve(Explicit{}, envFile)
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if r.GitHubToken != "env-token" || r.GitHubTokenSource != SourceEnv {
			t.Fatalf("want env-token/env, got %q/%q", r.GitHubToken, r.GitHubTokenSource)
		}
	})

	t.Run("dotenv used last", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("RENDER_API_KEY", "")
		r, err := Resolve(Explicit{}, envFile)
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if r.GitHubToken != "dotenv-token" || r.GitHubTokenSource != SourceDotenv {
			t.Fatalf("want dotenv-token/dotenv, got %q/%q", r.GitHubToken, r.GitHubTokenSource)
		}
		if r.HostingKey != "dotenv-key" || r.HostingKeySource != SourceDotenv {
			t.Fatalf("want dotenv-key/dotenv, got %q/%q", r.HostingKey, r.HostingKeySource)
		}
	})

	t.Run("missing everywhere is not an error", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("RENDER_API_KEY", "")
		r, err := Resolve(Explicit{}, "")
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if r.GitHubToken != "" || r.GitHubTokenSource != SourceNone {
			t.Fatalf("want empty token, got %q/%q", r.GitHubToken, r.GitHubTokenSource)
		}
	})
}

func TestResolveUnreadableEnvFile(t *testing.T) {
	_, err := Resolve(Explicit{}, filepath.Join(t.TempDir(), "missing.env"))
	if err == nil {
		t.Fatal("want error for unreadable env file")
	}
}
