// Package credentials resolves the two opaque secrets the deploy sequence
// needs. It never prints secret values.
package credentials

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Source describes where a secret was resolved from.
type Source string

const (
	SourceFlag   Source = "flag"
	SourceEnv    Source = "env"
	SourceDotenv Source = "dotenv"
	SourceNone   Source = ""
)

const (
	githubTokenKey = "GITHUB_TOKEN"
	hostingKeyKey  = "RENDER_API_KEY"
)

// Explicit carries secrets supplied directly on the command line.
type Explicit struct {
	GitHubToken string
	HostingKey  string
}

// Resolved holds the final secrets and their provenance.
type Resolved struct {
	GitHubToken       string
	GitHubTokenSource Source
	HostingKey        string
	HostingKeySource  Source
}

// Resolve loads secrets with precedence: explicit flag values, the process
// environment, then the optional dotenv file. A missing secret is not an
// error; the sequence decides per stage whether it can proceed without one.
func Resolve(explicit Explicit, envFile string) (Resolved, error) {
	var dotenv map[string]string
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		if err != nil {
			return Resolved{}, fmt.Errorf("read env file %s: %w", envFile, err)
		}
		dotenv = m
	}

	var r Resolved
	r.GitHubToken, r.GitHubTokenSource = pick(explicit.GitHubToken, githubTokenKey, dotenv)
	r.HostingKey, r.HostingKeySource = pick(explicit.HostingKey, hostingKeyKey, dotenv)
	return r, nil
}

func pick(flagValue, envKey string, dotenv map[string]string) (string, Source) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, SourceFlag
	}
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v, SourceEnv
	}
	if v := strings.TrimSpace(dotenv[envKey]); v != "" {
		return v, SourceDotenv
	}
	return "", SourceNone
}
