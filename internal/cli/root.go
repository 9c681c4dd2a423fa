package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gitship",
	Short: "Guarded commit, push, and redeploy for a single fixed branch",
	Long: `Gitship automates a guarded "commit, push, redeploy" workflow.

Before touching anything it prechecks local repository hygiene: the ignore
rules must exclude the secrets file, the repository secret must authenticate,
and a secrets file that slipped into the index gets untracked and committed
out automatically. Only then does it commit pending changes, push the single
configured deploy branch, and trigger a redeploy on the hosting provider.

Examples:
	# Show available commands and global flags
	gitship --help

	# Run the full deploy sequence
	gitship deploy --service-id srv-xxxxxxxx

	# Safety checks only (still remediates a tracked secrets file)
	gitship precheck

	# Trigger a redeploy without touching git
	gitship redeploy --service-id srv-xxxxxxxx

	# Print build info
	gitship version

Output:
	By default, commands write human-readable output to stdout.
	The deploy command supports structured output via emitter flags
	(see gitship deploy --help).`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every HTTP call)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
