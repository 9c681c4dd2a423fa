package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitship/internal/audit"
	"gitship/internal/config"
	"gitship/internal/credentials"
	"gitship/internal/flags"
	"gitship/internal/gitcmd"
	gh "gitship/internal/github"
	"gitship/internal/hosting"
	"gitship/internal/output"
	"gitship/internal/sequencer"
)

var cfg = config.New()

// explicitCreds holds secrets passed on the command line; they take
// precedence over the environment and the dotenv file.
var explicitCreds credentials.Explicit

const deployHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	Gitship needs two secrets: a repository token for identity validation and
	a hosting API key for the redeploy trigger.

	Sources (in order, per secret):
	1) --github-token / --hosting-key flags
	2) GITHUB_TOKEN / RENDER_API_KEY environment variables
	3) the dotenv file named by --env-file

	Secrets are never printed and never embedded in remote URLs.

  Examples:
    # macOS/Linux
    export GITHUB_TOKEN="<your_token>"
    export RENDER_API_KEY="<your_key>"
    gitship deploy --service-id srv-xxxxxxxx

    # Credentials from a dotenv file kept out of version control
    gitship deploy --service-id srv-xxxxxxxx --env-file ../secrets/.env

    # Windows PowerShell
    $env:GITHUB_TOKEN = "<your_token>"
    gitship deploy --service-id srv-xxxxxxxx

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Run the full precheck, commit+push, redeploy sequence",
	Long: `Run the guarded deploy sequence against the working directory.

The sequence is strictly ordered: precheck, sync, release. Prechecks record
problems without stopping the run (a tracked secrets file is untracked and
committed out on the spot). The sync stage aborts unless the current branch
is the configured deploy branch and a git identity is set; it previews the
pending changes, then commits and pushes them. The release stage asks the
hosting provider for a redeploy.

A run with no pending changes ends successfully without committing, pushing,
or redeploying.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --no-console: suppress the console sink (use with --emit/--out)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events
	with a "type" field (run.started, precheck.result, log, run.finished).

	Every event is also appended to the audit log (--audit-log) with a
	timestamp; audit write failures never abort a run.

Exit codes:
	0 = success, including "nothing to send"
	1 = sequence aborted
	3 = fatal error (sequence did not start)
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		if cfg.Deploy.ServiceID == "" {
			fmt.Fprintln(os.Stderr, "Error: --service-id is required")
			os.Exit(3)
		}

		creds, err := credentials.Resolve(explicitCreds, cfg.Credentials.EnvFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		outMgr, err := setupOutputManager(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		ctx := context.Background()
		seq, auditor := buildSequencer(cfg, creds)

		handle := seq.Run(ctx, sequencer.Request{
			GitHubToken: creds.GitHubToken,
			HostingKey:  creds.HostingKey,
			ServiceID:   cfg.Deploy.ServiceID,
		})
		_ = outMgr.Write(output.StartedEvent(handle.ID))

		out := drainRun(outMgr, handle)

		exitCode := 0
		if !out.Succeeded {
			exitCode = 1
		}
		_ = outMgr.Write(output.FinishedEvent(handle.ID, out, exitCode))
		if err := outMgr.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		auditor.Close()

		if out.Succeeded && cfg.Deploy.ServiceURL != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Service: %s\n", cfg.Deploy.ServiceURL)
		}
		os.Exit(exitCode)
	},
}

// drainRun forwards the run's channels into the output manager until the
// terminal outcome arrives and every channel is closed.
func drainRun(outMgr *output.Manager, handle sequencer.RunHandle) sequencer.Outcome {
	events, pre, done := handle.Events, handle.Precheck, handle.Done
	var out sequencer.Outcome
	for events != nil || pre != nil || done != nil {
		select {
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			_ = outMgr.Write(output.LogEvent(handle.ID, e))
		case p, ok := <-pre:
			if !ok {
				pre = nil
				continue
			}
			_ = outMgr.Write(output.PrecheckEvent(handle.ID, p))
		case o, ok := <-done:
			if !ok {
				done = nil
				continue
			}
			out = o
		}
	}
	return out
}

func buildSequencer(cfg *config.Config, creds credentials.Resolved) (*sequencer.Sequencer, *audit.Logger) {
	repo := gitcmd.NewRepo(&gitcmd.ExecRunner{
		Dir:     cfg.Deploy.WorkDir,
		Timeout: cfg.Runtime.GitTimeout,
	})
	validator := gh.NewValidator(
		gh.WithTimeout(cfg.Runtime.ValidateTimeout),
		gh.WithClientOptions(gh.WithVerbose(cfg.Runtime.Verbose, nil)),
	)
	host := hosting.NewClient(creds.HostingKey,
		hosting.WithTimeout(cfg.Runtime.RedeployTimeout),
		hosting.WithVerbose(cfg.Runtime.Verbose, nil),
	)
	auditor := audit.NewLogger(auditPath(cfg))
	return sequencer.New(cfg, repo, validator, host, auditor), auditor
}

// auditPath resolves the audit log relative to the working directory, like
// every other repository-local file the sequence touches.
func auditPath(cfg *config.Config) string {
	if cfg.Output.AuditLog == "" || cfg.Deploy.WorkDir == "" {
		return cfg.Output.AuditLog
	}
	return cfg.Deploy.WorkDir + string(os.PathSeparator) + cfg.Output.AuditLog
}

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterLevel)); err != nil {
			_ = outMgr.Close()
			return nil, err
		}
	}

	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(os.Stdout, emit)
		if err != nil {
			_ = outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			_ = outMgr.Close()
			return nil, err
		}
	}

	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			_ = outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			_ = outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// addDeployTargetFlags registers the flags shared by every command that
// touches the working directory or the hosting provider.
func addDeployTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Deploy.Branch, flags.FlagBranch, cfg.Deploy.Branch, "The only branch eligible for deploy")
	cmd.Flags().StringVar(&cfg.Deploy.Remote, flags.FlagRemote, cfg.Deploy.Remote, "Git remote the deploy branch is pushed to")
	cmd.Flags().StringVar(&cfg.Deploy.ServiceID, flags.FlagServiceID, "", "Hosting provider service ID to redeploy")
	cmd.Flags().StringVar(&cfg.Deploy.ServiceURL, flags.FlagServiceURL, "", "Public URL of the service, printed after a successful deploy")
	cmd.Flags().StringVar(&cfg.Deploy.SecretsFile, flags.FlagSecretsFile, cfg.Deploy.SecretsFile, "Relative path of the local secrets file that must stay untracked")
	cmd.Flags().StringVar(&cfg.Deploy.IgnoreFile, flags.FlagIgnoreFile, cfg.Deploy.IgnoreFile, "Ignore-rules file that must exclude the secrets file")
	cmd.Flags().StringVar(&cfg.Deploy.WorkDir, flags.FlagDir, "", "Repository working directory (default: current directory)")
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&explicitCreds.GitHubToken, flags.FlagGitHubToken, "", "Repository token (prefer GITHUB_TOKEN or --env-file)")
	cmd.Flags().StringVar(&explicitCreds.HostingKey, flags.FlagHostingKey, "", "Hosting API key (prefer RENDER_API_KEY or --env-file)")
	cmd.Flags().StringVar(&cfg.Credentials.EnvFile, flags.FlagEnvFile, "", "Dotenv file to load credentials from")
}

func init() {
	rootCmd.AddCommand(deployCmd)
	deployCmd.SetHelpTemplate(deployHelpTemplate)

	addDeployTargetFlags(deployCmd)
	addCredentialFlags(deployCmd)

	// Output
	deployCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	deployCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterLevel, flags.FlagConsoleFilterLevel, nil, "Filter console log lines by level (info, warning, error, action). Comma-separated.")
	deployCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	deployCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	deployCmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	deployCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out)")
	deployCmd.Flags().StringVar(&cfg.Output.AuditLog, flags.FlagAuditLog, cfg.Output.AuditLog, "Append-only audit log path (empty disables)")

	// Runtime
	deployCmd.Flags().DurationVar(&cfg.Runtime.ValidateTimeout, flags.FlagValidateTimeout, cfg.Runtime.ValidateTimeout, "Timeout for identity validation")
	deployCmd.Flags().DurationVar(&cfg.Runtime.GitTimeout, flags.FlagGitTimeout, cfg.Runtime.GitTimeout, "Timeout for each git invocation")
	deployCmd.Flags().DurationVar(&cfg.Runtime.RedeployTimeout, flags.FlagRedeployTimeout, cfg.Runtime.RedeployTimeout, "Timeout for the redeploy trigger")
}
