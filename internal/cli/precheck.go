package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gitship/internal/credentials"
	"gitship/internal/flags"
	"gitship/internal/output"
	"gitship/internal/sequencer"
)

var precheckCmd = &cobra.Command{
	Use:   "precheck",
	Short: "Run the safety checks without deploying",
	Long: `Run only the precheck stage: ignore-rule entry, repository secret
validity, and whether the secrets file is tracked by version control.

A tracked secrets file is remediated on the spot, exactly as it would be
during a full deploy: untracked, excluded by the ignore rules, and committed
with the fixed remediation message.

The precheck stage never fails; this command always exits 0 unless it could
not start at all.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
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

		seq, auditor := buildSequencer(cfg, creds)
		defer auditor.Close()

		runID := uuid.NewString()
		ctx := context.Background()
		pre := seq.RunPrecheck(ctx, sequencer.Request{GitHubToken: creds.GitHubToken}, runID, func(e sequencer.Event) {
			_ = outMgr.Write(output.LogEvent(runID, e))
		})
		_ = outMgr.Write(output.PrecheckEvent(runID, pre))
		if err := outMgr.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(precheckCmd)

	addDeployTargetFlags(precheckCmd)
	addCredentialFlags(precheckCmd)
	precheckCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	precheckCmd.Flags().StringVar(&cfg.Output.AuditLog, flags.FlagAuditLog, cfg.Output.AuditLog, "Append-only audit log path (empty disables)")
	precheckCmd.Flags().DurationVar(&cfg.Runtime.ValidateTimeout, flags.FlagValidateTimeout, cfg.Runtime.ValidateTimeout, "Timeout for identity validation")
}
