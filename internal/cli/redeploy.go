package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gitship/internal/credentials"
	"gitship/internal/flags"
	"gitship/internal/hosting"
)

var redeployCmd = &cobra.Command{
	Use:   "redeploy",
	Short: "Trigger a redeploy without touching git",
	Long: `Ask the hosting provider to redeploy the configured service. No local
repository state is read or changed; this is the release stage on its own.`,
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
		if creds.HostingKey == "" {
			fmt.Fprintln(os.Stderr, "Error: hosting API key is required (set RENDER_API_KEY, --hosting-key, or --env-file)")
			os.Exit(3)
		}

		host := hosting.NewClient(creds.HostingKey,
			hosting.WithTimeout(cfg.Runtime.RedeployTimeout),
			hosting.WithVerbose(cfg.Runtime.Verbose, nil),
		)

		deploy, err := host.TriggerDeploy(context.Background(), cfg.Deploy.ServiceID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("FAILED"), err)
			os.Exit(1)
		}

		ok := color.New(color.FgGreen, color.Bold).Sprint("OK")
		if deploy != nil && deploy.ID != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s redeploy accepted (deploy %s)\n", ok, deploy.ID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s redeploy accepted\n", ok)
		}
		if cfg.Deploy.ServiceURL != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Service: %s\n", cfg.Deploy.ServiceURL)
		}
	},
}

func init() {
	rootCmd.AddCommand(redeployCmd)

	addDeployTargetFlags(redeployCmd)
	addCredentialFlags(redeployCmd)
	redeployCmd.Flags().DurationVar(&cfg.Runtime.RedeployTimeout, flags.FlagRedeployTimeout, cfg.Runtime.RedeployTimeout, "Timeout for the redeploy trigger")
}
