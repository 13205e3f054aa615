package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	remoteURL  string
	outputJSON bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "launcher-kit",
		Short:         "Launcher bridge: installed apps, app events and launcher actions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "config/local.yaml", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "Use the bridge server at this URL instead of the local platform")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAppsCmd())
	cmd.AddCommand(newInstalledCmd())
	cmd.AddCommand(newLaunchCmd())
	cmd.AddCommand(newBatteryCmd())
	cmd.AddCommand(newDefaultLauncherCmd())
	cmd.AddCommand(newSetDefaultLauncherCmd())
	cmd.AddCommand(newSettingsCmd())
	cmd.AddCommand(newAlarmCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newJournalCmd())

	return cmd
}
