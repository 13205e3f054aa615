package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newBatteryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "battery",
		Short: "Show battery level and charging state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			status := rt.client.Helper.GetBatteryStatus(cmd.Context())
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}
			state := "not charging"
			if status.IsCharging {
				state = "charging"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d%% (%s)\n", status.Level, state)
			return nil
		},
	}
}

func newDefaultLauncherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default-launcher",
		Short: "Print the package of the default home app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			name := rt.client.Helper.GetDefaultLauncherPackageName(cmd.Context())
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"packageName": name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), orDash(name))
			return nil
		},
	}
}

func newSetDefaultLauncherCmd() *cobra.Command {
	var picker bool

	cmd := &cobra.Command{
		Use:   "set-default-launcher",
		Short: "Open the system screen for choosing the default home app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			if picker {
				if _, err := rt.client.Helper.OpenSetDefaultLauncher(cmd.Context()); err != nil {
					return err
				}
				return nil
			}
			if !rt.client.Helper.SetAsDefaultLauncher(cmd.Context()) {
				return errors.New("could not open default apps settings")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&picker, "picker", false, "Open the home app picker instead of the default apps settings")
	return cmd
}

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Open the system settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.client.Helper.GoToSettings(cmd.Context())
			return nil
		},
	}
}

func newAlarmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alarm",
		Short: "Open the alarm app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.client.Helper.OpenAlarmApp(cmd.Context()) {
				return errors.New("could not open the alarm app")
			}
			return nil
		},
	}
}
