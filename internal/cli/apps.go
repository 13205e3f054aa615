package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/pkg/launcherkit"

	"github.com/spf13/cobra"
)

func newAppsCmd() *cobra.Command {
	var (
		sorted bool
		opts   launcherkit.GetAppsOptions
	)

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List launchable applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			var apps []models.AppRecord
			if sorted {
				apps = rt.client.Apps.GetSortedApps(cmd.Context(), &opts)
			} else {
				apps = rt.client.Apps.GetApps(cmd.Context(), &opts)
			}

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), apps)
			}
			writeAppsTable(cmd.OutOrStdout(), apps, opts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sorted, "sorted", false, "Sort by label")
	cmd.Flags().BoolVar(&opts.IncludeVersion, "version", false, "Include version names")
	cmd.Flags().BoolVar(&opts.IncludeAccentColor, "color", false, "Include icon accent colors")
	return cmd
}

func writeAppsTable(w io.Writer, apps []models.AppRecord, opts launcherkit.GetAppsOptions) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"LABEL", "PACKAGE"}
	if opts.IncludeVersion {
		header = append(header, "VERSION")
	}
	if opts.IncludeAccentColor {
		header = append(header, "COLOR")
	}
	header = append(header, "ICON")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, app := range apps {
		row := []string{app.Label, app.PackageName}
		if opts.IncludeVersion {
			row = append(row, deref(app.Version))
		}
		if opts.IncludeAccentColor {
			row = append(row, deref(app.AccentColor))
		}
		icon, _ := app.IconPath()
		row = append(row, orDash(icon))
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
	fmt.Fprintf(w, "%d apps\n", len(apps))
}

func newInstalledCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "installed <package>",
		Short: "Report whether a package is installed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			installed := rt.client.Helper.CheckIfPackageInstalled(cmd.Context(), args[0])
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"packageName": args[0], "installed": installed})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %t\n", args[0], installed)
			return nil
		},
	}
}

func newLaunchCmd() *cobra.Command {
	var (
		params models.LaunchParams
		extras []string
	)

	cmd := &cobra.Command{
		Use:   "launch <package>",
		Short: "Launch an application, optionally with intent parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			params.Extras, err = parseExtras(extras)
			if err != nil {
				return err
			}

			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			var p *models.LaunchParams
			if hasLaunchParams(params) {
				p = &params
			}
			if !rt.client.Helper.LaunchApplication(cmd.Context(), args[0], p) {
				return fmt.Errorf("could not launch %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "launch requested: %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Action, "action", "", "Intent action")
	cmd.Flags().StringVar(&params.Data, "data", "", "Intent data URI (geo:, http(s):, file://)")
	cmd.Flags().StringVar(&params.Type, "type", "", "MIME type for file:// data")
	cmd.Flags().StringVar(&params.Category, "category", "", "Intent category")
	cmd.Flags().StringArrayVar(&extras, "extra", nil, "String extra as key=value (repeatable)")
	return cmd
}

func hasLaunchParams(p models.LaunchParams) bool {
	return p.Action != "" || p.Data != "" || p.Type != "" || p.Category != "" || len(p.Extras) > 0
}

func parseExtras(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid extra %q, expected key=value", pair)
		}
		out[k] = v
	}
	return out, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
