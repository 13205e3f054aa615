package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"Mansoor88-6/launcher-kit/internal/models"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print app install and removal events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			emit := func(event string, v interface{}) {
				mu.Lock()
				defer mu.Unlock()
				if outputJSON {
					writeJSON(out, map[string]interface{}{"event": event, "data": v})
					return
				}
				switch e := v.(type) {
				case models.AppRecord:
					fmt.Fprintf(out, "installed  %s (%s) version=%s color=%s\n", e.PackageName, e.Label, deref(e.Version), deref(e.AccentColor))
				case string:
					fmt.Fprintf(out, "removed    %s\n", e)
				}
			}

			apps := rt.client.Apps
			apps.StartListeningForAppInstallations(ctx, func(app models.AppRecord) {
				emit(models.EventAppInstalled, app)
			})
			apps.StartListeningForAppRemovals(ctx, func(packageName string) {
				emit(models.EventAppRemoved, packageName)
			})

			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			apps.StopListeningForAppInstallations(stopCtx)
			apps.StopListeningForAppRemovals(stopCtx)
			return nil
		},
	}
}
