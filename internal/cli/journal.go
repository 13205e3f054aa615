package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"Mansoor88-6/launcher-kit/internal/database"
	"Mansoor88-6/launcher-kit/internal/journal"
	"Mansoor88-6/launcher-kit/internal/models"

	"github.com/spf13/cobra"
)

func newJournalCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recently journaled app events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return errors.New("--limit must be positive")
			}

			var (
				entries []models.AppEvent
				err     error
			)
			if remoteURL != "" {
				rt, err := openRuntime(true)
				if err != nil {
					return err
				}
				defer rt.Close()
				entries, err = rt.remote.Journal(cmd.Context(), limit)
				if err != nil {
					return err
				}
			} else {
				entries, err = readLocalJournal(cmd, limit)
				if err != nil {
					return err
				}
			}

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tEVENT\tPACKAGE\tDEVICE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Event, orDash(e.PackageName), e.DeviceID)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of events to show")
	return cmd
}

func readLocalJournal(cmd *cobra.Command, limit int) ([]models.AppEvent, error) {
	rt, err := openRuntimeConfigOnly()
	if err != nil {
		return nil, err
	}
	defer rt.log.Sync()

	db, err := database.New(rt.cfg.StoragePath, rt.log.Logger)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return journal.New(db.DB, rt.log.Logger).Recent(cmd.Context(), limit)
}
