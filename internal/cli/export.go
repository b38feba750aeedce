package cli

import (
	"log"

	"forest-quiz-hub/internal/config"
	"forest-quiz-hub/internal/export"
	"github.com/spf13/cobra"
)

// NewExportCmd writes the full leaderboard to an xlsx workbook.
func NewExportCmd(configPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the leaderboard to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			svc, err := openServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			entries, err := svc.board.Entries(cmd.Context())
			if err != nil {
				return err
			}
			if err := export.SaveLeaderboard(out, entries); err != nil {
				return err
			}
			log.Printf("exported %d entries to %s", len(entries), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "leaderboard.xlsx", "output file")
	return cmd
}
