package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"forest-quiz-hub/internal/config"
	"forest-quiz-hub/internal/domain"
	"forest-quiz-hub/internal/scoreboard"
	"github.com/spf13/cobra"
)

// NewLeaderboardCmd prints the filtered top of the leaderboard.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	var (
		tier  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top leaderboard entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := domain.ParseTierFilter(tier)
			if err != nil {
				return err
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			svc, err := openServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			entries, err := svc.board.FilteredView(cmd.Context(), filter, limit)
			if err != nil {
				return err
			}
			return printLeaderboard(cmd.OutOrStdout(), entries, "")
		},
	}
	cmd.Flags().StringVar(&tier, "tier", "all", "all, innovation, guardian or explorer")
	cmd.Flags().IntVar(&limit, "limit", scoreboard.DefaultViewLimit, "number of entries to show")
	return cmd
}

// printLeaderboard renders entries in rank order; rows named highlight are marked.
func printLeaderboard(out io.Writer, entries []domain.AttemptRecord, highlight string) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No entries yet.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\t#\tNAME\tSCORE\tTIER\tFOREST\tTOPIC\tDATE")
	for i, rec := range entries {
		mark := ""
		if highlight != "" && rec.DisplayName == highlight {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d/%d (%d%%)\t%s %s\t%s\t%s\t%s\n",
			mark, i+1, rec.DisplayName, rec.Score, rec.TotalQuestions, rec.AccuracyPercent,
			rec.Glyph, rec.Tier.Label(), rec.DomainName, rec.TopicName,
			rec.CompletedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}
