package export

import (
	"fmt"
	"io"
	"time"

	"forest-quiz-hub/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet is the worksheet the leaderboard is written to.
const Sheet = "Sheet1"

var header = []interface{}{
	"Rank", "Name", "Score", "Total", "Accuracy %", "Tier", "Domain", "Topic", "Completed At",
}

// Leaderboard writes ranked entries as an xlsx workbook to w.
// Entries are expected in rank order; row n+1 holds rank n.
func Leaderboard(w io.Writer, entries []domain.AttemptRecord) error {
	f, err := build(entries)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveLeaderboard writes the workbook to path.
func SaveLeaderboard(path string, entries []domain.AttemptRecord) error {
	f, err := build(entries)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func build(entries []domain.AttemptRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetRow(Sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, rec := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []interface{}{
			i + 1,
			rec.DisplayName,
			rec.Score,
			rec.TotalQuestions,
			rec.AccuracyPercent,
			rec.Tier.Glyph() + " " + rec.Tier.Label(),
			rec.DomainName,
			rec.TopicName,
			rec.CompletedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(Sheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return f, nil
}
