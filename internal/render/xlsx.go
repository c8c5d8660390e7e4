package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

const (
	leaderboardSheet = "Leaderboard"
	monthlySheet     = "Monthly Volume"
)

// WriteXLSX writes the summary as an XLSX workbook with a leaderboard sheet
// and a monthly volume sheet, one outcome per column.
func WriteXLSX(summary domain.MarketSummary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeLeaderboardSheet(f, summary); err != nil {
		return err
	}
	if err := writeMonthlySheet(f, summary); err != nil {
		return err
	}

	// The default sheet is replaced, not kept alongside ours.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("render: delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("render: save workbook %s: %w", path, err)
	}
	return nil
}

func writeLeaderboardSheet(f *excelize.File, summary domain.MarketSummary) error {
	if _, err := f.NewSheet(leaderboardSheet); err != nil {
		return fmt.Errorf("render: new sheet %s: %w", leaderboardSheet, err)
	}

	header := []interface{}{
		"Rank", "Trader ID", "Display Name", "Total Volume", "Trades",
		"Buys", "Sells", "YES Volume", "NO Volume", "Badges", "Est. P&L",
	}
	if err := f.SetSheetRow(leaderboardSheet, "A1", &header); err != nil {
		return fmt.Errorf("render: write header: %w", err)
	}

	for i, t := range summary.Leaderboard {
		row := []interface{}{
			i + 1, t.TraderID, t.DisplayName, t.TotalVolume, t.TradeCount,
			t.BuyCount, t.SellCount, t.YesVolume, t.NoVolume,
			strings.Join(summary.Badges[t.TraderID], " "),
		}
		if p, ok := summary.Positions[t.TraderID]; ok {
			row = append(row, p.PnL)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("render: cell name: %w", err)
		}
		if err := f.SetSheetRow(leaderboardSheet, cell, &row); err != nil {
			return fmt.Errorf("render: write row %d: %w", i+2, err)
		}
	}

	return nil
}

func writeMonthlySheet(f *excelize.File, summary domain.MarketSummary) error {
	if _, err := f.NewSheet(monthlySheet); err != nil {
		return fmt.Errorf("render: new sheet %s: %w", monthlySheet, err)
	}

	// Column per outcome label, in stable order.
	outcomeSet := make(map[string]bool)
	for _, b := range summary.Monthly {
		for o := range b.Volumes {
			outcomeSet[o] = true
		}
	}
	outcomes := make([]string, 0, len(outcomeSet))
	for o := range outcomeSet {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)

	header := []interface{}{"Month"}
	for _, o := range outcomes {
		header = append(header, o)
	}
	header = append(header, "Total")
	if err := f.SetSheetRow(monthlySheet, "A1", &header); err != nil {
		return fmt.Errorf("render: write header: %w", err)
	}

	for i, b := range summary.Monthly {
		row := []interface{}{b.MonthKey}
		for _, o := range outcomes {
			row = append(row, b.Volumes[o])
		}
		row = append(row, b.Total())

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("render: cell name: %w", err)
		}
		if err := f.SetSheetRow(monthlySheet, cell, &row); err != nil {
			return fmt.Errorf("render: write row %d: %w", i+2, err)
		}
	}

	return nil
}
