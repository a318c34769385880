package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

// WriteResultsXLSX writes every row to a "Results" sheet and the per-point
// summary, best mean first, to a "Summary" sheet.
func WriteResultsXLSX(rows []types.SampleReturnStats, path string) error {
	if err := EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), resultsSheet)
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	styles, err := createExcelStyles(fx)
	if err != nil {
		return fmt.Errorf("create styles: %w", err)
	}

	if err := writeResultsSheet(fx, rows, styles); err != nil {
		return err
	}
	if err := writeSummarySheet(fx, Summarize(rows), styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Header style - Dark slate background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	customParam := "0.0000"
	styles.ParamStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &customParam,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       border,
	})
	if err != nil {
		return styles, err
	}

	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	// Best point highlighted in green
	styles.BestStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 4,
		Font:   &excelize.Font{Bold: true, Color: "006100"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"C6EFCE"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	return styles, err
}

func writeHeader(fx *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := fx.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	if err := fx.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	return fx.SetColWidth(sheet, "A", string(rune('A'+len(headers)-1)), 14)
}

func writeResultsSheet(fx *excelize.File, rows []types.SampleReturnStats, styles ExcelStyles) error {
	if err := writeHeader(fx, resultsSheet, ResultsHeader, styles.HeaderStyle); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}

	for i, row := range rows {
		r := i + 2
		values := []interface{}{
			row.MinReturn, row.MADuration, row.Samples, row.AvgNumTrades,
			row.Min, row.Max, row.Mean, row.StdDev,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := fx.SetSheetRow(resultsSheet, cell, &values); err != nil {
			return fmt.Errorf("write results row %d: %w", r, err)
		}

		if err := fx.SetCellStyle(resultsSheet, cell, cell, styles.ParamStyle); err != nil {
			return err
		}
		from, _ := excelize.CoordinatesToCellName(4, r)
		to, _ := excelize.CoordinatesToCellName(8, r)
		if err := fx.SetCellStyle(resultsSheet, from, to, styles.NumberStyle); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(fx *excelize.File, points []PointSummary, styles ExcelStyles) error {
	headers := []string{"min_return", "ma_duration", "workers", "samples", "avg_trades", "min", "max", "mean"}
	if err := writeHeader(fx, summarySheet, headers, styles.HeaderStyle); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	for i, p := range points {
		r := i + 2
		values := []interface{}{
			p.MinReturn, p.MADuration, p.Rows, p.Samples, p.AvgTrades, p.Min, p.Max, p.Mean,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := fx.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("write summary row %d: %w", r, err)
		}

		if err := fx.SetCellStyle(summarySheet, cell, cell, styles.ParamStyle); err != nil {
			return err
		}
		style := styles.NumberStyle
		if i == 0 {
			style = styles.BestStyle
		}
		from, _ := excelize.CoordinatesToCellName(5, r)
		to, _ := excelize.CoordinatesToCellName(8, r)
		if err := fx.SetCellStyle(summarySheet, from, to, style); err != nil {
			return err
		}
	}
	return nil
}
