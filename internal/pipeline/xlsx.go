package pipeline

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/isnad/internal/model"
)

const xlsxSheet = "Reports"

var xlsxHeader = []any{
	"#", "Input", "Verdict", "Code", "Severity", "Confidence",
	"Isnad", "Matn", "Quranic", "Chain length", "Degraded", "Reasoning", "Formula",
}

// WriteXLSX writes one row per report to an Excel workbook.
// A nil entry (failed item) is written as a row with only its index.
func WriteXLSX(path string, reports []*model.Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := []any{i + 1}
		if r != nil {
			res := r.Result
			row = append(row,
				r.Input, string(res.Verdict), res.Verdict.Code(), string(r.Severity), res.ConfidenceScore,
				res.IsnadScore, res.MatnScore, res.QuranicConsistency, len(res.NarratorChain), r.Degraded,
				res.Reasoning, res.MathFormula,
			)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
