package app

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// SaveToXLSX writes a summary sheet with one row per solution followed by a
// sheet per method holding its iteration trace
func SaveToXLSX(filename string, solutions []Solution) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if err = f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	header := []any{"Method", "Found", "Resistance [Ω]", "Frequency [Hz]", "Iterations", "Reason"}
	if err = f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("writing summary header: %w", err)
	}

	for i, s := range solutions {
		row := []any{s.Method.Title(), s.Found(), nil, nil, 0, nil}
		if s.Result != nil {
			row[4] = s.Result.Iterations
		}
		if s.Found() {
			row[2] = s.Resistance
			if s.Frequency.Valid {
				row[3] = s.Frequency.Value
			}
		} else {
			row[5] = s.Err.Error()
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err = f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}

		if err = writeSteps(f, s); err != nil {
			return err
		}
	}

	return f.SaveAs(filename)
}

func writeSteps(f *excelize.File, s Solution) error {
	sheet := s.Method.Title()
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	header := []any{"Iteration", "Resistance [Ω]", "Frequency [Hz]", "Error [Hz]"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	if s.Result == nil {
		return nil
	}

	for i, step := range s.Result.Steps {
		row := []any{step.Iteration, step.Resistance, nil, nil}
		if step.Frequency.Valid {
			row[2] = step.Frequency.Value
			row[3] = step.Error
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row: %w", sheet, err)
		}
	}

	return nil
}
