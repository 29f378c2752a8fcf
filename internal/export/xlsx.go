package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"academiapulse/internal/roster"
)

// ConsolidatedXLSX renders the present-day-count matrix as an XLSX workbook
// with one header row per course and one data row per student.
func ConsolidatedXLSX(students []roster.Student, courses []roster.Course,
	data roster.Data, dates []string, start, end string) ([]byte, error) {

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Consolidated"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	setCell := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	if err := setCell(1, 1, "Attendance "+start+" to "+end); err != nil {
		return nil, err
	}
	headers := []string{"Student Name", "Roll Number"}
	for _, c := range courses {
		headers = append(headers, c.Name+" ("+c.Code+")")
	}
	for i, h := range headers {
		if err := setCell(i+1, 2, h); err != nil {
			return nil, err
		}
	}

	for r, s := range students {
		row := r + 3
		if err := setCell(1, row, s.Name); err != nil {
			return nil, err
		}
		if err := setCell(2, row, s.RollNumber); err != nil {
			return nil, err
		}
		for c, course := range courses {
			count := roster.PresentDaysInRange(data, s.ID, course.ID, dates)
			if err := setCell(c+3, row, count); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
