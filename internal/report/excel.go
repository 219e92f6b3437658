package report

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

type ExcelExporter struct {
	OutputDir string
}

func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{OutputDir: outputDir}
}

// Export writes a workbook with a Summary sheet and a per-performer sheet.
func (e *ExcelExporter) Export(rep *Report, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.createSummarySheet(f, "Summary", rep); err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}

	if err := e.createPeopleSheet(f, "Performers", rep); err != nil {
		return fmt.Errorf("failed to create performers sheet: %w", err)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SaveAs(filepath.Join(e.OutputDir, filename)); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}

	return nil
}

func (e *ExcelExporter) createSummarySheet(f *excelize.File, sheetName string, rep *Report) error {
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	labelStyle, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#B4C7E7"}, Pattern: 1},
		Font:   &excelize.Font{Bold: true},
		Border: thinBorder(),
	})
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Task", rep.Task.Name},
		{"Task ID", rep.Task.ID},
		{"Billable Amount", rep.Result.BillableAmount},
		{"Hours", rep.Result.TotalHours},
		{"Days", rep.Result.Days()},
		{"Performers", len(rep.Performers)},
	}

	for i, r := range rows {
		row := i + 1
		f.SetCellValue(sheetName, cellName(1, row), r[0])
		f.SetCellStyle(sheetName, cellName(1, row), cellName(1, row), labelStyle)
		f.SetCellValue(sheetName, cellName(2, row), r[1])
	}

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 40)

	return nil
}

func (e *ExcelExporter) createPeopleSheet(f *excelize.File, sheetName string, rep *Report) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#B4C7E7"}, Pattern: 1},
		Font:   &excelize.Font{Bold: true},
		Border: thinBorder(),
	})
	if err != nil {
		return err
	}

	headers := []string{"#", "Person", "Hours", "Days", "Billable Amount"}
	for col, header := range headers {
		cell := cellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	people := peopleOf(rep)
	for i, p := range people {
		row := i + 2
		f.SetCellValue(sheetName, cellName(1, row), i+1)
		f.SetCellValue(sheetName, cellName(2, row), p.Person)
		f.SetCellValue(sheetName, cellName(3, row), p.Hours)
		f.SetCellValue(sheetName, cellName(4, row), p.Hours/HoursPerDay)
		f.SetCellValue(sheetName, cellName(5, row), p.BillableAmount)
	}

	row := len(people) + 2
	f.SetCellValue(sheetName, cellName(2, row), "Total")
	f.SetCellValue(sheetName, cellName(3, row), rep.Result.TotalHours)
	f.SetCellValue(sheetName, cellName(4, row), rep.Result.Days())
	f.SetCellValue(sheetName, cellName(5, row), rep.Result.BillableAmount)
	f.SetCellStyle(sheetName, cellName(1, row), cellName(len(headers), row), totalStyle)

	f.SetColWidth(sheetName, "A", "A", 5)
	f.SetColWidth(sheetName, "B", "E", 15)

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#000000", Style: 1},
		{Type: "right", Color: "#000000", Style: 1},
		{Type: "top", Color: "#000000", Style: 1},
		{Type: "bottom", Color: "#000000", Style: 1},
	}
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
