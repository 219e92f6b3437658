package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
)

type CSVExporter struct {
	OutputDir string
}

func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{OutputDir: outputDir}
}

// Export writes one row per performer followed by a totals row.
func (e *CSVExporter) Export(rep *Report, filename string) error {
	file, err := os.Create(filepath.Join(e.OutputDir, filename))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"Task ID",
		"Task Name",
		"Person",
		"Hours",
		"Days",
		"Billable Amount",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range peopleOf(rep) {
		row := []string{
			strconv.Itoa(rep.Task.ID),
			rep.Task.Name,
			strconv.Itoa(p.Person),
			formatFloat(p.Hours),
			formatFloat(p.Hours / HoursPerDay),
			formatFloat(p.BillableAmount),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	totalsRow := []string{
		strconv.Itoa(rep.Task.ID),
		rep.Task.Name,
		"Total",
		formatFloat(rep.Result.TotalHours),
		formatFloat(rep.Result.Days()),
		formatFloat(rep.Result.BillableAmount),
	}
	if err := writer.Write(totalsRow); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
