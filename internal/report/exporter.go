package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Exporter struct {
	OutputDir string
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{OutputDir: outputDir}
}

// Filename builds the export file name for rep, e.g. budget_42_20260101_120000.json.
func Filename(rep *Report, ext string, now time.Time) string {
	return fmt.Sprintf("budget_%d_%s.%s", rep.Task.ID, now.Format("20060102_150405"), ext)
}

type jsonReport struct {
	Task           Task          `json:"task"`
	BillableAmount float64       `json:"billableAmount"`
	TotalHours     float64       `json:"totalHours"`
	Days           float64       `json:"days"`
	People         []personTotal `json:"people"`
}

type personTotal struct {
	Person int `json:"person"`
	Totals
}

func (e *Exporter) ExportJSON(rep *Report, filename string) error {
	out := jsonReport{
		Task:           rep.Task,
		BillableAmount: rep.Result.BillableAmount,
		TotalHours:     rep.Result.TotalHours,
		Days:           rep.Result.Days(),
		People:         peopleOf(rep),
	}

	data, err := json.MarshalIndent(out, "", "\t")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(e.OutputDir, filename), data, 0644)
}

func peopleOf(rep *Report) []personTotal {
	people := make([]personTotal, 0, len(rep.Result.People))
	for i, t := range rep.Result.People {
		id := 0
		if i < len(rep.Performers) {
			id = rep.Performers[i]
		}
		people = append(people, personTotal{Person: id, Totals: t})
	}
	return people
}
