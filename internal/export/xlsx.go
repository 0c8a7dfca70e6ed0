package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/brdata/municipio-cli/internal/model"
)

// WriteProfiles writes the cluster profiles as a single-sheet XLSX workbook.
// Empty groups appear with a count of zero and blank aggregate cells.
func WriteProfiles(path string, profiles []model.ClusterProfile) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("cluster_profiles")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, name := range []string{
		"ordered_group_id", "label", "municipality_count", "total_population",
		"mean_hdi", "std_hdi", "min_hdi", "max_hdi",
		"mean_vulnerability", "mean_gini", "mean_income_per_capita",
	} {
		header.AddCell().SetString(name)
	}

	for _, p := range profiles {
		row := sheet.AddRow()
		row.AddCell().SetInt(p.OrderedGroupID)
		row.AddCell().SetString(p.Label)
		row.AddCell().SetInt(p.Count)
		row.AddCell().SetInt64(p.TotalPopulation)
		addStats(row, p.HDI)
		addMean(row, p.Vulnerability)
		addMean(row, p.Gini)
		addMean(row, p.IncomePerCapita)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

func addStats(row *xlsx.Row, s *model.Stats) {
	if s == nil {
		for i := 0; i < 4; i++ {
			row.AddCell()
		}
		return
	}
	row.AddCell().SetFloat(s.Mean)
	row.AddCell().SetFloat(s.Std)
	row.AddCell().SetFloat(s.Min)
	row.AddCell().SetFloat(s.Max)
}

func addMean(row *xlsx.Row, s *model.Stats) {
	if s == nil {
		row.AddCell()
		return
	}
	row.AddCell().SetFloat(s.Mean)
}
