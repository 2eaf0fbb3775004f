// Package export renders optimization results for reporting: an xlsx
// workbook for analysts and a GeoJSON FeatureCollection for mapping tools.
package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/caremesh/caremesh-cli/internal/model"
)

// WriteWorkbook writes the result as an xlsx workbook, one sheet per
// report section.
func WriteWorkbook(result *model.OptimizationResult, path string) error {
	f := xlsx.NewFile()

	if err := addDistanceSheet(f, result.DistanceTable); err != nil {
		return err
	}
	if err := addHubSheet(f, result.Insights.HubLocations); err != nil {
		return err
	}
	if err := addGapSheet(f, result.Gaps); err != nil {
		return err
	}
	if err := addMetricsSheet(f, result); err != nil {
		return err
	}

	return eris.Wrap(f.Save(path), "export: save workbook")
}

func addDistanceSheet(f *xlsx.File, table []model.FacilityDistance) error {
	sheet, err := f.AddSheet("Distances")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}
	addHeader(sheet, "Facility ID", "Name", "Region", "Nearest Facility", "Nearest (km)", "Response Time (min)")

	for _, d := range table {
		row := sheet.AddRow()
		row.AddCell().SetString(d.FacilityID)
		row.AddCell().SetString(d.Name)
		row.AddCell().SetString(d.Region)
		row.AddCell().SetString(d.NearestName)
		row.AddCell().SetFloat(d.NearestKM)
		row.AddCell().SetFloat(d.ResponseTimeMin)
	}
	return nil
}

func addHubSheet(f *xlsx.File, hubs []model.HubLocation) error {
	sheet, err := f.AddSheet("Hubs")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}
	addHeader(sheet, "Node ID", "Name", "Region", "Score", "Connections", "Coverage Radius (km)", "Population Served")

	for _, h := range hubs {
		row := sheet.AddRow()
		row.AddCell().SetString(h.NodeID)
		row.AddCell().SetString(h.Name)
		row.AddCell().SetString(h.Region)
		row.AddCell().SetFloat(h.Score)
		row.AddCell().SetInt(h.Connections)
		row.AddCell().SetFloat(h.CoverageRadiusKM)
		row.AddCell().SetInt(h.PopulationServed)
	}
	return nil
}

func addGapSheet(f *xlsx.File, gaps []model.CoverageGap) error {
	sheet, err := f.AddSheet("Coverage Gaps")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}
	addHeader(sheet, "Region", "Avg Travel Time (min)", "Avg Distance (km)", "Est. Population", "Urgency", "Recommended Action")

	for _, g := range gaps {
		row := sheet.AddRow()
		row.AddCell().SetString(g.Region)
		row.AddCell().SetFloat(g.AvgTravelTimeMin)
		row.AddCell().SetFloat(g.AvgDistanceKM)
		row.AddCell().SetInt(g.EstimatedPopulation)
		row.AddCell().SetFloat(g.Urgency)
		row.AddCell().SetString(humanizeAction(g.RecommendedAction))
	}
	return nil
}

func addMetricsSheet(f *xlsx.File, result *model.OptimizationResult) error {
	sheet, err := f.AddSheet("Metrics")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}
	addHeader(sheet, "Metric", "Value")

	m := result.Metrics
	s := result.Statistics
	rows := []struct {
		name  string
		value float64
	}{
		{"Total Facilities", float64(m.TotalNodes)},
		{"Total Connections", float64(m.TotalEdges)},
		{"Avg Response Time (min)", m.AvgResponseTimeMin},
		{"Median Response Time (min)", m.MedianResponseTimeMin},
		{"P95 Response Time (min)", m.P95ResponseTimeMin},
		{"Coverage (%)", m.CoveragePercent},
		{"Network Efficiency (%)", m.NetworkEfficiency},
		{"Avg Nearest Facility (km)", m.AvgNearestKM},
		{"Coverage Gaps", float64(m.GapCount)},
		{"Pareto Score", float64(m.ParetoScore)},
		{"Sample Size", float64(s.SampleSize)},
		{"Mean (min)", s.MeanMin},
		{"Std Dev (min)", s.StdDevMin},
		{"95% CI Low", s.CI95Low},
		{"95% CI High", s.CI95High},
		{"Effect Size", s.EffectSize},
		{"P-Value", s.PValue},
	}
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.name)
		row.AddCell().SetFloat(r.value)
	}

	row := sheet.AddRow()
	row.AddCell().SetString("Significance")
	row.AddCell().SetString(s.Significance)
	return nil
}

func addHeader(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, name := range names {
		row.AddCell().SetString(name)
	}
}

// humanizeAction turns a recommended-action code into report wording.
func humanizeAction(action string) string {
	return strings.ReplaceAll(action, "_", " ")
}
