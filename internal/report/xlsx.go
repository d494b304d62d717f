package report

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/preluded103/gridintel-cli/internal/model"
)

// WriteXLSX writes a scorecard workbook: a ranked summary sheet plus one
// breakdown sheet with per-candidate factor scores, adjustments, and bonuses.
func WriteXLSX(path, siteName string, recs []model.ScoredRecommendation) error {
	f := xlsx.NewFile()

	if err := addSummarySheet(f, siteName, recs); err != nil {
		return err
	}
	if err := addBreakdownSheet(f, recs); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func addSummarySheet(f *xlsx.File, siteName string, recs []model.ScoredRecommendation) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	title := sheet.AddRow()
	title.AddCell().Value = "Grid connection scorecard"
	title.AddCell().Value = siteName

	header := sheet.AddRow()
	for _, h := range []string{"Rank", "Name", "TSO", "Country", "Final score", "Tier", "Narrative"} {
		header.AddCell().Value = h
	}

	for i, rec := range recs {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().Value = rec.Opportunity.Name
		row.AddCell().Value = rec.Opportunity.TSOName
		row.AddCell().Value = rec.Opportunity.Country
		row.AddCell().SetFloatWithFormat(rec.FinalScore, "0.0")
		row.AddCell().SetInt(rec.Tier)
		row.AddCell().Value = rec.Narrative
	}

	return nil
}

func addBreakdownSheet(f *xlsx.File, recs []model.ScoredRecommendation) error {
	sheet, err := f.AddSheet("Breakdown")
	if err != nil {
		return eris.Wrap(err, "report: add breakdown sheet")
	}

	factors := collectKeys(recs, func(r model.ScoredRecommendation) map[string]float64 { return r.FactorScores })
	bonuses := collectKeys(recs, func(r model.ScoredRecommendation) map[string]float64 { return r.Bonuses })

	header := sheet.AddRow()
	header.AddCell().Value = "Name"
	for _, fct := range factors {
		header.AddCell().Value = fct
	}
	header.AddCell().Value = "regional"
	for _, b := range bonuses {
		header.AddCell().Value = "bonus:" + b
	}
	header.AddCell().Value = "final"

	for _, rec := range recs {
		row := sheet.AddRow()
		row.AddCell().Value = rec.Opportunity.Name
		for _, fct := range factors {
			row.AddCell().SetFloatWithFormat(rec.FactorScores[fct], "0.0")
		}
		row.AddCell().SetFloatWithFormat(rec.Regional.Points, "0.0")
		for _, b := range bonuses {
			row.AddCell().SetFloatWithFormat(rec.Bonuses[b], "0.0")
		}
		row.AddCell().SetFloatWithFormat(rec.FinalScore, "0.0")
	}

	return nil
}

// collectKeys returns the union of map keys across all recommendations,
// sorted for stable column order.
func collectKeys(recs []model.ScoredRecommendation, get func(model.ScoredRecommendation) map[string]float64) []string {
	seen := make(map[string]struct{})
	for _, rec := range recs {
		for k := range get(rec) {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// factorOrder returns map keys sorted for stable display.
func factorOrder(scores map[string]float64) []string {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
