// Package report renders scored recommendations as a terminal table and
// as an XLSX scorecard workbook.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/preluded103/gridintel-cli/internal/model"
)

// WriteTable renders a ranked summary table to w.
func WriteTable(w io.Writer, recs []model.ScoredRecommendation) error {
	p := message.NewPrinter(language.English)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tTSO\tSCORE\tTIER\tDIST KM\tCAPACITY MW\tEST COST EUR")

	for i, rec := range recs {
		o := rec.Opportunity
		p.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%d\t%.1f\t%.0f\t%.0f\n",
			i+1, o.Name, o.TSOName, rec.FinalScore, rec.Tier,
			o.DistanceKM, o.CapacityMW, o.EstimatedCostEUR,
		)
	}

	return tw.Flush()
}

// WriteDetail renders the full breakdown for one recommendation.
func WriteDetail(w io.Writer, rank int, rec model.ScoredRecommendation) {
	p := message.NewPrinter(language.English)
	o := rec.Opportunity

	p.Fprintf(w, "#%d %s (%s, %s)\n", rank, o.Name, o.TSOName, o.Country)
	p.Fprintf(w, "  Final score: %.1f  Tier %d\n", rec.FinalScore, rec.Tier)
	p.Fprintf(w, "  %s\n", rec.Narrative)

	p.Fprintf(w, "  Factors:\n")
	for _, f := range factorOrder(rec.FactorScores) {
		p.Fprintf(w, "    %-12s %.1f\n", f, rec.FactorScores[f])
	}

	if rec.Regional.Points != 0 {
		p.Fprintf(w, "  Regional: %+.1f (%s)\n", rec.Regional.Points, rec.Regional.Description)
	}
	for name, pts := range rec.Bonuses {
		if pts != 0 {
			p.Fprintf(w, "  Bonus %s: %+.1f\n", name, pts)
		}
	}

	writeList(p, w, "Strengths", rec.Strengths)
	writeList(p, w, "Concerns", rec.Concerns)
	writeList(p, w, "Next steps", rec.NextSteps)
}

func writeList(p *message.Printer, w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	p.Fprintf(w, "  %s:\n", title)
	for _, item := range items {
		p.Fprintf(w, "    - %s\n", item)
	}
}
