package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/preluded103/gridintel-cli/internal/model"
	"github.com/preluded103/gridintel-cli/internal/report"
)

var (
	recommendInput  string
	recommendSite   string
	recommendPreset string
	recommendTop    int
	recommendDetail bool
	recommendXLSX   string
	recommendSave   bool
	recommendAsJSON bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score and rank connection opportunities for a site",
	Long: `Runs the recommendation engine over a candidate batch: eligibility
filtering, per-factor scoring, regional adjustments, bonuses, and tier
classification. Candidates come from a JSON analysis file (--input) or
from opportunities previously collected for a site (--site).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		actx, err := loadAnalysis(ctx)
		if err != nil {
			return err
		}
		if len(actx.Opportunities) == 0 {
			return eris.New("recommend: no candidates to score")
		}

		eng, err := cfg.Engine.BuildEngine()
		if err != nil {
			return err
		}
		if recommendPreset != "" {
			if err := eng.ApplyPreset(recommendPreset); err != nil {
				return err
			}
		}

		recs := eng.Recommend(actx.Opportunities, actx)

		zap.L().Info("recommendations generated",
			zap.String("site", actx.Site.Name),
			zap.Int("candidates", len(actx.Opportunities)),
			zap.Int("ranked", len(recs)),
		)

		if recommendSave && len(recs) > 0 {
			if err := saveRun(ctx, actx.Site.Name, recs); err != nil {
				return err
			}
		}

		if recommendXLSX != "" {
			if err := report.WriteXLSX(recommendXLSX, actx.Site.Name, recs); err != nil {
				return err
			}
			fmt.Printf("Scorecard written to %s\n", recommendXLSX)
		}

		shown := recs
		if recommendTop > 0 && recommendTop < len(shown) {
			shown = shown[:recommendTop]
		}

		if recommendAsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(shown)
		}

		if len(shown) == 0 {
			fmt.Println("No candidates passed eligibility filtering")
			return nil
		}
		if err := report.WriteTable(os.Stdout, shown); err != nil {
			return err
		}
		if recommendDetail {
			for i, rec := range shown {
				fmt.Println()
				report.WriteDetail(os.Stdout, i+1, rec)
			}
		}

		return nil
	},
}

// loadAnalysis reads the candidate batch from --input JSON or the store
// for --site.
func loadAnalysis(ctx context.Context) (model.AnalysisContext, error) {
	var actx model.AnalysisContext

	switch {
	case recommendInput != "":
		data, err := os.ReadFile(recommendInput)
		if err != nil {
			return actx, eris.Wrapf(err, "recommend: read %s", recommendInput)
		}
		if err := json.Unmarshal(data, &actx); err != nil {
			return actx, eris.Wrapf(err, "recommend: parse %s", recommendInput)
		}
		return actx, nil

	case recommendSite != "":
		st, err := initStore(ctx)
		if err != nil {
			return actx, err
		}
		defer st.Close()

		opps, err := st.ListOpportunities(ctx, recommendSite)
		if err != nil {
			return actx, eris.Wrap(err, "recommend: list opportunities")
		}
		actx.Site = model.Site{Name: recommendSite}
		actx.Opportunities = opps
		if len(opps) > 0 {
			actx.Requirements = opps[0].Requirements
		}
		return actx, nil

	default:
		return actx, eris.New("recommend: either --input or --site is required")
	}
}

// saveRun persists the ranked output as a new analysis run.
func saveRun(ctx context.Context, siteName string, recs []model.ScoredRecommendation) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.CreateRun(ctx, siteName, recommendPreset)
	if err != nil {
		return eris.Wrap(err, "recommend: create run")
	}
	if err := st.SaveRecommendations(ctx, run.ID, recs); err != nil {
		return eris.Wrap(err, "recommend: save recommendations")
	}

	fmt.Printf("Run %s saved (%d recommendations)\n", run.ID, len(recs))
	return nil
}

func init() {
	recommendCmd.Flags().StringVar(&recommendInput, "input", "", "path to analysis JSON (site, requirements, opportunities)")
	recommendCmd.Flags().StringVar(&recommendSite, "site", "", "score candidates previously collected for this site")
	recommendCmd.Flags().StringVar(&recommendPreset, "preset", "", "weight preset: balanced, aggressive, conservative, cost-optimized")
	recommendCmd.Flags().IntVar(&recommendTop, "top", 0, "show only the top N recommendations")
	recommendCmd.Flags().BoolVar(&recommendDetail, "detail", false, "print full per-candidate breakdowns")
	recommendCmd.Flags().StringVar(&recommendXLSX, "xlsx", "", "write an XLSX scorecard to this path")
	recommendCmd.Flags().BoolVar(&recommendSave, "save", false, "persist the run and its recommendations in the store")
	recommendCmd.Flags().BoolVar(&recommendAsJSON, "json", false, "emit recommendations as JSON")
	rootCmd.AddCommand(recommendCmd)
}
