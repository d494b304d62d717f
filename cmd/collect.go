package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/preluded103/gridintel-cli/internal/model"
	"github.com/preluded103/gridintel-cli/internal/proximity"
	"github.com/preluded103/gridintel-cli/pkg/entsoe"
)

var (
	collectSiteName string
	collectCountry  string
	collectLat      float64
	collectLon      float64
	collectRadius   float64
	collectMinCapMW float64
	collectEnrich   bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect connection candidates for a site from stored substations",
	Long: `Finds every stored substation within the search radius of the site and
saves the resulting connection opportunity candidates for scoring. With
--enrich, candidates gain reliability data from ENTSO-E outage history.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := []proximity.Option{proximity.WithMaxDistance(collectRadius)}
		if collectEnrich {
			if err := cfg.Validate("entsoe"); err != nil {
				return err
			}
			client := entsoe.NewClient(cfg.ENTSOE.Token,
				entsoe.WithBaseURL(cfg.ENTSOE.BaseURL),
				entsoe.WithRateLimit(cfg.ENTSOE.RatePerSec, 2),
				entsoe.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.ENTSOE.TimeoutSecs) * time.Second}),
			)
			opts = append(opts, proximity.WithENTSOE(client))
		}

		collector := proximity.New(st, opts...)

		site := model.Site{
			Name:    collectSiteName,
			Country: collectCountry,
			Lat:     collectLat,
			Lon:     collectLon,
		}
		req := model.TechnicalRequirements{MinCapacityMW: collectMinCapMW}

		actx, err := collector.Collect(ctx, site, req)
		if err != nil {
			return err
		}
		if len(actx.Opportunities) == 0 {
			fmt.Println("No substations within the search radius")
			return nil
		}

		if err := st.SaveOpportunities(ctx, site.Name, actx.Opportunities); err != nil {
			return eris.Wrap(err, "collect: save opportunities")
		}

		zap.L().Info("candidate collection complete",
			zap.String("site", site.Name),
			zap.Int("candidates", len(actx.Opportunities)),
		)
		fmt.Printf("Collected %d candidates for %s\n", len(actx.Opportunities), site.Name)
		return nil
	},
}

func init() {
	collectCmd.Flags().StringVar(&collectSiteName, "site", "", "site name (required)")
	collectCmd.Flags().StringVar(&collectCountry, "country", "", "site country")
	collectCmd.Flags().Float64Var(&collectLat, "lat", 0, "site latitude (required)")
	collectCmd.Flags().Float64Var(&collectLon, "lon", 0, "site longitude (required)")
	collectCmd.Flags().Float64Var(&collectRadius, "radius", 50, "search radius in km")
	collectCmd.Flags().Float64Var(&collectMinCapMW, "min-capacity", 100, "required connection capacity in MW")
	collectCmd.Flags().BoolVar(&collectEnrich, "enrich", false, "enrich candidates with ENTSO-E outage history")
	_ = collectCmd.MarkFlagRequired("site")
	_ = collectCmd.MarkFlagRequired("lat")
	_ = collectCmd.MarkFlagRequired("lon")
	rootCmd.AddCommand(collectCmd)
}
