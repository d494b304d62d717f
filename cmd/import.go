package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/preluded103/gridintel-cli/internal/model"
)

var importJSONPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import connection opportunities from an analysis JSON file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(importJSONPath)
		if err != nil {
			return eris.Wrapf(err, "import: read %s", importJSONPath)
		}

		var actx model.AnalysisContext
		if err := json.Unmarshal(data, &actx); err != nil {
			return eris.Wrapf(err, "import: parse %s", importJSONPath)
		}
		if actx.Site.Name == "" {
			return eris.New("import: analysis file has no site name")
		}
		if len(actx.Opportunities) == 0 {
			return eris.New("import: analysis file has no opportunities")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SaveOpportunities(ctx, actx.Site.Name, actx.Opportunities); err != nil {
			return eris.Wrap(err, "import: save opportunities")
		}

		zap.L().Info("import complete",
			zap.String("site", actx.Site.Name),
			zap.Int("opportunities", len(actx.Opportunities)),
			zap.String("file", importJSONPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importJSONPath, "json", "", "path to analysis JSON file (required)")
	_ = importCmd.MarkFlagRequired("json")
	rootCmd.AddCommand(importCmd)
}
