package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/preluded103/gridintel-cli/internal/engine"
)

var (
	engineConfigWeights      []string
	engineConfigRegionalFile string
	engineConfigNormalize    bool
)

var engineConfigCmd = &cobra.Command{
	Use:   "engine-config",
	Short: "Inspect and tune the recommendation engine configuration",
}

var engineConfigShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective engine configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := buildTunedEngine("")
		if err != nil {
			return err
		}
		return writeEngineConfig(eng.Config())
	},
}

var engineConfigPresetCmd = &cobra.Command{
	Use:   "preset <name>",
	Short: "Show the configuration produced by a weight preset",
	Long: "Applies one of the named weight presets (balanced, aggressive,\n" +
		"conservative, cost-optimized) and prints the resulting configuration.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildTunedEngine(args[0])
		if err != nil {
			return err
		}
		return writeEngineConfig(eng.Config())
	},
}

var engineConfigPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List available weight presets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range engine.PresetNames() {
			weights, err := engine.PresetWeights(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-16s", name)
			for _, f := range []string{"distance", "capacity", "timeline", "cost", "reliability", "tso_quality", "risk"} {
				fmt.Printf(" %s=%.2f", f, weights[f])
			}
			fmt.Println()
		}
		return nil
	},
}

// buildTunedEngine layers the command-line tuning flags on top of the
// configured engine: preset first, then weight overrides, regional table
// file, and finally normalization.
func buildTunedEngine(preset string) (*engine.Engine, error) {
	eng, err := cfg.Engine.BuildEngine()
	if err != nil {
		return nil, err
	}

	if preset != "" {
		if err := eng.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	if len(engineConfigWeights) > 0 {
		weights, err := parseWeightFlags(engineConfigWeights)
		if err != nil {
			return nil, err
		}
		eng.UpdateConfig(engine.ConfigUpdate{Weights: weights})
	}

	if engineConfigRegionalFile != "" {
		table, err := loadRegionalTable(engineConfigRegionalFile)
		if err != nil {
			return nil, err
		}
		eng.UpdateConfig(engine.ConfigUpdate{Regional: table})
	}

	if engineConfigNormalize {
		eng.NormalizeWeights()
	}

	return eng, nil
}

// parseWeightFlags parses repeated --weight factor=value flags.
func parseWeightFlags(flags []string) (map[string]float64, error) {
	weights := make(map[string]float64, len(flags))
	for _, f := range flags {
		name, val, ok := strings.Cut(f, "=")
		if !ok {
			return nil, eris.Errorf("engine-config: invalid weight %q (want factor=value)", f)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, eris.Errorf("engine-config: invalid weight value %q", val)
		}
		weights[strings.TrimSpace(name)] = w
	}
	return weights, nil
}

// loadRegionalTable reads a regional adjustment table from a YAML file.
func loadRegionalTable(path string) (*engine.RegionalTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "engine-config: read regional table %s", path)
	}

	var table engine.RegionalTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, eris.Wrapf(err, "engine-config: parse regional table %s", path)
	}
	if len(table.Buckets) == 0 {
		return nil, eris.Errorf("engine-config: regional table %s defines no buckets", path)
	}
	for country, bucket := range table.Countries {
		if _, ok := table.Buckets[bucket]; !ok {
			return nil, eris.Errorf("engine-config: country %q maps to undefined bucket %q", country, bucket)
		}
	}
	return &table, nil
}

func writeEngineConfig(cfg engine.Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "engine-config: marshal")
	}
	fmt.Print(string(out))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{engineConfigShowCmd, engineConfigPresetCmd} {
		c.Flags().StringArrayVar(&engineConfigWeights, "weight", nil, "override a factor weight, e.g. --weight distance=0.3 (repeatable)")
		c.Flags().StringVar(&engineConfigRegionalFile, "regional-file", "", "YAML file replacing the regional adjustment table")
		c.Flags().BoolVar(&engineConfigNormalize, "normalize", false, "rescale weights to sum to 1.0 after overrides")
	}
	engineConfigCmd.AddCommand(engineConfigShowCmd, engineConfigPresetCmd, engineConfigPresetsCmd)
	rootCmd.AddCommand(engineConfigCmd)
}
