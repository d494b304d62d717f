package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"recommend", "engine-config", "import", "gridload", "collect", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "gridintel", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRecommendCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"input", "site", "preset", "top", "detail", "xlsx", "save", "json"} {
		flag := recommendCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "recommend should have --%s flag", flagName)
	}
}

func TestGridloadCommand_RequiredFlags(t *testing.T) {
	flag := gridloadCmd.Flags().Lookup("shp")
	require.NotNil(t, flag, "gridload command should have --shp flag")
}

func TestCollectCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"site", "lat", "lon", "radius", "min-capacity", "enrich"} {
		flag := collectCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "collect should have --%s flag", flagName)
	}

	radius := collectCmd.Flags().Lookup("radius")
	require.NotNil(t, radius)
	assert.Equal(t, "50", radius.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestEngineConfigCommand_HasSubcommands(t *testing.T) {
	cmds := engineConfigCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"show", "preset", "presets"}
	for _, name := range expected {
		assert.True(t, names[name], "engine-config should have subcommand %q", name)
	}
}
