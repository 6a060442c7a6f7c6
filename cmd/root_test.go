package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"serve", "report", "export", "charts"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "delivery-optimizer", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestFilterFlagsRegistered(t *testing.T) {
	for _, name := range []string{"priority", "category", "none-priority", "none-category"} {
		for _, c := range []string{"report", "export", "charts"} {
			cmd, _, err := rootCmd.Find([]string{c})
			require.NoError(t, err)
			assert.NotNil(t, cmd.Flags().Lookup(name), "%s --%s", c, name)
		}
	}
}

func TestServeCommand_Flags(t *testing.T) {
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
	assert.NotNil(t, reportCmd.Flags().Lookup("format"))
	assert.NotNil(t, exportCmd.Flags().Lookup("xlsx"))
	assert.NotNil(t, chartsCmd.Flags().Lookup("svg"))
}
