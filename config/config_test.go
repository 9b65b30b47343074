package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTOMLAppliesDefaults(t *testing.T) {
	cfg, err := LoadTOML([]byte(`prefix_scope_root = true`))
	require.NoError(t, err)
	assert.True(t, cfg.PrefixScopeRoot)
	assert.EqualValues(t, 8, cfg.PointerSize)
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestLoadTOMLRespectsExplicitValues(t *testing.T) {
	cfg, err := LoadTOML([]byte(`
pointer_size = 4
output_dir = "generated"
blacklist = ["System.Void"]
`))
	require.NoError(t, err)
	assert.EqualValues(t, 4, cfg.PointerSize)
	assert.Equal(t, "generated", cfg.OutputDir)
	assert.Equal(t, []string{"System.Void"}, cfg.Blacklist)
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.EqualValues(t, 8, d.PointerSize)
	assert.False(t, d.PrefixScopeRoot)
}
