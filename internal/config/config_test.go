package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, GetDefaultConfig(), cfg)
}

func TestDefaultConfigGridMatchesReferenceBounds(t *testing.T) {
	cfg := GetDefaultConfig()
	require.Equal(t, float32(-1000), cfg.Grid.X0)
	require.Equal(t, float32(1000), cfg.Grid.X1)
	require.Equal(t, 100, cfg.Grid.Nx)
	require.Equal(t, 100, cfg.Grid.Ny)
}
