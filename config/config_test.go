package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "platform", cfg.Authority)
	require.Equal(t, "ATTN", cfg.RewardSymbol)
	require.Equal(t, uint8(4), cfg.Precision)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
DataDir = "/var/lib/attn"
PlatformName = "test_platform"
Authority = "platform"
RewardSymbol = "SNAX"
Precision = 4
AirdropAgent = "snax.airdrop"
RoundEmission = "1000000"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/attn", cfg.DataDir)
	require.Equal(t, "test_platform", cfg.PlatformName)
	require.Equal(t, "SNAX", cfg.RewardSymbol)
	require.Equal(t, "snax.airdrop", cfg.AirdropAgent)
	require.Equal(t, "1000000", cfg.RoundEmission)
}

func TestLoadRejectsBadPrecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("RewardSymbol = \"SNAX\"\nPrecision = 30\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
