package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedNetwork(t *testing.T, root, network string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, network)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestRootGeneratesBothNetworks(t *testing.T) {
	root := t.TempDir()
	mainnet := seedNetwork(t, root, "mainnet", map[string]string{
		"a.json": `{"secp":"S1","name":"Alice"}`,
		"b.json": `{"secp":"S2"}`,
		"c.json": `{broken`,
	})
	testnet := seedNetwork(t, root, "testnet", map[string]string{
		"t.json": `{"secp":"T1","name":""}`,
	})

	out, err := execute(t, "--root", root, "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "✅ Generated "+filepath.Join(mainnet, "mainnet_validators.json")+" with 2 validators")
	assert.Contains(t, out, "✅ Generated "+filepath.Join(mainnet, "mainnet_validator_key_name_map.csv")+" with 2 validators")
	assert.Contains(t, out, "✅ Generated "+filepath.Join(testnet, "testnet_validators.json")+" with 1 validators")
	assert.Contains(t, out, "✅ Generated "+filepath.Join(testnet, "testnet_validator_key_name_map.csv")+" with 1 validators")

	csvData, err := os.ReadFile(filepath.Join(testnet, "testnet_validator_key_name_map.csv"))
	require.NoError(t, err)
	assert.Equal(t, "secp_key,name\r\nT1,T1\r\n", string(csvData))
}

func TestGenerateNamedNetwork(t *testing.T) {
	root := t.TempDir()
	seedNetwork(t, root, "testnet", map[string]string{
		"t.json": `{"secp":"T1"}`,
	})

	out, err := execute(t, "generate", "testnet", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "testnet_validators.json with 1 validators")
	assert.NotContains(t, out, "mainnet")
}

func TestGenerateUnknownNetwork(t *testing.T) {
	_, err := execute(t, "generate", "devnet", "--root", t.TempDir())
	assert.ErrorContains(t, err, `unknown network "devnet"`)
}

func TestGenerateMissingNetworkDirectory(t *testing.T) {
	root := t.TempDir()
	seedNetwork(t, root, "mainnet", map[string]string{"a.json": `{"secp":"S1"}`})

	out, err := execute(t, "--root", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate testnet validators")
	// mainnet finished before testnet failed
	assert.Contains(t, out, "mainnet_validators.json with 1 validators")
}

func TestRootFromEnvironment(t *testing.T) {
	root := t.TempDir()
	seedNetwork(t, root, "mainnet", map[string]string{"a.json": `{"secp":"S1"}`})
	t.Setenv("VALIDATORS_ROOT", root)

	out, err := execute(t, "generate", "mainnet")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "mainnet", "mainnet_validators.json"))
}

func TestGenerateWithConfigFile(t *testing.T) {
	root := t.TempDir()
	dir := seedNetwork(t, root, "devnet", map[string]string{"d.json": `{"secp":"D1","name":"Dev"}`})
	cfgPath := filepath.Join(root, "validators.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
root: .
networks:
  - name: devnet
    json_output: devnet.json
    csv_output: devnet.csv
`), 0o644))

	out, err := execute(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "devnet.json")+" with 1 validators")
	assert.FileExists(t, filepath.Join(dir, "devnet.csv"))
}

func TestVersion(t *testing.T) {
	appVersion, appGitCommit, appBuildTime = "v1.2.3", "abc123", "2026-10-18"
	t.Cleanup(func() { appVersion, appGitCommit, appBuildTime = "", "", "" })

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Validators-Gen Version: v1.2.3")
	assert.Contains(t, out, "Git Commit: abc123")
}

func TestGenerateReportsJSONWhenCSVFails(t *testing.T) {
	root := t.TempDir()
	mainnet := seedNetwork(t, root, "mainnet", map[string]string{"a.json": `{"secp":"S1"}`})
	require.NoError(t, os.Mkdir(filepath.Join(mainnet, "mainnet_validator_key_name_map.csv"), 0o755))

	out, err := execute(t, "generate", "mainnet", "--root", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate mainnet validators")
	assert.Equal(t, "✅ Generated "+filepath.Join(mainnet, "mainnet_validators.json")+" with 1 validators\n", out)
}
