package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the command tree with args and captures its output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

func runCLIContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("MOLX_LOG_LEVEL", "error")

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env")}, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "molx", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"serve", "describe", "pdb", "svg", "examples", "measure", "events", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	pf := NewRootCommand().PersistentFlags()
	for _, name := range []string{"config", "env-file", "log-level", "output", "server", "timeout"} {
		assert.NotNil(t, pf.Lookup(name), name)
	}
	assert.Equal(t, "text", pf.Lookup("output").DefValue)
}

func TestPersistentPreRun_BuildsContext(t *testing.T) {
	t.Setenv("MOLX_CHEM_MAX_ATOMS", "55")

	var got *CLIContext
	root := NewRootCommand()
	root.AddCommand(&cobra.Command{
		Use: "ping",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			got, err = GetCLIContext(cmd)
			return err
		},
	})
	root.SetArgs([]string{"ping", "-o", "JSON", "--server", "http://localhost:9", "--log-level", "warn"})
	require.NoError(t, root.Execute())

	require.NotNil(t, got)
	assert.Equal(t, 55, got.Config.Chem.MaxAtoms)
	assert.Equal(t, "json", got.OutputFormat)
	assert.Equal(t, "http://localhost:9", got.ServerAddr)
	assert.NotNil(t, got.Logger)
}

func TestPersistentPreRun_BadConfigPath(t *testing.T) {
	_, _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)

	cmd.SetContext(context.Background())
	_, err = GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestExecuteContext_PrintsError(t *testing.T) {
	t.Setenv("MOLX_LOG_LEVEL", "error")
	err := ExecuteContext(context.Background(), []string{"describe", "--env-file", filepath.Join(t.TempDir(), "x.env")})
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "molx dev")

	out, _, err = runCLI(t, "version", "-o", "json")
	require.NoError(t, err)
	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestFormatTable(t *testing.T) {
	out := FormatTable([]string{"NAME", "SMILES"}, [][]string{
		{"aspirin", "CC(=O)OC1=CC=CC=C1C(=O)O"},
		{"glucose"},
	})
	assert.Equal(t,
		"NAME     SMILES\n"+
			"-------  ------------------------\n"+
			"aspirin  CC(=O)OC1=CC=CC=C1C(=O)O\n"+
			"glucose  \n", out)

	assert.Empty(t, FormatTable(nil, nil))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 4))
}

//Personal.AI order the ending
