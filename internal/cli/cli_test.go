package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func testdata(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return path
}

func TestExecute_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "check")
	assert.Contains(t, out, "mappings")
}

func TestExecute_UsageErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown flag",
			args:    []string{"--this-is-not-a-valid-flag"},
			wantErr: "unknown flag: --this-is-not-a-valid-flag",
		},
		{
			name:    "bad log level",
			args:    []string{"mappings", "--log-level", "verbose"},
			wantErr: "invalid log level",
		},
		{
			name:    "bad protocol",
			args:    []string{"mappings", "--protocol", "1.0"},
			wantErr: "unknown protocol version",
		},
		{
			name:    "missing config file",
			args:    []string{"mappings", "--config", "/no/such/metareg.yaml"},
			wantErr: "reading config file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantErr)
		})
	}
}

func TestCheck_RequiresFiles(t *testing.T) {
	_, _, err := execute(t, "check")
	assert.ErrorContains(t, err, "requires at least 1 arg")
}

func TestCheck_Passes(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "error.json")
	out, _, err := execute(t, "check", "-m", testdata(t, "sums.hcl"), "--dump-path", dump, testdata(t, "good.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "ok    ")
	assert.Contains(t, out, "(1 roots, 3 nodes)")
	assert.NoFileExists(t, dump)
}

func TestCheck_CorruptedChunk(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "error.json")
	out, _, err := execute(t, "check",
		"-m", testdata(t, "sums.hcl"),
		"--dump-path", dump,
		testdata(t, "good.json"), testdata(t, "shared_child.json"),
	)

	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "1 of 2 files failed the check", exitErr.Message)

	assert.Contains(t, out, "FAIL  ")
	assert.Contains(t, out, `duplicate node identity "l"`)
	assert.Contains(t, out, "tree written to "+dump)
	assert.FileExists(t, dump)
}

func TestCheck_DumpHoldsLastFailure(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "error.json")
	data, err := os.ReadFile(testdata(t, "shared_child.json"))
	require.NoError(t, err)
	second := filepath.Join(dir, "second.json")
	require.NoError(t, os.WriteFile(second, []byte(strings.ReplaceAll(string(data), `"sum"`, `"other"`)), 0o644))

	_, _, err = execute(t, "check",
		"-m", testdata(t, "sums.hcl"),
		"--dump-path", dump,
		testdata(t, "shared_child.json"), second,
	)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, "2 of 2 files failed the check", exitErr.Message)

	var chunk struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	raw, err := os.ReadFile(dump)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &chunk))
	require.NotEmpty(t, chunk.Nodes)
	assert.Equal(t, "other", chunk.Nodes[0].ID)
}

func TestCheck_UnknownLanguageWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := execute(t, "check", testdata(t, "good.json"))
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, out, "unknown classifier")
	assert.NoFileExists(t, filepath.Join(dir, "error.json"))
}

func TestMappings(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, _, err := execute(t, "mappings", "-m", testdata(t, "sums.hcl"))
		require.NoError(t, err)
		assert.Contains(t, out, "KIND")
		assert.Contains(t, out, "sums.Literal")
		assert.Contains(t, out, "sums.Label")
		assert.Contains(t, out, "lioncore.Node")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "mappings", "-m", testdata(t, "sums.hcl"), "--json")
		require.NoError(t, err)

		var got []mappingDTO
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		byTag := make(map[string]mappingDTO)
		for _, m := range got {
			byTag[m.Tag] = m
		}
		assert.True(t, byTag["sums.Sum"].Instantiated)
		assert.Equal(t, "sums", byTag["sums.Sum"].Language)
		assert.True(t, byTag["sums.Label"].HasCodec)
		assert.False(t, byTag["lioncore.Node"].Instantiated)
	})
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metareg.yaml"), []byte(`
protocol: "2023.1"
log_level: warn
manifests:
  - from-file.hcl
tracing:
  service_name: from-file
`), 0o600))

	run := func(t *testing.T, args ...string) *cobra.Command {
		t.Helper()
		root := NewRootCommand(&bytes.Buffer{}, &bytes.Buffer{})
		cmd, _, err := root.Find(append([]string{"mappings"}, args...))
		require.NoError(t, err)
		require.NoError(t, cmd.ParseFlags(args))
		return cmd
	}

	t.Run("file", func(t *testing.T) {
		cfg, err := loadConfig(run(t), "")
		require.NoError(t, err)
		assert.Equal(t, "2023.1", cfg.Protocol)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, []string{"from-file.hcl"}, cfg.Manifests)
		assert.Equal(t, "from-file", cfg.Tracing.ServiceName)
		assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("METAREG_LOG_LEVEL", "debug")
		t.Setenv("METAREG_TRACING_SERVICE_NAME", "from-env")
		cfg, err := loadConfig(run(t), "")
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "from-env", cfg.Tracing.ServiceName)
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv("METAREG_LOG_LEVEL", "debug")
		cfg, err := loadConfig(run(t, "--log-level", "error", "-m", "a.hcl", "-m", "b.yaml"), "")
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, []string{"a.hcl", "b.yaml"}, cfg.Manifests)
	})
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	root := NewRootCommand(&bytes.Buffer{}, &bytes.Buffer{})
	cfg, err := loadConfig(root, "")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Manifests)
	assert.Equal(t, "error.json", cfg.DumpPath)
}
