package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/metareg/internal/cli"
)

func TestRun_Help(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error for --help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_Version(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), out, &bytes.Buffer{}, []string{"--version"}))
	assert.Contains(t, out.String(), "metareg version dev")
}

func TestRun_ParseError(t *testing.T) {
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr, "run() should return an ExitError when argument parsing fails")
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_InvalidManifest(t *testing.T) {
	invalidHCL := `
		language "broken" {
			version = "1"
		// Missing closing brace here
	`
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "broken.hcl")
	require.NoError(t, os.WriteFile(manifestPath, []byte(invalidHCL), 0o600))

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"mappings", "-m", manifestPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestRun_CheckWritesDumpForCorruptedChunk(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "sums.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`
languages:
  - key: sums
    version: "1"
    protocol: "2024.1"
    concepts:
      - name: Pair
        tag: sums.Pair
        containments:
          - name: items
            type: Item
            multiple: true
      - name: Item
        tag: sums.Item
`), 0o600))

	chunkPath := filepath.Join(dir, "chunk.json")
	require.NoError(t, os.WriteFile(chunkPath, []byte(`{
  "serializationFormatVersion": "2024.1",
  "languages": [{"key": "sums", "version": "1"}],
  "nodes": [
    {"id": "pair", "classifier": {"language": "sums", "version": "1", "key": "Pair"},
     "properties": [], "references": [], "annotations": [], "parent": null,
     "containments": [{"containment": {"language": "sums", "version": "1", "key": "Pair-items"}, "children": ["a", "a"]}]},
    {"id": "a", "classifier": {"language": "sums", "version": "1", "key": "Item"},
     "properties": [], "containments": [], "references": [], "annotations": [], "parent": "pair"}
  ]
}`), 0o600))

	dump := filepath.Join(dir, "error.json")
	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{
		"check", "--manifest", manifestPath, "--dump-path", dump, chunkPath,
	})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, out.String(), `child "a" appears twice in containment items of "pair"`)
	assert.FileExists(t, dump)
}
