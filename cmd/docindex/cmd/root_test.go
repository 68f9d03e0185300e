package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/docindex/internal/config"
	"github.com/Aman-CERP/docindex/internal/errors"
)

const testSchema = `[
	{"name": "id", "type": "i64", "options": {"indexed": true, "stored": true}},
	{"name": "title", "type": "text", "options": {"indexing": {"record": "position", "tokenizer": "default"}, "stored": true}},
	{"name": "rating", "type": "f64", "options": {"stored": true}}
]`

// isolate points configuration lookups at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, name := range []string{
		config.EnvConfigPath,
		"DOCINDEX_MAX_PATH_CHARS",
		"DOCINDEX_MAX_SCHEMA_BYTES",
		"DOCINDEX_MAX_DOCUMENT_BYTES",
		"DOCINDEX_MEMORY_BUDGET",
		"DOCINDEX_OPEN_TIMEOUT",
		"DOCINDEX_LOG_LEVEL",
		"DOCINDEX_LOG_FILE",
	} {
		t.Setenv(name, "")
	}
	return dir
}

// run executes the CLI with args and stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	// Given: root command
	cmd := NewRootCmd()

	// Then: every operation is reachable
	for _, name := range []string{"create", "open", "exists", "delete", "ingest", "watch", "info", "doctor", "config", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"config", "lib", "camel", "debug", "json", "profile-cpu", "profile-mem", "profile-trace"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestCLI_CreateIngestInfo(t *testing.T) {
	// Given: a schema file and a JSONL file
	isolate(t)
	dir := t.TempDir()
	idx := filepath.Join(dir, "idx")
	schemaPath := writeFile(t, dir, "schema.json", testSchema)
	docs := writeFile(t, dir, "docs.jsonl",
		`{"id": 1, "title": "first", "rating": 4.5}`+"\n"+
			"\n"+
			`{"id": 2, "title": "second", "rating": 3}`+"\n")

	// When: creating, ingesting, and inspecting
	out, err := run(t, "", "create", idx, "--schema", schemaPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Created index")

	out, err = run(t, "", "--json", "ingest", idx, docs)
	require.NoError(t, err)

	var res ingestResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Lines)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 0, res.Rejected)
	assert.Equal(t, 1, res.Commits)

	out, err = run(t, "", "--json", "info", idx)
	require.NoError(t, err)

	// Then: the committed documents are counted
	var info struct {
		Documents uint64            `json:"documents"`
		Schema    []json.RawMessage `json:"schema"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, uint64(2), info.Documents)
	assert.Len(t, info.Schema, 3)
}

func TestCLI_CreateFromStdin(t *testing.T) {
	isolate(t)
	idx := filepath.Join(t.TempDir(), "idx")

	_, err := run(t, testSchema, "create", idx, "--schema", "-")
	require.NoError(t, err)

	out, err := run(t, "", "--json", "exists", idx)
	require.NoError(t, err)
	assert.Contains(t, out, `"exists": true`)
}

func TestCLI_CreateRequiresSchemaFlag(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "create", filepath.Join(t.TempDir(), "idx"))
	require.Error(t, err)
}

func TestCLI_CreateTwiceFails(t *testing.T) {
	isolate(t)
	idx := filepath.Join(t.TempDir(), "idx")

	_, err := run(t, testSchema, "create", idx, "--schema", "-")
	require.NoError(t, err)

	_, err = run(t, testSchema, "create", idx, "--schema", "-")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeIndexExists))
}

func TestCLI_InvalidPathIsValidationError(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "open", "../escape")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidPath))
	assert.Equal(t, 2, exitCode(err))
}

func TestCLI_OpenMissingIndex(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "open", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeIndexNotFound))
	assert.Equal(t, 1, exitCode(err))
}

func TestCLI_ExistsQuiet(t *testing.T) {
	isolate(t)

	// When: probing a path with no index quietly
	out, err := run(t, "", "exists", "--quiet", t.TempDir())

	// Then: nothing is printed and the sentinel carries the answer
	assert.ErrorIs(t, err, errAbsent)
	assert.Empty(t, out)
}

func TestCLI_DeleteConfirmation(t *testing.T) {
	isolate(t)
	idx := filepath.Join(t.TempDir(), "idx")
	_, err := run(t, testSchema, "create", idx, "--schema", "-")
	require.NoError(t, err)

	// When: declining the prompt
	out, err := run(t, "n\n", "delete", idx)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")
	assert.DirExists(t, idx)

	// When: forcing
	_, err = run(t, "", "delete", "--force", idx)
	require.NoError(t, err)
	assert.NoDirExists(t, idx)
}

func TestCLI_ConfigFromFlag(t *testing.T) {
	// Given: a config that shortens the path limit
	isolate(t)
	cfgPath := writeFile(t, t.TempDir(), "config.yaml", "limits:\n  max_path_chars: 8\n")

	// When: opening a longer path
	_, err := run(t, "", "--config", cfgPath, "open", "/a/very/long/path")

	// Then: the configured limit applies
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidPath))
}

func TestCLI_MissingConfigFile(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "--config", filepath.Join(t.TempDir(), "none.yaml"), "version")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigNotFound))
}

func TestNeedsBackend(t *testing.T) {
	cmd := NewRootCmd()

	ingest, _, err := cmd.Find([]string{"ingest"})
	require.NoError(t, err)
	assert.True(t, needsBackend(ingest))

	show, _, err := cmd.Find([]string{"config", "show"})
	require.NoError(t, err)
	assert.False(t, needsBackend(show))
}

func TestCLI_Doctor(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "--json", "doctor", "--min-disk-mb", "0", filepath.Join(t.TempDir(), "idx"))
	require.NoError(t, err)

	var report doctorReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEqual(t, "failed", report.Status)
	assert.Len(t, report.Results, 4)
}
