package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kittclouds/parsekit/internal/config"
)

const testLibrary = `templates:
  - id: left
    pattern: "{who:NP} ran ."
    template: "{who} left ."
    score: 1
  - id: greet
    pattern: "hello [ there ] world"
    template: "hi world"
    score: 2
`

// newTestCmd builds a bare command carrying the flags the run functions read.
func newTestCmd(t *testing.T, flags map[string]string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cfg = config.Default()
	logger = zap.NewNop()

	cmd := &cobra.Command{}
	cmd.Flags().Bool("pretty", false, "")
	cmd.Flags().StringSlice("templates", nil, "")
	cmd.Flags().String("db", "", "")
	cmd.Flags().Int("limit", 3, "")
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}

	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func writeLibrary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lib.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testLibrary), 0644))
	return path
}

func TestParseCmd(t *testing.T) {
	cmd, out := newTestCmd(t, nil)
	require.NoError(t, runParse(cmd, []string{"The", "dog", "ran."}))
	assert.Equal(t, "(S (NP The/DT dog/NN) (VP ran/VBD) ./.)\n", out.String())
}

func TestTokensCmd(t *testing.T) {
	cmd, out := newTestCmd(t, nil)
	require.NoError(t, runTokens(cmd, []string{"The/DT", "dog/NN", "ran/VBD", "./."}))
	assert.Equal(t, "(S (NP The/DT dog/NN) (VP ran/VBD) ./.)\n", out.String())

	for _, bad := range []string{"dog", "dog/", "/NN"} {
		_, err := parseTokens([]string{bad})
		assert.Error(t, err, bad)
	}

	tokens, err := parseTokens([]string{"1/2/CD"})
	require.NoError(t, err)
	assert.Equal(t, "1/2", tokens[0].Word)
}

func TestMatchCmd(t *testing.T) {
	lib := writeLibrary(t)

	cmd, out := newTestCmd(t, map[string]string{"templates": lib})
	require.NoError(t, runMatch(cmd, []string{"The dog ran."}))
	assert.Contains(t, out.String(), "matched: left (score 1)")
	assert.Contains(t, out.String(), "text: The dog left .")

	cmd, out = newTestCmd(t, map[string]string{"templates": lib})
	require.NoError(t, runMatch(cmd, []string{"Nothing happened."}))
	assert.Contains(t, out.String(), "no match")
}

func TestMatchCmdWithoutTemplates(t *testing.T) {
	cmd, _ := newTestCmd(t, nil)
	assert.ErrorContains(t, runMatch(cmd, []string{"The dog ran."}), "no templates")
}

func TestSuggestCmd(t *testing.T) {
	lib := writeLibrary(t)

	cmd, out := newTestCmd(t, map[string]string{"templates": lib, "limit": "1"})
	require.NoError(t, runSuggest(cmd, []string{"hello big world"}))
	assert.Equal(t, "1. greet: hello [ there ] world => hi world\n", out.String())
}

func TestTemplatesImportListExport(t *testing.T) {
	lib := writeLibrary(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "templates.db")

	cmd, out := newTestCmd(t, map[string]string{"db": db})
	require.NoError(t, runTemplatesImport(cmd, []string{lib}))
	assert.Equal(t, "imported 2 templates\n", out.String())

	cmd, out = newTestCmd(t, map[string]string{"db": db})
	require.NoError(t, runTemplatesList(cmd, nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, out.String(), "greet")
	assert.Contains(t, out.String(), "{who} left .")

	exported := filepath.Join(dir, "out.yaml")
	cmd, _ = newTestCmd(t, map[string]string{"db": db})
	require.NoError(t, runTemplatesExport(cmd, []string{exported}))
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id: left")

	// the stored templates are usable for matching
	cmd, out = newTestCmd(t, map[string]string{"db": db})
	require.NoError(t, runMatch(cmd, []string{"The dog ran."}))
	assert.Contains(t, out.String(), "matched: left")
}

func TestSuggestFromStore(t *testing.T) {
	lib := writeLibrary(t)
	db := filepath.Join(t.TempDir(), "templates.db")

	cmd, _ := newTestCmd(t, map[string]string{"db": db})
	require.NoError(t, runTemplatesImport(cmd, []string{lib}))

	cmd, out := newTestCmd(t, map[string]string{"db": db, "limit": "1"})
	require.NoError(t, runSuggest(cmd, []string{"hello big world"}))
	assert.Equal(t, "1. greet: hello [ there ] world => hi world\n", out.String())

	cmd, out = newTestCmd(t, map[string]string{"db": db, "limit": "5"})
	require.NoError(t, runSuggest(cmd, []string{"the dog ran"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1. left:"))
}

func TestTemplatesImportRejectsBrokenLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - id: bad\n    pattern: \"hello [\"\n    template: hi\n"), 0644))
	db := filepath.Join(t.TempDir(), "templates.db")

	cmd, _ := newTestCmd(t, map[string]string{"db": db})
	assert.Error(t, runTemplatesImport(cmd, []string{path}))

	cmd, out := newTestCmd(t, map[string]string{"db": db})
	require.NoError(t, runTemplatesList(cmd, nil))
	assert.Equal(t, 1, strings.Count(out.String(), "\n"), "nothing is stored")
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parsekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matcher:\n  workers: 2\n"), 0644))

	loaded, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Matcher.Workers)

	loaded, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)
}
