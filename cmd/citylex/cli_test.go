package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/citylex/pkg/db/dbtest"
)

// runCLI executes the root command in-process. Callers chdir into an empty
// directory first so no citylex.yaml is picked up.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCLI_ExportToStdout(t *testing.T) {
	path := dbtest.NewStore(t, dbtest.Sample())
	t.Chdir(t.TempDir())

	out, _, err := runCLI(t, "export", "--db-path", path,
		"-s", "UniMorph", "-s", "UDLexicons", "-f", "udlex_UDtags", "-f", "um_UDtags")
	require.NoError(t, err)

	want := "wordform\tsource\tUD_tags\r\n" +
		"cats\tUDLexicons\tNOUN|Number=Plur\r\n" +
		"ran\tUDLexicons\tVERB|Tense=Past\r\n" +
		"cats\tUniMorph\tNOUN|Number=Plur\r\n" +
		"walked\tUniMorph\tVERB|Tense=Past\r\n"
	assert.Equal(t, want, out)
}

func TestCLI_ExportToFile(t *testing.T) {
	path := dbtest.NewStore(t, dbtest.Sample())
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CITYLEX_STORE_PATH", path)

	_, stderr, err := runCLI(t, "export", "-s", "WikiPron-US", "-f", "wikipronus_IPA", "--format", "csv", "-o", "out.csv")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote 1 rows to out.csv")

	body, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "wordform,source,IPA_pronunciation\r\ntomato,WikiPron-US,t ə m eɪ t oʊ\r\n", string(body))
}

func TestCLI_ExportEmptySelection(t *testing.T) {
	path := dbtest.NewStore(t, dbtest.Sample())
	t.Chdir(t.TempDir())

	_, _, err := runCLI(t, "export", "--db-path", path, "-f", "subtlexus_raw_frequency")
	require.Error(t, err)
	assert.Equal(t, "Please select at least one data source and field.", err.Error())
}

func TestCLI_ExportCustomTagTable(t *testing.T) {
	path := dbtest.NewStore(t, dbtest.Sample())
	dir := t.TempDir()
	t.Chdir(dir)

	table := filepath.Join(dir, "tags.yaml")
	require.NoError(t, os.WriteFile(table, []byte(`features:
  - {UD: NOUN, UniMorph: N, CELEX: noun}
  - {UD: Number=Plur, UniMorph: PL, CELEX: plural}
  - {UD: VERB, UniMorph: V, CELEX: verb}
  - {UD: Tense=Past, UniMorph: PST, CELEX: past}
`), 0o644))

	out, _, err := runCLI(t, "export", "--db-path", path, "--features-table", table,
		"-s", "UniMorph", "-f", "um_CELEXtags")
	require.NoError(t, err)
	assert.Equal(t, "wordform\tsource\tCELEX_tags\r\ncats\tUniMorph\tnoun|plural\r\nwalked\tUniMorph\tverb|past\r\n", out)
}

func TestCLI_MissingStore(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := runCLI(t, "export", "--db-path", "missing.db", "-s", "SUBTLEX-US", "-f", "subtlexus_raw_frequency")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lexicon store unavailable")
}

func TestCLI_Sources(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := runCLI(t, "sources")
	require.NoError(t, err)
	for _, want := range []string{"SUBTLEX-US", "WikiPron-UK", "UniMorph", "wikipronus_IPA -> IPA_pronunciation", "udlex_UMtags -> UniMorph_tags"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "ROWS")
}

func TestCLI_SourcesCounts(t *testing.T) {
	path := dbtest.NewStore(t, dbtest.Sample())
	t.Chdir(t.TempDir())

	out, _, err := runCLI(t, "sources", "--counts", "--db-path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ROWS")

	// SUBTLEX-US holds two rows; the narrow WikiPron transcription is not counted.
	var subtlexUS, wikipronUS string
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "SUBTLEX-US"):
			subtlexUS = line
		case strings.Contains(line, "WikiPron-US"):
			wikipronUS = line
		}
	}
	assert.Regexp(t, `│\s+2\s+│$`, subtlexUS)
	assert.Regexp(t, `│\s+1\s+│$`, wikipronUS)
}

func TestCLI_Migrate(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "fresh.db")

	out, _, err := runCLI(t, "migrate", "--db-path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")

	out, _, err = runCLI(t, "export", "--db-path", path, "-s", "SUBTLEX-UK", "-f", "subtlexuk_freq_per_million")
	require.NoError(t, err)
	assert.Equal(t, "wordform\tsource\tfreq_per_million\r\n", out)
}

func TestCLI_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := runCLI(t, "sources", "--driver", "mysql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key="store.driver"`)
}

func TestCLI_Version(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "citylex "+Version+" ("+GitCommit+")\n", out)
}
