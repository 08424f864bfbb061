package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "YEAR": "2019",
  "OUTPUT_DIR": "./out",
  "NPP_BOOTHS_FN": "booths.csv",
  "DEFAULT": {
    "STATE": "NSW",
    "PREFS_PATH": "./SenateFirstPrefsByStateByVoteTypeDownload-NSW.csv"
  },
  "MajorsOnly": {
    "GROUPS": [
      { "CODE": "Alp", "MEMBERS": ["A:Alp Party"] },
      { "CODE": "Lnp", "MEMBERS": ["B:Lnp Party"] },
      { "CODE": "Grn", "MEMBERS": ["C:Grn Party"] }
    ]
  },
  "MajorsQld": {
    "STATE": "QLD",
    "PREFS_PATH": "./qld.csv",
    "GROUPS": [
      { "CODE": "Alp", "MEMBERS": ["A:Alp Party"] },
      { "CODE": "Lnp", "MEMBERS": ["B:Lnp Party"] }
    ]
  }
}`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(p, []byte(sampleDoc), 0o644))
	return p
}

func TestLoadInheritsDefaults(t *testing.T) {
	doc, err := Load(writeSample(t))
	require.NoError(t, err)
	require.Equal(t, "2019", doc.Year)
	require.Len(t, doc.Scenarios, 2)

	// Scenarios load in sorted key order: MajorsOnly, then MajorsQld.
	majors := doc.Scenarios[0]
	require.Equal(t, "MajorsOnly", majors.Name)
	require.Equal(t, "NSW", majors.State) // inherited from DEFAULT
	require.Equal(t, "./SenateFirstPrefsByStateByVoteTypeDownload-NSW.csv", majors.PrefsPath)
	require.Len(t, majors.Groups, 3)

	qld := doc.Scenarios[1]
	require.Equal(t, "MajorsQld", qld.Name)
	require.Equal(t, "QLD", qld.State) // overrides DEFAULT
	require.Equal(t, "./qld.csv", qld.PrefsPath)
}

func TestLoadParsesMemberSpecifiers(t *testing.T) {
	doc, err := Load(writeSample(t))
	require.NoError(t, err)
	m := doc.Scenarios[0].Groups[0].Members[0]
	require.Equal(t, "A", m.Ticket)
	require.Equal(t, "Alp Party", m.Name)
}

func TestLoadRejectsMissingOutputDir(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"YEAR":"2019"}`), 0o644))
	_, err := Load(p)
	require.Error(t, err)
}
