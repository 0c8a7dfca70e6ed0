package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brdata/municipio-cli/internal/model"
)

func sampleAssignments() []model.ClusterAssignment {
	return []model.ClusterAssignment{
		{IBGECode: "1100015", RawGroupID: 2, OrderedGroupID: 0, Label: "Polos de Desenvolvimento"},
		{IBGECode: "2300101", RawGroupID: 0, OrderedGroupID: 3, Label: "Vulneraveis"},
		{IBGECode: "3550308", RawGroupID: 1, OrderedGroupID: 1, Label: "Desenvolvimento Avancado"},
	}
}

func TestWriteAssignments_HeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds", "seed_cluster_assignments.csv")

	require.NoError(t, WriteAssignments(path, sampleAssignments()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ibge_code,ordered_group_id,label", lines[0])
	assert.Equal(t, "1100015,0,Polos de Desenvolvimento", lines[1])
	assert.Equal(t, "2300101,3,Vulneraveis", lines[2])
	assert.Equal(t, "3550308,1,Desenvolvimento Avancado", lines[3])
}

func TestWriteAssignments_OverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0o644))

	require.NoError(t, WriteAssignments(path, sampleAssignments()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "stale")
	assert.Contains(t, string(content), "ibge_code")
}

func TestWriteAssignments_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.csv")

	require.NoError(t, WriteAssignments(path, sampleAssignments()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "seed.csv", entries[0].Name())
}

func TestWriteAssignments_WorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.csv")

	require.NoError(t, WriteAssignments(path, sampleAssignments()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestReadAssignments_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.csv")
	in := sampleAssignments()
	require.NoError(t, WriteAssignments(path, in))

	out, err := ReadAssignments(path)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].IBGECode, out[i].IBGECode)
		assert.Equal(t, in[i].OrderedGroupID, out[i].OrderedGroupID)
		assert.Equal(t, in[i].Label, out[i].Label)
	}
}

func TestReadAssignments_RejectsUnexpectedHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0o644))

	_, err := ReadAssignments(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected header")
}

func TestReadAssignments_MissingFile(t *testing.T) {
	_, err := ReadAssignments(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestWriteAssignments_EmptySetStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.csv")
	require.NoError(t, WriteAssignments(path, nil))

	out, err := ReadAssignments(path)
	require.NoError(t, err)
	assert.Empty(t, out)
}
