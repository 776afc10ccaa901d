package checks

import (
	"testing"

	"quest-sync/core/artifact"
	"quest-sync/core/models"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckArtifacts(t *testing.T) {
	fs := afero.NewMemMapFs()
	write := func(rel string) {
		require.NoError(t, afero.WriteFile(fs, "/audio/de/"+rel, []byte("x"), 0o644))
	}
	write("Elwynn/Record_1_Side_Male_Brot.mp3")
	write("Elwynn/Record_2_Side_Female_Holz.mp3")
	write("Elwynn/notes.txt")

	index := artifact.NewIndex("de")
	index.Add(artifact.Entry{QuestID: 1, Gender: models.VariantMale, RelativePath: "Elwynn/Record_1_Side_Male_Brot.mp3"})
	index.Add(artifact.Entry{QuestID: 3, Gender: models.VariantMale, RelativePath: "Westfall/Record_3_Side_Male_Gone.mp3"})

	report, err := CheckArtifacts(fs, "/audio/de", index)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, 2, report.OnDisk)
	assert.Equal(t, []string{"Westfall/Record_3_Side_Male_Gone.mp3"}, report.MissingOnDisk)
	assert.Equal(t, []string{"Elwynn/Record_2_Side_Female_Holz.mp3"}, report.Unindexed)
	assert.Equal(t, []string{"Elwynn/notes.txt"}, report.InvalidNames)
	assert.Equal(t, "error", report.Status)

	// After a rebuild the index matches the disk.
	_, err = index.Rebuild(fs, "/audio/de")
	require.NoError(t, err)
	report, err = CheckArtifacts(fs, "/audio/de", index)
	require.NoError(t, err)
	assert.Empty(t, report.MissingOnDisk)
	assert.Empty(t, report.Unindexed)
	assert.Equal(t, "warning", report.Status)
}

func TestCheckArtifacts_MissingRoot(t *testing.T) {
	report, err := CheckArtifacts(afero.NewMemMapFs(), "/none", artifact.NewIndex("de"))
	require.NoError(t, err)
	assert.Equal(t, 0, report.OnDisk)
	assert.Equal(t, "ok", report.Status)
}
