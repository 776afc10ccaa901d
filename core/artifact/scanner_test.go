package artifact

import (
	"testing"

	"quest-sync/core/models"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuild(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/audio/de/Elwynn/Record_1_Main_male_Into_the_Woods.mp3":   "aaaa",
		"/audio/de/Elwynn/Record_1_Main_female_Into_the_Woods.mp3": "bb",
		"/audio/de/Westfall/Record_2_Side_male_Harvest.mp3":        "c",
		"/audio/de/Westfall/readme.txt":                            "ignored",
		"/audio/de/Westfall/Record_3_Side_robot_X.mp3":             "ignored",
		"/audio/de/Record_4_Event_neutral_Loose.mp3":               "d",
	}
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
	}

	x := NewIndex("de")
	x.Add(Entry{QuestID: 99, Gender: models.VariantMale})

	report, err := x.Rebuild(fs, "/audio/de")
	require.NoError(t, err)
	assert.Equal(t, 4, report.Indexed)
	assert.Equal(t, 2, report.Skipped)
	assert.False(t, x.IsAlreadyPresent(99, models.VariantMale))

	e, ok := x.Get(1, models.VariantMale)
	require.True(t, ok)
	assert.Equal(t, "Elwynn", e.Zone)
	assert.Equal(t, "Elwynn/Record_1_Main_male_Into_the_Woods.mp3", e.RelativePath)
	assert.True(t, e.IsMainStory)
	assert.Equal(t, "Into the Woods", e.Title)
	require.NotNil(t, e.FileSizeBytes)
	assert.EqualValues(t, 4, *e.FileSizeBytes)

	loose, ok := x.Get(4, models.VariantNeutral)
	require.True(t, ok)
	assert.Empty(t, loose.Zone)
	assert.Equal(t, models.CategoryEvent, loose.Category)

	assert.True(t, Exists(fs, "/audio/de", e))
	require.NoError(t, fs.Remove("/audio/de/Elwynn/Record_1_Main_male_Into_the_Woods.mp3"))
	assert.False(t, Exists(fs, "/audio/de", e))
}

func TestRebuild_MissingRoot(t *testing.T) {
	x := NewIndex("de")
	x.Add(Entry{QuestID: 1, Gender: models.VariantMale})

	report, err := x.Rebuild(afero.NewMemMapFs(), "/nowhere")
	require.NoError(t, err)
	assert.Zero(t, report.Indexed)
	assert.Zero(t, x.Len())
}
