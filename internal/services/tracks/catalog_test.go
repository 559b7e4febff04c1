package tracks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musicchallenge/internal/dependencies/mocks"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := Default(mocks.NewMockRandom())
	require.NoError(t, err)
	assert.Equal(t, 5, catalog.Len())
}

func TestNextUsesRandomIndex(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(0, 4, 2)
	catalog, err := Default(rnd)
	require.NoError(t, err)

	assert.Equal(t, "Bohemian Rhapsody", catalog.Next().Title)

	song := catalog.Next()
	assert.Equal(t, 5, song.ID)
	assert.Equal(t, "Eagles", song.Artist)

	assert.Equal(t, "Guns N' Roses", catalog.Next().Artist)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
songs:
  - id: 9
    title: Take On Me
    artist: a-ha
    preview_url: https://example.com/take-on-me.mp3
`), 0o600))

	catalog, err := Load(path, mocks.NewMockRandom())
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Len())

	song := catalog.Next()
	assert.Equal(t, "Take On Me", song.Title)
	assert.Empty(t, song.CoverURL)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	catalog, err := Load("", mocks.NewMockRandom())
	require.NoError(t, err)
	assert.Equal(t, 5, catalog.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), mocks.NewMockRandom())
	assert.ErrorContains(t, err, "read song catalog")
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	rnd := mocks.NewMockRandom()

	_, err := Parse([]byte("songs: []"), rnd)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = Parse([]byte("songs:\n  - id: 1\n    title: x\n"), rnd)
	assert.ErrorContains(t, err, "preview_url")

	_, err = Parse([]byte("songs:\n  - id: 1\n    title: a\n    preview_url: u\n  - id: 1\n    title: b\n    preview_url: v\n"), rnd)
	assert.ErrorContains(t, err, "duplicate id")

	_, err = Parse([]byte("songs: {"), rnd)
	assert.ErrorContains(t, err, "decode song catalog")
}
