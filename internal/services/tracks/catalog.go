// Package tracks serves the mocked song catalog used by the challenge.
package tracks

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/musicchallenge/internal/dependencies/random"
	"github.com/mcoot/musicchallenge/internal/model"
)

//go:embed songs.yaml
var defaultCatalog []byte

// Errors
var (
	ErrEmptyCatalog = errors.New("song catalog is empty")
)

type catalogFile struct {
	Songs []model.Song `yaml:"songs"`
}

// Catalog is an immutable list of songs
type Catalog struct {
	songs  []model.Song
	random random.Random
}

// Default returns the built-in catalog
func Default(rnd random.Random) (*Catalog, error) {
	return Parse(defaultCatalog, rnd)
}

// Load reads a catalog from a YAML file, or the built-in one when path is empty
func Load(path string, rnd random.Random) (*Catalog, error) {
	if path == "" {
		return Default(rnd)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read song catalog: %w", err)
	}
	return Parse(data, rnd)
}

// Parse decodes a YAML catalog and checks every song is playable
func Parse(data []byte, rnd random.Random) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode song catalog: %w", err)
	}
	if len(file.Songs) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[int]bool, len(file.Songs))
	for i, song := range file.Songs {
		if song.Title == "" || song.PreviewURL == "" {
			return nil, fmt.Errorf("song %d: title and preview_url are required", i)
		}
		if seen[song.ID] {
			return nil, fmt.Errorf("song %d: duplicate id %d", i, song.ID)
		}
		seen[song.ID] = true
	}

	return &Catalog{songs: file.Songs, random: rnd}, nil
}

// Next returns a uniformly random song
func (c *Catalog) Next() model.Song {
	return c.songs[c.random.Intn(len(c.songs))]
}

// Len returns the number of songs
func (c *Catalog) Len() int {
	return len(c.songs)
}
