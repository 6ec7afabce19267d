package storage

import (
	"os"
	"path/filepath"
	"testing"

	"sonichealing/resources"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseCatalog_BuiltIn(t *testing.T) {
	catalog, err := ParseCatalog(resources.DefaultCatalog())
	require.NoError(t, err)

	require.Len(t, catalog.Tracks, 4)
	require.Len(t, catalog.Tones, 3)
	require.Len(t, catalog.Backdrops, 4)
	require.Equal(t, "gentleGong", catalog.Chime.ID)
	require.Empty(t, catalog.Dir)

	names := catalog.Names()
	require.Equal(t, "Magical Lake Under The Stars", names["magical"])
	require.Equal(t, "528 Hz (Love/Transformation)", names["freq528"])
}

func TestParseCatalog_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseCatalog([]byte("tracks: []\nvolume: 11\n"))
	require.Error(t, err)
}

func TestValidate_Rules(t *testing.T) {
	valid := func() Catalog {
		return Catalog{
			Tracks: []Asset{{ID: "nature", Path: "3.mp3"}},
			Tones:  []Asset{{ID: "freq528", Frequency: 528}},
			Chime:  Asset{ID: "gong"},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Catalog){
		"empty":             func(c *Catalog) { c.Tracks, c.Tones = nil, nil },
		"no chime id":       func(c *Catalog) { c.Chime.ID = "" },
		"missing id":        func(c *Catalog) { c.Tracks[0].ID = "" },
		"nothing to play":   func(c *Catalog) { c.Tones[0].Frequency = 0 },
		"duplicate ids":     func(c *Catalog) { c.Tones[0].ID = "nature" },
		"chime collides":    func(c *Catalog) { c.Chime.ID = "freq528" },
		"backdrop no image": func(c *Catalog) { c.Backdrops = []Backdrop{{Name: "Fog"}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			catalog := valid()
			mutate(&catalog)
			require.ErrorIs(t, catalog.Validate(), ErrInvalidCatalog)
		})
	}
}

func TestLoadCatalog_MissingFileUsesDefaults(t *testing.T) {
	catalog, err := LoadCatalog(filepath.Join(t.TempDir(), "catalog.yaml"), resources.DefaultCatalog())
	require.NoError(t, err)
	require.Len(t, catalog.Tracks, 4)
	require.Empty(t, catalog.Dir)

	catalog, err = LoadCatalog("", resources.DefaultCatalog())
	require.NoError(t, err)
	require.Len(t, catalog.Tones, 3)
}

func TestLoadCatalog_FileSetsDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tracks:
  - id: rain
    name: Rain
    path: rain.wav
chime:
  id: bell
`), 0o644))

	catalog, err := LoadCatalog(path, resources.DefaultCatalog())
	require.NoError(t, err)
	require.Equal(t, dir, catalog.Dir)
	require.Equal(t, "rain", catalog.Tracks[0].ID)
}

func TestLoadCatalog_InvalidFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracks:\n  - id: rain\nchime:\n  id: bell\n"), 0o644))

	_, err := LoadCatalog(path, resources.DefaultCatalog())
	require.ErrorIs(t, err, ErrInvalidCatalog)
	require.Contains(t, err.Error(), path)
}

func TestSaveCatalog_RoundTrip(t *testing.T) {
	original, err := ParseCatalog(resources.DefaultCatalog())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "nested", "catalog.yaml")

	require.NoError(t, SaveCatalog(path, original))
	loaded, err := LoadCatalog(path, nil)
	require.NoError(t, err)

	loaded.Dir = ""
	require.Equal(t, original, loaded)
}

func TestSaveCatalog_RefusesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.ErrorIs(t, SaveCatalog(path, Catalog{}), ErrInvalidCatalog)
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestSources_LoopingFlags(t *testing.T) {
	catalog, err := ParseCatalog(resources.DefaultCatalog())
	require.NoError(t, err)

	for _, source := range append(catalog.TrackSources(), catalog.ToneSources()...) {
		require.True(t, source.Loop, source.ID)
	}
	chime := catalog.ChimeSource()
	require.False(t, chime.Loop)
	require.Equal(t, "sounds/gong1.mp3", chime.Path)

	tones := catalog.ToneSources()
	require.Equal(t, 528.0, tones[0].Frequency)
	require.Equal(t, -2.0, tones[0].Gain)

	backdrops := catalog.SceneBackdrops()
	require.Equal(t, "Forest Morning", backdrops[0].Name)
	require.NotEmpty(t, backdrops[0].ImageURL)
}

// TestProperty_DuplicateIDsRejected checks validation catches any repeated id.
func TestProperty_DuplicateIDsRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,6}`), 2, 8, rapid.ID[string]).Draw(t, "ids")
		assets := make([]Asset, 0, len(ids)+1)
		for _, id := range ids {
			assets = append(assets, Asset{ID: id, Frequency: 440})
		}
		catalog := Catalog{Tones: assets, Chime: Asset{ID: "chime-only"}}
		if err := catalog.Validate(); err != nil {
			t.Fatalf("distinct ids rejected: %v", err)
		}

		copied := rapid.SampledFrom(ids).Draw(t, "copied")
		catalog.Tones = append(catalog.Tones, Asset{ID: copied, Frequency: 220})
		if err := catalog.Validate(); err == nil {
			t.Fatalf("duplicate %q accepted", copied)
		}
	})
}
