package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sonichealing/internal/audio"
	"sonichealing/internal/core/scene"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog indicates a catalog that cannot back the player.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Asset is one playable sound in the catalog.
type Asset struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Path      string  `yaml:"path,omitempty"`
	Frequency float64 `yaml:"frequency,omitempty"`
	Gain      float64 `yaml:"gain,omitempty"`
}

// Backdrop is one background image in the catalog.
type Backdrop struct {
	Name     string `yaml:"name"`
	ImageURL string `yaml:"image_url"`
}

// Catalog lists every asset the player can load.
type Catalog struct {
	Tracks    []Asset    `yaml:"tracks"`
	Tones     []Asset    `yaml:"tones"`
	Chime     Asset      `yaml:"chime"`
	Backdrops []Backdrop `yaml:"backdrops"`

	// Dir is the directory the catalog was read from; empty for the built-in one.
	Dir string `yaml:"-"`
}

// ParseCatalog decodes and validates catalog YAML. Unknown keys are rejected.
func ParseCatalog(data []byte) (Catalog, error) {
	var catalog Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

// LoadCatalog reads the catalog at path.
// If the file does not exist, the defaults are parsed instead.
func LoadCatalog(path string, defaults []byte) (Catalog, error) {
	if path == "" {
		return ParseCatalog(defaults)
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ParseCatalog(defaults)
		}
		return Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}

	catalog, err := ParseCatalog(rawData)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	catalog.Dir = filepath.Dir(path)
	return catalog, nil
}

// SaveCatalog writes the catalog to path, creating the parent directory.
func SaveCatalog(path string, catalog Catalog) error {
	if err := catalog.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	serialized, err := yaml.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("marshal catalog yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	return nil
}

// Validate checks ids are present and unique and every track and tone has something to play.
func (catalog Catalog) Validate() error {
	if len(catalog.Tracks) == 0 && len(catalog.Tones) == 0 {
		return fmt.Errorf("%w: no tracks or tones", ErrInvalidCatalog)
	}
	if catalog.Chime.ID == "" {
		return fmt.Errorf("%w: chime id is required", ErrInvalidCatalog)
	}

	playable := append(append([]Asset{}, catalog.Tracks...), catalog.Tones...)
	for i, asset := range playable {
		if asset.ID == "" {
			return fmt.Errorf("%w: asset %d: id is required", ErrInvalidCatalog, i)
		}
		if asset.Path == "" && asset.Frequency <= 0 {
			return fmt.Errorf("%w: asset %s: path or frequency is required", ErrInvalidCatalog, asset.ID)
		}
	}

	ids := lo.Map(append(playable, catalog.Chime), func(asset Asset, _ int) string { return asset.ID })
	if duplicates := lo.FindDuplicates(ids); len(duplicates) > 0 {
		return fmt.Errorf("%w: duplicate ids %v", ErrInvalidCatalog, duplicates)
	}

	for i, backdrop := range catalog.Backdrops {
		if backdrop.ImageURL == "" {
			return fmt.Errorf("%w: backdrop %d (%s): image_url is required", ErrInvalidCatalog, i, backdrop.Name)
		}
	}
	return nil
}

// TrackSources returns looping audio sources for the ambient tracks.
func (catalog Catalog) TrackSources() []audio.Source {
	return lo.Map(catalog.Tracks, func(asset Asset, _ int) audio.Source {
		return asset.source(true)
	})
}

// ToneSources returns looping audio sources for the frequency tones.
func (catalog Catalog) ToneSources() []audio.Source {
	return lo.Map(catalog.Tones, func(asset Asset, _ int) audio.Source {
		return asset.source(true)
	})
}

// ChimeSource returns the one-shot session chime.
func (catalog Catalog) ChimeSource() audio.Source {
	return catalog.Chime.source(false)
}

// SceneBackdrops converts backdrops for the picker.
func (catalog Catalog) SceneBackdrops() []scene.Backdrop {
	return lo.Map(catalog.Backdrops, func(backdrop Backdrop, _ int) scene.Backdrop {
		return scene.Backdrop{Name: backdrop.Name, ImageURL: backdrop.ImageURL}
	})
}

// Names maps every asset id to its display name, falling back to the id.
func (catalog Catalog) Names() map[string]string {
	assets := append(append([]Asset{}, catalog.Tracks...), catalog.Tones...)
	return lo.SliceToMap(append(assets, catalog.Chime), func(asset Asset) (string, string) {
		if asset.Name == "" {
			return asset.ID, asset.ID
		}
		return asset.ID, asset.Name
	})
}

func (asset Asset) source(loop bool) audio.Source {
	return audio.Source{
		ID:        asset.ID,
		Path:      asset.Path,
		Frequency: asset.Frequency,
		Loop:      loop,
		Gain:      asset.Gain,
	}
}
