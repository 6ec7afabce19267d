package app

import (
	"fmt"
	"path/filepath"

	"sonichealing/internal/config"
	"sonichealing/internal/core/model"
	"sonichealing/internal/storage"
	"sonichealing/resources"
)

// Load reads config from configPath (or the per-user directory) and the catalog it names.
// The catalog falls back to catalog.yaml beside the config and then to the built-in one.
func Load(configPath string) (config.Config, storage.Catalog, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, storage.Catalog{}, err
	}

	catalogPath, err := resolveCatalogPath(cfg, configPath)
	if err != nil {
		return config.Config{}, storage.Catalog{}, err
	}
	catalog, err := storage.LoadCatalog(catalogPath, resources.DefaultCatalog())
	if err != nil {
		return config.Config{}, storage.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	return cfg, catalog, nil
}

func resolveCatalogPath(cfg config.Config, configPath string) (string, error) {
	if cfg.CatalogPath != "" {
		return cfg.CatalogPath, nil
	}
	if configPath != "" {
		return filepath.Join(filepath.Dir(configPath), resources.CatalogFileName()), nil
	}
	dir, err := config.DefaultDir()
	if err != nil {
		// No per-user directory: only the built-in catalog is available.
		return "", nil
	}
	return filepath.Join(dir, resources.CatalogFileName()), nil
}

// AudioModel returns the engine config. Relative asset paths resolve against the
// catalog's directory unless assets_dir is set.
func AudioModel(cfg config.Config, catalog storage.Catalog) model.AudioConfig {
	audio := cfg.AudioModel()
	if audio.AssetsDir == "" {
		audio.AssetsDir = catalog.Dir
	}
	return audio
}
