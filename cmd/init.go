package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sonichealing/internal/config"
	"sonichealing/internal/storage"
	"sonichealing/resources"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"
)

// InitParams are the flags of the init command.
type InitParams struct {
	Dir   string `short:"d" help:"Target directory (defaults to the user config directory)." optional:"true"`
	Force bool   `short:"f" help:"Overwrite existing files."`
}

func initCmd() *cobra.Command {
	return boa.CmdT[InitParams]{
		Use:         "init",
		Short:       "Write a default config.yaml and catalog.yaml",
		Long:        "Writes an editable configuration and sound catalog. Existing files are kept unless --force is given.",
		ParamEnrich: defaultParamEnricher(),
		RunFunc: func(params *InitParams, cmd *cobra.Command, args []string) {
			written, err := runInit(params)
			if err != nil {
				exitWithError(err)
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			}
		},
	}.ToCobra()
}

func runInit(params *InitParams) ([]string, error) {
	dir := params.Dir
	if dir == "" {
		defaultDir, err := config.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = defaultDir
	}

	configPath := filepath.Join(dir, "config.yaml")
	catalogPath := filepath.Join(dir, resources.CatalogFileName())
	var written []string

	writeConfig, err := shouldWrite(configPath, params.Force)
	if err != nil {
		return written, err
	}
	if writeConfig {
		if err := config.WriteDefaultConfig(configPath); err != nil {
			return written, err
		}
		written = append(written, configPath)
	}

	writeCatalog, err := shouldWrite(catalogPath, params.Force)
	if err != nil {
		return written, err
	}
	if writeCatalog {
		catalog, err := storage.ParseCatalog(resources.DefaultCatalog())
		if err != nil {
			return written, fmt.Errorf("built-in catalog: %w", err)
		}
		if err := storage.SaveCatalog(catalogPath, catalog); err != nil {
			return written, err
		}
		written = append(written, catalogPath)
	}
	return written, nil
}

// shouldWrite reports whether path is free to be written. Stat failures other
// than a missing file are returned.
func shouldWrite(path string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, os.ErrNotExist):
		return true, nil
	default:
		return false, fmt.Errorf("check %s: %w", filepath.Base(path), err)
	}
}
