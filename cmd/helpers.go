package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/caremesh/caremesh-cli/internal/engine"
	"github.com/caremesh/caremesh-cli/internal/gazetteer"
	"github.com/caremesh/caremesh-cli/internal/model"
	"github.com/caremesh/caremesh-cli/internal/store"
)

// initStore opens the configured run store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// initEngine builds an engine from config, loading the configured
// gazetteer source when one is set.
func initEngine() (*engine.Engine, error) {
	gaz, err := loadGazetteer()
	if err != nil {
		return nil, err
	}
	return engine.New(cfg.Engine, gaz), nil
}

func loadGazetteer() (*gazetteer.Gazetteer, error) {
	path := cfg.Gazetteer.Path
	switch {
	case path == "":
		return gazetteer.Default(), nil
	case strings.HasSuffix(path, ".shp"):
		return gazetteer.LoadShapefile(path, cfg.Gazetteer.NameField)
	default:
		return gazetteer.LoadYAML(path)
	}
}

// loadResult reads a previously saved optimization result from a JSON
// file.
func loadResult(path string) (*model.OptimizationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read result file")
	}
	var result model.OptimizationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, eris.Wrap(err, "parse result file")
	}
	return &result, nil
}

// writeResult writes an optimization result as indented JSON.
func writeResult(result *model.OptimizationResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create result file")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return eris.Wrap(err, "encode result")
	}
	return eris.Wrap(f.Close(), "close result file")
}
