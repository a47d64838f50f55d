package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"voxelcraft.ai/areas/internal/app"
	"voxelcraft.ai/areas/internal/config"
)

type envFlags struct {
	config  *string
	db      *string
	fixture *string
}

func addEnvFlags(fs *flag.FlagSet) envFlags {
	return envFlags{
		config:  fs.String("config", "", "path to areas.yaml (default: built-in defaults)"),
		db:      fs.String("db", "", "sqlite path (overrides storage.sqlite_path)"),
		fixture: fs.String("fixture", "", "world fixture yaml (overrides world.fixture)"),
	}
}

func (e envFlags) open(ctx context.Context, logger *log.Logger) (*app.App, error) {
	cfg, err := config.Load(*e.config)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(*e.db); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := strings.TrimSpace(*e.fixture); v != "" {
		cfg.World.Fixture = v
	}
	return app.Open(ctx, cfg, logger)
}
