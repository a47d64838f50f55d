// Package config loads areas.yaml.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"voxelcraft.ai/areas/internal/scan"
)

type Config struct {
	Limits  LimitsSpec  `yaml:"limits"`
	Storage StorageSpec `yaml:"storage"`
	Agents  AgentsSpec  `yaml:"agents"`
	World   WorldSpec   `yaml:"world"`
}

type LimitsSpec struct {
	MaxBlocks int `yaml:"max_blocks"`
	MinY      int `yaml:"min_y"`
	MaxY      int `yaml:"max_y"`
}

type StorageSpec struct {
	SQLitePath  string     `yaml:"sqlite_path"`
	AuditDir    string     `yaml:"audit_dir"`
	SnapshotDir string     `yaml:"snapshot_dir"`
	Mirror      MirrorSpec `yaml:"mirror"`
}

// MirrorSpec names an S3-compatible bucket that receives snapshot copies.
// Credentials come from the environment.
type MirrorSpec struct {
	Bucket    string `yaml:"bucket"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`
	Workers   int    `yaml:"workers"`
}

type AgentsSpec struct {
	// FeedURL is an observer websocket endpoint; empty disables the feed.
	FeedURL string `yaml:"feed_url"`
}

type WorldSpec struct {
	ChunkHeight int `yaml:"chunk_height"`
	// Fixture is an optional YAML block fill loaded into the local store.
	Fixture string `yaml:"fixture,omitempty"`
}

// Load reads path on top of Defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("areas.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("areas.yaml: %w", err)
	}
	return cfg, nil
}

func Defaults() Config {
	l := scan.DefaultLimits()
	return Config{
		Limits: LimitsSpec{MaxBlocks: l.MaxBlocks, MinY: l.MinY, MaxY: l.MaxY},
		Storage: StorageSpec{
			SQLitePath: "data/notes.sqlite",
			AuditDir:   "data",
		},
		World: WorldSpec{ChunkHeight: 384},
	}
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	if c.Limits.MaxBlocks <= 0 {
		c.Limits.MaxBlocks = scan.DefaultLimits().MaxBlocks
	}
	if c.World.ChunkHeight <= 0 {
		c.World.ChunkHeight = c.Limits.MaxY - c.Limits.MinY + 1
	}
	c.Storage.SQLitePath = strings.TrimSpace(c.Storage.SQLitePath)
	c.Storage.AuditDir = strings.TrimSpace(c.Storage.AuditDir)
	c.Storage.SnapshotDir = strings.TrimSpace(c.Storage.SnapshotDir)
	c.Storage.Mirror.Bucket = strings.TrimSpace(c.Storage.Mirror.Bucket)
	if c.Storage.Mirror.Workers <= 0 {
		c.Storage.Mirror.Workers = 2
	}
	c.Agents.FeedURL = strings.TrimSpace(c.Agents.FeedURL)
}

func (c Config) Validate() error {
	c.Normalize()
	if c.Limits.MinY > c.Limits.MaxY {
		return fmt.Errorf("limits.min_y (%d) must be <= limits.max_y (%d)", c.Limits.MinY, c.Limits.MaxY)
	}
	if c.World.ChunkHeight < c.Limits.MaxY-c.Limits.MinY+1 {
		return fmt.Errorf("world.chunk_height must cover [min_y, max_y]")
	}
	if c.Storage.Mirror.Bucket != "" && c.Storage.SnapshotDir == "" {
		return fmt.Errorf("storage.mirror needs storage.snapshot_dir")
	}
	if u := c.Agents.FeedURL; u != "" && !strings.HasPrefix(u, "ws://") && !strings.HasPrefix(u, "wss://") {
		return fmt.Errorf("agents.feed_url must be a ws:// or wss:// url")
	}
	return nil
}

// ScanLimits converts the limits section for scan.NewScanner.
func (c Config) ScanLimits() scan.Limits {
	return scan.Limits{MaxBlocks: c.Limits.MaxBlocks, MinY: c.Limits.MinY, MaxY: c.Limits.MaxY}
}
