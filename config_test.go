// Copyright 2022 Ian Parberry
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package curvedline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
tile_size = 16
seed = 42
layout = "random"
background = "#000000"

[server]
addr = ":9000"
session_ttl = "5m"
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TileSize != 16 || cfg.Seed != 42 || cfg.Layout != "random" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.SessionTTL.Duration != 5*time.Minute {
		t.Errorf("server config = %+v", cfg.Server)
	}
	// defaults survive
	if cfg.JPGQuality != 100 || cfg.Output != DefaultExportName || cfg.Resizer != "nfnt" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("config = %+v, want defaults", cfg)
	}
	if _, err := LoadConfig(path, false); !IsCode(err, ErrCodeInvalidInput) {
		t.Errorf("required missing file error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
	}{
		{"layout", func(cfg *Config) { cfg.Layout = "spiral" }},
		{"background", func(cfg *Config) { cfg.Background = "#zzzzzz" }},
		{"jpeg quality", func(cfg *Config) { cfg.JPGQuality = 0 }},
		{"tile size", func(cfg *Config) { cfg.TileSize = 4 }},
		{"resizer", func(cfg *Config) { cfg.Resizer = "magic" }},
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			if err := cfg.Validate(); !IsCode(err, ErrCodeInvalidInput) {
				t.Errorf("Validate() = %v, want invalid input", err)
			}
		})
	}
	path := writeConfig(t, `layout = "spiral"`)
	if _, err := LoadConfig(path, false); err == nil {
		t.Error("LoadConfig accepted an unknown layout")
	}
}

func TestConfigNewEngine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TileSize = 8
	cfg.Seed = 3
	cfg.Layout = "random"
	e, err := cfg.NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if e.Layout() != LayoutRandom {
		t.Errorf("layout = %v, want random", e.Layout())
	}
	if e.Current().Bounds().Dx() != 64 {
		t.Errorf("mosaic size = %d, want 64", e.Current().Bounds().Dx())
	}
	if e.RandomSource().Seed() != 3 {
		t.Errorf("seed = %d, want 3", e.RandomSource().Seed())
	}

	cfg.Tile = filepath.Join(t.TempDir(), "missing.png")
	if _, err := cfg.NewEngine(); !IsCode(err, ErrCodeInvalidTile) {
		t.Errorf("NewEngine with missing tile error = %v", err)
	}
}
