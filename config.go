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
	"errors"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	homedir "github.com/mitchellh/go-homedir"
)

// Config contains the settings shared by the command line tools. It can be
// read from a TOML file, command line flags override the file.
type Config struct {
	// Tile is the path of the tile image, the built-in tile is used if empty.
	Tile string `toml:"tile"`
	// TileSize is the size of the built-in tile.
	TileSize int `toml:"tile_size"`
	// Seed seeds the random layout, 0 means seeding from the clock.
	Seed uint64 `toml:"seed"`
	// Background is the fill color of the mosaic.
	Background string `toml:"background"`
	// Layout is the layout generated first, original or random.
	Layout string `toml:"layout"`
	// Output is the file mosaics are saved to.
	Output string `toml:"output"`
	// JPGQuality is the quality used for jpeg files.
	JPGQuality int `toml:"jpeg_quality"`
	// Interp is the interpolation quality for previews, see GetInterP.
	Interp uint `toml:"interp"`
	// Resizer selects the resize engine for previews, nfnt or bild.
	Resizer string `toml:"resizer"`
	// Upscale allows previews larger than the mosaic.
	Upscale bool `toml:"upscale"`

	Server ServerConfig `toml:"server"`
}

// ServerConfig contains the settings of the web backend.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// SessionTTL is the time after which idle sessions are removed.
	SessionTTL Duration `toml:"session_ttl"`
	// RedisAddr selects redis as session storage if not empty.
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// Duration is a time.Duration that is written as "30m" in config files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		TileSize:   DefaultTileSize,
		Background: ColorHex(DefaultBackground),
		Layout:     LayoutOriginal.String(),
		Output:     DefaultExportName,
		JPGQuality: DefaultEncodeOptions.JPGQuality,
		Interp:     3,
		Resizer:    "nfnt",
		Server: ServerConfig{
			Addr:       ":8085",
			SessionTTL: Duration{30 * time.Minute},
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults. Keys missing in the
// file keep their default values. A missing file is not an error if
// optional is true.
func LoadConfig(path string, optional bool) (Config, error) {
	cfg := DefaultConfig()
	expanded, expandErr := homedir.Expand(path)
	if expandErr != nil {
		return cfg, WrapError(ErrCodeInvalidInput, expandErr, "invalid config path %s", path)
	}
	if _, err := toml.DecodeFile(expanded, &cfg); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, WrapError(ErrCodeInvalidInput, err, "can't read config %s", expanded)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the values that can't be checked by the TOML decoder.
func (cfg Config) Validate() error {
	if _, err := ParseLayout(cfg.Layout); err != nil {
		return err
	}
	if _, err := ParseColor(cfg.Background); err != nil {
		return err
	}
	if cfg.JPGQuality < 1 || cfg.JPGQuality > 100 {
		return NewError(ErrCodeInvalidInput, "jpeg_quality must be between 1 and 100, got %d", cfg.JPGQuality)
	}
	if cfg.Tile == "" && cfg.TileSize < 8 {
		return NewError(ErrCodeInvalidInput, "tile_size must be at least 8, got %d", cfg.TileSize)
	}
	if _, err := GetResizer(cfg.Resizer, cfg.Interp); err != nil {
		return err
	}
	return nil
}

// LoadTile returns the configured tile or the built-in one.
func (cfg Config) LoadTile() (*Tile, error) {
	if cfg.Tile == "" {
		return DefaultTile(cfg.TileSize)
	}
	path, err := homedir.Expand(cfg.Tile)
	if err != nil {
		return nil, WrapError(ErrCodeInvalidTile, err, "invalid tile path %s", cfg.Tile)
	}
	return LoadTile(path)
}

// NewEngine creates an engine from the configuration and generates the
// configured layout.
func (cfg Config) NewEngine() (*Engine, error) {
	tile, tileErr := cfg.LoadTile()
	if tileErr != nil {
		return nil, tileErr
	}
	bg, bgErr := ParseColor(cfg.Background)
	if bgErr != nil {
		return nil, bgErr
	}
	layout, layoutErr := ParseLayout(cfg.Layout)
	if layoutErr != nil {
		return nil, layoutErr
	}
	opts := []EngineOption{WithBackground(bg)}
	if cfg.Seed != 0 {
		opts = append(opts, WithSeed(cfg.Seed))
	}
	engine, err := NewEngine(tile, opts...)
	if err != nil {
		return nil, err
	}
	if layout != LayoutOriginal {
		if _, err := engine.GenerateLayout(layout); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// EncodeOptions returns the export options of the configuration.
func (cfg Config) EncodeOptions() EncodeOptions {
	return EncodeOptions{JPGQuality: cfg.JPGQuality}
}

// NewPreviewer returns a previewer using the configured resizer.
func (cfg Config) NewPreviewer() (*Previewer, error) {
	resizer, err := GetResizer(cfg.Resizer, cfg.Interp)
	if err != nil {
		return nil, err
	}
	return NewPreviewer(resizer, cfg.Upscale), nil
}
