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


// Package cli implements the mosaic command-line interface.
//
// The commands share the settings of curvedline.Config: they are read from a
// TOML file (~/.curvedline.toml by default) and can be overridden by flags.
//
// # Commands
//
//   - generate: generate a mosaic and save it
//   - variants: save the eight variants of the tile
//   - repl: interactive shell
//   - script: run a script of shell commands
//   - tui: terminal menu
//   - view: window showing the mosaic (requires the ebiten build tag)
//   - serve: web backend
//   - version: print version information
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Ian-Parberry/findthecurvedlinememe/internal/buildinfo"
)

const (
	// appName is the application name used for display.
	appName = "mosaic"

	// defaultConfigPath is read if it exists and no other file is given.
	defaultConfigPath = "~/.curvedline.toml"
)

// stdout receives the user facing output of the commands.
var stdout io.Writer = os.Stdout

// configFlags are the flags overriding values of the config file.
type configFlags struct {
	path       string
	tile       string
	tileSize   int
	seed       uint64
	background string
	layout     string
	quality    int
	interp     uint
	resizer    string
	upscale    bool
}

// CLI holds shared state for all commands.
type CLI struct {
	logOut  io.Writer
	verbose bool
	flags   configFlags
}

// New creates a new CLI writing log messages to w.
func New(w io.Writer) *CLI {
	return &CLI{logOut: w}
}

// setupLogging configures the standard logrus logger.
func (c *CLI) setupLogging() {
	log.SetOutput(c.logOut)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.00",
	})
	level := log.InfoLevel
	if c.verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

func (c *CLI) addConfigFlags(cmd *cobra.Command) {
	defaults := curvedline.DefaultConfig()
	fs := cmd.PersistentFlags()
	fs.StringVarP(&c.flags.path, "config", "c", defaultConfigPath, "TOML config file")
	fs.StringVarP(&c.flags.tile, "tile", "t", "", "tile image (default: built-in tile)")
	fs.IntVar(&c.flags.tileSize, "tile-size", defaults.TileSize, "size of the built-in tile")
	fs.Uint64Var(&c.flags.seed, "seed", 0, "seed of the random layout (0: current time)")
	fs.StringVar(&c.flags.background, "background", defaults.Background, "mosaic background (#rrggbb or r,g,b)")
	fs.StringVarP(&c.flags.layout, "layout", "l", defaults.Layout, "layout: original or random")
	fs.IntVar(&c.flags.quality, "jpeg-quality", defaults.JPGQuality, "jpeg quality between 1 and 100")
	fs.UintVar(&c.flags.interp, "interp", defaults.Interp, "preview interpolation quality between 0 and 5")
	fs.StringVar(&c.flags.resizer, "resizer", defaults.Resizer, "preview resizer: nfnt or bild")
	fs.BoolVar(&c.flags.upscale, "upscale", defaults.Upscale, "allow previews larger than the mosaic")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// loadConfig reads the config file and applies the flags the user set.
func (c *CLI) loadConfig(cmd *cobra.Command) (curvedline.Config, error) {
	cfg, err := curvedline.LoadConfig(c.flags.path, !changed(cmd, "config"))
	if err != nil {
		return cfg, err
	}
	if changed(cmd, "tile") {
		cfg.Tile = c.flags.tile
	}
	if changed(cmd, "tile-size") {
		cfg.TileSize = c.flags.tileSize
	}
	if changed(cmd, "seed") {
		cfg.Seed = c.flags.seed
	}
	if changed(cmd, "background") {
		cfg.Background = c.flags.background
	}
	if changed(cmd, "layout") {
		cfg.Layout = c.flags.layout
	}
	if changed(cmd, "jpeg-quality") {
		cfg.JPGQuality = c.flags.quality
	}
	if changed(cmd, "interp") {
		cfg.Interp = c.flags.interp
	}
	if changed(cmd, "resizer") {
		cfg.Resizer = c.flags.resizer
	}
	if changed(cmd, "upscale") {
		cfg.Upscale = c.flags.upscale
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	log.WithFields(log.Fields{
		"tile":   cfg.Tile,
		"layout": cfg.Layout,
		"seed":   cfg.Seed,
	}).Debug("Loaded config")
	return cfg, nil
}

// newEngine loads the config and creates the engine.
func (c *CLI) newEngine(cmd *cobra.Command) (curvedline.Config, *curvedline.Engine, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return cfg, nil, err
	}
	engine, err := cfg.NewEngine()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, engine, nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Mosaics of the eight rotations and mirror images of a tile",
		Long:          `mosaic arranges the eight rotations and mirror images of a square tile on an 8x8 grid, either in the original fixed layout or randomly.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.setupLogging()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.addConfigFlags(root)

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.variantsCommand())
	root.AddCommand(c.replCommand())
	root.AddCommand(c.scriptCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// ServeCommand returns the serve command as a standalone root command.
func (c *CLI) ServeCommand() *cobra.Command {
	cmd := c.serveCommand()
	cmd.Use = "backend"
	cmd.Version = buildinfo.Version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		c.setupLogging()
	}
	cmd.SetVersionTemplate(buildinfo.Template())
	c.addConfigFlags(cmd)
	return cmd
}
