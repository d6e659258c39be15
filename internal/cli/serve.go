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


package cli

import (
	"io"
	"math"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Ian-Parberry/findthecurvedlinememe/web"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web backend",
		Long: `Run the web backend. Each client creates a session and selects layouts,
the mosaics are served as images. Sessions are kept in memory unless a redis
server is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if changed(cmd, "addr") {
				cfg.Server.Addr = addr
			}
			handlerContext, closeFn, err := newHandlerContext(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			printInfo("Serving on %s", cfg.Server.Addr)
			return web.Run(cmd.Context(), cfg.Server, handlerContext)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", curvedline.DefaultConfig().Server.Addr, "listen address")

	return cmd
}

// newHandlerContext creates the storage and the context of the handlers.
func newHandlerContext(cmd *cobra.Command, cfg curvedline.Config) (*web.Context, func(), error) {
	tile, err := cfg.LoadTile()
	if err != nil {
		return nil, nil, err
	}
	variants, err := curvedline.NewVariantSet(tile)
	if err != nil {
		return nil, nil, err
	}
	if _, err := curvedline.MosaicBounds(variants.TileSize()); err != nil {
		return nil, nil, err
	}
	background, err := curvedline.ParseColor(cfg.Background)
	if err != nil {
		return nil, nil, err
	}
	storage, err := web.OpenStorage(cmd.Context(), cfg.Server)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if closer, ok := storage.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.WithError(err).Warn("Can't close session storage")
			}
		}
	}
	handlerContext := web.NewContext(storage, variants, background)
	if cfg.Seed != 0 {
		// sessions get reproducible seeds derived from the configured one
		seeds := curvedline.NewRandomSource(cfg.Seed)
		handlerContext.Seeder = func() uint64 {
			return uint64(seeds.IntRange(0, math.MaxInt-1))
		}
	}
	return handlerContext, closeFn, nil
}
