//go:build ebiten

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


package viewer

import (
	"errors"
	"image/color"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	log "github.com/sirupsen/logrus"
)

// Game shows the current mosaic of an engine scaled to the window.
type Game struct {
	engine    *curvedline.Engine
	previewer *curvedline.Previewer
	opts      Options

	width, height int
	shown         *ebiten.Image
	shownKey      [3]uint64
}

// New returns a game showing the mosaics of engine.
func New(engine *curvedline.Engine, previewer *curvedline.Previewer, opts Options) *Game {
	return &Game{
		engine:    engine,
		previewer: previewer,
		opts:      opts,
	}
}

func (g *Game) generate(layout curvedline.Layout) {
	if _, err := g.engine.GenerateLayout(layout); err != nil {
		log.WithError(err).Error("Can't generate mosaic")
	}
}

// Update handles the keys: o and r select a layout, s saves and q quits.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.generate(curvedline.LayoutOriginal)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.generate(curvedline.LayoutRandom)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := curvedline.SaveImage(g.opts.Output, g.engine.Current().Image(), g.opts.Encode); err != nil {
			log.WithError(err).Error("Can't save mosaic")
		} else {
			log.WithField("file", g.opts.Output).Info("Saved mosaic")
		}
	}
	return nil
}

// Draw clears the window to white and draws the mosaic centered in it.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)
	m := g.engine.Current()
	if m == nil || g.width <= 0 || g.height <= 0 {
		return
	}
	key := [3]uint64{m.Generation(), uint64(g.width), uint64(g.height)}
	if g.shown == nil || key != g.shownKey {
		img, err := g.previewer.Render(m, g.width, g.height)
		if err != nil {
			log.WithError(err).Error("Can't draw mosaic")
			return
		}
		if g.shown != nil {
			g.shown.Deallocate()
		}
		g.shown = ebiten.NewImageFromImage(img)
		g.shownKey = key
	}
	screen.DrawImage(g.shown, nil)
}

// Layout uses the window size as screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed.
func Run(engine *curvedline.Engine, previewer *curvedline.Previewer, opts Options) error {
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(New(engine, previewer, opts)); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
