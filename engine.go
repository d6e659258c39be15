// Copyright 2018 Fabian Wenzelmann
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
	"image/color"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Engine owns everything needed to generate mosaics from a single tile: the
// variants of the tile, the random source, the background color and the
// mosaic generated last.
//
// An Engine is safe for concurrent use. Generating replaces the current
// mosaic only if the generation succeeded, readers always see either the old
// or the new mosaic. Generations run one at a time, so a mosaic is always
// built from the variants the engine holds when it is installed.
type Engine struct {
	// genMutex serializes generations, mutex guards the fields below.
	genMutex   *sync.Mutex
	mutex      *sync.RWMutex
	variants   VariantSet
	rng        *RandomSource
	background color.NRGBA
	layout     Layout
	current    *Mosaic
	generation uint64
}

// EngineOption configures an engine in NewEngine.
type EngineOption func(e *Engine)

// WithSeed seeds the random source with seed instead of the current time.
func WithSeed(seed uint64) EngineOption {
	return func(e *Engine) {
		e.rng = NewRandomSource(seed)
	}
}

// WithRandomSource uses src as random source.
func WithRandomSource(src *RandomSource) EngineOption {
	return func(e *Engine) {
		e.rng = src
	}
}

// WithBackground sets the background color of the mosaics.
func WithBackground(c color.Color) EngineOption {
	return func(e *Engine) {
		e.background = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
}

// NewEngine creates the variants of tile and generates the original layout.
// The error has code ErrCodeInvalidTile if tile is not usable and
// ErrCodeAllocation if the mosaic is too large.
func NewEngine(tile *Tile, opts ...EngineOption) (*Engine, error) {
	variants, variantsErr := NewVariantSet(tile)
	if variantsErr != nil {
		return nil, variantsErr
	}
	e := &Engine{
		genMutex:   new(sync.Mutex),
		mutex:      new(sync.RWMutex),
		variants:   variants,
		background: DefaultBackground,
		layout:     LayoutOriginal,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRandomSource(SeedFromTime())
	}
	if _, err := e.GenerateLayout(LayoutOriginal); err != nil {
		return nil, err
	}
	return e, nil
}

// Generate composes a new mosaic with strategy and makes it the current one.
// On error the current mosaic and layout remain unchanged.
func (e *Engine) Generate(strategy Strategy) (*Mosaic, error) {
	e.genMutex.Lock()
	defer e.genMutex.Unlock()
	return e.generate(e.Variants(), strategy, layoutOf(strategy), false)
}

// generate composes a mosaic and installs it. If replaceVariants is true
// variants become the engine's variants together with the mosaic.
// The caller must hold genMutex.
func (e *Engine) generate(variants VariantSet, strategy Strategy, layout Layout, replaceVariants bool) (*Mosaic, error) {
	start := time.Now()
	img, cells, err := Compose(variants, strategy, e.Background())
	if err != nil {
		log.WithError(err).WithField("layout", layout.String()).Error("Can't generate mosaic")
		return nil, err
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.generation++
	m := &Mosaic{
		img:        img,
		cells:      cells,
		layout:     layout,
		tileSize:   variants.TileSize(),
		generation: e.generation,
	}
	e.current = m
	e.layout = layout
	if replaceVariants {
		e.variants = variants
	}
	log.WithFields(log.Fields{
		"layout":     layout.String(),
		"generation": m.generation,
		"size":       img.Bounds().Dx(),
		"took":       time.Since(start),
	}).Debug("Generated mosaic")
	return m, nil
}

// generateLayout generates layout with variants, the caller must hold
// genMutex.
func (e *Engine) generateLayout(variants VariantSet, layout Layout, replaceVariants bool) (*Mosaic, error) {
	strategy, err := layout.Strategy(e.rng)
	if err != nil {
		return nil, err
	}
	return e.generate(variants, strategy, layout, replaceVariants)
}

// GenerateLayout generates a mosaic with the strategy of layout and makes
// layout the active one.
func (e *Engine) GenerateLayout(layout Layout) (*Mosaic, error) {
	e.genMutex.Lock()
	defer e.genMutex.Unlock()
	return e.generateLayout(e.Variants(), layout, false)
}

// activeLayout returns the layout that Regenerate and SetTile generate.
func (e *Engine) activeLayout() Layout {
	layout := e.Layout()
	if layout == LayoutCustom {
		layout = LayoutOriginal
	}
	return layout
}

// Regenerate generates a new mosaic with the active layout. For the random
// layout this yields a new arrangement, custom layouts fall back to the
// original one.
func (e *Engine) Regenerate() (*Mosaic, error) {
	e.genMutex.Lock()
	defer e.genMutex.Unlock()
	return e.generateLayout(e.Variants(), e.activeLayout(), false)
}

// SetTile replaces the tile and regenerates the active layout. If anything
// fails the engine keeps its old tile and mosaic.
func (e *Engine) SetTile(tile *Tile) (*Mosaic, error) {
	variants, err := NewVariantSet(tile)
	if err != nil {
		return nil, err
	}
	e.genMutex.Lock()
	defer e.genMutex.Unlock()
	return e.generateLayout(variants, e.activeLayout(), true)
}

// SetBackground changes the background used by following generations.
func (e *Engine) SetBackground(c color.Color) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.background = color.NRGBAModel.Convert(c).(color.NRGBA)
}

// Current returns the mosaic generated last.
func (e *Engine) Current() *Mosaic {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.current
}

// Layout returns the layout of the current mosaic.
func (e *Engine) Layout() Layout {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.layout
}

// Variants returns the variants of the tile.
func (e *Engine) Variants() VariantSet {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.variants
}

// Background returns the background color.
func (e *Engine) Background() color.NRGBA {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.background
}

// RandomSource returns the random source used by the random layout.
func (e *Engine) RandomSource() *RandomSource {
	return e.rng
}
