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
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

var (
	// MaxMosaicPixels is the largest number of pixels a mosaic may have.
	// Larger tiles are rejected with ErrCodeAllocation instead of trying to
	// allocate the buffer.
	MaxMosaicPixels = 1 << 28

	// DefaultBackground is the color the mosaic is filled with before the
	// tiles are drawn.
	DefaultBackground = color.NRGBA{R: 143, G: 158, B: 104, A: 255}
)

// MosaicBounds returns the bounds of a mosaic built from tiles with side
// length tileSize. An error is returned if the mosaic would be larger than
// MaxMosaicPixels.
func MosaicBounds(tileSize int) (image.Rectangle, error) {
	if tileSize <= 0 {
		return image.Rectangle{}, NewError(ErrCodeInvalidTile, "invalid tile size %d", tileSize)
	}
	if tileSize > MaxMosaicPixels/GridSize {
		return image.Rectangle{}, NewError(ErrCodeAllocation,
			"tile size %d exceeds the mosaic limit of %d pixels", tileSize, MaxMosaicPixels)
	}
	side := int64(tileSize) * GridSize
	if side > int64(MaxMosaicPixels)/side {
		return image.Rectangle{}, NewError(ErrCodeAllocation,
			"mosaic of %dx%d pixels exceeds the limit of %d pixels", side, side, MaxMosaicPixels)
	}
	return image.Rect(0, 0, int(side), int(side)), nil
}

// CellRect returns the area of the cell (row, col) in a mosaic with the given
// tile size.
func CellRect(row, col, tileSize int) image.Rectangle {
	checkCell(row, col)
	x, y := col*tileSize, row*tileSize
	return image.Rect(x, y, x+tileSize, y+tileSize)
}

func insertTile(into *image.NRGBA, area image.Rectangle, tile *Tile) {
	draw.Draw(into, area, tile.img, tile.img.Bounds().Min, draw.Src)
}

// Compose builds a new mosaic image: a GridSize x GridSize grid of variants
// chosen by strategy, cells visited row by row. The image is filled with
// background first. The returned pattern contains the variant placed in each
// cell.
//
// Every call allocates a new image, nothing is shared with the variants or
// with earlier results.
func Compose(variants VariantSet, strategy Strategy, background color.Color) (*image.NRGBA, Pattern, error) {
	var cells Pattern
	tileSize := variants.TileSize()
	for i, v := range variants {
		if v == nil || v.Size() != tileSize {
			return nil, cells, NewError(ErrCodeInvalidTile, "variant %d missing or of wrong size", i)
		}
	}
	if _, boundsErr := MosaicBounds(tileSize); boundsErr != nil {
		return nil, cells, boundsErr
	}
	cells, cellsErr := DrawPattern(strategy)
	if cellsErr != nil {
		return nil, cells, cellsErr
	}
	return Render(variants, cells, background), cells, nil
}

// Render draws the mosaic of an already chosen pattern. variants must be
// valid and p must only contain variant indices.
func Render(variants VariantSet, p Pattern, background color.Color) *image.NRGBA {
	tileSize := variants.TileSize()
	bounds := image.Rect(0, 0, GridSize*tileSize, GridSize*tileSize)
	res := image.NewNRGBA(bounds)
	draw.Draw(res, bounds, image.NewUniform(background), image.Point{}, draw.Src)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			insertTile(res, CellRect(row, col, tileSize), variants.Variant(p[row][col]))
		}
	}
	return res
}

// Mosaic is a generated mosaic together with the layout it was created from.
// A Mosaic never changes after it has been created.
type Mosaic struct {
	img        *image.NRGBA
	cells      Pattern
	layout     Layout
	tileSize   int
	generation uint64
}

// Image returns the mosaic image. The image is shared by all readers of the
// mosaic and must not be modified, even after a type assertion to
// *image.NRGBA. Use Clone to get a copy that can be changed.
func (m *Mosaic) Image() image.Image {
	return m.img
}

// Clone returns a copy of the mosaic image.
func (m *Mosaic) Clone() *image.NRGBA {
	return imaging.Clone(m.img)
}

// Bounds returns the bounds of the mosaic image.
func (m *Mosaic) Bounds() image.Rectangle {
	return m.img.Bounds()
}

// Cells returns the variant placed in each cell.
func (m *Mosaic) Cells() Pattern {
	return m.cells
}

// Layout returns the layout the mosaic was created with.
func (m *Mosaic) Layout() Layout {
	return m.layout
}

// TileSize returns the side length of a single cell.
func (m *Mosaic) TileSize() int {
	return m.tileSize
}

// Generation is a counter incremented by the engine for each mosaic.
func (m *Mosaic) Generation() uint64 {
	return m.generation
}

// Cell returns a copy of the pixels of cell (row, col).
func (m *Mosaic) Cell(row, col int) *image.NRGBA {
	return imaging.Crop(m.img, CellRect(row, col, m.tileSize))
}
