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
	"image"
	"image/color"
	"io"
	"os"

	// These anonymous imports register decoders for all formats a tile may be
	// stored in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
)

// Tile is a square source image. Tiles are immutable: the pixels are copied
// when the tile is created and never handed out again.
type Tile struct {
	img *image.NRGBA
}

// NewTile creates a tile from img. img must be non-empty and square.
func NewTile(img image.Image) (*Tile, error) {
	if img == nil {
		return nil, NewError(ErrCodeInvalidTile, "no tile image given")
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, NewError(ErrCodeInvalidTile, "tile image is empty")
	}
	if bounds.Dx() != bounds.Dy() {
		return nil, NewError(ErrCodeInvalidTile, "tile must be square, got %dx%d",
			bounds.Dx(), bounds.Dy())
	}
	return &Tile{img: imaging.Clone(img)}, nil
}

// DecodeTile reads a tile in any of the registered image formats.
func DecodeTile(r io.Reader) (*Tile, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, WrapError(ErrCodeInvalidTile, err, "can't decode tile image")
	}
	log.WithField("format", format).Debug("decoded tile")
	return NewTile(img)
}

// LoadTile reads the tile stored in the file path.
func LoadTile(path string) (*Tile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WrapError(ErrCodeInvalidTile, err, "can't open tile %s", path)
	}
	defer f.Close()
	return DecodeTile(f)
}

// Size returns the side length of the tile.
func (t *Tile) Size() int {
	return t.img.Bounds().Dx()
}

// Bounds returns the bounds of the tile, they always start at (0, 0).
func (t *Tile) Bounds() image.Rectangle {
	return t.img.Bounds()
}

// At returns the color of the pixel (x, y).
func (t *Tile) At(x, y int) color.Color {
	return t.img.At(x, y)
}

// NRGBAAt returns the color of the pixel (x, y).
func (t *Tile) NRGBAAt(x, y int) color.NRGBA {
	return t.img.NRGBAAt(x, y)
}

// Image returns a copy of the tile pixels.
func (t *Tile) Image() *image.NRGBA {
	return imaging.Clone(t.img)
}

// Equal returns true if both tiles have the same size and pixels.
func (t *Tile) Equal(other *Tile) bool {
	if t.Bounds() != other.Bounds() {
		return false
	}
	a, b := t.img.Pix, other.img.Pix
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Transform returns a new tile with s applied.
func (t *Tile) Transform(s Symmetry) *Tile {
	return &Tile{img: s.Apply(t.img)}
}
