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

	"golang.org/x/image/draw"
)

// VariantSet contains the eight orientations of a tile, indexed by Symmetry.
// Index 0 is the source tile itself.
type VariantSet [VariantCount]*Tile

// NewVariantSet creates all eight variants of tile.
func NewVariantSet(tile *Tile) (VariantSet, error) {
	var res VariantSet
	if tile == nil {
		return res, NewError(ErrCodeInvalidTile, "no tile given")
	}
	for _, s := range AllSymmetries() {
		res[s] = tile.Transform(s)
	}
	return res, nil
}

// Variant returns the variant with index i. i must be between 0 and 7.
func (vs VariantSet) Variant(i int) *Tile {
	if !Symmetry(i).Valid() {
		precondition("variant index %d not in [0, %d)", i, VariantCount)
	}
	return vs[i]
}

// TileSize returns the side length of the variants.
func (vs VariantSet) TileSize() int {
	if vs[0] == nil {
		return 0
	}
	return vs[0].Size()
}

// Sheet draws all variants next to each other, separated by gap pixels of
// background.
func (vs VariantSet) Sheet(gap int, background color.Color) *image.NRGBA {
	if gap < 0 {
		gap = 0
	}
	n := vs.TileSize()
	width := VariantCount*n + (VariantCount+1)*gap
	height := n + 2*gap
	res := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(res, res.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	for i, tile := range vs {
		x := gap + i*(n+gap)
		area := image.Rect(x, gap, x+n, gap+n)
		insertTile(res, area, tile)
	}
	return res
}
