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
	"math"

	"github.com/fogleman/gg"
)

// DefaultTileSize is the side length of the built-in tile.
const DefaultTileSize = 64

// DefaultTile draws the built-in tile: a quarter circle around the top left
// corner and a dot in the top right quadrant. No rotation or mirror image maps
// this tile onto itself, so all eight variants look different.
func DefaultTile(size int) (*Tile, error) {
	if size < 8 {
		return nil, NewError(ErrCodeInvalidTile, "default tile needs a size of at least 8, got %d", size)
	}
	n := float64(size)
	dc := gg.NewContext(size, size)
	dc.SetHexColor("#f4ecd8")
	dc.Clear()

	dc.SetHexColor("#2f3e46")
	dc.SetLineWidth(n / 10)
	dc.SetLineCapRound()
	dc.DrawArc(0, 0, n/2, 0, math.Pi/2)
	dc.Stroke()

	dc.SetHexColor("#b5473a")
	dc.DrawCircle(0.75*n, 0.25*n, n/10)
	dc.Fill()

	return NewTile(dc.Image())
}
