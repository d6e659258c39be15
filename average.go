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

	colorful "github.com/lucasb-eyer/go-colorful"
)

// AverageColor descibes the average of several RGB colors.
// Rotating or mirroring an image does not change its average color, so all
// variants of a tile share the same value.
type AverageColor RGB

// ComputeAverageColor computes the average color of an image.
func ComputeAverageColor(img image.Image) AverageColor {
	bounds := img.Bounds()

	// don't do anything for empty images
	if bounds.Empty() {
		return AverageColor{}
	}
	var r, g, b uint64
	numPixels := uint64(bounds.Dx() * bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgb := ConvertRGB(img.At(x, y))
			r += uint64(rgb.R)
			g += uint64(rgb.G)
			b += uint64(rgb.B)
		}
	}
	r /= numPixels
	g /= numPixels
	b /= numPixels
	return AverageColor{R: uint8(r), G: uint8(g), B: uint8(b)}
}

// Hex returns the color in the form #rrggbb.
func (c AverageColor) Hex() string {
	col, _ := colorful.MakeColor(RGB(c).NRGBA())
	return col.Hex()
}
