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
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/nfnt/resize"
)

// TileFormats accepts the extensions of all formats a tile can be read from.
func TileFormats(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	default:
		return false
	}
}

// RGB is a color containing r, g and b components.
type RGB struct {
	R, G, B uint8
}

// NewRGB returns a new RGB color.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// ConvertRGB converts a generic color into the internal RGB representation.
func ConvertRGB(c color.Color) RGB {
	// convert to rgba model
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	// convert to internal rgb representation
	return RGB{R: rgba.R, G: rgba.G, B: rgba.B}
}

// NRGBA returns the opaque color with the components of c.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// ImageResizer resizes an image to the given width and height.
type ImageResizer interface {
	Resize(width, height uint, img image.Image) image.Image
}

// NfntResizer uses the nfnt/resize package to resize an image.
type NfntResizer struct {
	// InterP is the interpolation function to use.
	InterP resize.InterpolationFunction
}

// NewNfntResizer returns a new resizer given the interpolation function.
func NewNfntResizer(interP resize.InterpolationFunction) NfntResizer {
	return NfntResizer{interP}
}

// GetInterP returns an interpolation function given a desired quality.
// The higher the quality the better the interpolation should be, but execution
// time is higher. Currently supported are values between 0 and 5, each
// selecting a different interpolation function. Values greater than 5 are
// treated as 5.
//
// Scaling a mosaic down with nearest neighbor keeps the hard tile edges,
// the smoother functions blur them.
func GetInterP(quality uint) resize.InterpolationFunction {
	switch quality {
	case 0:
		return resize.NearestNeighbor
	case 1:
		return resize.Bilinear
	case 2:
		return resize.Bicubic
	case 3:
		return resize.MitchellNetravali
	case 4:
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

var interPNames = []struct {
	name   string
	interP resize.InterpolationFunction
}{
	{"nearest", resize.NearestNeighbor},
	{"bilinear", resize.Bilinear},
	{"bicubic", resize.Bicubic},
	{"mitchell", resize.MitchellNetravali},
	{"lanczos2", resize.Lanczos2},
	{"lanczos3", resize.Lanczos3},
}

// InterPString returns a name for the interpolation function.
func InterPString(interP resize.InterpolationFunction) string {
	for _, entry := range interPNames {
		if entry.interP == interP {
			return entry.name
		}
	}
	return "unknown"
}

// InterPFromString parses the names returned by InterPString.
func InterPFromString(s string) (resize.InterpolationFunction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, entry := range interPNames {
		if entry.name == s {
			return entry.interP, nil
		}
	}
	return resize.NearestNeighbor, NewError(ErrCodeInvalidInput, "unknown interpolation function %q", s)
}

var (
	// DefaultResizer is the resizer that is used by default, if you're
	// looking for a resizer default argument this seems useful.
	DefaultResizer = NewNfntResizer(resize.MitchellNetravali)
)

// Resize calls nfnt/resize methods.
func (resizer NfntResizer) Resize(width, height uint, img image.Image) image.Image {
	return resize.Resize(width, height, img, resizer.InterP)
}

// BildResizer resizes with the transform package of bild.
type BildResizer struct {
	Filter transform.ResampleFilter
}

// NewBildResizer returns a resizer with the given resample filter.
func NewBildResizer(filter transform.ResampleFilter) BildResizer {
	return BildResizer{Filter: filter}
}

// Resize calls bild's transform.Resize.
func (resizer BildResizer) Resize(width, height uint, img image.Image) image.Image {
	return transform.Resize(img, int(width), int(height), resizer.Filter)
}

// GetResizer returns a resizer by engine name ("nfnt" or "bild"). quality is
// used as in GetInterP.
func GetResizer(engine string, quality uint) (ImageResizer, error) {
	switch strings.ToLower(engine) {
	case "", "nfnt":
		return NewNfntResizer(GetInterP(quality)), nil
	case "bild":
		var filter transform.ResampleFilter
		switch {
		case quality == 0:
			filter = transform.NearestNeighbor
		case quality == 1:
			filter = transform.Linear
		case quality <= 3:
			filter = transform.MitchellNetravali
		default:
			filter = transform.Lanczos
		}
		return NewBildResizer(filter), nil
	default:
		return nil, NewError(ErrCodeInvalidInput, "unknown resizer %q, expected nfnt or bild", engine)
	}
}
