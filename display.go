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
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"
)

var (
	// ImageCacheSize is the number of previews kept by a preview cache.
	ImageCacheSize = 15

	// DisplayBackground is the color around the mosaic in a preview.
	DisplayBackground color.Color = color.White
)

// FitRect returns the largest rectangle with the aspect ratio of src that
// fits into dst, centered in dst. If upscale is false the rectangle is never
// larger than src.
func FitRect(src, dst image.Rectangle, upscale bool) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return image.Rectangle{Min: dst.Min, Max: dst.Min}
	}
	// compare dw / sw with dh / sh without floats
	var w, h int
	if dw*sh <= dh*sw {
		w = dw
		h = (sh*dw + sw/2) / sw
	} else {
		h = dh
		w = (sw*dh + sh/2) / sh
	}
	if !upscale && (w > sw || h > sh) {
		w, h = sw, sh
	}
	w, h = IntMax(IntMin(w, dw), 1), IntMax(IntMin(h, dh), 1)
	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// checkCanvas returns an error with code ErrCodeAllocation if a width x height
// canvas has more than MaxMosaicPixels pixels. Both sides must be positive.
func checkCanvas(width, height int) error {
	if width > MaxMosaicPixels || height > MaxMosaicPixels || width > MaxMosaicPixels/height {
		return NewError(ErrCodeAllocation,
			"canvas of %dx%d pixels exceeds the limit of %d pixels", width, height, MaxMosaicPixels)
	}
	return nil
}

// ParseCanvas parses the size of a preview canvas for an image with bounds
// src. The size is given as "WIDTHxHEIGHT", one side may be left empty
// ("800x" or "x600") and is then computed from the aspect ratio of src.
func ParseCanvas(s string, src image.Rectangle) (int, int, error) {
	width, height, err := ParseDimensionsEmpty(s)
	if err != nil {
		return -1, -1, WrapError(ErrCodeInvalidInput, err, "invalid canvas size %q, expected WIDTHxHEIGHT", s)
	}
	if width == 0 || height == 0 || (width < 0 && height < 0) {
		return -1, -1, NewError(ErrCodeInvalidInput, "invalid canvas size %q, expected WIDTHxHEIGHT", s)
	}
	if width > MaxMosaicPixels || height > MaxMosaicPixels {
		return -1, -1, NewError(ErrCodeAllocation,
			"canvas size %q exceeds the limit of %d pixels", s, MaxMosaicPixels)
	}
	sw, sh := IntMax(src.Dx(), 1), IntMax(src.Dy(), 1)
	switch {
	case width < 0:
		width = IntMax((height*sw+sh/2)/sh, 1)
	case height < 0:
		height = IntMax((width*sh+sw/2)/sw, 1)
	}
	if err := checkCanvas(width, height); err != nil {
		return -1, -1, err
	}
	return width, height, nil
}

// Preview draws img scaled to fit into a width x height canvas filled with
// background. The image is centered and keeps its aspect ratio.
//
// An empty image is returned if width or height is not positive. A canvas
// larger than MaxMosaicPixels is rejected with ErrCodeAllocation.
func Preview(img image.Image, width, height int, resizer ImageResizer,
	background color.Color, upscale bool) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rectangle{}), nil
	}
	if err := checkCanvas(width, height); err != nil {
		return nil, err
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	area := FitRect(img.Bounds(), canvas.Bounds(), upscale)
	if area.Empty() {
		return canvas, nil
	}
	scaled := img
	if area.Dx() != img.Bounds().Dx() || area.Dy() != img.Bounds().Dy() {
		scaled = resizer.Resize(uint(area.Dx()), uint(area.Dy()), img)
	}
	draw.Draw(canvas, area, scaled, scaled.Bounds().Min, draw.Src)
	return canvas, nil
}

// ImageCache is used to cache previews of mosaics. Viewers ask for the same
// mosaic in the same size again and again, and resizing is not fast.
//
// Caches are safe for concurrent use.
type ImageCache struct {
	m           *sync.Mutex
	size        int
	content     map[string]image.Image
	insertOrder []string
}

// NewImageCache returns an empty image cache. size is the number of images that
// will be cached. size must be ≥ 1.
func NewImageCache(size int) *ImageCache {
	if size <= 0 {
		size = 1
	}
	var m sync.Mutex
	return &ImageCache{
		m:           &m,
		size:        size,
		content:     make(map[string]image.Image, size),
		insertOrder: make([]string, 0, size),
	}
}

func (cache *ImageCache) keyFormat(generation uint64, width, height int) string {
	return fmt.Sprintf("%d-%d-%d", generation, width, height)
}

func (cache *ImageCache) lookup(key string) image.Image {
	if img, has := cache.content[key]; has {
		return img
	}
	return nil
}

// Put adds an image to the cache. Usually Put is called after Get: If the
// image was not found in the cache it is scaled and then added to the cache via
// Put.
func (cache *ImageCache) Put(generation uint64, width, height int, img image.Image) {
	cache.m.Lock()
	defer cache.m.Unlock()
	keyFmt := cache.keyFormat(generation, width, height)
	// first check if image already in cache, if yes do nothing
	if lookup := cache.lookup(keyFmt); lookup != nil {
		return
	}
	if len(cache.insertOrder) < cache.size {
		cache.insertOrder = append(cache.insertOrder, keyFmt)
		cache.content[keyFmt] = img
	} else {
		// cache full, remove first element form cache
		fst := cache.insertOrder[0]
		cache.insertOrder = append(cache.insertOrder[1:], keyFmt)
		delete(cache.content, fst)
		cache.content[keyFmt] = img
	}
}

// Get returns the image from the cache. If the return value is nil the image
// was not found in the cache and should be added to the cache by Put.
func (cache *ImageCache) Get(generation uint64, width, height int) image.Image {
	cache.m.Lock()
	defer cache.m.Unlock()
	return cache.lookup(cache.keyFormat(generation, width, height))
}

// Len returns the number of cached images.
func (cache *ImageCache) Len() int {
	cache.m.Lock()
	defer cache.m.Unlock()
	return len(cache.insertOrder)
}

// Previewer renders previews of mosaics and caches the results. The cache is
// keyed by the mosaic generation, so a previewer must only be used for the
// mosaics of a single engine.
type Previewer struct {
	Resizer    ImageResizer
	Background color.Color
	Upscale    bool
	cache      *ImageCache
}

// NewPreviewer returns a previewer with a cache of ImageCacheSize entries.
// A nil resizer selects DefaultResizer.
func NewPreviewer(resizer ImageResizer, upscale bool) *Previewer {
	if resizer == nil {
		resizer = DefaultResizer
	}
	return &Previewer{
		Resizer:    resizer,
		Background: DisplayBackground,
		Upscale:    upscale,
		cache:      NewImageCache(ImageCacheSize),
	}
}

// Render returns the preview of m in a width x height canvas. The result is
// shared with other callers and must not be modified. Errors are the errors
// of Preview.
func (p *Previewer) Render(m *Mosaic, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rectangle{}), nil
	}
	if img := p.cache.Get(m.Generation(), width, height); img != nil {
		return img, nil
	}
	img, err := Preview(m.Image(), width, height, p.Resizer, p.Background, p.Upscale)
	if err != nil {
		return nil, err
	}
	p.cache.Put(m.Generation(), width, height, img)
	return img, nil
}
