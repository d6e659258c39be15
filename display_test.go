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
	"math"
	"testing"

	"github.com/nfnt/resize"
)

func TestFitRect(t *testing.T) {
	tests := []struct {
		src, dst image.Rectangle
		upscale  bool
		want     image.Rectangle
	}{
		{image.Rect(0, 0, 512, 512), image.Rect(0, 0, 256, 128), false, image.Rect(64, 0, 192, 128)},
		{image.Rect(0, 0, 512, 512), image.Rect(0, 0, 128, 256), false, image.Rect(0, 64, 128, 192)},
		{image.Rect(0, 0, 64, 64), image.Rect(0, 0, 256, 256), false, image.Rect(96, 96, 160, 160)},
		{image.Rect(0, 0, 64, 64), image.Rect(0, 0, 256, 256), true, image.Rect(0, 0, 256, 256)},
		{image.Rect(0, 0, 200, 100), image.Rect(10, 10, 110, 110), false, image.Rect(10, 35, 110, 85)},
		{image.Rect(0, 0, 64, 64), image.Rect(0, 0, 0, 100), false, image.Rect(0, 0, 0, 0)},
	}
	for _, tc := range tests {
		if got := FitRect(tc.src, tc.dst, tc.upscale); got != tc.want {
			t.Errorf("FitRect(%v, %v, %v) = %v, want %v", tc.src, tc.dst, tc.upscale, got, tc.want)
		}
	}
}

func TestPreview(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	red := color.NRGBA{R: 255, A: 255}
	for i := range img.Pix {
		if i%4 == 0 || i%4 == 3 {
			img.Pix[i] = 255
		}
	}
	resizer := NewNfntResizer(resize.NearestNeighbor)
	res, err := Preview(img, 16, 8, resizer, color.White, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bounds() != image.Rect(0, 0, 16, 8) {
		t.Fatalf("bounds = %v", res.Bounds())
	}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if got := res.NRGBAAt(0, 4); got != white {
		t.Errorf("left border = %v, want white", got)
	}
	if got := res.NRGBAAt(8, 4); got != red {
		t.Errorf("center = %v, want red", got)
	}
	if got := res.NRGBAAt(15, 4); got != white {
		t.Errorf("right border = %v, want white", got)
	}
	if empty, err := Preview(img, 0, 10, resizer, color.White, false); err != nil || !empty.Bounds().Empty() {
		t.Errorf("Preview with zero width = %v, %v", empty.Bounds(), err)
	}
}

func TestPreviewTooLarge(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	resizer := NewNfntResizer(resize.NearestNeighbor)
	for _, size := range [][2]int{{50000, 50000}, {2000000000, 2000000000}, {math.MaxInt, 2}, {1, 1 << 29}} {
		if _, err := Preview(img, size[0], size[1], resizer, color.White, false); !IsCode(err, ErrCodeAllocation) {
			t.Errorf("Preview(%dx%d) error = %v, want allocation error", size[0], size[1], err)
		}
	}
	old := MaxMosaicPixels
	t.Cleanup(func() { MaxMosaicPixels = old })
	MaxMosaicPixels = 100
	if _, err := Preview(img, 10, 10, resizer, color.White, false); err != nil {
		t.Errorf("Preview at the limit: %v", err)
	}
	if _, err := Preview(img, 10, 11, resizer, color.White, false); !IsCode(err, ErrCodeAllocation) {
		t.Errorf("Preview above the limit error = %v", err)
	}
}

func TestParseCanvas(t *testing.T) {
	src := image.Rect(0, 0, 200, 100)
	tests := []struct {
		in   string
		w, h int
	}{
		{"300x200", 300, 200},
		{" 300 x 200 ", 300, 200},
		{"300x", 300, 150},
		{"x50", 100, 50},
		{"1x", 1, 1},
	}
	for _, tc := range tests {
		w, h, err := ParseCanvas(tc.in, src)
		if err != nil || w != tc.w || h != tc.h {
			t.Errorf("ParseCanvas(%q) = %d, %d, %v, want %d, %d", tc.in, w, h, err, tc.w, tc.h)
		}
	}
	for _, in := range []string{"", "x", "300", "0x5", "5x0", "-1x5", "axb"} {
		if _, _, err := ParseCanvas(in, src); !IsCode(err, ErrCodeInvalidInput) {
			t.Errorf("ParseCanvas(%q) error = %v, want invalid input", in, err)
		}
	}
	for _, in := range []string{"50000x50000", "9223372036854775807x", "x300000000", "30000x"} {
		if _, _, err := ParseCanvas(in, src); !IsCode(err, ErrCodeAllocation) {
			t.Errorf("ParseCanvas(%q) error = %v, want allocation error", in, err)
		}
	}
}

func TestImageCache(t *testing.T) {
	cache := NewImageCache(2)
	a := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	c := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	cache.Put(1, 10, 10, a)
	cache.Put(1, 10, 10, b)
	if got := cache.Get(1, 10, 10); got != image.Image(a) {
		t.Error("Put replaced a cached image")
	}
	cache.Put(1, 20, 20, b)
	cache.Put(2, 10, 10, c)
	if cache.Len() != 2 {
		t.Errorf("Len = %d, want 2", cache.Len())
	}
	if cache.Get(1, 10, 10) != nil {
		t.Error("oldest entry was not evicted")
	}
	if cache.Get(2, 10, 10) == nil || cache.Get(1, 20, 20) == nil {
		t.Error("recent entries missing")
	}
}

func TestPreviewerCachesByGeneration(t *testing.T) {
	e := newTestEngine(t)
	p := NewPreviewer(NewNfntResizer(resize.NearestNeighbor), false)
	first, err := p.Render(e.Current(), 20, 10)
	if err != nil {
		t.Fatal(err)
	}
	if again, _ := p.Render(e.Current(), 20, 10); again != first {
		t.Error("second render was not served from the cache")
	}
	if _, err := e.GenerateLayout(LayoutRandom); err != nil {
		t.Fatal(err)
	}
	if next, _ := p.Render(e.Current(), 20, 10); next == first {
		t.Error("new mosaic served the old preview")
	}
	if empty, err := p.Render(e.Current(), -1, 10); err != nil || !empty.Bounds().Empty() {
		t.Errorf("Render with negative width = %v, %v", empty, err)
	}
	if _, err := p.Render(e.Current(), 1<<20, 1<<20); !IsCode(err, ErrCodeAllocation) {
		t.Errorf("Render of a huge canvas error = %v", err)
	}
	if p.cache.Len() != 2 {
		t.Errorf("cache holds %d previews, want 2", p.cache.Len())
	}
}
