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
	"testing"
)

// gradientImage returns an n x n image in which every pixel has a different
// color, so no rotation or mirror image maps it onto itself.
func gradientImage(n int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	return img
}

func gradientTile(t *testing.T, n int) *Tile {
	t.Helper()
	tile, err := NewTile(gradientImage(n))
	if err != nil {
		t.Fatalf("NewTile: %v", err)
	}
	return tile
}

func gradientVariants(t *testing.T, n int) VariantSet {
	t.Helper()
	variants, err := NewVariantSet(gradientTile(t, n))
	if err != nil {
		t.Fatalf("NewVariantSet: %v", err)
	}
	return variants
}

// constStrategy places the same index in every cell.
type constStrategy int

func (s constStrategy) VariantFor(row, col int) int {
	return int(s)
}

// expectPanicCode fails if f does not panic with an *Error of the given code.
func expectPanicCode(t *testing.T, code Code, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with code %s", code)
		}
		err, ok := r.(error)
		if !ok || !IsCode(err, code) {
			t.Fatalf("panic = %v, want error with code %s", r, code)
		}
	}()
	f()
}
