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
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// VariantCount is the number of orientations of a square tile, the order of
// the dihedral group of the square.
const VariantCount = 8

// Symmetry is one of the eight rotations / mirror images of a square.
//
// The numbering is fixed, patterns refer to variants by these numbers:
// Symmetry s = 4*f + r means "rotate clockwise by r quarter turns and then,
// if f = 1, mirror horizontally".
type Symmetry int

const (
	Identity Symmetry = iota
	Rotate90
	Rotate180
	Rotate270
	FlipX
	Rotate90FlipX
	Rotate180FlipX
	Rotate270FlipX
)

var symmetryNames = [VariantCount]string{
	"identity",
	"rotate90",
	"rotate180",
	"rotate270",
	"flip",
	"rotate90-flip",
	"rotate180-flip",
	"rotate270-flip",
}

// Valid returns true if s is one of the eight symmetries.
func (s Symmetry) Valid() bool {
	return s >= 0 && s < VariantCount
}

func (s Symmetry) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Symmetry(%d)", int(s))
	}
	return symmetryNames[s]
}

// ParseSymmetry parses the name returned by String.
func ParseSymmetry(name string) (Symmetry, error) {
	for i, n := range symmetryNames {
		if n == name {
			return Symmetry(i), nil
		}
	}
	return -1, NewError(ErrCodeInvalidInput, "unknown symmetry %q", name)
}

func (s Symmetry) rotation() int {
	return int(s) % 4
}

func (s Symmetry) flipped() bool {
	return s >= FlipX
}

func makeSymmetry(rotation int, flip bool) Symmetry {
	rotation = ((rotation % 4) + 4) % 4
	if flip {
		return Symmetry(4 + rotation)
	}
	return Symmetry(rotation)
}

// Inverse returns the symmetry that undoes s. Mirror images are their own
// inverse.
func (s Symmetry) Inverse() Symmetry {
	if s.flipped() {
		return s
	}
	return makeSymmetry(-s.rotation(), false)
}

// Then returns the symmetry equivalent to applying s first and t second.
func (s Symmetry) Then(t Symmetry) Symmetry {
	// a mirror in front of a rotation turns the rotation around
	r := t.rotation()
	if s.flipped() {
		r = -r
	}
	return makeSymmetry(s.rotation()+r, s.flipped() != t.flipped())
}

// MapPoint returns where the pixel (x, y) of an n x n image ends up after
// applying s.
func (s Symmetry) MapPoint(x, y, n int) (int, int) {
	for i := 0; i < s.rotation(); i++ {
		x, y = n-1-y, x
	}
	if s.flipped() {
		x = n - 1 - x
	}
	return x, y
}

// Apply returns a new image with s applied to img. The result always starts
// at (0, 0), img is never modified.
func (s Symmetry) Apply(img image.Image) *image.NRGBA {
	// imaging rotates counter-clockwise
	switch s {
	case Identity:
		return imaging.Clone(img)
	case Rotate90:
		return imaging.Rotate270(img)
	case Rotate180:
		return imaging.Rotate180(img)
	case Rotate270:
		return imaging.Rotate90(img)
	case FlipX:
		return imaging.FlipH(img)
	case Rotate90FlipX:
		return imaging.Transpose(img)
	case Rotate180FlipX:
		return imaging.FlipV(img)
	case Rotate270FlipX:
		return imaging.Transverse(img)
	default:
		precondition("invalid symmetry %d", int(s))
		return nil
	}
}

// AllSymmetries returns the eight symmetries in variant order.
func AllSymmetries() []Symmetry {
	res := make([]Symmetry, VariantCount)
	for i := range res {
		res[i] = Symmetry(i)
	}
	return res
}
