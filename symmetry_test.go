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
	"testing"
)

func TestSymmetryNames(t *testing.T) {
	for _, s := range AllSymmetries() {
		parsed, err := ParseSymmetry(s.String())
		if err != nil {
			t.Fatalf("ParseSymmetry(%q): %v", s.String(), err)
		}
		if parsed != s {
			t.Errorf("ParseSymmetry(%q) = %v, want %v", s.String(), parsed, s)
		}
	}
	if _, err := ParseSymmetry("mirror"); !IsCode(err, ErrCodeInvalidInput) {
		t.Errorf("ParseSymmetry(mirror) error = %v, want invalid input", err)
	}
	if got := Symmetry(8).String(); got != "Symmetry(8)" {
		t.Errorf("Symmetry(8).String() = %q", got)
	}
}

func TestMapPoint(t *testing.T) {
	const n = 4
	tests := []struct {
		s    Symmetry
		x, y int
		wx   int
		wy   int
	}{
		{Identity, 1, 0, 1, 0},
		{Rotate90, 0, 0, 3, 0},
		{Rotate90, 3, 0, 3, 3},
		{Rotate180, 0, 0, 3, 3},
		{Rotate270, 0, 0, 0, 3},
		{FlipX, 0, 1, 3, 1},
		{Rotate90FlipX, 1, 2, 2, 1},
		{Rotate180FlipX, 1, 0, 1, 3},
		{Rotate270FlipX, 0, 1, 2, 3},
	}
	for _, tt := range tests {
		x, y := tt.s.MapPoint(tt.x, tt.y, n)
		if x != tt.wx || y != tt.wy {
			t.Errorf("%v.MapPoint(%d, %d) = (%d, %d), want (%d, %d)", tt.s, tt.x, tt.y, x, y, tt.wx, tt.wy)
		}
	}
}

func TestApplyMatchesMapPoint(t *testing.T) {
	const n = 5
	src := gradientImage(n)
	for _, s := range AllSymmetries() {
		dst := s.Apply(src)
		if dst.Bounds().Dx() != n || dst.Bounds().Dy() != n {
			t.Fatalf("%v: bounds = %v", s, dst.Bounds())
		}
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				mx, my := s.MapPoint(x, y, n)
				if got, want := dst.NRGBAAt(mx, my), src.NRGBAAt(x, y); got != want {
					t.Fatalf("%v: pixel (%d, %d) moved to (%d, %d) has %v, want %v", s, x, y, mx, my, got, want)
				}
			}
		}
	}
}

func TestInverseAndThen(t *testing.T) {
	const n = 6
	for _, s := range AllSymmetries() {
		if got := s.Then(s.Inverse()); got != Identity {
			t.Errorf("%v then inverse = %v, want identity", s, got)
		}
		for _, u := range AllSymmetries() {
			st := s.Then(u)
			for _, p := range [][2]int{{0, 0}, {1, 4}, {5, 2}} {
				x, y := s.MapPoint(p[0], p[1], n)
				x, y = u.MapPoint(x, y, n)
				wx, wy := st.MapPoint(p[0], p[1], n)
				if x != wx || y != wy {
					t.Errorf("%v then %v = %v maps %v to (%d, %d), composition gives (%d, %d)",
						s, u, st, p, wx, wy, x, y)
				}
			}
		}
	}
}

func TestApplyInvalidPanics(t *testing.T) {
	expectPanicCode(t, ErrCodePrecondition, func() {
		Symmetry(9).Apply(gradientImage(2))
	})
}
