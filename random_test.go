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

func TestIntRangeBounds(t *testing.T) {
	src := NewRandomSource(1)
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v := src.IntRange(0, 7)
		if v < 0 || v > 7 {
			t.Fatalf("IntRange(0, 7) = %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 8 {
		t.Errorf("saw %d different values in 2000 draws, want 8", len(seen))
	}
	if v := src.IntRange(3, 3); v != 3 {
		t.Errorf("IntRange(3, 3) = %d", v)
	}
	if v := src.IntRange(-5, -5); v != -5 {
		t.Errorf("IntRange(-5, -5) = %d", v)
	}
}

func TestIntRangeEmptyPanics(t *testing.T) {
	src := NewRandomSource(1)
	expectPanicCode(t, ErrCodePrecondition, func() {
		src.IntRange(5, 4)
	})
}

func drawInts(src *RandomSource, n int) []int {
	res := make([]int, n)
	for i := range res {
		res[i] = src.IntRange(0, 1000)
	}
	return res
}

func equalInts(a, b []int) bool {
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

func TestSeedReproducible(t *testing.T) {
	a := drawInts(NewRandomSource(42), 50)
	b := drawInts(NewRandomSource(42), 50)
	if !equalInts(a, b) {
		t.Error("same seed gave different sequences")
	}
	c := drawInts(NewRandomSource(43), 50)
	if equalInts(a, c) {
		t.Error("different seeds gave the same sequence")
	}

	src := NewRandomSource(42)
	drawInts(src, 10)
	src.Reseed(42)
	if !equalInts(a, drawInts(src, 50)) {
		t.Error("Reseed did not restart the sequence")
	}
	if src.Seed() != 42 {
		t.Errorf("Seed() = %d, want 42", src.Seed())
	}
}

func TestStateRestore(t *testing.T) {
	src := NewRandomSource(7)
	drawInts(src, 5)
	state, err := src.State()
	if err != nil {
		t.Fatal(err)
	}
	first := drawInts(src, 20)
	if err := src.Restore(state); err != nil {
		t.Fatal(err)
	}
	if !equalInts(first, drawInts(src, 20)) {
		t.Error("sequence after Restore differs")
	}

	// restoring into a source with another seed continues the same sequence
	other := NewRandomSource(99)
	if err := other.Restore(state); err != nil {
		t.Fatal(err)
	}
	if !equalInts(first, drawInts(other, 20)) {
		t.Error("restored source with other seed differs")
	}

	if err := src.Restore([]byte("garbage")); !IsCode(err, ErrCodeInvalidInput) {
		t.Errorf("Restore(garbage) error = %v", err)
	}
}
