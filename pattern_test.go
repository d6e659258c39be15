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
	"strings"
	"testing"
)

func TestOriginalPattern(t *testing.T) {
	tests := []struct {
		row, col int
		want     int
	}{
		{0, 0, 0},
		{0, 2, 5},
		{1, 7, 2},
		{4, 0, 5},
		{5, 1, 7},
		{7, 0, 3},
		{7, 7, 0},
	}
	for _, tt := range tests {
		if got := OriginalPattern[tt.row][tt.col]; got != tt.want {
			t.Errorf("OriginalPattern[%d][%d] = %d, want %d", tt.row, tt.col, got, tt.want)
		}
	}
	if err := OriginalPattern.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestPatternStringRoundTrip(t *testing.T) {
	s := OriginalPattern.String()
	lines := strings.Split(s, "\n")
	if len(lines) != GridSize {
		t.Fatalf("String has %d lines, want %d", len(lines), GridSize)
	}
	if lines[0] != "0 1 5 4 5 6 0 3" {
		t.Errorf("first line = %q", lines[0])
	}
	p, err := ParsePattern(s)
	if err != nil {
		t.Fatal(err)
	}
	if p != OriginalPattern {
		t.Error("ParsePattern(String()) differs from the original pattern")
	}
}

func TestParsePatternErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"too short", "0 1 2"},
		{"not a number", strings.Repeat("0 ", 63) + "x"},
		{"out of range", strings.Repeat("0 ", 63) + "8"},
		{"negative", "-1 " + strings.Repeat("0 ", 63)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePattern(tt.in); !IsCode(err, ErrCodeInvalidInput) {
				t.Errorf("ParsePattern error = %v, want invalid input", err)
			}
		})
	}
}

func TestFixedStrategy(t *testing.T) {
	s := NewFixedStrategy(OriginalPattern)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			if got := s.VariantFor(row, col); got != OriginalPattern[row][col] {
				t.Errorf("VariantFor(%d, %d) = %d", row, col, got)
			}
		}
	}
}

func TestStrategyOutOfGridPanics(t *testing.T) {
	strategies := map[string]Strategy{
		"fixed":  NewFixedStrategy(OriginalPattern),
		"random": NewRandomStrategy(NewRandomSource(1)),
	}
	cells := [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}}
	for name, s := range strategies {
		for _, cell := range cells {
			t.Run(name, func(t *testing.T) {
				expectPanicCode(t, ErrCodePrecondition, func() {
					s.VariantFor(cell[0], cell[1])
				})
			})
		}
	}
}

func TestRandomStrategyRange(t *testing.T) {
	s := NewRandomStrategy(NewRandomSource(3))
	for i := 0; i < 500; i++ {
		if v := s.VariantFor(i%GridSize, (i/GridSize)%GridSize); v < 0 || v >= VariantCount {
			t.Fatalf("VariantFor = %d", v)
		}
	}
}

func TestDrawPattern(t *testing.T) {
	p, err := DrawPattern(NewFixedStrategy(OriginalPattern))
	if err != nil || p != OriginalPattern {
		t.Errorf("DrawPattern(original) = %v, %v", p, err)
	}
	if _, err := DrawPattern(constStrategy(8)); !IsCode(err, ErrCodeInvalidInput) {
		t.Errorf("DrawPattern(8) error = %v", err)
	}
	// a random pattern consumes exactly 64 draws, row by row
	src := NewRandomSource(11)
	p, err = DrawPattern(NewRandomStrategy(src))
	if err != nil {
		t.Fatal(err)
	}
	replay := NewRandomSource(11)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			if want := replay.IntRange(0, 7); p[row][col] != want {
				t.Fatalf("cell (%d, %d) = %d, want %d", row, col, p[row][col], want)
			}
		}
	}
	if src.IntRange(0, 1000) != replay.IntRange(0, 1000) {
		t.Error("sources out of step after 64 draws")
	}
}

func TestLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want Layout
	}{
		{"original", LayoutOriginal},
		{"Random", LayoutRandom},
		{" ORIGINAL ", LayoutOriginal},
	}
	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLayout(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLayout("custom"); !IsCode(err, ErrCodeInvalidInput) {
		t.Errorf("ParseLayout(custom) error = %v", err)
	}
	if _, err := LayoutCustom.Strategy(nil); err == nil {
		t.Error("custom layout returned a strategy")
	}
	if _, err := LayoutRandom.Strategy(nil); err == nil {
		t.Error("random layout without source returned a strategy")
	}
	if got := layoutOf(constStrategy(1)); got != LayoutCustom {
		t.Errorf("layoutOf(const) = %v", got)
	}
	if got := layoutOf(NewFixedStrategy(OriginalPattern)); got != LayoutOriginal {
		t.Errorf("layoutOf(original) = %v", got)
	}
	if got := layoutOf(NewRandomStrategy(NewRandomSource(1))); got != LayoutRandom {
		t.Errorf("layoutOf(random) = %v", got)
	}
}
