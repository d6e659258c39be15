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
)

// Strategy decides which variant is placed in a grid cell.
// row and col must be between 0 and GridSize - 1, implementations panic
// otherwise.
type Strategy interface {
	VariantFor(row, col int) int
}

func checkCell(row, col int) {
	if row < 0 || row >= GridSize || col < 0 || col >= GridSize {
		precondition("cell (%d, %d) outside of the %dx%d grid", row, col, GridSize, GridSize)
	}
}

// FixedStrategy looks up the variant in a pattern.
type FixedStrategy struct {
	Pattern Pattern
}

// NewFixedStrategy returns a strategy for the given pattern.
func NewFixedStrategy(p Pattern) FixedStrategy {
	return FixedStrategy{Pattern: p}
}

// VariantFor returns Pattern[row][col].
func (s FixedStrategy) VariantFor(row, col int) int {
	checkCell(row, col)
	return s.Pattern[row][col]
}

// RandomStrategy draws each variant uniformly from all eight variants,
// independent of the cell.
type RandomStrategy struct {
	src *RandomSource
}

// NewRandomStrategy returns a strategy drawing from src.
func NewRandomStrategy(src *RandomSource) *RandomStrategy {
	return &RandomStrategy{src: src}
}

// VariantFor returns a random variant index.
func (s *RandomStrategy) VariantFor(row, col int) int {
	checkCell(row, col)
	return s.src.IntRange(0, VariantCount-1)
}

// Layout names the tessellations that can be selected from the menus.
type Layout int

const (
	// LayoutCustom is reported for mosaics generated by a strategy that is
	// neither the original pattern nor random.
	LayoutCustom Layout = iota
	LayoutOriginal
	LayoutRandom
)

func (l Layout) String() string {
	switch l {
	case LayoutOriginal:
		return "original"
	case LayoutRandom:
		return "random"
	case LayoutCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// DisplayString returns the name as shown in menus.
func (l Layout) DisplayString() string {
	switch l {
	case LayoutOriginal:
		return "Original"
	case LayoutRandom:
		return "Random"
	case LayoutCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// ParseLayout parses "original" or "random" (case insensitive).
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "original":
		return LayoutOriginal, nil
	case "random":
		return LayoutRandom, nil
	default:
		return -1, NewError(ErrCodeInvalidInput, "unknown layout %q, expected original or random", s)
	}
}

// SelectableLayouts returns the layouts that can be chosen in menus, in menu
// order.
func SelectableLayouts() []Layout {
	return []Layout{LayoutOriginal, LayoutRandom}
}

// Strategy returns the strategy for l. Random layouts draw from src.
func (l Layout) Strategy(src *RandomSource) (Strategy, error) {
	switch l {
	case LayoutOriginal:
		return NewFixedStrategy(OriginalPattern), nil
	case LayoutRandom:
		if src == nil {
			return nil, NewError(ErrCodeInvalidInput, "random layout requires a random source")
		}
		return NewRandomStrategy(src), nil
	default:
		return nil, NewError(ErrCodeInvalidInput, "layout %s has no strategy", l)
	}
}

func layoutOf(s Strategy) Layout {
	switch v := s.(type) {
	case FixedStrategy:
		if v.Pattern == OriginalPattern {
			return LayoutOriginal
		}
	case *FixedStrategy:
		if v != nil && v.Pattern == OriginalPattern {
			return LayoutOriginal
		}
	case *RandomStrategy:
		return LayoutRandom
	}
	return LayoutCustom
}

// DrawPattern asks strategy for the variant of every cell, row by row, and
// returns the result. An index outside of 0 to 7 is an error.
func DrawPattern(strategy Strategy) (Pattern, error) {
	var p Pattern
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			idx := strategy.VariantFor(row, col)
			if !Symmetry(idx).Valid() {
				return p, NewError(ErrCodeInvalidInput,
					"strategy returned invalid variant %d for cell (%d, %d)", idx, row, col)
			}
			p[row][col] = idx
		}
	}
	return p, nil
}
