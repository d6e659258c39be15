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
	"strconv"
	"strings"
)

// GridSize is the number of tiles in each row and column of a mosaic.
const GridSize = 8

// Pattern assigns a variant index to each cell of the grid, indexed as
// Pattern[row][col].
type Pattern [GridSize][GridSize]int

// OriginalPattern is the hand-made layout of the "Original" tessellation.
var OriginalPattern = Pattern{
	{0, 1, 5, 4, 5, 6, 0, 3},
	{1, 2, 6, 5, 6, 7, 3, 2},
	{0, 1, 0, 1, 0, 1, 0, 1},
	{1, 2, 3, 0, 3, 0, 3, 0},
	{5, 6, 0, 3, 0, 1, 5, 4},
	{6, 7, 3, 2, 1, 2, 6, 5},
	{0, 1, 0, 1, 0, 1, 0, 1},
	{3, 0, 3, 0, 1, 2, 3, 0},
}

// Validate returns an error if some entry is not a variant index.
func (p Pattern) Validate() error {
	for row := range p {
		for col, v := range p[row] {
			if !Symmetry(v).Valid() {
				return NewError(ErrCodeInvalidInput,
					"invalid variant %d in cell (%d, %d)", v, row, col)
			}
		}
	}
	return nil
}

// String returns one line per row, entries separated by a space.
func (p Pattern) String() string {
	var b strings.Builder
	for row := range p {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col, v := range p[row] {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(v))
		}
	}
	return b.String()
}

// ParsePattern parses the format written by String. Any whitespace separates
// entries, there must be exactly GridSize * GridSize of them.
func ParsePattern(s string) (Pattern, error) {
	var res Pattern
	fields := strings.Fields(s)
	if len(fields) != GridSize*GridSize {
		return res, NewError(ErrCodeInvalidInput,
			"pattern must contain %d entries, got %d", GridSize*GridSize, len(fields))
	}
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return res, WrapError(ErrCodeInvalidInput, err, "invalid pattern entry %q", field)
		}
		res[i/GridSize][i%GridSize] = v
	}
	if err := res.Validate(); err != nil {
		return res, err
	}
	return res, nil
}
