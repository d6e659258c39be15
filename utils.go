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
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// IntMin returns the smallest of all given values.
func IntMin(a int, elements ...int) int {
	res := a
	for _, val := range elements {
		if val < res {
			res = val
		}
	}
	return res
}

// IntMax returns the largest of all given values.
func IntMax(a int, elements ...int) int {
	res := a
	for _, val := range elements {
		if val > res {
			res = val
		}
	}
	return res
}

// ParseDimensions parses a string of the form "AxB" where A and B are positive
// integers.
func ParseDimensions(s string) (int, int, error) {
	split := strings.Split(s, "x")
	if len(split) != 2 {
		return -1, -1, fmt.Errorf("Invalid dimension format: %s. Expect \"AxB\"", s)
	}
	first, second := strings.TrimSpace(split[0]), strings.TrimSpace(split[1])
	firstInt, firstErr := strconv.Atoi(first)
	if firstErr != nil {
		return -1, -1, firstErr
	}
	secondInt, secondErr := strconv.Atoi(second)
	if secondErr != nil {
		return -1, -1, secondErr
	}
	if firstInt < 0 || secondInt < 0 {
		return -1, -1, fmt.Errorf("Dimensions must be positive, got %d and %d",
			firstInt, secondInt)
	}
	return firstInt, secondInt, nil
}

// ParseDimensionsEmpty works as ParseDimensions of the form "AxB" but also
// allows A and / or B to be empty. That is "1024x" would be valid as well as
// "x768" and "x". Empty values are returned as -1.
func ParseDimensionsEmpty(s string) (int, int, error) {
	split := strings.Split(s, "x")
	if len(split) != 2 {
		return -1, -1, fmt.Errorf("Invalid dimension format: %s. Expect \"AxB\"", s)
	}
	first, second := strings.TrimSpace(split[0]), strings.TrimSpace(split[1])
	firstInt, secondInt := -1, -1
	var parseErr error
	// now parse both ints, but only if not empty
	if len(first) > 0 {
		firstInt, parseErr = strconv.Atoi(first)
		if parseErr != nil {
			return -1, -1, parseErr
		}
		if firstInt < 0 {
			return -1, -1, fmt.Errorf("Dimensions must be positive, got %d", firstInt)
		}
	}

	if len(second) > 0 {
		secondInt, parseErr = strconv.Atoi(second)
		if parseErr != nil {
			return -1, -1, parseErr
		}
		if secondInt < 0 {
			return -1, -1, fmt.Errorf("Dimensions must be positive, got %d", secondInt)
		}
	}
	return firstInt, secondInt, nil
}

// ParseColor parses a color given as hex string ("#8f9e68" or "8f9e68") or
// as comma separated components ("143,158,104").
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return color.NRGBA{}, NewError(ErrCodeInvalidInput, "invalid color %q, expected r,g,b", s)
		}
		var comps [3]uint8
		for i, part := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
			if err != nil {
				return color.NRGBA{}, WrapError(ErrCodeInvalidInput, err, "invalid color component %q", part)
			}
			comps[i] = uint8(v)
		}
		return color.NRGBA{R: comps[0], G: comps[1], B: comps[2], A: 255}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, WrapError(ErrCodeInvalidInput, err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// ColorHex formats c as #rrggbb, the alpha channel is ignored.
func ColorHex(c color.Color) string {
	rgb := ConvertRGB(c)
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}
