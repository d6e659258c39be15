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


// Package viewer shows mosaics in a window. The window is only available when
// building with the ebiten tag.
package viewer

import curvedline "github.com/Ian-Parberry/findthecurvedlinememe"

// Options configures the window.
type Options struct {
	Title         string
	Width, Height int
	// Output is the file the s key saves to.
	Output string
	Encode curvedline.EncodeOptions
}

// DefaultOptions returns a 512x512 window saving to curvedline.DefaultExportName.
func DefaultOptions() Options {
	return Options{
		Title:  "Find the Curved Line",
		Width:  512,
		Height: 512,
		Output: curvedline.DefaultExportName,
		Encode: curvedline.DefaultEncodeOptions,
	}
}
