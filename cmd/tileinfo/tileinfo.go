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


package main

import (
	"fmt"
	"os"
	"time"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:", os.Args[0], "<TILE>")
		os.Exit(1)
	}
	start := time.Now()
	tile, tileErr := curvedline.LoadTile(os.Args[1])
	if tileErr != nil {
		fmt.Println("Error reading tile:")
		fmt.Println(curvedline.UserMessage(tileErr))
		os.Exit(1)
	}
	variants, variantsErr := curvedline.NewVariantSet(tile)
	if variantsErr != nil {
		fmt.Println(variantsErr)
		os.Exit(1)
	}
	execTime := time.Since(start)
	size := variants.TileSize()
	fmt.Printf("Tile: %dx%d\n", size, size)
	bounds, boundsErr := curvedline.MosaicBounds(size)
	if boundsErr != nil {
		fmt.Println("Mosaic:", curvedline.UserMessage(boundsErr))
	} else {
		fmt.Printf("Mosaic: %dx%d\n", bounds.Dx(), bounds.Dy())
	}
	fmt.Println("Variants:")
	for _, s := range curvedline.AllSymmetries() {
		v := variants.Variant(int(s))
		fmt.Printf("  %d %-15s average %s", int(s), s, curvedline.ComputeAverageColor(v.Image()).Hex())
		// equal variants mean the tile has a symmetry and the mosaic will show
		// fewer than eight different cells
		for _, other := range curvedline.AllSymmetries()[:s] {
			if variants.Variant(int(other)).Equal(v) {
				fmt.Printf(" (same as %s)", other)
				break
			}
		}
		fmt.Println()
	}
	fmt.Println("Done after", execTime)
}
