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

// This file contains some predefined scripts that can be executed. This way
// we have some easy way to create mosaics without requiring the user to know
// the shell commands.

var (
	// RunOriginal loads a tile and saves the mosaic with the original layout.
	// It is parameterized by two parameters: the tile file and the output file.
	//
	// Example usage: RunOriginal tile.png mosaic.png
	RunOriginal = `tile load $1
original
save $2`

	// RunRandom is similar to RunOriginal but generates a random layout. The
	// third parameter is the seed, so the same call always yields the same
	// mosaic.
	//
	// Example usage: RunRandom tile.png mosaic.png 42
	RunRandom = `tile load $1
set seed $3
random
save $2`

	// CompareLayouts generates both layouts of a tile and the variant sheet.
	// The second argument is not a file but a directory, the images are created
	// in this directory.
	//
	// Example usage: CompareLayouts tile.png ./output/ 42
	CompareLayouts = `tile load $1
set seed $3
original
save $2/mosaic-original.png
random
save $2/mosaic-random.png
variants $2/variants.png`
)

// PredefinedScripts maps the names of the predefined scripts to their source.
var PredefinedScripts = map[string]string{
	"original": RunOriginal,
	"random":   RunRandom,
	"compare":  CompareLayouts,
}
