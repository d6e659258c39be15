//go:build !ebiten

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

package viewer

import (
	"errors"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
)

// ErrNoWindow is returned by Run in builds without the ebiten tag.
var ErrNoWindow = errors.New("the viewer requires building with the 'ebiten' tag, e.g. go build -tags ebiten ./cmd/mosaic")

// Run reports that the window build tag is missing.
func Run(engine *curvedline.Engine, previewer *curvedline.Previewer, opts Options) error {
	return ErrNoWindow
}
