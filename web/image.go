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


package web

import (
	"encoding/base64"
	"image"
	"strings"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
)

// EncodeBase64 encodes img in the given format and returns the base64 string.
func EncodeBase64(img image.Image, format curvedline.Format, opts curvedline.EncodeOptions) (string, error) {
	var w strings.Builder
	encoder := base64.NewEncoder(base64.StdEncoding, &w)
	err := curvedline.Encode(encoder, img, format, opts)
	if err != nil {
		return "", err
	}
	err = encoder.Close()
	if err != nil {
		return "", err
	}
	s := w.String()
	return s, err
}

// EncodePNG encodes img as base64 png.
func EncodePNG(img image.Image) (string, error) {
	return EncodeBase64(img, curvedline.FormatPNG, curvedline.DefaultEncodeOptions)
}

// EncodeJPEG encodes img as base64 jpeg.
func EncodeJPEG(img image.Image, quality int) (string, error) {
	return EncodeBase64(img, curvedline.FormatJPEG, curvedline.EncodeOptions{JPGQuality: quality})
}
