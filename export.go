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
	"bufio"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an image format mosaics can be exported to.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// DefaultExportName is the file name used when the user does not choose one.
const DefaultExportName = "Output.png"

// Formats returns all export formats.
func Formats() []Format {
	return []Format{FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF}
}

// ParseFormat parses a format name, "jpg" and "tif" are accepted as well.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return "", NewError(ErrCodeUnsupported, "unsupported image format %q", s)
	}
}

// FormatFromPath returns the format selected by the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", NewError(ErrCodeUnsupported, "file %s has no extension", path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// EncodeOptions controls lossy formats.
type EncodeOptions struct {
	// JPGQuality is the quality between 1 and 100 used for jpeg files.
	JPGQuality int
}

// DefaultEncodeOptions stores jpeg files with the best quality.
var DefaultEncodeOptions = EncodeOptions{JPGQuality: 100}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format, opts EncodeOptions) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		quality := opts.JPGQuality
		if quality < 1 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatGIF:
		err = gif.Encode(w, img, &gif.Options{NumColors: 256})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return NewError(ErrCodeUnsupported, "unsupported image format %q", string(format))
	}
	if err != nil {
		return WrapError(ErrCodeInvalidInput, err, "can't encode %s image", format)
	}
	return nil
}

// SaveImage writes img to file, the format is chosen by the file extension.
// Nothing is created if the extension is not supported.
func SaveImage(file string, img image.Image, opts EncodeOptions) error {
	format, formatErr := FormatFromPath(file)
	if formatErr != nil {
		return formatErr
	}
	outFile, outErr := os.Create(file)
	if outErr != nil {
		return outErr
	}
	w := bufio.NewWriter(outFile)
	if encErr := Encode(w, img, format, opts); encErr != nil {
		outFile.Close()
		return encErr
	}
	if flushErr := w.Flush(); flushErr != nil {
		outFile.Close()
		return flushErr
	}
	return outFile.Close()
}
