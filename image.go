// Copyright 2019 The TexSyn Authors
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

package texsyn

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"reflect"
	"strings"

	"github.com/nfnt/resize"
)

// SupportedImageFunc is a function that takes a file extension and decides if
// this file extension is supported. Usually our library should support jpg
// and png files, but this may change depending on what image protocols are
// loaded.
//
// The extension passed to this function could be for example ".txt" or ".jpg".
// JPGAndPNG is an implementation accepting jpg and png files.
type SupportedImageFunc func(ext string) bool

// JPGAndPNG is an implementation of SupportedImageFunc accepting jpg and png
// file extensions.
func JPGAndPNG(ext string) bool {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// RGB is a color containing r, g and b components. The synthesis engines
// operate on 3-channel 8-bit color, alpha is ignored everywhere.
type RGB struct {
	R, G, B uint8
}

// NewRGB returns a new RGB color.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// ConvertRGB converts a generic color into the internal RGB representation.
func ConvertRGB(c color.Color) RGB {
	// convert to rgba model
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	// convert to internal rgb representation
	return RGB{R: rgba.R, G: rgba.G, B: rgba.B}
}

// SubImager is a type that can produce a sub image from an original image.
type SubImager interface {
	SubImage(r image.Rectangle) image.Image
}

// SubImage returns a subimage of img given the boundaries r.
// The rectangle should be a valid area in the image. If the image type does
// not have a sub image method an error is returned.
func SubImage(img image.Image, r image.Rectangle) (image.Image, error) {
	imager, ok := img.(SubImager)
	if !ok {
		return nil, fmt.Errorf("Can't create sub image from type %v", reflect.TypeOf(img))
	}
	return imager.SubImage(r), nil
}

// ToRGBA copies an arbitrary image into an RGBA image with its origin moved
// to (0, 0). The engines own their buffers exclusively, so the exemplar is
// copied once up front.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	res := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(res, res.Bounds(), img, bounds.Min, draw.Src)
	return res
}

// rgbAt reads the pixel at (x, y) without going through the color.Color
// interface. The coordinates must be inside the image.
func rgbAt(img *image.RGBA, x, y int) RGB {
	i := img.PixOffset(x, y)
	return RGB{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
}

// setRGB writes the pixel at (x, y) with full alpha. The coordinates must be
// inside the image.
func setRGB(img *image.RGBA, x, y int, c RGB) {
	i := img.PixOffset(x, y)
	img.Pix[i] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = 0xff
}

// ImageResizer resizes an image to the given width and height.
type ImageResizer interface {
	Resize(width, height uint, img image.Image) image.Image
}

// NfntResizer uses the nfnt/resize package to resize an image.
type NfntResizer struct {
	// InterP is the interpolation function to use.
	InterP resize.InterpolationFunction
}

// NewNfntResizer returns a new resizer given the interpolation function.
func NewNfntResizer(interP resize.InterpolationFunction) NfntResizer {
	return NfntResizer{interP}
}

// GetInterP returns an interpolation function given a desired quality.
// The higher the quality the better the interpolation should be, but execution
// time is higher. Currently supported are values between 0 and 4, each
// selecting a different interpolation function. Values greater than 4 are
// treated as 4.
//
// This method assumes that the interpolation functions provided by nfnt/resize
// can be sorted according to their quality. This should be a reasonable
// assumption.
func GetInterP(quality uint) resize.InterpolationFunction {
	switch quality {
	case 0:
		return resize.NearestNeighbor
	case 1:
		return resize.Bilinear
	case 2:
		return resize.Bicubic
	case 3:
		return resize.MitchellNetravali
	case 4:
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

var (
	// DefaultResizer is the resizer that is used by default, if you're
	// looking for a resizer default argument this seems useful.
	DefaultResizer = NewNfntResizer(resize.MitchellNetravali)
)

// Resize calls nfnt/resize methods.
func (resizer NfntResizer) Resize(width, height uint, img image.Image) image.Image {
	return resize.Resize(width, height, img, resizer.InterP)
}
