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
	"image"
)

// Patch describes a square region in the source exemplar by its top-left
// corner and side length. A patch is immutable once selected.
type Patch struct {
	X, Y, Size int
}

// NewPatch returns a new patch.
func NewPatch(x, y, size int) Patch {
	return Patch{X: x, Y: y, Size: size}
}

// Rect returns the area covered by the patch as a rectangle.
func (p Patch) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Size, p.Y+p.Size)
}

// RectInBounds reports whether r lies entirely inside the bounds of img.
// This must hold before a rectangle is used for blits or sub-image views.
func RectInBounds(img image.Image, r image.Rectangle) bool {
	return r.In(img.Bounds())
}

// PatchRectError sums the pixel metric over two equally sized regions of two
// images. The region in imgA starts at pA, the region in imgB at pB, width
// and height are given by size. Both regions must lie inside their image.
//
// The result is symmetric under swapping (imgA, pA) and (imgB, pB) whenever
// the metric itself is symmetric.
func PatchRectError(metric PixelMetric, imgA, imgB *image.RGBA, pA, pB image.Point, size image.Point) float64 {
	var res float64
	for dy := 0; dy < size.Y; dy++ {
		for dx := 0; dx < size.X; dx++ {
			a := rgbAt(imgA, pA.X+dx, pA.Y+dy)
			b := rgbAt(imgB, pB.X+dx, pB.Y+dy)
			res += metric(a, b)
		}
	}
	return res
}

// BlitRect copies a rectangular region from src to dest. Both rectangles
// must have the same size and lie inside their image.
func BlitRect(dest *image.RGBA, src *image.RGBA, destRect, srcRect image.Rectangle) {
	width := srcRect.Dx()
	height := srcRect.Dy()
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			c := rgbAt(src, srcRect.Min.X+dx, srcRect.Min.Y+dy)
			setRGB(dest, destRect.Min.X+dx, destRect.Min.Y+dy, c)
		}
	}
}
