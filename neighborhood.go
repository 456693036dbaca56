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

// Neighborhood encodes a local pixel neighborhood as a grid of on/off cells
// together with a reference cell. When the neighborhood is anchored at an
// image position the reference cell lands on that position and the on cells
// describe which surrounding pixels belong to the neighborhood.
//
// A neighborhood may extend over the edges of an image, cells outside the
// image are simply skipped.
type Neighborhood struct {
	elems      [][]bool
	refX, refY int
}

// NewNeighborhood returns a new neighborhood from a grid of on/off cells and
// the position of the reference cell inside the grid. All rows of elems must
// have the same length and the reference cell must lie inside the grid.
func NewNeighborhood(elems [][]bool, refX, refY int) (*Neighborhood, error) {
	if len(elems) == 0 || len(elems[0]) == 0 {
		return nil, invalidArgumentsf("neighborhood grid must not be empty")
	}
	width := len(elems[0])
	for _, row := range elems {
		if len(row) != width {
			return nil, invalidArgumentsf("neighborhood grid rows must have equal length")
		}
	}
	if refY < 0 || refY >= len(elems) || refX < 0 || refX >= width {
		return nil, invalidArgumentsf("neighborhood reference cell (%d, %d) is outside the grid", refX, refY)
	}
	return &Neighborhood{elems: elems, refX: refX, refY: refY}, nil
}

// SquareNeighborhood returns a fully on square neighborhood of the given
// side length with a centered reference cell. If withCenter is false the
// reference cell itself is off, which is what neighbor counting wants.
// The size must be odd.
func SquareNeighborhood(size int, withCenter bool) (*Neighborhood, error) {
	if size <= 0 || size%2 == 0 {
		return nil, invalidArgumentsf("square neighborhood size must be odd, got %d", size)
	}
	elems := make([][]bool, size)
	for y := range elems {
		elems[y] = make([]bool, size)
		for x := range elems[y] {
			elems[y][x] = true
		}
	}
	center := (size - 1) / 2
	if !withCenter {
		elems[center][center] = false
	}
	return NewNeighborhood(elems, center, center)
}

// Visit anchors the neighborhood at (refX, refY) and calls visit for every
// on cell whose image position lies inside bounds. Positions are visited in
// row major order.
func (n *Neighborhood) Visit(bounds image.Rectangle, refX, refY int, visit func(x, y int)) {
	for ey, row := range n.elems {
		y := refY + ey - n.refY
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for ex, on := range row {
			if !on {
				continue
			}
			x := refX + ex - n.refX
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			visit(x, y)
		}
	}
}

// Difference anchors the neighborhood at pA in imgA and at pB in imgB and
// sums the pixel metric over all on cells that lie inside both images.
// The images can be of any type, pixels are converted through ConvertRGB.
func (n *Neighborhood) Difference(imgA, imgB image.Image, pA, pB image.Point, metric PixelMetric) float64 {
	boundsA := imgA.Bounds()
	boundsB := imgB.Bounds()
	var res float64
	for ey, row := range n.elems {
		ya := pA.Y + ey - n.refY
		yb := pB.Y + ey - n.refY
		if ya < boundsA.Min.Y || ya >= boundsA.Max.Y || yb < boundsB.Min.Y || yb >= boundsB.Max.Y {
			continue
		}
		for ex, on := range row {
			if !on {
				continue
			}
			xa := pA.X + ex - n.refX
			xb := pB.X + ex - n.refX
			if xa < boundsA.Min.X || xa >= boundsA.Max.X || xb < boundsB.Min.X || xb >= boundsB.Max.X {
				continue
			}
			res += metric(ConvertRGB(imgA.At(xa, ya)), ConvertRGB(imgB.At(xb, yb)))
		}
	}
	return res
}
