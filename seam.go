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
)

// OverlapArea describes in which way an about-to-be-placed patch overlaps
// the already filled buffer content. It is determined purely from the
// patch's grid position: first row means only the left edge is shared,
// first column means only the top edge is shared, everywhere else both are.
type OverlapArea int

const (
	// OverlapTop means the patch shares only its top edge with the buffer.
	OverlapTop OverlapArea = iota
	// OverlapLeft means the patch shares only its left edge with the buffer.
	OverlapLeft
	// OverlapTopLeft means the patch shares both its top and left edge.
	OverlapTopLeft
)

func (area OverlapArea) String() string {
	switch area {
	case OverlapTop:
		return "OverlapTop"
	case OverlapLeft:
		return "OverlapLeft"
	case OverlapTopLeft:
		return "OverlapTopLeft"
	default:
		return fmt.Sprintf("OverlapArea(%d)", area)
	}
}

// overlapAreaFor returns the overlap area of the grid cell (px, py).
// The cell (0, 0) holds the seed patch and has no overlap area, it must
// never be passed here.
func overlapAreaFor(px, py int) OverlapArea {
	switch {
	case py == 0:
		return OverlapLeft
	case px == 0:
		return OverlapTop
	default:
		return OverlapTopLeft
	}
}

// forEachOverlapOffset calls fn for every pixel offset inside the patch that
// lies in the overlap region(s) of the given area.
//
// OverlapTop covers the first overlap rows across the full patch width,
// OverlapLeft the first overlap columns across the full patch height.
// OverlapTopLeft is the union of both bands: the top band covers the full
// width including the shared corner block, the left band only the remaining
// rows, so no offset is visited twice.
func forEachOverlapOffset(area OverlapArea, size, overlap int, fn func(dx, dy int)) {
	switch area {
	case OverlapTop:
		for dy := 0; dy < overlap; dy++ {
			for dx := 0; dx < size; dx++ {
				fn(dx, dy)
			}
		}
	case OverlapLeft:
		for dy := 0; dy < size; dy++ {
			for dx := 0; dx < overlap; dx++ {
				fn(dx, dy)
			}
		}
	case OverlapTopLeft:
		for dy := 0; dy < overlap; dy++ {
			for dx := 0; dx < size; dx++ {
				fn(dx, dy)
			}
		}
		for dy := overlap; dy < size; dy++ {
			for dx := 0; dx < overlap; dx++ {
				fn(dx, dy)
			}
		}
	}
}

// ErrorSurface is a grid of per-pixel color distances over a candidate
// patch. Only the cells inside the overlap region(s) are filled, it is
// produced fresh per candidate and consumed immediately by seam finding.
type ErrorSurface struct {
	size    int
	overlap int
	vals    []float64
}

// NewErrorSurface returns a zeroed error surface for the given patch size
// and overlap.
func NewErrorSurface(size, overlap int) *ErrorSurface {
	return &ErrorSurface{
		size:    size,
		overlap: overlap,
		vals:    make([]float64, size*size),
	}
}

// At returns the value at the pixel offset (dx, dy).
func (es *ErrorSurface) At(dx, dy int) float64 {
	return es.vals[dy*es.size+dx]
}

// Set sets the value at the pixel offset (dx, dy).
func (es *ErrorSurface) Set(dx, dy int, val float64) {
	es.vals[dy*es.size+dx] = val
}

// minCostSeam computes a minimum cost seam through a band of an error
// surface by dynamic programming. The seam advances along the primary axis
// (one entry per primary index) and is confined to [0, band) on the
// secondary axis. at returns the error surface value at (primary,
// secondary).
//
// The accumulated cost of a cell is its own value plus the minimum cost of
// the up to three cells at the previous primary index whose secondary index
// differs by at most one, the first primary index is the base case. The
// returned path is recovered from the last primary index backwards: it
// starts at the secondary index with minimum accumulated cost and at each
// step stays in the same column unless a strictly lower diagonal neighbor
// exists, with the left neighbor taking precedence on ties between the two
// diagonals.
func minCostSeam(at func(primary, secondary int) float64, primLen, band int) []int {
	// bottom-up fill of the cost table, scoped to this one computation
	costs := make([]float64, primLen*band)
	for s := 0; s < band; s++ {
		costs[s] = at(0, s)
	}
	for p := 1; p < primLen; p++ {
		prev := costs[(p-1)*band : p*band]
		for s := 0; s < band; s++ {
			best := prev[s]
			if s > 0 && prev[s-1] < best {
				best = prev[s-1]
			}
			if s < band-1 && prev[s+1] < best {
				best = prev[s+1]
			}
			costs[p*band+s] = at(p, s) + best
		}
	}

	path := make([]int, primLen)
	// start at the end of the seam with the smallest accumulated cost
	last := costs[(primLen-1)*band:]
	s := 0
	for i := 1; i < band; i++ {
		if last[i] < last[s] {
			s = i
		}
	}
	path[primLen-1] = s
	// walk backwards, moving diagonally only if strictly better
	for p := primLen - 2; p >= 0; p-- {
		row := costs[p*band : (p+1)*band]
		best := s
		if s > 0 && row[s-1] < row[best] {
			best = s - 1
		}
		if s < band-1 && row[s+1] < row[best] {
			best = s + 1
		}
		s = best
		path[p] = s
	}
	return path
}

// VerticalSeam computes the minimum cost vertical seam through the left
// overlap band of the surface. The result holds one column index per patch
// row, each in [0, overlap).
func (es *ErrorSurface) VerticalSeam() []int {
	return minCostSeam(func(p, s int) float64 {
		return es.At(s, p)
	}, es.size, es.overlap)
}

// HorizontalSeam computes the minimum cost horizontal seam through the top
// overlap band of the surface. This is the exact transpose of VerticalSeam:
// the result holds one row index per patch column, each in [0, overlap).
func (es *ErrorSurface) HorizontalSeam() []int {
	return minCostSeam(func(p, s int) float64 {
		return es.At(p, s)
	}, es.size, es.overlap)
}
