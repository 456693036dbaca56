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
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// SeedSize is the side length of the initial seed block the pixel
	// search engine copies from the exemplar into the center of the output.
	SeedSize = 3
)

// PixelSearchParams are the parameters of the pixel search engine.
// Use NewPixelSearchParams to create validated parameters.
type PixelSearchParams struct {
	// Width and Height of the synthesized image. Both must be at least
	// SeedSize so the initial seed block fits.
	Width, Height int

	// WindowSize is the side length of the square neighborhood window used
	// to compare a candidate against the partially filled output. It must
	// be odd.
	WindowSize int

	// SeedCoords are the optional coordinates of the top-left corner of
	// the initial seed block in the exemplar. If nil a uniformly random
	// in-bounds location is used.
	SeedCoords *image.Point

	// NumRoutines is the number of goroutines scanning concurrently.
	// Values < 1 are treated as 1.
	NumRoutines int

	// Rand is the random source for seed placement and the pick among
	// near-optimal candidates, a time-seeded source is created if nil.
	Rand *rand.Rand

	// Progress is called after every synthesized pixel. May be nil.
	Progress ProgressFunc
}

// NewPixelSearchParams validates and returns pixel search parameters.
// The seed coordinates can only be fully checked once the exemplar is
// known, this happens in NewPixelSearch.
func NewPixelSearchParams(width, height, windowSize int, seedCoords *image.Point) (*PixelSearchParams, error) {
	if width < SeedSize || height < SeedSize {
		return nil, invalidArgumentsf("output dimensions must be at least %dx%d, got %dx%d",
			SeedSize, SeedSize, width, height)
	}
	if windowSize <= 0 || windowSize%2 == 0 {
		return nil, invalidArgumentsf("window size must be odd, got %d", windowSize)
	}
	if seedCoords != nil && (seedCoords.X < 0 || seedCoords.Y < 0) {
		return nil, invalidArgumentsf("seed coordinates must not be negative, got %v", *seedCoords)
	}
	return &PixelSearchParams{
		Width:      width,
		Height:     height,
		WindowSize: windowSize,
		SeedCoords: seedCoords,
	}, nil
}

// PixelSearch implements pixel search texture synthesis in the style of
// Efros and Leung: the output grows outwards from a small seed, one pixel
// per iteration. The next pixel is always the frontier pixel with the most
// already synthesized neighbors in its window, its color is copied from a
// near-optimal neighborhood match in the exemplar. This is pretty slow...
//
// A PixelSearch owns its buffer and mask exclusively for the duration of a
// Synthesize call, the exemplar is only read. Instances are not safe for
// concurrent use.
type PixelSearch struct {
	source  *image.RGBA
	params  *PixelSearchParams
	buffer  *image.RGBA
	mask    []bool
	window  *Neighborhood
	randGen *rand.Rand
}

// NewPixelSearch returns a new pixel search engine for the given exemplar.
// The exemplar must be large enough to hold the seed block, and so must the
// explicit seed coordinates if given.
func NewPixelSearch(source image.Image, params *PixelSearchParams) (*PixelSearch, error) {
	src := ToRGBA(source)
	bounds := src.Bounds()
	if bounds.Dx() < SeedSize || bounds.Dy() < SeedSize {
		return nil, invalidArgumentsf("source image must be at least %dx%d, got %dx%d",
			SeedSize, SeedSize, bounds.Dx(), bounds.Dy())
	}
	if coords := params.SeedCoords; coords != nil {
		if coords.X > bounds.Dx()-SeedSize || coords.Y > bounds.Dy()-SeedSize {
			return nil, invalidArgumentsf("seed block at %v is outside the source image", *coords)
		}
	}
	window, windowErr := SquareNeighborhood(params.WindowSize, false)
	if windowErr != nil {
		return nil, windowErr
	}
	randGen := params.Rand
	if randGen == nil {
		randGen = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PixelSearch{
		source:  src,
		params:  params,
		window:  window,
		randGen: randGen,
	}, nil
}

func (ps *PixelSearch) maskAt(x, y int) bool {
	return ps.mask[y*ps.params.Width+x]
}

func (ps *PixelSearch) setMask(x, y int) {
	ps.mask[y*ps.params.Width+x] = true
}

// isEdgePixel reports whether the unfilled pixel at (x, y) touches at least
// one filled pixel, respecting the image borders. Edge pixels form the
// frontier the synthesis grows along.
func (ps *PixelSearch) isEdgePixel(x, y int) bool {
	w, h := ps.params.Width, ps.params.Height
	return (x != 0 && ps.maskAt(x-1, y)) ||
		(x != w-1 && ps.maskAt(x+1, y)) ||
		(y != 0 && ps.maskAt(x, y-1)) ||
		(y != h-1 && ps.maskAt(x, y+1))
}

// numNeighbors counts the filled pixels inside the window centered on
// (x, y), the center itself is off in the window mask.
func (ps *PixelSearch) numNeighbors(x, y int) int {
	count := 0
	ps.window.Visit(ps.buffer.Bounds(), x, y, func(nx, ny int) {
		if ps.maskAt(nx, ny) {
			count++
		}
	})
	return count
}

// Synthesize runs the synthesis and returns an image of exactly the
// requested size. Every output pixel is the copy of some exemplar pixel.
func (ps *PixelSearch) Synthesize() (image.Image, error) {
	w, h := ps.params.Width, ps.params.Height
	ps.buffer = image.NewRGBA(image.Rect(0, 0, w, h))
	ps.mask = make([]bool, w*h)

	// copy the seed block to the center of the buffer and mark it filled
	seed := ps.seedCoords()
	destSeed := image.Rect(w/2-1, h/2-1, w/2-1+SeedSize, h/2-1+SeedSize)
	BlitRect(ps.buffer, ps.source, destSeed,
		image.Rect(seed.X, seed.Y, seed.X+SeedSize, seed.Y+SeedSize))
	for y := destSeed.Min.Y; y < destSeed.Max.Y; y++ {
		for x := destSeed.Min.X; x < destSeed.Max.X; x++ {
			ps.setMask(x, y)
		}
	}

	progress := ps.params.Progress
	if progress == nil {
		progress = ProgressIgnore
	}

	total := w * h
	numDone := SeedSize * SeedSize
	for numDone < total {
		x, y, nextErr := ps.nextPixel()
		if nextErr != nil {
			return nil, nextErr
		}
		c, pixErr := ps.synthesizePixel(x, y)
		if pixErr != nil {
			return nil, pixErr
		}
		setRGB(ps.buffer, x, y, c)
		ps.setMask(x, y)
		numDone++
		progress(numDone)
	}

	res := ps.buffer
	ps.buffer = nil
	ps.mask = nil
	return res, nil
}

// seedCoords returns the exemplar position of the seed block, either the
// explicit coordinates or a uniformly random in-bounds location.
func (ps *PixelSearch) seedCoords() image.Point {
	if coords := ps.params.SeedCoords; coords != nil {
		return *coords
	}
	bounds := ps.source.Bounds()
	x := ps.randGen.Intn(bounds.Dx() - SeedSize + 1)
	y := ps.randGen.Intn(bounds.Dy() - SeedSize + 1)
	return image.Pt(x, y)
}

// nextPixel finds the frontier pixel with the most filled neighbors in its
// window. Rows of the mask are scanned concurrently, ties between pixels
// with equal neighbor counts are broken by reduction order on purpose (any
// tie break is fine, see the package documentation on randomness).
func (ps *PixelSearch) nextPixel() (int, int, error) {
	w, h := ps.params.Width, ps.params.Height

	numRoutines := ps.params.NumRoutines
	if numRoutines <= 0 {
		numRoutines = 1
	}

	type rowBest struct {
		x, y, count int
		found       bool
	}

	jobs := make(chan int, BufferSize)
	results := make(chan rowBest, BufferSize)

	for r := 0; r < numRoutines; r++ {
		go func() {
			for y := range jobs {
				best := rowBest{}
				for x := 0; x < w; x++ {
					if ps.maskAt(x, y) || !ps.isEdgePixel(x, y) {
						continue
					}
					count := ps.numNeighbors(x, y)
					if !best.found || count > best.count {
						best = rowBest{x: x, y: y, count: count, found: true}
					}
				}
				results <- best
			}
		}()
	}

	go func() {
		for y := 0; y < h; y++ {
			jobs <- y
		}
		close(jobs)
	}()

	best := rowBest{}
	for y := 0; y < h; y++ {
		next := <-results
		if next.found && (!best.found || next.count > best.count) {
			best = next
		}
	}
	if !best.found {
		// the filled region always has a frontier while pixels remain
		return 0, 0, synthesisErrorf("no edge pixel found with %d pixels remaining", ps.remaining())
	}
	return best.x, best.y, nil
}

func (ps *PixelSearch) remaining() int {
	count := 0
	for _, filled := range ps.mask {
		if !filled {
			count++
		}
	}
	return count
}

type pixelCandidate struct {
	x, y int
	err  float64
}

// synthesizePixel searches the whole exemplar for the neighborhood that
// matches the window around the target position best and returns the color
// of a near-optimal match. Candidates within the tolerance band of the best
// error stay in the pool, the final pick among the pool is uniformly
// random.
func (ps *PixelSearch) synthesizePixel(tx, ty int) (RGB, error) {
	bounds := ps.source.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	numRoutines := ps.params.NumRoutines
	if numRoutines <= 0 {
		numRoutines = 1
	}

	// one job per exemplar row, each worker writes only its own row slot
	rows := make([][]pixelCandidate, srcH)
	jobs := make(chan int, BufferSize)
	rowDone := make(chan error, BufferSize)

	for r := 0; r < numRoutines; r++ {
		go func() {
			for sy := range jobs {
				var rowErr error
				row := make([]pixelCandidate, 0, srcW)
				for sx := 0; sx < srcW; sx++ {
					mean, ok := ps.neighborhoodError(tx, ty, sx, sy)
					if !ok {
						continue
					}
					val, valErr := NewOrderedFloat(mean)
					if valErr != nil {
						log.WithFields(log.Fields{
							log.ErrorKey: valErr,
							"sourceX":    sx,
							"sourceY":    sy,
						}).Error("Can't compute neighborhood error")
						if rowErr == nil {
							rowErr = valErr
						}
						continue
					}
					row = append(row, pixelCandidate{x: sx, y: sy, err: val.Float64()})
				}
				rows[sy] = row
				rowDone <- rowErr
			}
		}()
	}

	go func() {
		for sy := 0; sy < srcH; sy++ {
			jobs <- sy
		}
		close(jobs)
	}()

	var err error
	for sy := 0; sy < srcH; sy++ {
		nextErr := <-rowDone
		if nextErr != nil && err == nil {
			err = nextErr
		}
	}
	if err != nil {
		return RGB{}, err
	}

	// reduce over the finished results: minimum first, then the tolerance
	// band filter against the final minimum
	best := -1.0
	numCandidates := 0
	for _, row := range rows {
		numCandidates += len(row)
		for _, c := range row {
			if best < 0.0 || c.err < best {
				best = c.err
			}
		}
	}
	if numCandidates == 0 {
		return RGB{}, synthesisErrorf("no candidate neighborhood overlaps filled pixels at (%d, %d)", tx, ty)
	}

	bound := best * (1.0 + CandidateTolerance)
	kept := make([]pixelCandidate, 0)
	for _, row := range rows {
		for _, c := range row {
			if c.err <= bound {
				kept = append(kept, c)
			}
		}
	}
	ps.randGen.Shuffle(len(kept), func(i, j int) {
		kept[i], kept[j] = kept[j], kept[i]
	})
	pick := kept[0]
	return rgbAt(ps.source, pick.x, pick.y), nil
}

// neighborhoodError compares the window centered on the exemplar position
// (sx, sy) with the window centered on the target position (tx, ty). Only
// offsets that fall inside both images and hit an already filled output
// pixel enter the mean, the window is truncated asymmetrically near all
// four borders on both sides. The second return value is false if no offset
// qualifies, such candidates are excluded entirely.
func (ps *PixelSearch) neighborhoodError(tx, ty, sx, sy int) (float64, bool) {
	d := (ps.params.WindowSize - 1) / 2
	srcBounds := ps.source.Bounds()
	w, h := ps.params.Width, ps.params.Height

	var errSum float64
	num := 0
	for wy := -d; wy <= d; wy++ {
		syy := sy + wy
		tyy := ty + wy
		if syy < srcBounds.Min.Y || syy >= srcBounds.Max.Y || tyy < 0 || tyy >= h {
			continue
		}
		for wx := -d; wx <= d; wx++ {
			sxx := sx + wx
			txx := tx + wx
			if sxx < srcBounds.Min.X || sxx >= srcBounds.Max.X || txx < 0 || txx >= w {
				continue
			}
			if !ps.maskAt(txx, tyy) {
				continue
			}
			errSum += EuclideanDistance(rgbAt(ps.source, sxx, syy), rgbAt(ps.buffer, txx, tyy))
			num++
		}
	}
	if num == 0 {
		return 0.0, false
	}
	return errSum / float64(num), true
}
