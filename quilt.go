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
	// CandidateTolerance is the tolerance band of candidate selection: every
	// candidate whose error is within the minimum error times
	// (1 + CandidateTolerance) stays in the pool, the final pick among them
	// is random. This injects controlled randomness to avoid visible
	// repetition in the output.
	CandidateTolerance = 0.1
)

// QuilterParams are the parameters of the patch quilting engine.
// Use NewQuilterParams to create validated parameters.
type QuilterParams struct {
	// Width and Height of the synthesized image, both must be non-zero.
	Width, Height int

	// PatchSize is the side length of the square patches sampled from the
	// exemplar. It must be at least twice the overlap.
	PatchSize int

	// Overlap is the width of the band in which a new patch overlaps
	// already synthesized content, must be non-zero.
	Overlap int

	// SeedCoords are the optional coordinates of the first patch in the
	// exemplar. If nil a uniformly random in-bounds location is used.
	SeedCoords *image.Point

	// SelectionChance enables probabilistic candidate search: each anchor
	// position takes part in a search pass with this probability. Zero
	// means exhaustive search. If set it must be in (0, 1].
	SelectionChance float64

	// Metric is the pixel distance function used for candidate scoring and
	// error surfaces.
	Metric PixelMetric

	// NumRoutines is the number of goroutines scoring candidates
	// concurrently. Values < 1 are treated as 1.
	NumRoutines int

	// Rand is the random source for seed placement, probabilistic search
	// and the pick among near-optimal candidates. If nil a time-seeded
	// source is created. Supplying a fixed source makes a run fully
	// deterministic.
	//
	// Note that rand.Rand instances are not safe for concurrent use, all
	// draws happen on the orchestrating goroutine.
	Rand *rand.Rand

	// Progress is called after every placed patch. May be nil.
	Progress ProgressFunc
}

// NewQuilterParams validates and returns quilting parameters. Each contract
// violation fails with a distinct InvalidArgumentsError. The seed
// coordinates can only be fully checked once the exemplar is known, this
// happens in Quilt.
func NewQuilterParams(width, height, patchSize, overlap int,
	seedCoords *image.Point, selectionChance float64, metric PixelMetric) (*QuilterParams, error) {
	if width <= 0 || height <= 0 {
		return nil, invalidArgumentsf("output dimensions must be non-zero, got %dx%d", width, height)
	}
	if overlap <= 0 {
		return nil, invalidArgumentsf("overlap must be non-zero")
	}
	if patchSize < 2*overlap {
		return nil, invalidArgumentsf("patch size must be at least twice the overlap, got patch size %d and overlap %d",
			patchSize, overlap)
	}
	if selectionChance < 0.0 || selectionChance > 1.0 {
		return nil, invalidArgumentsf("selection chance must be in (0, 1], got %f", selectionChance)
	}
	if seedCoords != nil && (seedCoords.X < 0 || seedCoords.Y < 0) {
		return nil, invalidArgumentsf("seed coordinates must not be negative, got %v", *seedCoords)
	}
	if metric == nil {
		return nil, invalidArgumentsf("no pixel metric given")
	}
	return &QuilterParams{
		Width:           width,
		Height:          height,
		PatchSize:       patchSize,
		Overlap:         overlap,
		SeedCoords:      seedCoords,
		SelectionChance: selectionChance,
		Metric:          metric,
	}, nil
}

// Quilter implements patch quilting texture synthesis in the style of Efros
// and Freeman: the output is grown patch by patch in raster order, every new
// patch is a near-optimal match for the content it overlaps and gets grafted
// onto the buffer along a minimum error seam.
//
// A Quilter owns its working buffer exclusively for the duration of a Quilt
// call, the exemplar is only read. Instances are not safe for concurrent
// use, run one synthesis at a time.
type Quilter struct {
	source  *image.RGBA
	params  *QuilterParams
	buffer  *image.RGBA
	randGen *rand.Rand
}

// NewQuilter returns a new quilter for the given exemplar.
func NewQuilter(source image.Image, params *QuilterParams) *Quilter {
	randGen := params.Rand
	if randGen == nil {
		randGen = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Quilter{
		source:  ToRGBA(source),
		params:  params,
		randGen: randGen,
	}
}

// validateSource checks the parameters against the actual exemplar
// dimensions: the patch must fit entirely inside the exemplar and so must
// the seed patch if explicit coordinates were given.
func (q *Quilter) validateSource() error {
	bounds := q.source.Bounds()
	if q.params.PatchSize > bounds.Dx() || q.params.PatchSize > bounds.Dy() {
		return invalidArgumentsf("patch size %d exceeds source dimensions %dx%d",
			q.params.PatchSize, bounds.Dx(), bounds.Dy())
	}
	if coords := q.params.SeedCoords; coords != nil {
		seed := NewPatch(coords.X, coords.Y, q.params.PatchSize)
		if !RectInBounds(q.source, seed.Rect()) {
			return invalidArgumentsf("seed patch %v is outside the source image", seed.Rect())
		}
	}
	return nil
}

// Quilt runs the synthesis and returns an image of exactly the requested
// size. The working buffer carries one patch of margin in each dimension to
// absorb the last partial patch and is cropped before returning.
func (q *Quilter) Quilt() (image.Image, error) {
	if err := q.validateSource(); err != nil {
		return nil, err
	}
	params := q.params
	step := params.PatchSize - params.Overlap
	xPatches := CeilDiv(params.Width, step)
	yPatches := CeilDiv(params.Height, step)

	q.buffer = image.NewRGBA(image.Rect(0, 0,
		params.Width+params.PatchSize, params.Height+params.PatchSize))

	// place the seed patch in the top left corner
	seed := q.seedPatch()
	BlitRect(q.buffer, q.source, image.Rect(0, 0, seed.Size, seed.Size), seed.Rect())

	progress := params.Progress
	if progress == nil {
		progress = ProgressIgnore
	}
	numDone := 1
	progress(numDone)

	for py := 0; py < yPatches; py++ {
		for px := 0; px < xPatches; px++ {
			if px == 0 && py == 0 {
				continue
			}
			area := overlapAreaFor(px, py)
			bx, by := px*step, py*step
			candidate, candErr := q.selectCandidate(bx, by, area)
			if candErr != nil {
				return nil, candErr
			}
			if Debug {
				if !RectInBounds(q.source, candidate.Rect()) {
					log.Warn("Got candidate patch", candidate.Rect(),
						"outside source bounds", q.source.Bounds())
				}
			}
			surface := q.errorSurface(candidate, bx, by, area)
			q.cutAndBlit(candidate, bx, by, area, surface)
			numDone++
			progress(numDone)
		}
	}

	res, subErr := SubImage(q.buffer, image.Rect(0, 0, params.Width, params.Height))
	if subErr != nil {
		return nil, subErr
	}
	q.buffer = nil
	return res, nil
}

// seedPatch returns the patch the synthesis starts from, either the
// explicit seed coordinates or a uniformly random in-bounds location.
func (q *Quilter) seedPatch() Patch {
	size := q.params.PatchSize
	if coords := q.params.SeedCoords; coords != nil {
		return NewPatch(coords.X, coords.Y, size)
	}
	bounds := q.source.Bounds()
	x := q.randGen.Intn(bounds.Dx() - size + 1)
	y := q.randGen.Intn(bounds.Dy() - size + 1)
	return NewPatch(x, y, size)
}

// candidateError is the total error of the candidate patch at (ax, ay)
// against the buffer content it would overlap at (bx, by). The overlap
// bands are scored with PatchRectError, for the top left case the corner
// block is part of the top band and must not be counted twice.
func (q *Quilter) candidateError(ax, ay, bx, by int, area OverlapArea) float64 {
	metric := q.params.Metric
	size := q.params.PatchSize
	overlap := q.params.Overlap
	switch area {
	case OverlapTop:
		return PatchRectError(metric, q.source, q.buffer,
			image.Pt(ax, ay), image.Pt(bx, by), image.Pt(size, overlap))
	case OverlapLeft:
		return PatchRectError(metric, q.source, q.buffer,
			image.Pt(ax, ay), image.Pt(bx, by), image.Pt(overlap, size))
	default:
		top := PatchRectError(metric, q.source, q.buffer,
			image.Pt(ax, ay), image.Pt(bx, by), image.Pt(size, overlap))
		left := PatchRectError(metric, q.source, q.buffer,
			image.Pt(ax, ay+overlap), image.Pt(bx, by+overlap), image.Pt(overlap, size-overlap))
		return top + left
	}
}

// scoreCandidates computes the error of every anchor position against the
// buffer at (bx, by). Anchors are scored concurrently with one job per
// anchor row, every worker writes only its own slots of the result.
// If sampled is not nil only the marked anchors are scored, the slots of
// all other anchors stay at -1.
//
// The minimum and the tolerance filter run over the finished result, not
// over a running minimum inside the scan. This keeps the retained set
// independent of scheduling order.
func (q *Quilter) scoreCandidates(bx, by int, area OverlapArea, sampled []bool) ([]float64, error) {
	bounds := q.source.Bounds()
	maxX := bounds.Dx() - q.params.PatchSize
	maxY := bounds.Dy() - q.params.PatchSize
	cols := maxX + 1

	errs := make([]float64, cols*(maxY+1))
	for i := range errs {
		errs[i] = -1.0
	}

	numRoutines := q.params.NumRoutines
	if numRoutines <= 0 {
		numRoutines = 1
	}

	jobs := make(chan int, BufferSize)
	rowDone := make(chan error, BufferSize)

	for w := 0; w < numRoutines; w++ {
		go func() {
			for ay := range jobs {
				var rowErr error
				for ax := 0; ax <= maxX; ax++ {
					idx := ay*cols + ax
					if sampled != nil && !sampled[idx] {
						continue
					}
					val, valErr := NewOrderedFloat(q.candidateError(ax, ay, bx, by, area))
					if valErr != nil {
						log.WithFields(log.Fields{
							log.ErrorKey: valErr,
							"anchorX":    ax,
							"anchorY":    ay,
						}).Error("Can't compute candidate error")
						if rowErr == nil {
							rowErr = valErr
						}
						continue
					}
					errs[idx] = val.Float64()
				}
				rowDone <- rowErr
			}
		}()
	}

	go func() {
		for ay := 0; ay <= maxY; ay++ {
			jobs <- ay
		}
		close(jobs)
	}()

	var err error
	for ay := 0; ay <= maxY; ay++ {
		nextErr := <-rowDone
		if nextErr != nil && err == nil {
			err = nextErr
		}
	}
	if err != nil {
		return nil, err
	}
	return errs, nil
}

// selectCandidate picks the patch to place at buffer position (bx, by).
// All anchor positions (exhaustive mode) or a random subset of them
// (probabilistic mode) are scored, every candidate within the tolerance
// band of the best one stays in the pool and the final pick among the pool
// is uniformly random.
func (q *Quilter) selectCandidate(bx, by int, area OverlapArea) (Patch, error) {
	bounds := q.source.Bounds()
	size := q.params.PatchSize
	maxX := bounds.Dx() - size
	maxY := bounds.Dy() - size
	cols := maxX + 1
	numAnchors := cols * (maxY + 1)

	var errs []float64
	if q.params.SelectionChance == 0.0 {
		var scoreErr error
		errs, scoreErr = q.scoreCandidates(bx, by, area, nil)
		if scoreErr != nil {
			return Patch{}, scoreErr
		}
	} else {
		// sample anchors until at least one took part, a very low chance
		// must not produce an empty pool
		sampled := make([]bool, numAnchors)
		for {
			any := false
			for i := range sampled {
				sampled[i] = q.randGen.Float64() < q.params.SelectionChance
				any = any || sampled[i]
			}
			if any {
				break
			}
		}
		var scoreErr error
		errs, scoreErr = q.scoreCandidates(bx, by, area, sampled)
		if scoreErr != nil {
			return Patch{}, scoreErr
		}
	}

	best := -1.0
	for _, e := range errs {
		if e < 0.0 {
			continue
		}
		if best < 0.0 || e < best {
			best = e
		}
	}
	if best < 0.0 {
		return Patch{}, synthesisErrorf("candidate pool is empty")
	}

	bound := best * (1.0 + CandidateTolerance)
	kept := make([]int, 0)
	for i, e := range errs {
		if e >= 0.0 && e <= bound {
			kept = append(kept, i)
		}
	}
	q.randGen.Shuffle(len(kept), func(i, j int) {
		kept[i], kept[j] = kept[j], kept[i]
	})
	idx := kept[0]
	return NewPatch(idx%cols, idx/cols, size), nil
}

// errorSurface computes the per-pixel distances between the candidate patch
// and the buffer content it overlaps at (bx, by). Only the offsets inside
// the overlap region(s) are filled.
func (q *Quilter) errorSurface(candidate Patch, bx, by int, area OverlapArea) *ErrorSurface {
	es := NewErrorSurface(q.params.PatchSize, q.params.Overlap)
	metric := q.params.Metric
	forEachOverlapOffset(area, es.size, es.overlap, func(dx, dy int) {
		c := rgbAt(q.source, candidate.X+dx, candidate.Y+dy)
		b := rgbAt(q.buffer, bx+dx, by+dy)
		es.Set(dx, dy, metric(c, b))
	})
	return es
}

// cutAndBlit grafts the candidate patch onto the buffer at (bx, by) along
// the minimum error seam(s) of the surface. Pixels on or past a seam are
// taken from the candidate, the rest keeps the existing buffer content.
// For the top left case both seams are computed over the same surface and
// reconciled in the shared corner block: a pixel comes from the candidate
// only if it lies at or beyond both seams.
func (q *Quilter) cutAndBlit(candidate Patch, bx, by int, area OverlapArea, es *ErrorSurface) {
	size := q.params.PatchSize

	var vSeam, hSeam []int
	switch area {
	case OverlapLeft:
		vSeam = es.VerticalSeam()
	case OverlapTop:
		hSeam = es.HorizontalSeam()
	case OverlapTopLeft:
		vSeam = es.VerticalSeam()
		hSeam = es.HorizontalSeam()
	}

	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			if vSeam != nil && dx < vSeam[dy] {
				continue
			}
			if hSeam != nil && dy < hSeam[dx] {
				continue
			}
			c := rgbAt(q.source, candidate.X+dx, candidate.Y+dy)
			setRGB(q.buffer, bx+dx, by+dy, c)
		}
	}
}
