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
	"image/png"
	"math"
	"os"
)

const (
	// pyramidSigma is the standard deviation of the gaussian blur applied
	// before each downsampling step.
	pyramidSigma = 3.0
)

// GaussianPyramid is a multiresolution helper: a sequence of progressively
// downsampled, blurred versions of a base image. Each sublevel halves both
// dimensions, so the base image dimensions must be powers of two and large
// enough for the requested number of levels.
type GaussianPyramid struct {
	base      *image.RGBA
	sublevels []*image.RGBA
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NewGaussianPyramid builds a pyramid with the given number of sublevels
// below the base image. The resizer performs the halving, blurring happens
// before every downsampling step. Use DefaultResizer if in doubt.
func NewGaussianPyramid(base image.Image, levels int, resizer ImageResizer) (*GaussianPyramid, error) {
	baseRGBA := ToRGBA(base)
	bounds := baseRGBA.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if !isPowerOfTwo(width) || !isPowerOfTwo(height) {
		return nil, invalidArgumentsf("image dimensions must be powers of 2, got %dx%d", width, height)
	}
	if levels < 0 {
		return nil, invalidArgumentsf("number of levels must not be negative, got %d", levels)
	}
	minDim := MinInt(width, height)
	if math.Log2(float64(minDim)) < float64(levels) {
		return nil, invalidArgumentsf("too many levels (%d) for image size %dx%d", levels, width, height)
	}

	sublevels := make([]*image.RGBA, 0, levels)
	current := baseRGBA
	for i := 0; i < levels; i++ {
		blurred := gaussianBlurRGBA(current, pyramidSigma)
		currentBounds := blurred.Bounds()
		downsampled := resizer.Resize(uint(currentBounds.Dx()/2), uint(currentBounds.Dy()/2), blurred)
		current = ToRGBA(downsampled)
		sublevels = append(sublevels, current)
	}
	return &GaussianPyramid{base: baseRGBA, sublevels: sublevels}, nil
}

// Base returns the base image of the pyramid.
func (p *GaussianPyramid) Base() *image.RGBA {
	return p.base
}

// NumLevels returns the number of sublevels below the base image.
func (p *GaussianPyramid) NumLevels() int {
	return len(p.sublevels)
}

// Level returns sublevel i, level 0 is the first image below the base.
func (p *GaussianPyramid) Level(i int) *image.RGBA {
	return p.sublevels[i]
}

// Save writes the base image and all sublevels as png files, the file names
// are derived from pathBase.
func (p *GaussianPyramid) Save(pathBase string) error {
	if err := savePNG(fmt.Sprintf("%s_base.png", pathBase), p.base); err != nil {
		return err
	}
	for i, img := range p.sublevels {
		if err := savePNG(fmt.Sprintf("%s_%d.png", pathBase, i), img); err != nil {
			return err
		}
	}
	return nil
}

func savePNG(path string, img image.Image) error {
	f, openErr := os.Create(path)
	if openErr != nil {
		return openErr
	}
	defer f.Close()
	return png.Encode(f, img)
}

// gaussianKernel returns a normalized 1-D gaussian kernel for the given
// standard deviation, the radius covers three standard deviations.
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3.0 * sigma))
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := range kernel {
		x := float64(i - radius)
		kernel[i] = math.Exp(-(x * x) / (2.0 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianBlurRGBA blurs an image with a separable gaussian kernel, one
// horizontal and one vertical pass. The kernel is clamped at the image
// edges.
func gaussianBlurRGBA(img *image.RGBA, sigma float64) *image.RGBA {
	kernel := gaussianKernel(sigma)
	radius := (len(kernel) - 1) / 2
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	clamp := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v >= max {
			return max - 1
		}
		return v
	}

	horizontal := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b float64
			for k, weight := range kernel {
				c := rgbAt(img, bounds.Min.X+clamp(x+k-radius, width), bounds.Min.Y+y)
				r += weight * float64(c.R)
				g += weight * float64(c.G)
				b += weight * float64(c.B)
			}
			setRGB(horizontal, x, y, NewRGB(uint8(r+0.5), uint8(g+0.5), uint8(b+0.5)))
		}
	}

	res := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b float64
			for k, weight := range kernel {
				c := rgbAt(horizontal, x, clamp(y+k-radius, height))
				r += weight * float64(c.R)
				g += weight * float64(c.G)
				b += weight * float64(c.B)
			}
			setRGB(res, x, y, NewRGB(uint8(r+0.5), uint8(g+0.5), uint8(b+0.5)))
		}
	}
	return res
}
