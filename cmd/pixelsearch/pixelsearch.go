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

package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	// These anonymous imports register handlers for jpg and png files, that
	// is the decode method from the image package can now read these files.
	_ "image/jpeg"
	_ "image/png"

	// Since we're not in the texsyn package we have to import it
	"github.com/Robzz/TexSyn"

	"github.com/google/uuid"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
)

func main() {
	size := flag.String("size", "1024x1024", "Output image size in the form WxH, a single number means square")
	windowSize := flag.Int("window", 15, "Search window size, must be odd")
	seedX := flag.Int("seed-x", -1, "X coordinate of the seed block, random if negative")
	seedY := flag.Int("seed-y", -1, "Y coordinate of the seed block, random if negative")
	routines := flag.Int("routines", runtime.NumCPU()*2, "Number of goroutines used for the neighborhood search")
	plain := flag.Bool("plain", false, "Print progress to stdout instead of the structured log")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[flags] <INPUT> [OUTPUT]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	inFile := flag.Arg(0)
	outFile := fmt.Sprintf("search-%s.png", uuid.New().String())
	if flag.NArg() > 1 {
		outFile = flag.Arg(1)
	}

	sizeSpec := *size
	if !strings.Contains(sizeSpec, "x") {
		sizeSpec = sizeSpec + "x" + sizeSpec
	}
	width, height, dimErr := texsyn.ParseDimensions(sizeSpec)
	if dimErr != nil {
		log.Fatal("Invalid size: ", dimErr)
	}
	var seedCoords *image.Point
	if *seedX >= 0 && *seedY >= 0 {
		seedCoords = &image.Point{X: *seedX, Y: *seedY}
	}

	img := decodeImage(inFile)
	params, paramsErr := texsyn.NewPixelSearchParams(width, height, *windowSize, seedCoords)
	if paramsErr != nil {
		log.Fatal(paramsErr)
	}
	params.NumRoutines = *routines
	if *plain {
		params.Progress = texsyn.StdProgressFunc(os.Stdout, "Synthesizing", width*height, 1000)
	} else {
		params.Progress = texsyn.LoggerProgressFunc("Synthesizing", width*height, 1000)
	}

	search, searchErr := texsyn.NewPixelSearch(img, params)
	if searchErr != nil {
		log.Fatal(searchErr)
	}
	res, synthErr := search.Synthesize()
	if synthErr != nil {
		log.Fatal(synthErr)
	}
	writePNG(outFile, res)
}

func decodeImage(path string) image.Image {
	expanded, expandErr := homedir.Expand(path)
	if expandErr != nil {
		log.Fatal("Can't expand path: ", expandErr)
	}
	if ext := filepath.Ext(expanded); !texsyn.JPGAndPNG(ext) {
		log.Fatalf("Unsupported image type %q, only jpg and png files are supported", ext)
	}
	r, openErr := os.Open(expanded)
	if openErr != nil {
		log.Fatal("Can't open file: ", openErr)
	}
	defer r.Close()
	img, _, decodeErr := image.Decode(r)
	if decodeErr != nil {
		log.Fatal("Error parsing image: ", decodeErr)
	}
	return img
}

func writePNG(path string, img image.Image) {
	expanded, expandErr := homedir.Expand(path)
	if expandErr != nil {
		log.Fatal("Can't expand path: ", expandErr)
	}
	w, createErr := os.Create(expanded)
	if createErr != nil {
		log.Fatal("Can't create file: ", createErr)
	}
	defer w.Close()
	if encodeErr := png.Encode(w, img); encodeErr != nil {
		log.Fatal("Error writing image: ", encodeErr)
	}
	log.Info("Wrote result to ", expanded)
}
