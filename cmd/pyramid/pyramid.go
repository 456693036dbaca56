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
	"os"

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
	levels := flag.Int("levels", 4, "Number of pyramid sublevels")
	quality := flag.Uint("quality", 3, "Resize interpolation quality between 0 and 5")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[flags] <INPUT> [OUTPUT-BASE]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	inFile := flag.Arg(0)
	outBase := fmt.Sprintf("pyramid-%s", uuid.New().String())
	if flag.NArg() > 1 {
		outBase = flag.Arg(1)
	}

	expanded, expandErr := homedir.Expand(inFile)
	if expandErr != nil {
		log.Fatal("Can't expand path: ", expandErr)
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

	resizer := texsyn.NewNfntResizer(texsyn.GetInterP(*quality))
	pyramid, pyrErr := texsyn.NewGaussianPyramid(img, *levels, resizer)
	if pyrErr != nil {
		log.Fatal(pyrErr)
	}
	outExpanded, outErr := homedir.Expand(outBase)
	if outErr != nil {
		log.Fatal("Can't expand path: ", outErr)
	}
	if saveErr := pyramid.Save(outExpanded); saveErr != nil {
		log.Fatal("Error writing pyramid: ", saveErr)
	}
	log.Infof("Wrote base image and %d sublevels to %s_*.png", pyramid.NumLevels(), outExpanded)
}
