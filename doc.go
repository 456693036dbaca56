// Package texsyn synthesizes large texture images from a small exemplar
// image. The output is visually coherent with the exemplar but not a simple
// tiling of it.
//
// Two engines are provided: a patch quilting engine (Quilter) that stitches
// exemplar-sized patches together along minimum-error seams, and a slower
// pixel search engine (PixelSearch) that grows the output one pixel at a
// time by matching local neighborhoods against the exemplar.
//
// Different pixel metrics can be used to compare colors, the quilting engine
// takes the metric as a parameter.
//
// It ships with executable programs to run both engines on image files.
package texsyn
