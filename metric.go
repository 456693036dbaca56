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
	"math"
	"strings"
)

// PixelMetric is any function that compares two pixels and returns a
// distance between them. The smaller the metric value is the more equal the
// pixels are considered. Metric values must be ≥ 0 and must never be NaN.
//
// The quilting engine takes the metric as a parameter, so alternative color
// metrics can be used without touching engine internals.
type PixelMetric func(p, q RGB) float64

// Manhattan returns the L1 distance of two pixels, that is
// |pr - qr| + |pg - qg| + |pb - qb|.
func Manhattan(p, q RGB) float64 {
	f := func(c1, c2 uint8) float64 {
		return math.Abs(float64(c1) - float64(c2))
	}
	return f(p.R, q.R) + f(p.G, q.G) + f(p.B, q.B)
}

// EuclideanDistance returns the L2 distance of two pixels, that is
// sqrt( (pr - qr)² + (pg - qg)² + (pb - qb)² ).
func EuclideanDistance(p, q RGB) float64 {
	f := func(c1, c2 uint8) float64 {
		diff := float64(c1) - float64(c2)
		return diff * diff
	}
	return math.Sqrt(f(p.R, q.R) + f(p.G, q.G) + f(p.B, q.B))
}

// The following variables are used for registering named
// metrics.

var (
	pixelMetrics map[string]PixelMetric
)

// RegisterPixelMetric is used to register a named pixel metric. It will only
// add the metric if the name does not exist yet. The result is true if the
// metric was successfully registered and false otherwise.
// Some metrics are registered by default.
// All names must be lowercase strings, the register and get
// methods will always transform a string to lowercase.
//
// All metrics should be registered by an init method.
func RegisterPixelMetric(name string, metric PixelMetric) bool {
	name = strings.ToLower(name)
	if _, has := pixelMetrics[name]; has {
		return false
	}
	pixelMetrics[name] = metric
	return true
}

// GetPixelMetricNames returns a list of all registered named pixel metrics.
// See RegisterPixelMetric for details.
func GetPixelMetricNames() []string {
	res := make([]string, 0, len(pixelMetrics))
	for key := range pixelMetrics {
		res = append(res, key)
	}
	return res
}

// GetPixelMetric returns a registered pixel metric.
// Returns the metric and true on success and nil and false otherwise.
// See RegisterPixelMetric for details.
func GetPixelMetric(name string) (PixelMetric, bool) {
	name = strings.ToLower(name)
	if metric, has := pixelMetrics[name]; has {
		return metric, true
	}
	return nil, false
}

func init() {
	pixelMetrics = make(map[string]PixelMetric)
	RegisterPixelMetric("l1", Manhattan)
	RegisterPixelMetric("manhattan", Manhattan)
	RegisterPixelMetric("l2", EuclideanDistance)
	RegisterPixelMetric("euclid", EuclideanDistance)
}
