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
)

// OrderedFloat wraps a float64 and guarantees that the wrapped value is not
// NaN. This gives the values a total order, so they can be used as sort or
// priority keys without worrying about the NaN comparison rules.
type OrderedFloat struct {
	val float64
}

// NewOrderedFloat wraps val. If val is NaN an error of type SynthesisError
// is returned: a NaN metric value always means a broken distance function.
func NewOrderedFloat(val float64) (OrderedFloat, error) {
	if math.IsNaN(val) {
		return OrderedFloat{}, synthesisErrorf("metric produced NaN")
	}
	return OrderedFloat{val: val}, nil
}

// Float64 returns the wrapped value.
func (f OrderedFloat) Float64() float64 {
	return f.val
}

// Less returns true if f is strictly smaller than other. Since NaN values
// are rejected at construction this is a strict weak ordering.
func (f OrderedFloat) Less(other OrderedFloat) bool {
	return f.val < other.val
}

// Add returns the sum of two ordered floats. Adding two non-NaN floats
// can't produce NaN, so no check is required.
func (f OrderedFloat) Add(other OrderedFloat) OrderedFloat {
	return OrderedFloat{val: f.val + other.val}
}
