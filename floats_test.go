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
	"errors"
	"math"
	"sort"
	"testing"
)

func TestNewOrderedFloat(t *testing.T) {
	f, err := NewOrderedFloat(72.0)
	if err != nil {
		t.Fatal("Expected no error for a regular float, got", err)
	}
	if f.Float64() != 72.0 {
		t.Errorf("Expected wrapped value 72, got %f", f.Float64())
	}
}

func TestNewOrderedFloatNaN(t *testing.T) {
	_, err := NewOrderedFloat(math.NaN())
	if err == nil {
		t.Fatal("Expected an error for NaN")
	}
	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) {
		t.Errorf("Expected a SynthesisError, got %T", err)
	}
}

func TestOrderedFloatOrdering(t *testing.T) {
	small, _ := NewOrderedFloat(1.0)
	big, _ := NewOrderedFloat(2.0)
	if !small.Less(big) {
		t.Error("Expected 1 < 2")
	}
	if big.Less(small) {
		t.Error("Did not expect 2 < 1")
	}
	if small.Less(small) {
		t.Error("Did not expect 1 < 1")
	}
}

func TestOrderedFloatAdd(t *testing.T) {
	a, _ := NewOrderedFloat(1.5)
	b, _ := NewOrderedFloat(2.25)
	if got := a.Add(b).Float64(); got != 3.75 {
		t.Errorf("Expected 3.75, got %f", got)
	}
}

func TestOrderedFloatSortKey(t *testing.T) {
	values := []float64{3.0, 1.0, 2.0, 0.5}
	keys := make([]OrderedFloat, len(values))
	for i, v := range values {
		key, err := NewOrderedFloat(v)
		if err != nil {
			t.Fatal(err)
		}
		keys[i] = key
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
	expected := []float64{0.5, 1.0, 2.0, 3.0}
	for i, key := range keys {
		if key.Float64() != expected[i] {
			t.Fatalf("Expected sorted order %v, got %v at index %d", expected, key.Float64(), i)
		}
	}
}
