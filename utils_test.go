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
	"bytes"
	"testing"
)

// TestStdProgressFunc checks that the reports land on the given writer and
// only on multiples of the step.
func TestStdProgressFunc(t *testing.T) {
	var buf bytes.Buffer
	progress := StdProgressFunc(&buf, "Test", 10, 5)
	for num := 1; num <= 10; num++ {
		progress(num)
	}
	expected := "Test: 5 of 10 (50.0%)\nTest: 10 of 10 (100.0%)\n"
	if got := buf.String(); got != expected {
		t.Errorf("Expected output %q, got %q", expected, got)
	}

	buf.Reset()
	silent := StdProgressFunc(&buf, "Test", 10, 0)
	silent(5)
	if buf.Len() != 0 {
		t.Errorf("Expected no output for step 0, got %q", buf.String())
	}
}

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		input         string
		width, height int
	}{
		{"1024x1024", 1024, 1024},
		{"640x480", 640, 480},
		{"1x1", 1, 1},
	}
	for _, tc := range tests {
		width, height, err := ParseDimensions(tc.input)
		if err != nil {
			t.Errorf("ParseDimensions(%q): unexpected error %v", tc.input, err)
			continue
		}
		if width != tc.width || height != tc.height {
			t.Errorf("ParseDimensions(%q): expected %dx%d, got %dx%d",
				tc.input, tc.width, tc.height, width, height)
		}
	}
	for _, input := range []string{"", "1024", "x480", "640x", "640x480x3", "axb", "0x100", "-5x100"} {
		if _, _, err := ParseDimensions(input); err == nil {
			t.Errorf("ParseDimensions(%q): expected an error", input)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct {
		a, b, expected int
	}{
		{10, 5, 2},
		{11, 5, 3},
		{1, 5, 1},
		{0, 5, 0},
		{52, 52, 1},
		{53, 52, 2},
	}
	for _, tc := range tests {
		if got := CeilDiv(tc.a, tc.b); got != tc.expected {
			t.Errorf("CeilDiv(%d, %d): expected %d, got %d", tc.a, tc.b, tc.expected, got)
		}
	}
}

func TestMinMaxInt(t *testing.T) {
	if got := MinInt(3, 7); got != 3 {
		t.Errorf("MinInt(3, 7): expected 3, got %d", got)
	}
	if got := MinInt(7, 3); got != 3 {
		t.Errorf("MinInt(7, 3): expected 3, got %d", got)
	}
	if got := MaxInt(-2, -8); got != -2 {
		t.Errorf("MaxInt(-2, -8): expected -2, got %d", got)
	}
	if got := MaxInt(5, 5); got != 5 {
		t.Errorf("MaxInt(5, 5): expected 5, got %d", got)
	}
}
