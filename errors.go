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
)

// InvalidArgumentsError is returned when engine parameters violate their
// contract (zero sizes, even window size, out-of-bounds seeds and so on).
// Validation happens before any image work begins, arguments are never
// silently corrected.
type InvalidArgumentsError struct {
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments: %s", e.Reason)
}

// invalidArgumentsf returns a new InvalidArgumentsError with a formatted
// reason.
func invalidArgumentsf(format string, args ...interface{}) error {
	return &InvalidArgumentsError{Reason: fmt.Sprintf(format, args...)}
}

// SynthesisError reports an invariant violation during a synthesis run,
// for example an empty candidate pool or a metric producing NaN. These
// must not occur for valid parameters, they're reported instead of
// aborting the process.
type SynthesisError struct {
	Reason string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed: %s", e.Reason)
}

func synthesisErrorf(format string, args ...interface{}) error {
	return &SynthesisError{Reason: fmt.Sprintf(format, args...)}
}
