// Copyright 2015 Matthew Holt and The Caddy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package protoselect

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, one per failure category this package can
// report. Wrap these with
// fmt.Errorf("...: %w", ...) rather than constructing ad hoc errors so
// that errors.Is classification keeps working for callers.
var (
	// ErrNoMemory: allocation failed. Propagated; caller aborts the
	// selection.
	ErrNoMemory = errors.New("protoselect: allocation failed")

	// ErrNoElem: no protocol initialized successfully for these
	// parameters. Propagated; debug-logged with the parameter string.
	ErrNoElem = errors.New("protoselect: no protocol supports these parameters")

	// ErrUnsupported: at some message length the valid mask collapsed
	// to empty due to overrides. Propagated; warn-logged with the
	// parameter string and the offending message length.
	ErrUnsupported = errors.New("protoselect: no protocol valid at this message length")
)

// unsupportedAt wraps ErrUnsupported with the message length at which
// narrowing failed, for the warn log.
func unsupportedAt(msgLength uint64) error {
	return fmt.Errorf("%w (msg_length=%d)", ErrUnsupported, msgLength)
}
