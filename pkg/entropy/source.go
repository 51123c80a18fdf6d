// Copyright 2026 Chainguard, Inc.
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

// Package entropy supplies the decisions that drive tree generation.
//
// A Source hands out bounded integers, byte strings, choices and booleans
// from a finite supply. Once the supply runs dry every draw that needs more
// input fails with ErrExhausted.
package entropy

import "errors"

var (
	// ErrExhausted is returned when a draw needs input and none is left.
	ErrExhausted = errors.New("entropy: input exhausted")

	// ErrEmptyChoice is returned by Choose when there is nothing to choose from.
	ErrEmptyChoice = errors.New("entropy: choose from an empty set")
)

// Source is a finite supply of decisions.
type Source interface {
	// IntInRange returns a value in the inclusive range [lo, hi].
	IntInRange(lo, hi uint64) (uint64, error)
	// Bytes returns a byte string of arbitrary length.
	Bytes() ([]byte, error)
	// Choose returns an index in [0, n).
	Choose(n int) (int, error)
	Bool() (bool, error)
}
