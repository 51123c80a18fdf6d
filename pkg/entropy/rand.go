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

package entropy

import (
	"math"
	"math/rand/v2"
)

// DefaultMaxBytes bounds the length of byte strings handed out by Rand.
const DefaultMaxBytes = 64

// Rand is a Source backed by a seeded ChaCha8 stream. It hands out at most
// budget draws before reporting ErrExhausted, mirroring the finite supply of
// a Buffer.
type Rand struct {
	r        *rand.Rand
	budget   int
	maxBytes int
}

var _ Source = (*Rand)(nil)

// NewRand returns a Rand seeded with seed that allows budget draws.
func NewRand(seed [32]byte, budget int) *Rand {
	return &Rand{
		r:        rand.New(rand.NewChaCha8(seed)),
		budget:   budget,
		maxBytes: DefaultMaxBytes,
	}
}

// SeedFromInt expands a small integer seed into a ChaCha8 key.
func SeedFromInt(seed uint64) [32]byte {
	var out [32]byte
	for i := 0; i < 8; i++ {
		out[i] = byte(seed >> (8 * i))
	}
	return out
}

func (r *Rand) spend() error {
	if r.budget <= 0 {
		return ErrExhausted
	}
	r.budget--
	return nil
}

func (r *Rand) IntInRange(lo, hi uint64) (uint64, error) {
	if lo > hi {
		panic("entropy: invalid range")
	}
	if lo == hi {
		return lo, nil
	}
	if err := r.spend(); err != nil {
		return 0, err
	}
	if hi-lo == math.MaxUint64 {
		return r.r.Uint64(), nil
	}
	return lo + r.r.Uint64N(hi-lo+1), nil
}

func (r *Rand) Bytes() ([]byte, error) {
	if err := r.spend(); err != nil {
		return nil, err
	}
	out := make([]byte, r.r.IntN(r.maxBytes+1))
	for i := range out {
		out[i] = byte(r.r.Uint32())
	}
	return out, nil
}

func (r *Rand) Choose(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyChoice
	}
	i, err := r.IntInRange(0, uint64(n-1))
	return int(i), err
}

func (r *Rand) Bool() (bool, error) {
	if err := r.spend(); err != nil {
		return false, err
	}
	return r.r.Uint32()&1 == 1, nil
}
