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
	"bytes"
	"fmt"
	"math"
)

// Buffer is a Source that consumes a fixed byte slice, typically the input
// handed to a fuzz target.
type Buffer struct {
	data []byte
}

var _ Source = (*Buffer)(nil)

// NewBuffer returns a Buffer reading from data. The slice is not copied.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Len reports how many bytes are left.
func (b *Buffer) Len() int { return len(b.data) }

// IntInRange reads just enough big-endian bytes to cover hi-lo and reduces
// the result into range. A degenerate range consumes nothing. A short read
// uses whatever was available; a read that finds no bytes at all fails.
func (b *Buffer) IntInRange(lo, hi uint64) (uint64, error) {
	if lo > hi {
		panic(fmt.Sprintf("entropy: invalid range [%d, %d]", lo, hi))
	}
	span := hi - lo
	if span == 0 {
		return lo, nil
	}
	v, n := reduce(span, b.data)
	if n == 0 {
		return 0, ErrExhausted
	}
	b.data = b.data[n:]
	return lo + v, nil
}

// Bytes draws the length from the tail of the buffer and the content from
// the front, so the two never compete for the same bytes.
func (b *Buffer) Bytes() ([]byte, error) {
	if len(b.data) == 0 {
		return nil, ErrExhausted
	}

	var width int
	switch n := len(b.data); {
	case n <= math.MaxUint8+1:
		width = 1
	case n <= math.MaxUint16+1:
		width = 2
	default:
		width = 4
	}

	limit := len(b.data) - width
	size, _ := reduce(uint64(limit), b.data[limit:])
	b.data = b.data[:limit]

	out := bytes.Clone(b.data[:size])
	b.data = b.data[size:]
	return out, nil
}

func (b *Buffer) Choose(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyChoice
	}
	i, err := b.IntInRange(0, uint64(n-1))
	if err != nil {
		return 0, err
	}
	return int(i), nil
}

func (b *Buffer) Bool() (bool, error) {
	if len(b.data) == 0 {
		return false, ErrExhausted
	}
	v := b.data[0]
	b.data = b.data[1:]
	return v&1 == 1, nil
}

// reduce folds leading bytes of src into a value in [0, span]. It returns
// the value and the number of bytes consumed.
func reduce(span uint64, src []byte) (uint64, int) {
	var v uint64
	n := 0
	for n < 8 && span>>(8*n) > 0 && n < len(src) {
		v = v<<8 | uint64(src[n])
		n++
	}
	if span != math.MaxUint64 {
		v %= span + 1
	}
	return v, n
}
