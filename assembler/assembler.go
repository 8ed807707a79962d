// Copyright (c) 2016-2019 Uber Technologies, Inc.
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

// Package assembler writes already-verified pieces to an output sink at
// their correct byte offset. It never re-verifies a piece's hash -- that
// is the scheduler's job -- and it writes through io.WriterAt rather than
// buffering the whole file in memory, so pieces may arrive and land at
// their final position in any order without bounding torrent size to
// available memory.
package assembler

import (
	"fmt"
	"io"
	"sync"
)

// Assembler writes pieces of a fixed nominal length to an output sink,
// each at its natural offset.
type Assembler struct {
	w           io.WriterAt
	pieceLength int64

	mu      sync.Mutex
	written map[int]bool
}

// New returns an Assembler writing pieceLength-byte pieces (the final
// piece may be shorter) to w.
func New(w io.WriterAt, pieceLength int64) *Assembler {
	return &Assembler{w: w, pieceLength: pieceLength, written: make(map[int]bool)}
}

// Write writes piece index's bytes to the output sink at its offset
// index*pieceLength. Safe to call concurrently for distinct indices.
// Writing the same index a second time is an error: each piece must reach
// the assembler exactly once.
func (a *Assembler) Write(index int, data []byte) error {
	a.mu.Lock()
	if a.written[index] {
		a.mu.Unlock()
		return fmt.Errorf("assembler: piece %d already written", index)
	}
	a.written[index] = true
	a.mu.Unlock()

	offset := int64(index) * a.pieceLength
	if _, err := a.w.WriteAt(data, offset); err != nil {
		return fmt.Errorf("assembler: write piece %d: %s", index, err)
	}
	return nil
}

// NumWritten returns how many distinct pieces have been written so far.
func (a *Assembler) NumWritten() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.written)
}
