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

package scheduler

import (
	"sync"

	"github.com/skein-torrent/skein/peer"
	"github.com/skein-torrent/skein/utils/syncutil"
)

// availability tracks, for each piece, which sessions currently claim to
// hold it. It is guarded by a single mutex, held only for the duration of
// a structural update -- never across session I/O.
type availability struct {
	mu       sync.Mutex
	cond     *sync.Cond
	sessions map[*peer.Session]bool
	holders  map[int][]*peer.Session
	counts   *syncutil.Counters
}

func newAvailability(sessions []*peer.Session, numPieces int) *availability {
	a := &availability{
		sessions: make(map[*peer.Session]bool),
		holders:  make(map[int][]*peer.Session, numPieces),
		counts:   syncutil.NewCounters(numPieces),
	}
	a.cond = sync.NewCond(&a.mu)
	for _, s := range sessions {
		a.addSession(s)
	}
	return a
}

// addSession registers s and every piece its bitfield claims to hold.
func (a *availability) addSession(s *peer.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sessions[s] = true
	for _, i := range s.Bitfield.SetPieces() {
		a.holders[i] = append(a.holders[i], s)
		a.counts.Increment(i)
	}
	a.cond.Broadcast()
}

// dropSession removes s from every piece's holder list, e.g. after an I/O
// or protocol failure. Subsequent downloads for pieces s was the last
// holder of will be retried against a different session, if any remains.
func (a *availability) dropSession(s *peer.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.sessions[s] {
		return
	}
	delete(a.sessions, s)
	for i, hs := range a.holders {
		filtered := hs[:0:0]
		for _, h := range hs {
			if h != s {
				filtered = append(filtered, h)
			}
		}
		if len(filtered) != len(hs) {
			a.counts.Decrement(i)
		}
		a.holders[i] = filtered
	}
	a.cond.Broadcast()
}

// holdersOf returns a snapshot of the sessions currently believed to hold
// piece i.
func (a *availability) holdersOf(i int) []*peer.Session {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*peer.Session, len(a.holders[i]))
	copy(out, a.holders[i])
	return out
}

// waitForHolders blocks until piece i has a known holder, or every session
// has been dropped, in which case it returns false: the piece is
// unobtainable and the download must fail.
func (a *availability) waitForHolders(i int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for len(a.holders[i]) == 0 {
		if len(a.sessions) == 0 {
			return false
		}
		a.cond.Wait()
	}
	return true
}
