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
package core

import (
	"fmt"
	"sort"
)

// Peer identifies a swarm member by address, as handed out by the tracker's
// compact peer list. The peer's PeerID is not known until the handshake
// completes, so it is deliberately absent here.
type Peer struct {
	IP   string
	Port int
}

// Addr returns the "ip:port" dial address for p.
func (p Peer) Addr() string {
	return fmt.Sprintf("%s:%d", p.IP, p.Port)
}

func (p Peer) String() string {
	return p.Addr()
}

// Peers groups Peer values for sorting and deduplication.
type Peers []Peer

func (s Peers) Len() int      { return len(s) }
func (s Peers) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// PeersByAddr sorts Peers by dial address.
type PeersByAddr struct{ Peers }

// Less for sorting.
func (s PeersByAddr) Less(i, j int) bool {
	return s.Peers[i].Addr() < s.Peers[j].Addr()
}

// Dedupe returns a copy of peers with duplicate addresses removed, sorted by
// address for determinism.
func Dedupe(peers []Peer) []Peer {
	c := make([]Peer, len(peers))
	copy(c, peers)
	sort.Sort(PeersByAddr{c})

	deduped := c[:0]
	var prev string
	for i, p := range c {
		if i == 0 || p.Addr() != prev {
			deduped = append(deduped, p)
		}
		prev = p.Addr()
	}
	return deduped
}
