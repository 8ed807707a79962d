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
	"math/rand"

	"github.com/skein-torrent/skein/utils/heap"
	"github.com/skein-torrent/skein/utils/syncutil"
)

// Policy names accepted by NewPolicy.
const (
	DefaultPolicy     = "default"
	RarestFirstPolicy = "rarest_first"
)

// Policy orders the pieces of a download for dispatch. Rarity is a
// recommended refinement, not a correctness requirement: a homogeneous
// swarm behaves identically under either policy.
type Policy interface {
	Order(numPieces int, holders *syncutil.Counters) []int
}

// NewPolicy returns the named Policy. Unrecognized names fall back to
// RarestFirstPolicy.
func NewPolicy(name string) Policy {
	if name == DefaultPolicy {
		return defaultPolicy{}
	}
	return rarestFirstPolicy{}
}

// defaultPolicy dispatches pieces in random order, so concurrent sessions
// starting a download don't all converge on piece 0 first.
type defaultPolicy struct{}

func (defaultPolicy) Order(numPieces int, holders *syncutil.Counters) []int {
	order := make([]int, numPieces)
	for i := range order {
		order[i] = i
	}
	rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// rarestFirstPolicy dispatches the pieces with the fewest known holders
// first, reducing the odds that a rare piece becomes unobtainable late in
// a download.
type rarestFirstPolicy struct{}

func (rarestFirstPolicy) Order(numPieces int, holders *syncutil.Counters) []int {
	pq := heap.NewPriorityQueue()
	for i := 0; i < numPieces; i++ {
		pq.Push(&heap.Item{Value: i, Priority: holders.Get(i)})
	}
	order := make([]int, 0, numPieces)
	for pq.Len() > 0 {
		item, err := pq.Pop()
		if err != nil {
			break
		}
		order = append(order, item.Value.(int))
	}
	return order
}
