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

package peer

// State is a Session's position in the peer wire protocol state machine.
type State int

const (
	StateNew State = iota
	StateAwaitHandshake
	StateAwaitBitfield
	StateIdleChoked
	StateAwaitUnchoke
	StateReady
	StateAwaitPiece
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateAwaitHandshake:
		return "AWAIT_HS"
	case StateAwaitBitfield:
		return "AWAIT_BITFIELD"
	case StateIdleChoked:
		return "IDLE_CHOKED"
	case StateAwaitUnchoke:
		return "AWAIT_UNCHOKE"
	case StateReady:
		return "READY"
	case StateAwaitPiece:
		return "AWAIT_PIECE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
