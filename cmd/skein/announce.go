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

package main

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/skein-torrent/skein/core"
	"github.com/skein-torrent/skein/metainfo"
	"github.com/skein-torrent/skein/tracker"
)

// announce queries m's tracker for the swarm's current peer list, using a
// freshly generated random peer id (this client never seeds, so a stable
// peer id across runs buys nothing).
func announce(config Config, m *metainfo.Metainfo) ([]core.Peer, core.PeerID, error) {
	localID, err := core.RandomPeerID()
	if err != nil {
		return nil, core.PeerID{}, errors.Wrap(err, "generate peer id")
	}

	client := tracker.New(&http.Client{Timeout: config.AnnounceTimeout})
	resp, err := client.Announce(m.Announce(), tracker.Request{
		InfoHash: m.InfoHash(),
		PeerID:   localID,
		Left:     m.Length(),
	})
	if err != nil {
		return nil, core.PeerID{}, errors.Wrap(err, "announce")
	}
	return resp.Peers, localID, nil
}
