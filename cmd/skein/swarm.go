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
	"net"
	"sync"

	"github.com/andres-erbsen/clock"
	"go.uber.org/zap"

	"github.com/skein-torrent/skein/metainfo"
	"github.com/skein-torrent/skein/peer"
)

// dialSwarm announces to the tracker, dials the returned peers (at most
// config.NumPeers of them, when that is positive) concurrently, and
// returns a Session for every peer that completed the
// handshake. Peers that fail to dial or handshake are dropped with a
// logged warning rather than failing the whole operation -- a swarm with a
// handful of dead peers is the normal case, not an error.
func dialSwarm(config Config, m *metainfo.Metainfo, logger *zap.SugaredLogger) ([]*peer.Session, error) {
	remotePeers, localID, err := announce(config, m)
	if err != nil {
		return nil, err
	}
	if config.NumPeers > 0 && len(remotePeers) > config.NumPeers {
		remotePeers = remotePeers[:config.NumPeers]
	}

	var mu sync.Mutex
	var sessions []*peer.Session
	var wg sync.WaitGroup

	for _, p := range remotePeers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, err := net.Dial("tcp", p.Addr())
			if err != nil {
				logger.Warnw("could not dial peer", "peer", p.Addr(), "error", err)
				return
			}
			sess := peer.NewSession(conn, config.Peer, clock.New(), logger,
				localID, m.InfoHash(), m.NumPieces())
			if err := sess.Handshake(); err != nil {
				logger.Warnw("could not handshake with peer", "peer", p.Addr(), "error", err)
				return
			}

			mu.Lock()
			sessions = append(sessions, sess)
			mu.Unlock()
		}()
	}
	wg.Wait()

	return sessions, nil
}

// pickHolder returns the first session in sessions whose bitfield claims
// piece index, or nil if none do.
func pickHolder(sessions []*peer.Session, index int) *peer.Session {
	for _, s := range sessions {
		if s.Bitfield != nil && s.Bitfield.HasPiece(index) {
			return s
		}
	}
	return nil
}
