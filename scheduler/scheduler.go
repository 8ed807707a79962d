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

// Package scheduler assigns the pieces of a torrent to a pool of peer
// sessions, verifies each piece against its expected SHA-1, and retries on
// a different session when a session misbehaves or fails. The scheduler
// owns session selection; sessions themselves know nothing about pieces
// other than the one currently requested.
package scheduler

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skein-torrent/skein/metainfo"
	"github.com/skein-torrent/skein/peer"
)

// Scheduler drives a set of already-handshaked peer sessions through a
// full torrent download, one goroutine per piece.
type Scheduler struct {
	config  Config
	meta    *metainfo.Metainfo
	avail   *availability
	policy  Policy
	logger  *zap.SugaredLogger
	onPiece func(index int, data []byte) error
}

// New constructs a Scheduler over sessions that have already completed
// Handshake. onPiece is invoked exactly once per piece index, in whatever
// order pieces finish verification; it is expected to delegate to an
// assembler.
func New(
	config Config,
	meta *metainfo.Metainfo,
	sessions []*peer.Session,
	logger *zap.SugaredLogger,
	onPiece func(index int, data []byte) error,
) *Scheduler {
	config = config.applyDefaults()
	return &Scheduler{
		config:  config,
		meta:    meta,
		avail:   newAvailability(sessions, meta.NumPieces()),
		policy:  NewPolicy(config.Policy),
		logger:  logger,
		onPiece: onPiece,
	}
}

// Run downloads every piece of the torrent, blocking until all pieces are
// verified and delivered to onPiece, or some piece becomes unobtainable.
// Run waits for every piece task to finish and then returns the first
// fatal error any of them reported; pieces that do succeed are still
// delivered to onPiece.
func (s *Scheduler) Run() error {
	order := s.policy.Order(s.meta.NumPieces(), s.avail.counts)

	results := make(chan error, len(order))
	for _, index := range order {
		index := index
		go func() {
			results <- s.downloadPiece(index)
		}()
	}

	var firstErr error
	for range order {
		if err := <-results; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Scheduler) downloadPiece(index int) error {
	length := s.meta.PieceLengthAt(index)
	expected, err := s.meta.PieceHash(index)
	if err != nil {
		return err
	}

	for {
		if !s.avail.waitForHolders(index) {
			return fmt.Errorf("scheduler: no remaining peer holds piece %d", index)
		}

		sess := s.acquireIdleHolder(index)
		if sess == nil {
			continue
		}

		data, err := s.tryDownload(sess, index, length, expected)
		sess.Release()
		if err != nil {
			s.logger.Warnw("dropping session after failed piece download",
				"piece", index, "peer", sess.RemotePeerID, "error", err)
			s.avail.dropSession(sess)
			continue
		}
		return s.onPiece(index, data)
	}
}

// acquireIdleHolder returns an idle session holding index, or nil if every
// current holder is busy. On nil it sleeps for the configured backoff so
// callers can simply loop.
func (s *Scheduler) acquireIdleHolder(index int) *peer.Session {
	for _, sess := range s.avail.holdersOf(index) {
		if sess.TryAcquire() {
			return sess
		}
	}
	time.Sleep(s.config.IdleBackoff)
	return nil
}

func (s *Scheduler) tryDownload(sess *peer.Session, index int, length int64, expected []byte) ([]byte, error) {
	if err := sess.EnsureInterested(); err != nil {
		return nil, err
	}
	data, err := sess.DownloadPiece(index, length)
	if err != nil {
		return nil, err
	}
	sum := sha1.Sum(data)
	if !bytes.Equal(sum[:], expected) {
		return nil, fmt.Errorf("scheduler: piece %d failed sha1 verification", index)
	}
	return data, nil
}
