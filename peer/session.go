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

// Package peer drives the peer wire protocol state machine for a single
// connection: handshake, bitfield collection, interest/choke handling, and
// block-by-block piece download. A Session owns exactly one outstanding
// request at a time; the scheduler is responsible for assigning pieces to
// idle sessions.
package peer

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/andres-erbsen/clock"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/skein-torrent/skein/bitfield"
	"github.com/skein-torrent/skein/core"
	"github.com/skein-torrent/skein/wire"
)

// Session drives the state machine described in the peer package doc over
// a single TCP connection to one remote peer, for one torrent.
type Session struct {
	conn   net.Conn
	config Config
	clk    clock.Clock
	logger *zap.SugaredLogger

	localPeerID  core.PeerID
	RemotePeerID core.PeerID
	infoHash     core.InfoHash
	numPieces    int

	mu              sync.Mutex // guards state, weAreInterested, peerChoking below.
	state           State
	weAreInterested bool
	peerChoking     bool

	// Bitfield records which pieces the remote peer claims to hold. It is
	// updated as have messages arrive, so it may be read concurrently with
	// session activity by the scheduler's availability bookkeeping.
	Bitfield *bitfield.Bitfield

	// busy is the per-session try-lock enforcing at most one in-flight
	// request. The scheduler calls TryAcquire before driving the session
	// and Release once it returns to READY or fails.
	busy *atomic.Bool
}

// NewSession constructs a Session in state NEW, ready for Handshake.
func NewSession(
	conn net.Conn,
	config Config,
	clk clock.Clock,
	logger *zap.SugaredLogger,
	localPeerID core.PeerID,
	infoHash core.InfoHash,
	numPieces int,
) *Session {
	return &Session{
		conn:        conn,
		config:      config.applyDefaults(),
		clk:         clk,
		logger:      logger,
		localPeerID: localPeerID,
		infoHash:    infoHash,
		numPieces:   numPieces,
		state:       StateNew,
		peerChoking: true,
		busy:        atomic.NewBool(false),
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// TryAcquire claims exclusive ownership of the session for a single
// in-flight request. It returns false if another request is already
// outstanding.
func (s *Session) TryAcquire() bool {
	return s.busy.CAS(false, true)
}

// Release returns the session to available. Callers must call this exactly
// once per successful TryAcquire, whether the driven operation succeeded
// or failed.
func (s *Session) Release() {
	s.busy.Store(false)
}

// Close tears down the underlying connection. Safe to call multiple times.
func (s *Session) Close() {
	s.conn.Close()
}

// errChoked signals that the peer choked us while a block request was
// outstanding. The connection is still healthy; the request was never
// acknowledged and must be reissued once the peer unchokes again.
var errChoked = errors.New("peer: choked while awaiting piece")

func (s *Session) fail(err error) error {
	s.setState(StateFailed)
	s.conn.Close()
	return err
}

// Handshake exchanges the fixed 68-byte handshake and then waits for the
// peer's bitfield, carrying the session from NEW through AWAIT_HS and
// AWAIT_BITFIELD into IDLE_CHOKED.
func (s *Session) Handshake() error {
	s.setState(StateAwaitHandshake)

	s.conn.SetDeadline(s.clk.Now().Add(s.config.HandshakeTimeout))
	defer s.conn.SetDeadline(time.Time{})

	if err := wire.WriteHandshake(s.conn, wire.Handshake{
		InfoHash: s.infoHash,
		PeerID:   s.localPeerID,
	}); err != nil {
		return s.fail(fmt.Errorf("peer: send handshake: %s", err))
	}

	hs, err := wire.ReadHandshake(s.conn)
	if err != nil {
		return s.fail(fmt.Errorf("peer: read handshake: %s", err))
	}
	if hs.InfoHash != s.infoHash {
		return s.fail(fmt.Errorf("peer: handshake info_hash mismatch"))
	}
	s.RemotePeerID = hs.PeerID

	s.setState(StateAwaitBitfield)
	if err := s.awaitBitfield(); err != nil {
		return s.fail(err)
	}
	s.setState(StateIdleChoked)
	return nil
}

// awaitBitfield reads the first post-handshake message. A well-behaved
// peer sends bitfield here; a peer that sends anything else (or nothing,
// within the read timeout) is tolerated as holding no pieces.
func (s *Session) awaitBitfield() error {
	s.conn.SetReadDeadline(s.clk.Now().Add(s.config.ReadTimeout))
	msg, err := wire.ReadMessage(s.conn)
	if err != nil {
		s.logger.Warnw("peer sent no bitfield, assuming all-zeros",
			"peer", s.RemotePeerID, "error", err)
		s.Bitfield = bitfield.New(s.numPieces)
		return nil
	}
	if msg.IsKeepAlive || msg.ID != wire.Bitfield {
		s.logger.Warnw("peer's first message was not bitfield, assuming all-zeros",
			"peer", s.RemotePeerID)
		s.Bitfield = bitfield.New(s.numPieces)
		return nil
	}
	f, err := bitfield.Decode(msg.Payload, s.numPieces)
	if err != nil {
		return fmt.Errorf("peer: decode bitfield: %s", err)
	}
	s.Bitfield = f
	return nil
}

// EnsureInterested sends interested at most once for the lifetime of the
// session, then blocks until the peer unchokes us (or the session fails).
func (s *Session) EnsureInterested() error {
	s.mu.Lock()
	alreadyInterested := s.weAreInterested
	s.mu.Unlock()

	if !alreadyInterested {
		if err := wire.WriteMessage(s.conn, wire.Message{ID: wire.Interested}); err != nil {
			return s.fail(fmt.Errorf("peer: send interested: %s", err))
		}
		s.mu.Lock()
		s.weAreInterested = true
		s.state = StateAwaitUnchoke
		s.mu.Unlock()
	}
	return s.awaitUnchoke()
}

func (s *Session) awaitUnchoke() error {
	for {
		if s.State() == StateReady {
			return nil
		}

		s.conn.SetReadDeadline(s.clk.Now().Add(s.config.ReadTimeout))
		msg, err := wire.ReadMessage(s.conn)
		if err != nil {
			return s.fail(fmt.Errorf("peer: await unchoke: %s", err))
		}
		if msg.IsKeepAlive {
			continue
		}

		switch msg.ID {
		case wire.Unchoke:
			s.mu.Lock()
			s.peerChoking = false
			s.state = StateReady
			s.mu.Unlock()
		case wire.Choke:
			s.mu.Lock()
			s.peerChoking = true
			s.state = StateAwaitUnchoke
			s.mu.Unlock()
		case wire.Have:
			s.recordHave(msg.Payload)
		default:
			// Ignore unrelated messages while waiting for unchoke.
		}
	}
}

func (s *Session) recordHave(payload []byte) {
	hp, err := wire.DecodeHave(payload)
	if err != nil {
		return
	}
	if int(hp.Index) < s.numPieces {
		s.Bitfield.SetPiece(int(hp.Index))
	}
}

// DownloadPiece requests and accumulates every block of piece index, whose
// total length is pieceLength, returning the assembled piece bytes. The
// caller is responsible for verifying the returned bytes against the
// expected SHA-1; DownloadPiece only handles wire framing.
func (s *Session) DownloadPiece(index int, pieceLength int64) ([]byte, error) {
	if st := s.State(); st != StateReady {
		return nil, fmt.Errorf("peer: download piece: session not ready (state=%s)", st)
	}

	buf := make([]byte, pieceLength)
	var begin int64
	for begin < pieceLength {
		length := int64(core.BlockSize)
		if remaining := pieceLength - begin; remaining < length {
			length = remaining
		}
		block, err := s.downloadBlock(index, begin, length)
		if err != nil {
			if errors.Is(err, errChoked) {
				// The peer choked before acknowledging the request; wait
				// for it to unchoke again and reissue the same block.
				if err := s.EnsureInterested(); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}
		copy(buf[begin:], block)
		begin += length
	}

	s.setState(StateReady)
	return buf, nil
}

func (s *Session) downloadBlock(index int, begin, length int64) ([]byte, error) {
	s.setState(StateAwaitPiece)

	req := wire.RequestPayload{Index: uint32(index), Begin: uint32(begin), Length: uint32(length)}
	if err := wire.WriteMessage(s.conn, wire.Message{
		ID:      wire.Request,
		Payload: wire.EncodeRequest(req),
	}); err != nil {
		return nil, s.fail(fmt.Errorf("peer: send request: %s", err))
	}

	for {
		s.conn.SetReadDeadline(s.clk.Now().Add(s.config.ReadTimeout))
		msg, err := wire.ReadMessage(s.conn)
		if err != nil {
			return nil, s.fail(fmt.Errorf("peer: await piece: %s", err))
		}
		if msg.IsKeepAlive {
			continue
		}

		switch msg.ID {
		case wire.Choke:
			s.mu.Lock()
			s.peerChoking = true
			s.state = StateAwaitUnchoke
			s.mu.Unlock()
			return nil, errChoked
		case wire.Piece:
			p, err := wire.DecodePiece(msg.Payload)
			if err != nil {
				return nil, s.fail(err)
			}
			if p.Index != req.Index || p.Begin != req.Begin {
				return nil, s.fail(&wire.ProtocolError{What: "piece echo does not match outstanding request"})
			}
			if uint32(len(p.Block)) != req.Length {
				return nil, s.fail(&wire.ProtocolError{What: "piece block length does not match request"})
			}
			return p.Block, nil
		case wire.Have:
			s.recordHave(msg.Payload)
		default:
			// Ignore unrelated messages while awaiting the piece.
		}
	}
}

// PeerChoking reports whether the remote peer is currently choking us.
func (s *Session) PeerChoking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerChoking
}

func (s *Session) String() string {
	return fmt.Sprintf("Session(peer=%s, state=%s)", s.RemotePeerID, s.State())
}
