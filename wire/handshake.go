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

package wire

import (
	"fmt"
	"io"

	"github.com/skein-torrent/skein/core"
)

const (
	protocolName = "BitTorrent protocol"

	// HandshakeLen is the fixed length of a handshake frame.
	HandshakeLen = 1 + len(protocolName) + 8 + 20 + 20
)

// Handshake is the fixed-size frame exchanged before any length-prefixed
// message, symmetric in both directions.
type Handshake struct {
	InfoHash core.InfoHash
	PeerID   core.PeerID
}

// Encode serializes h into the 68-byte handshake wire format.
func (h Handshake) Encode() []byte {
	b := make([]byte, 0, HandshakeLen)
	b = append(b, byte(len(protocolName)))
	b = append(b, protocolName...)
	b = append(b, make([]byte, 8)...) // reserved
	b = append(b, h.InfoHash.Bytes()...)
	b = append(b, h.PeerID[:]...)
	return b
}

// WriteHandshake writes h to w in one contiguous operation.
func WriteHandshake(w io.Writer, h Handshake) error {
	_, err := w.Write(h.Encode())
	if err != nil {
		return fmt.Errorf("wire: write handshake: %s", err)
	}
	return nil
}

// ReadHandshake reads a 68-byte handshake frame from r and validates the
// protocol string. It does not validate the info-hash; callers compare it
// against their own to decide whether to proceed.
func ReadHandshake(r io.Reader) (Handshake, error) {
	buf := make([]byte, HandshakeLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Handshake{}, fmt.Errorf("wire: read handshake: %s", err)
	}

	if buf[0] != byte(len(protocolName)) {
		return Handshake{}, &ProtocolError{What: fmt.Sprintf("handshake pstrlen %d, want %d", buf[0], len(protocolName))}
	}
	if string(buf[1:1+len(protocolName)]) != protocolName {
		return Handshake{}, &ProtocolError{What: "handshake protocol string mismatch"}
	}

	off := 1 + len(protocolName) + 8
	var h Handshake
	copy(h.InfoHash[:], buf[off:off+20])
	copy(h.PeerID[:], buf[off+20:off+40])
	return h, nil
}
