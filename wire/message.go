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

// Package wire implements the peer wire protocol's byte-level framing: the
// handshake, and the length-prefixed message format used for every message
// after it. It does no protocol interpretation beyond framing -- session
// state belongs to the peer package.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Message IDs, per the peer wire protocol.
const (
	Choke         = 0
	Unchoke       = 1
	Interested    = 2
	NotInterested = 3
	Have          = 4
	Bitfield      = 5
	Request       = 6
	Piece         = 7
	Cancel        = 8

	maxMessageID = Cancel
)

// BlockSize is the maximum length of a single requested block.
const BlockSize = 16384

// ProtocolError reports a peer wire protocol violation: an unrecognized
// message ID, a malformed payload, or an unexpected echo in a piece
// message.
type ProtocolError struct {
	What string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wire: protocol error: %s", e.What)
}

// Message is a single framed peer message. A zero-value ID with a nil
// Payload and IsKeepAlive set true represents a keep-alive.
type Message struct {
	ID          uint8
	Payload     []byte
	IsKeepAlive bool
}

// ReadMessage reads one length-prefixed frame from r. It loops until it has
// read exactly as many bytes as the length prefix declares; an EOF before
// that point is reported as an error rather than silently returning a
// short message.
func ReadMessage(r io.Reader) (Message, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Message{}, fmt.Errorf("wire: read length prefix: %s", err)
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length == 0 {
		return Message{IsKeepAlive: true}, nil
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return Message{}, fmt.Errorf("wire: read message body: %s", err)
	}

	id := body[0]
	if id > maxMessageID {
		return Message{}, &ProtocolError{What: fmt.Sprintf("unknown message id %d", id)}
	}
	return Message{ID: id, Payload: body[1:]}, nil
}

// WriteMessage writes m as a single contiguous frame.
func WriteMessage(w io.Writer, m Message) error {
	if m.IsKeepAlive {
		_, err := w.Write([]byte{0, 0, 0, 0})
		return err
	}

	frame := make([]byte, 4+1+len(m.Payload))
	binary.BigEndian.PutUint32(frame, uint32(1+len(m.Payload)))
	frame[4] = m.ID
	copy(frame[5:], m.Payload)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("wire: write message: %s", err)
	}
	return nil
}

// RequestPayload is the three-field payload of a request or cancel message.
type RequestPayload struct {
	Index  uint32
	Begin  uint32
	Length uint32
}

// EncodeRequest serializes a request payload.
func EncodeRequest(p RequestPayload) []byte {
	b := make([]byte, 12)
	binary.BigEndian.PutUint32(b[0:4], p.Index)
	binary.BigEndian.PutUint32(b[4:8], p.Begin)
	binary.BigEndian.PutUint32(b[8:12], p.Length)
	return b
}

// DecodeRequest parses a request or cancel message payload.
func DecodeRequest(b []byte) (RequestPayload, error) {
	if len(b) != 12 {
		return RequestPayload{}, &ProtocolError{What: fmt.Sprintf("request payload has length %d, want 12", len(b))}
	}
	return RequestPayload{
		Index:  binary.BigEndian.Uint32(b[0:4]),
		Begin:  binary.BigEndian.Uint32(b[4:8]),
		Length: binary.BigEndian.Uint32(b[8:12]),
	}, nil
}

// PiecePayload is the payload of a piece message: a block of data at a
// given offset within a piece.
type PiecePayload struct {
	Index uint32
	Begin uint32
	Block []byte
}

// EncodePiece serializes a piece payload.
func EncodePiece(p PiecePayload) []byte {
	b := make([]byte, 8+len(p.Block))
	binary.BigEndian.PutUint32(b[0:4], p.Index)
	binary.BigEndian.PutUint32(b[4:8], p.Begin)
	copy(b[8:], p.Block)
	return b
}

// DecodePiece parses a piece message payload.
func DecodePiece(b []byte) (PiecePayload, error) {
	if len(b) < 8 {
		return PiecePayload{}, &ProtocolError{What: fmt.Sprintf("piece payload has length %d, want at least 8", len(b))}
	}
	return PiecePayload{
		Index: binary.BigEndian.Uint32(b[0:4]),
		Begin: binary.BigEndian.Uint32(b[4:8]),
		Block: b[8:],
	}, nil
}

// HavePayload is the payload of a have message.
type HavePayload struct {
	Index uint32
}

// EncodeHave serializes a have payload.
func EncodeHave(p HavePayload) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, p.Index)
	return b
}

// DecodeHave parses a have message payload.
func DecodeHave(b []byte) (HavePayload, error) {
	if len(b) != 4 {
		return HavePayload{}, &ProtocolError{What: fmt.Sprintf("have payload has length %d, want 4", len(b))}
	}
	return HavePayload{Index: binary.BigEndian.Uint32(b)}, nil
}
