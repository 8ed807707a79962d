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

// Package metainfo exposes typed accessors over a decoded .torrent file:
// announce URL, file length, piece length, piece count, and the expected
// SHA-1 of a given piece. It computes the info-hash by locating the info
// sub-value in the decoded tree and re-encoding it, rather than hashing the
// raw top-level bytes, so unknown top-level keys do not affect the hash.
// The whole input must be one bencoded value; surrounding bytes, including
// whitespace, are a decode error.
package metainfo

import (
	"fmt"

	"github.com/skein-torrent/skein/bencode"
	"github.com/skein-torrent/skein/core"
)

const pieceHashLen = 20

// Metainfo is the parsed contents of a single-file .torrent file.
type Metainfo struct {
	announce    string
	name        string
	length      int64
	pieceLength int64
	pieces      []byte // concatenated 20-byte SHA-1 hashes
	infoHash    core.InfoHash
}

// Load parses raw .torrent file contents into a Metainfo.
func Load(raw []byte) (*Metainfo, error) {
	top, err := bencode.DecodeFull(raw)
	if err != nil {
		return nil, fmt.Errorf("decode metainfo: %s", err)
	}

	announce, ok := top.GetString("announce")
	if !ok {
		return nil, fmt.Errorf("decode metainfo: missing \"announce\"")
	}

	info, ok := top.Get("info")
	if !ok {
		return nil, fmt.Errorf("decode metainfo: missing \"info\"")
	}
	if info.Kind != bencode.KindDict {
		return nil, fmt.Errorf("decode metainfo: \"info\" is not a dict")
	}

	name, ok := info.GetString("name")
	if !ok {
		return nil, fmt.Errorf("decode metainfo: missing \"info.name\"")
	}

	length, ok := info.GetInt("length")
	if !ok {
		return nil, fmt.Errorf("decode metainfo: missing \"info.length\" (multi-file torrents are not supported)")
	}
	if length <= 0 {
		return nil, fmt.Errorf("decode metainfo: invalid \"info.length\" %d", length)
	}

	pieceLength, ok := info.GetInt("piece length")
	if !ok {
		return nil, fmt.Errorf("decode metainfo: missing \"info.piece length\"")
	}
	if pieceLength <= 0 {
		return nil, fmt.Errorf("decode metainfo: invalid \"info.piece length\" %d", pieceLength)
	}

	pieces, ok := info.GetString("pieces")
	if !ok {
		return nil, fmt.Errorf("decode metainfo: missing \"info.pieces\"")
	}
	if len(pieces)%pieceHashLen != 0 {
		return nil, fmt.Errorf("decode metainfo: \"info.pieces\" length %d not a multiple of %d", len(pieces), pieceHashLen)
	}

	numPieces := core.NumPieces(length, pieceLength)
	if len(pieces)/pieceHashLen != numPieces {
		return nil, fmt.Errorf(
			"decode metainfo: \"info.pieces\" has %d hashes, expected %d for length %d / piece length %d",
			len(pieces)/pieceHashLen, numPieces, length, pieceLength)
	}

	infoHash := core.NewInfoHashFromBytes(bencode.Encode(info))

	return &Metainfo{
		announce:    string(announce),
		name:        string(name),
		length:      length,
		pieceLength: pieceLength,
		pieces:      pieces,
		infoHash:    infoHash,
	}, nil
}

// Announce returns the tracker announce URL.
func (m *Metainfo) Announce() string { return m.announce }

// Name returns the suggested file name.
func (m *Metainfo) Name() string { return m.name }

// Length returns the total file length in bytes.
func (m *Metainfo) Length() int64 { return m.length }

// PieceLength returns the nominal piece length in bytes. The final piece
// may be shorter; use Metainfo.PieceLengthAt for the actual length of a
// given piece.
func (m *Metainfo) PieceLength() int64 { return m.pieceLength }

// NumPieces returns the number of pieces in the torrent.
func (m *Metainfo) NumPieces() int {
	return core.NumPieces(m.length, m.pieceLength)
}

// PieceLengthAt returns the actual length of piece i, accounting for
// truncation of the final piece.
func (m *Metainfo) PieceLengthAt(i int) int64 {
	return core.PieceLength(m.length, m.pieceLength, m.NumPieces(), i)
}

// PieceHash returns the expected SHA-1 hash of piece i.
func (m *Metainfo) PieceHash(i int) ([]byte, error) {
	n := m.NumPieces()
	if i < 0 || i >= n {
		return nil, fmt.Errorf("piece index %d out of range [0, %d)", i, n)
	}
	start := i * pieceHashLen
	return m.pieces[start : start+pieceHashLen], nil
}

// InfoHash returns the torrent's info-hash.
func (m *Metainfo) InfoHash() core.InfoHash { return m.infoHash }
