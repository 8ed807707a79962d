package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skein-torrent/skein/core"
)

func TestHandshakeEncodeLength(t *testing.T) {
	var h Handshake
	require.Len(t, h.Encode(), HandshakeLen)
	require.Equal(t, 68, HandshakeLen)
}

func TestHandshakeRoundTrip(t *testing.T) {
	require := require.New(t)

	var h Handshake
	for i := range h.InfoHash {
		h.InfoHash[i] = byte(i)
	}
	for i := range h.PeerID {
		h.PeerID[i] = byte(20 + i)
	}

	var buf bytes.Buffer
	require.NoError(WriteHandshake(&buf, h))

	got, err := ReadHandshake(&buf)
	require.NoError(err)
	require.Equal(h.InfoHash, got.InfoHash)
	require.Equal(h.PeerID, got.PeerID)
}

func TestReadHandshakeRejectsBadProtocolString(t *testing.T) {
	b := Handshake{}.Encode()
	b[0] = 5
	_, err := ReadHandshake(bytes.NewReader(b))
	require.Error(t, err)
}

func TestReadHandshakeRejectsTruncatedInput(t *testing.T) {
	_, err := ReadHandshake(bytes.NewReader(make([]byte, 10)))
	require.Error(t, err)
}

func TestHandshakeFormatMatchesWireLayout(t *testing.T) {
	require := require.New(t)

	var h Handshake
	h.InfoHash = core.NewInfoHashFromBytes([]byte("torrent"))
	id, err := core.RandomPeerID()
	require.NoError(err)
	h.PeerID = id

	b := h.Encode()
	require.Equal(byte(19), b[0])
	require.Equal("BitTorrent protocol", string(b[1:20]))
	require.Equal(make([]byte, 8), b[20:28])
	require.Equal(h.InfoHash.Bytes(), b[28:48])
	require.Equal(h.PeerID[:], b[48:68])
}
