package metainfo

import (
	"crypto/sha1"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skein-torrent/skein/bencode"
)

func fakeTorrentBytes(t *testing.T, length, pieceLength int64, numPieces int) []byte {
	t.Helper()

	pieces := make([]byte, 0, numPieces*20)
	for i := 0; i < numPieces; i++ {
		h := sha1.Sum([]byte{byte(i)})
		pieces = append(pieces, h[:]...)
	}

	info := bencode.Dict([]bencode.DictEntry{
		{Key: []byte("length"), Value: bencode.Int(length)},
		{Key: []byte("name"), Value: bencode.String([]byte("test.txt"))},
		{Key: []byte("piece length"), Value: bencode.Int(pieceLength)},
		{Key: []byte("pieces"), Value: bencode.String(pieces)},
	})

	top := bencode.Dict([]bencode.DictEntry{
		{Key: []byte("announce"), Value: bencode.String([]byte("http://tracker.example.com/announce"))},
		{Key: []byte("info"), Value: info},
	})

	return bencode.Encode(top)
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	raw := fakeTorrentBytes(t, 16384*3+100, 16384, 4)
	m, err := Load(raw)
	require.NoError(err)

	require.Equal("http://tracker.example.com/announce", m.Announce())
	require.Equal("test.txt", m.Name())
	require.Equal(int64(16384*3+100), m.Length())
	require.Equal(int64(16384), m.PieceLength())
	require.Equal(4, m.NumPieces())
	require.Equal(int64(16384), m.PieceLengthAt(0))
	require.Equal(int64(100), m.PieceLengthAt(3))

	h, err := m.PieceHash(0)
	require.NoError(err)
	require.Len(h, 20)

	_, err = m.PieceHash(4)
	require.Error(err)
}

func TestLoadComputesInfoHashFromReencodedInfoDict(t *testing.T) {
	require := require.New(t)

	raw := fakeTorrentBytes(t, 16384, 16384, 1)
	m, err := Load(raw)
	require.NoError(err)

	top, err := bencode.DecodeFull(raw)
	require.NoError(err)
	info, ok := top.Get("info")
	require.True(ok)

	want := sha1.Sum(bencode.Encode(info))
	require.Equal(want[:], m.InfoHash().Bytes())
}

func TestLoadRejectsMismatchedPieceCount(t *testing.T) {
	raw := fakeTorrentBytes(t, 16384*3+100, 16384, 3) // should be 4
	_, err := Load(raw)
	require.Error(t, err)
}

func TestLoadRejectsMissingAnnounce(t *testing.T) {
	info := bencode.Dict([]bencode.DictEntry{
		{Key: []byte("length"), Value: bencode.Int(16384)},
		{Key: []byte("name"), Value: bencode.String([]byte("x"))},
		{Key: []byte("piece length"), Value: bencode.Int(16384)},
		{Key: []byte("pieces"), Value: bencode.String(make([]byte, 20))},
	})
	top := bencode.Dict([]bencode.DictEntry{{Key: []byte("info"), Value: info}})

	_, err := Load(bencode.Encode(top))
	require.Error(t, err)
}

func TestLoadRejectsNonDecodableInput(t *testing.T) {
	_, err := Load([]byte("not bencode"))
	require.Error(t, err)
}
