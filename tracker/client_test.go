package tracker

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skein-torrent/skein/bencode"
	"github.com/skein-torrent/skein/core"
)

type fakeDoer struct {
	lastReq *http.Request
	status  int
	body    []byte
	err     error
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(bytes.NewReader(f.body)),
	}, nil
}

func randomPeerID(t *testing.T) core.PeerID {
	t.Helper()
	id, err := core.RandomPeerID()
	require.NoError(t, err)
	return id
}

func compactPeers(t *testing.T, peers []core.Peer) []byte {
	t.Helper()
	var b []byte
	for _, p := range peers {
		ip := net.ParseIP(p.IP).To4()
		require.NotNil(t, ip)
		b = append(b, ip...)
		b = append(b, byte(p.Port>>8), byte(p.Port))
	}
	return b
}

func TestAnnounceBuildsRequestParams(t *testing.T) {
	require := require.New(t)

	doer := &fakeDoer{status: http.StatusOK, body: bencode.Encode(bencode.Dict([]bencode.DictEntry{
		{Key: []byte("interval"), Value: bencode.Int(1800)},
		{Key: []byte("peers"), Value: bencode.String(nil)},
	}))}
	c := New(doer)

	var infoHash core.InfoHash
	for i := range infoHash {
		infoHash[i] = byte(i)
	}
	peerID := randomPeerID(t)

	_, err := c.Announce("http://tracker.example.com/announce", Request{
		InfoHash: infoHash,
		PeerID:   peerID,
		Left:     12345,
	})
	require.NoError(err)

	q := doer.lastReq.URL.Query()
	require.Equal(string(infoHash.Bytes()), q.Get("info_hash"))
	require.Equal(string(peerID[:]), q.Get("peer_id"))
	require.Equal("6881", q.Get("port"))
	require.Equal("0", q.Get("uploaded"))
	require.Equal("0", q.Get("downloaded"))
	require.Equal("12345", q.Get("left"))
	require.Equal("1", q.Get("compact"))
}

func TestAnnounceParsesCompactPeers(t *testing.T) {
	require := require.New(t)

	want := []core.Peer{{IP: "1.2.3.4", Port: 6881}, {IP: "5.6.7.8", Port: 51413}}
	doer := &fakeDoer{status: http.StatusOK, body: bencode.Encode(bencode.Dict([]bencode.DictEntry{
		{Key: []byte("interval"), Value: bencode.Int(900)},
		{Key: []byte("peers"), Value: bencode.String(compactPeers(t, want))},
	}))}
	c := New(doer)

	resp, err := c.Announce("http://tracker.example.com/announce", Request{PeerID: randomPeerID(t)})
	require.NoError(err)
	require.Equal(int64(900), resp.Interval)
	require.Equal(want, resp.Peers)
}

func TestAnnounceDedupesPeers(t *testing.T) {
	require := require.New(t)

	dup := []core.Peer{{IP: "1.2.3.4", Port: 6881}, {IP: "1.2.3.4", Port: 6881}}
	doer := &fakeDoer{status: http.StatusOK, body: bencode.Encode(bencode.Dict([]bencode.DictEntry{
		{Key: []byte("peers"), Value: bencode.String(compactPeers(t, dup))},
	}))}
	c := New(doer)

	resp, err := c.Announce("http://tracker.example.com/announce", Request{PeerID: randomPeerID(t)})
	require.NoError(err)
	require.Len(resp.Peers, 1)
}

func TestAnnounceRejectsMalformedPeersLength(t *testing.T) {
	doer := &fakeDoer{status: http.StatusOK, body: bencode.Encode(bencode.Dict([]bencode.DictEntry{
		{Key: []byte("peers"), Value: bencode.String([]byte{1, 2, 3})},
	}))}
	c := New(doer)

	_, err := c.Announce("http://tracker.example.com/announce", Request{PeerID: randomPeerID(t)})
	require.Error(t, err)
}

func TestAnnounceSurfacesFailureReason(t *testing.T) {
	doer := &fakeDoer{status: http.StatusOK, body: bencode.Encode(bencode.Dict([]bencode.DictEntry{
		{Key: []byte("failure reason"), Value: bencode.String([]byte("unregistered torrent"))},
	}))}
	c := New(doer)

	_, err := c.Announce("http://tracker.example.com/announce", Request{PeerID: randomPeerID(t)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unregistered torrent")
}

func TestAnnounceRejectsNonOKStatus(t *testing.T) {
	doer := &fakeDoer{status: http.StatusInternalServerError, body: nil}
	c := New(doer)

	_, err := c.Announce("http://tracker.example.com/announce", Request{PeerID: randomPeerID(t)})
	require.Error(t, err)
}

func TestBuildURLEscapesRawBytes(t *testing.T) {
	require := require.New(t)

	var infoHash core.InfoHash
	for i := range infoHash {
		infoHash[i] = 0xff
	}
	u, err := buildURL("http://tracker.example.com/announce", Request{
		InfoHash: infoHash,
		PeerID:   randomPeerID(t),
		Port:     6881,
	})
	require.NoError(err)

	parsed, err := url.Parse(u)
	require.NoError(err)
	require.Equal(string(infoHash.Bytes()), parsed.Query().Get("info_hash"))
}
