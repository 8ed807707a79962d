package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriteKeepAlive(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(WriteMessage(&buf, Message{IsKeepAlive: true}))
	require.Equal([]byte{0, 0, 0, 0}, buf.Bytes())

	m, err := ReadMessage(&buf)
	require.NoError(err)
	require.True(m.IsKeepAlive)
}

func TestReadWriteMessageRoundTrip(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	want := Message{ID: Interested}
	require.NoError(WriteMessage(&buf, want))

	got, err := ReadMessage(&buf)
	require.NoError(err)
	require.Equal(want.ID, got.ID)
	require.Empty(got.Payload)
}

func TestReadWriteMessageWithPayload(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	payload := EncodeRequest(RequestPayload{Index: 1, Begin: 2, Length: BlockSize})
	require.NoError(WriteMessage(&buf, Message{ID: Request, Payload: payload}))

	got, err := ReadMessage(&buf)
	require.NoError(err)
	require.Equal(uint8(Request), got.ID)

	req, err := DecodeRequest(got.Payload)
	require.NoError(err)
	require.Equal(RequestPayload{Index: 1, Begin: 2, Length: BlockSize}, req)
}

func TestReadMessageRejectsUnknownID(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 1, 9})
	_, err := ReadMessage(buf)
	require.Error(t, err)
	require.IsType(t, &ProtocolError{}, err)
}

func TestReadMessageRejectsTruncatedBody(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 5, 6, 1, 2})
	_, err := ReadMessage(buf)
	require.Error(t, err)
}

func TestReadMessageLoopsUntilFullRead(t *testing.T) {
	require := require.New(t)

	r := &slowReader{chunks: [][]byte{{0, 0}, {0, 5}, {6}, {0, 0, 0, 1}}}
	m, err := ReadMessage(r)
	require.NoError(err)
	require.Equal(uint8(Request), m.ID)
	require.Equal([]byte{0, 0, 0, 1}, m.Payload)
}

// slowReader returns its chunks one Read call at a time, to exercise
// ReadMessage's exact-length read loop.
type slowReader struct {
	chunks [][]byte
}

func (r *slowReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if len(r.chunks[0]) == 0 {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func TestEncodeDecodePiece(t *testing.T) {
	require := require.New(t)

	p := PiecePayload{Index: 3, Begin: 16384, Block: []byte("hello")}
	got, err := DecodePiece(EncodePiece(p))
	require.NoError(err)
	require.Equal(p, got)
}

func TestDecodePieceRejectsShortPayload(t *testing.T) {
	_, err := DecodePiece([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestEncodeDecodeHave(t *testing.T) {
	require := require.New(t)

	got, err := DecodeHave(EncodeHave(HavePayload{Index: 42}))
	require.NoError(err)
	require.Equal(HavePayload{Index: 42}, got)
}
