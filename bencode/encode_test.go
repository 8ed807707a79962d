package bencode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeString(t *testing.T) {
	require.Equal(t, []byte("4:spam"), Encode(String([]byte("spam"))))
}

func TestEncodeEmptyString(t *testing.T) {
	require.Equal(t, []byte("0:"), Encode(String(nil)))
}

func TestEncodeInt(t *testing.T) {
	require.Equal(t, []byte("i3e"), Encode(Int(3)))
	require.Equal(t, []byte("i-3e"), Encode(Int(-3)))
	require.Equal(t, []byte("i0e"), Encode(Int(0)))
}

func TestEncodeList(t *testing.T) {
	v := List([]Value{String([]byte("spam")), String([]byte("eggs"))})
	require.Equal(t, []byte("l4:spam4:eggse"), Encode(v))
}

func TestEncodeDictSortsKeys(t *testing.T) {
	v := Dict([]DictEntry{
		{Key: []byte("spam"), Value: String([]byte("eggs"))},
		{Key: []byte("cow"), Value: String([]byte("moo"))},
	})
	require.Equal(t, []byte("d3:cow3:moo4:spam4:eggse"), Encode(v))
}

func TestRoundTripDecodeEncode(t *testing.T) {
	inputs := []string{
		"4:spam",
		"i3e",
		"i-3e",
		"i0e",
		"le",
		"l4:spam4:eggse",
		"de",
		"d3:cow3:moo4:spam4:eggse",
		"d4:infod6:lengthi12345e4:name8:test.txt12:piece lengthi16384eee",
	}
	for _, in := range inputs {
		v, err := DecodeFull([]byte(in))
		require.NoError(t, err, in)
		require.Equal(t, in, string(Encode(v)), in)
	}
}

func TestRoundTripEncodeDecode(t *testing.T) {
	values := []Value{
		String([]byte("hello")),
		Int(12345),
		Int(-99),
		List([]Value{Int(1), Int(2), Int(3)}),
		Dict([]DictEntry{
			{Key: []byte("a"), Value: Int(1)},
			{Key: []byte("b"), Value: List([]Value{String([]byte("x"))})},
		}),
	}
	for _, v := range values {
		encoded := Encode(v)
		decoded, err := DecodeFull(encoded)
		require.NoError(t, err)
		require.Equal(t, encoded, Encode(decoded))
	}
}

func TestInfoHashStability(t *testing.T) {
	require := require.New(t)

	// The info sub-dict must re-encode byte-for-byte identical to its
	// original bytes, since its SHA-1 is the torrent's info-hash.
	raw := []byte("d6:lengthi12345e4:name8:test.txt12:piece lengthi16384e6:pieces20:aaaaaaaaaaaaaaaaaaaae")
	v, err := DecodeFull(raw)
	require.NoError(err)
	require.Equal(raw, Encode(v))
}
