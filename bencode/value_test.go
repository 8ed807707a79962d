package bencode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDictSortsOnConstruction(t *testing.T) {
	require := require.New(t)

	v := Dict([]DictEntry{
		{Key: []byte("zebra"), Value: Int(1)},
		{Key: []byte("apple"), Value: Int(2)},
		{Key: []byte("mango"), Value: Int(3)},
	})

	require.Equal([]byte("apple"), v.Dict[0].Key)
	require.Equal([]byte("mango"), v.Dict[1].Key)
	require.Equal([]byte("zebra"), v.Dict[2].Key)
}

func TestDictPanicsOnDuplicateKey(t *testing.T) {
	require.Panics(t, func() {
		Dict([]DictEntry{
			{Key: []byte("a"), Value: Int(1)},
			{Key: []byte("a"), Value: Int(2)},
		})
	})
}

func TestGetAccessors(t *testing.T) {
	require := require.New(t)

	v := Dict([]DictEntry{
		{Key: []byte("name"), Value: String([]byte("skein"))},
		{Key: []byte("length"), Value: Int(42)},
	})

	s, ok := v.GetString("name")
	require.True(ok)
	require.Equal([]byte("skein"), s)

	n, ok := v.GetInt("length")
	require.True(ok)
	require.Equal(int64(42), n)

	_, ok = v.GetString("missing")
	require.False(ok)

	_, ok = v.GetInt("name")
	require.False(ok)
}
