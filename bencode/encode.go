package bencode

import (
	"bytes"
	"strconv"
)

// Encode serializes v to its canonical bencoded form. Dicts are always
// emitted in sorted-key order regardless of the order Dict was called with,
// since Value.Dict is kept sorted by construction and by Decode.
func Encode(v Value) []byte {
	var buf bytes.Buffer
	encodeValue(&buf, v)
	return buf.Bytes()
}

func encodeValue(buf *bytes.Buffer, v Value) {
	switch v.Kind {
	case KindString:
		encodeString(buf, v.Str)
	case KindInt:
		encodeInt(buf, v.Int)
	case KindList:
		encodeList(buf, v.List)
	case KindDict:
		encodeDict(buf, v.Dict)
	default:
		panic("bencode: encode: invalid Kind")
	}
}

func encodeString(buf *bytes.Buffer, s []byte) {
	buf.WriteString(strconv.Itoa(len(s)))
	buf.WriteByte(':')
	buf.Write(s)
}

func encodeInt(buf *bytes.Buffer, i int64) {
	buf.WriteByte('i')
	buf.WriteString(strconv.FormatInt(i, 10))
	buf.WriteByte('e')
}

func encodeList(buf *bytes.Buffer, items []Value) {
	buf.WriteByte('l')
	for _, item := range items {
		encodeValue(buf, item)
	}
	buf.WriteByte('e')
}

func encodeDict(buf *bytes.Buffer, entries []DictEntry) {
	buf.WriteByte('d')
	for _, e := range entries {
		encodeString(buf, e.Key)
		encodeValue(buf, e.Value)
	}
	buf.WriteByte('e')
}
