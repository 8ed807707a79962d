// Package bencode implements the BitTorrent bencoding format: a closed
// sum-type value (byte string, integer, list, dict) with a decoder and
// encoder that are exact inverses of one another on canonical input. This
// is deliberately not a reflection-based Marshal/Unmarshal like
// encoding/json: the info-hash computation depends on re-encoding a decoded
// dict byte-for-byte, which only a value-level codec can guarantee.
package bencode

import "bytes"

// Kind identifies which case of the bencode sum type a Value holds.
type Kind uint8

const (
	// KindString holds a raw byte string.
	KindString Kind = iota
	// KindInt holds a signed integer.
	KindInt
	// KindList holds an ordered sequence of values.
	KindList
	// KindDict holds a mapping from byte-string keys to values, sorted by
	// key for canonical encoding.
	KindDict
)

// DictEntry is one key/value pair of a KindDict Value. Entries are kept in
// sorted-by-key order so encoding never needs to re-derive it.
type DictEntry struct {
	Key   []byte
	Value Value
}

// Value is a bencode value: exactly one of its fields is meaningful,
// selected by Kind. This is a closed sum type rather than an interface so
// that decoding never needs a runtime type switch on an open set of cases.
type Value struct {
	Kind Kind
	Str  []byte
	Int  int64
	List []Value
	Dict []DictEntry
}

// String constructs a byte-string Value.
func String(s []byte) Value {
	return Value{Kind: KindString, Str: s}
}

// Int constructs an integer Value.
func Int(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

// List constructs a list Value.
func List(vs []Value) Value {
	return Value{Kind: KindList, List: vs}
}

// Dict constructs a dict Value from the given entries, sorting them by key.
// Panics if two entries share a key, since that can never arise from Decode
// and indicates a programming error in hand-built Values.
func Dict(entries []DictEntry) Value {
	sorted := make([]DictEntry, len(entries))
	copy(sorted, entries)
	sortEntries(sorted)
	for i := 1; i < len(sorted); i++ {
		if bytes.Equal(sorted[i-1].Key, sorted[i].Key) {
			panic("bencode: duplicate dict key " + string(sorted[i].Key))
		}
	}
	return Value{Kind: KindDict, Dict: sorted}
}

func sortEntries(entries []DictEntry) {
	// Insertion sort: dicts in torrent metainfo are small (a handful of
	// top-level keys), so this avoids pulling in sort.Slice's reflection
	// overhead for no real benefit.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && bytes.Compare(entries[j-1].Key, entries[j].Key) > 0; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}

// Get returns the value associated with key in a KindDict Value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindDict {
		return Value{}, false
	}
	k := []byte(key)
	for _, e := range v.Dict {
		if bytes.Equal(e.Key, k) {
			return e.Value, true
		}
	}
	return Value{}, false
}

// GetString is a convenience accessor combining Get with a KindString check.
func (v Value) GetString(key string) ([]byte, bool) {
	e, ok := v.Get(key)
	if !ok || e.Kind != KindString {
		return nil, false
	}
	return e.Str, true
}

// GetInt is a convenience accessor combining Get with a KindInt check.
func (v Value) GetInt(key string) (int64, bool) {
	e, ok := v.Get(key)
	if !ok || e.Kind != KindInt {
		return 0, false
	}
	return e.Int, true
}
