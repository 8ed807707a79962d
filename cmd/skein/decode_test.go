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

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skein-torrent/skein/bencode"
)

func TestToJSONRendersUTF8StringsDirectly(t *testing.T) {
	v := bencode.String([]byte("hello"))
	require.Equal(t, "hello", toJSON(v))
}

func TestToJSONRendersNonUTF8StringsAsHex(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0x00, 0x01}
	got, ok := toJSON(bencode.String(raw)).(map[string]string)
	require.True(t, ok)
	require.Equal(t, "fffe0001", got["hex"])
}

func TestToJSONRendersListAndDict(t *testing.T) {
	v := bencode.Dict([]bencode.DictEntry{
		{Key: []byte("foo"), Value: bencode.String([]byte("bar"))},
		{Key: []byte("nums"), Value: bencode.List([]bencode.Value{bencode.Int(1), bencode.Int(2)})},
	})
	got, ok := toJSON(v).(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "bar", got["foo"])
	require.Equal(t, []interface{}{int64(1), int64(2)}, got["nums"])
}

func TestDecodeCommandPrintsJSON(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"decode", "d3:foo3:bare"})

	require.NoError(t, rootCmd.Execute())

	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, "bar", got["foo"])
}

func TestDecodeCommandRejectsMalformedInput(t *testing.T) {
	rootCmd.SetArgs([]string{"decode", "d3:foo"})
	err := rootCmd.Execute()
	require.Error(t, err)
}
