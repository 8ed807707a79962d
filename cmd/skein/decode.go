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
	"encoding/hex"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skein-torrent/skein/bencode"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <bencoded>",
	Short: "decode a bencoded value and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := bencode.DecodeFull([]byte(args[0]))
		if err != nil {
			return errors.Wrap(err, "decode")
		}
		b, err := json.Marshal(toJSON(v))
		if err != nil {
			return errors.Wrap(err, "marshal json")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

// toJSON renders a bencode.Value as a plain Go value suitable for
// json.Marshal. Byte strings that are valid UTF-8 are rendered as JSON
// strings directly; any others are rendered as a hex-encoded object, since
// this is a debug surface, not a lossless one.
func toJSON(v bencode.Value) interface{} {
	switch v.Kind {
	case bencode.KindString:
		if utf8.Valid(v.Str) {
			return string(v.Str)
		}
		return map[string]string{"hex": hex.EncodeToString(v.Str)}
	case bencode.KindInt:
		return v.Int
	case bencode.KindList:
		out := make([]interface{}, len(v.List))
		for i, e := range v.List {
			out[i] = toJSON(e)
		}
		return out
	case bencode.KindDict:
		out := make(map[string]interface{}, len(v.Dict))
		for _, e := range v.Dict {
			out[string(e.Key)] = toJSON(e.Value)
		}
		return out
	default:
		return nil
	}
}
