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
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <torrent>",
	Short: "print the metainfo of a .torrent file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMetainfo(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "info hash:    %s\n", m.InfoHash())
		fmt.Fprintf(w, "announce:     %s\n", m.Announce())
		fmt.Fprintf(w, "name:         %s\n", m.Name())
		fmt.Fprintf(w, "length:       %d\n", m.Length())
		fmt.Fprintf(w, "piece length: %d\n", m.PieceLength())
		fmt.Fprintf(w, "num pieces:   %d\n", m.NumPieces())
		return nil
	},
}
