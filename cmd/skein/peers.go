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

var peersCmd = &cobra.Command{
	Use:   "peers <torrent>",
	Short: "announce to the tracker and print the peer list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(configFile)
		if err != nil {
			return err
		}
		m, err := loadMetainfo(args[0])
		if err != nil {
			return err
		}
		peers, _, err := announce(config, m)
		if err != nil {
			return err
		}
		for _, p := range peers {
			fmt.Fprintln(cmd.OutOrStdout(), p.Addr())
		}
		return nil
	},
}
