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
	"net"

	"github.com/andres-erbsen/clock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skein-torrent/skein/core"
	"github.com/skein-torrent/skein/peer"
)

var handshakeCmd = &cobra.Command{
	Use:   "handshake <torrent> <ip:port>",
	Short: "perform the handshake with a single peer and report the result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(configFile)
		if err != nil {
			return errors.Wrap(err, "load config")
		}
		logger, err := newLogger(config)
		if err != nil {
			return err
		}
		defer logger.Sync()

		m, err := loadMetainfo(args[0])
		if err != nil {
			return err
		}

		localID, err := core.RandomPeerID()
		if err != nil {
			return errors.Wrap(err, "generate peer id")
		}

		conn, err := net.Dial("tcp", args[1])
		if err != nil {
			return errors.Wrapf(err, "dial %s", args[1])
		}

		sess := peer.NewSession(conn, config.Peer, clock.New(), logger.Sugar(),
			localID, m.InfoHash(), m.NumPieces())
		if err := sess.Handshake(); err != nil {
			return errors.Wrap(err, "handshake")
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "remote peer id: %s\n", sess.RemotePeerID)
		fmt.Fprintf(w, "state:          %s\n", sess.State())
		fmt.Fprintf(w, "pieces held:    %d/%d\n", len(sess.Bitfield.SetPieces()), m.NumPieces())
		return nil
	},
}
