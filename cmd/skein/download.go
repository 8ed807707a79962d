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
	"crypto/sha1"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skein-torrent/skein/assembler"
	"github.com/skein-torrent/skein/scheduler"
)

var outPath string

func init() {
	downloadPieceCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file path")
	downloadCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file path")
	downloadPieceCmd.MarkFlagRequired("out")
	downloadCmd.MarkFlagRequired("out")
}

var downloadPieceCmd = &cobra.Command{
	Use:   "download_piece -o <out> <torrent> <index>",
	Short: "download and verify a single piece, writing it to out",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "invalid piece index %q", args[1])
		}

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
		if index < 0 || index >= m.NumPieces() {
			return fmt.Errorf("piece index %d out of range [0, %d)", index, m.NumPieces())
		}

		sessions, err := dialSwarm(config, m, logger.Sugar())
		if err != nil {
			return err
		}

		sess := pickHolder(sessions, index)
		if sess == nil {
			return fmt.Errorf("no peer in the swarm holds piece %d", index)
		}
		if !sess.TryAcquire() {
			return fmt.Errorf("piece %d's only holder is already busy", index)
		}
		defer sess.Release()

		if err := sess.EnsureInterested(); err != nil {
			return errors.Wrap(err, "ensure interested")
		}
		data, err := sess.DownloadPiece(index, m.PieceLengthAt(index))
		if err != nil {
			return errors.Wrapf(err, "download piece %d", index)
		}

		expected, err := m.PieceHash(index)
		if err != nil {
			return err
		}
		sum := sha1.Sum(data)
		if !bytes.Equal(sum[:], expected) {
			return fmt.Errorf("piece %d failed sha1 verification", index)
		}

		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return errors.Wrapf(err, "write %q", outPath)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), outPath)
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download -o <out> <torrent>",
	Short: "download the full torrent, writing it to out",
	Args:  cobra.ExactArgs(1),
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

		sessions, err := dialSwarm(config, m, logger.Sugar())
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			return fmt.Errorf("no peers in the swarm responded to the handshake")
		}

		out, err := os.OpenFile(outPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return errors.Wrapf(err, "create %q", outPath)
		}
		defer out.Close()
		if err := out.Truncate(m.Length()); err != nil {
			return errors.Wrapf(err, "truncate %q", outPath)
		}

		asm := assembler.New(out, m.PieceLength())
		s := scheduler.New(config.Scheduler, m, sessions, logger.Sugar(), asm.Write)
		if err := s.Run(); err != nil {
			return errors.Wrap(err, "download")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d pieces to %s\n", asm.NumWritten(), outPath)
		return nil
	},
}
