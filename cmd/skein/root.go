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
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skein-torrent/skein/metainfo"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFile, "config", "", "", "configuration file path")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(peersCmd)
	rootCmd.AddCommand(handshakeCmd)
	rootCmd.AddCommand(downloadPieceCmd)
	rootCmd.AddCommand(downloadCmd)
}

var rootCmd = &cobra.Command{
	Use:          "skein",
	Short:        "skein is a minimal BitTorrent client core.",
	SilenceUsage: true,
}

// Execute runs the root command, returning any error from the selected
// subcommand. The caller decides the process exit code.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the process logger from the loaded Config.
func newLogger(config Config) (*zap.Logger, error) {
	logger, err := config.ZapLogging.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}

// loadMetainfo reads and parses the .torrent file at path.
func loadMetainfo(path string) (*metainfo.Metainfo, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read torrent file %q", path)
	}
	m, err := metainfo.Load(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse torrent file %q", path)
	}
	return m, nil
}
