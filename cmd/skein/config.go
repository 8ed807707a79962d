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
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/skein-torrent/skein/peer"
	"github.com/skein-torrent/skein/scheduler"
)

// Config composes every component's configuration into the one document an
// operator can hand to skein via --config.
type Config struct {
	ZapLogging      zap.Config       `yaml:"zap"`
	Peer            peer.Config      `yaml:"peer"`
	Scheduler       scheduler.Config `yaml:"scheduler"`
	NumPeers        int              `yaml:"num_peers"`
	AnnounceTimeout time.Duration    `yaml:"announce_timeout"`
}

func defaultConfig() Config {
	return Config{
		ZapLogging:      zap.NewDevelopmentConfig(),
		NumPeers:        30,
		AnnounceTimeout: 10 * time.Second,
	}
}

// loadConfig reads path as YAML into a Config seeded with defaults. An
// empty path is not an error -- it just means "use the defaults".
func loadConfig(path string) (Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}
