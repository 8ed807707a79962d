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

package peer

import "time"

// Config is the configuration for a single peer Session.
type Config struct {
	// HandshakeTimeout bounds the handshake exchange. Dialing the
	// connection happens before a Session exists and is not bounded by it.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`

	// ReadTimeout bounds every individual socket read after the handshake,
	// including waiting for bitfield, unchoke, and piece messages.
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

func (c Config) applyDefaults() Config {
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	return c
}
