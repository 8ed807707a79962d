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

package scheduler

import "time"

// Config configures a Scheduler run.
type Config struct {
	// Policy selects the piece dispatch order: "default" or "rarest_first".
	Policy string `yaml:"policy"`

	// IdleBackoff is how long a piece task sleeps before re-checking for an
	// idle holder when every current holder is busy.
	IdleBackoff time.Duration `yaml:"idle_backoff"`
}

func (c Config) applyDefaults() Config {
	if c.Policy == "" {
		c.Policy = RarestFirstPolicy
	}
	if c.IdleBackoff == 0 {
		c.IdleBackoff = 10 * time.Millisecond
	}
	return c
}
