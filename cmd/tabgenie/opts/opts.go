// Copyright 2025 walteh LLC
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

package opts

import (
	"github.com/walteh/tabgenie/pkg/config"
	"github.com/walteh/tabgenie/pkg/coordinator"
	"github.com/walteh/tabgenie/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// flags
	ConfigFile string
	Debug      bool

	// filled before a command runs
	Config      *config.Config
	Coordinator *coordinator.Coordinator
	UserLogger  *log.UserLogger

	closers []func() error
}

// OnClose registers a release function run by Close
func (o *RootOpts) OnClose(fn func() error) {
	o.closers = append(o.closers, fn)
}

// Close releases everything opened for the command, newest first
func (o *RootOpts) Close() error {
	var errs []error
	for i := len(o.closers) - 1; i >= 0; i-- {
		if err := o.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	o.closers = nil
	return errors.Join(errs...)
}
