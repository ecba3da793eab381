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

package format

import (
	"gitlab.com/tozd/go/errors"
)

// 🎒 Params is the caller-supplied parameter bag
type Params map[string]any

// Merge returns a new bag holding p overlaid with other
func (p Params) Merge(other Params) Params {
	out := make(Params, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// 🔒 Require returns only the named entries. The first name missing from the
// bag fails with a MissingParameterError; keys that were not asked for are
// dropped.
func (p Params) Require(names []string) (Params, error) {
	out := make(Params, len(names))
	for _, name := range names {
		v, ok := p[name]
		if !ok {
			return nil, &MissingParameterError{Name: name}
		}
		out[name] = v
	}
	return out, nil
}

// String returns a string entry
func (p Params) String(name string) (string, error) {
	v, ok := p[name]
	if !ok {
		return "", &MissingParameterError{Name: name}
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("parameter %s: expected string, got %T", name, v)
	}
	return s, nil
}
