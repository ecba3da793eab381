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
	"github.com/walteh/tabgenie/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// Factory builds a fresh handler bound to a client and a center
type Factory func(client *store.Client, center string) Handler

type entry struct {
	tag     string
	factory Factory
}

// 📚 Registry is the ordered set of known file types.
//
// Order matters: Classify returns the first type that recognizes a file set,
// so a handler that recognizes everything must come last.
type Registry struct {
	entries []entry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a file type. The factory has to build handlers reporting
// the same tag.
func (r *Registry) Register(tag string, factory Factory) error {
	if tag == "" {
		return errors.New("registering file type: empty tag")
	}
	if factory == nil {
		return errors.Errorf("registering %s: nil factory", tag)
	}
	if _, ok := r.Lookup(tag); ok {
		return errors.Errorf("registering %s: %w", tag, ErrDuplicateFileType)
	}
	if got := factory(nil, "").FileType(); got != tag {
		return errors.Errorf("registering %s: factory builds %q handlers", tag, got)
	}
	r.entries = append(r.entries, entry{tag: tag, factory: factory})
	return nil
}

// Tags returns the registered tags in registration order
func (r *Registry) Tags() []string {
	tags := make([]string, len(r.entries))
	for i, e := range r.entries {
		tags[i] = e.tag
	}
	return tags
}

func (r *Registry) Lookup(tag string) (Factory, bool) {
	for _, e := range r.entries {
		if e.tag == tag {
			return e.factory, true
		}
	}
	return nil, false
}

// New builds the handler registered under tag
func (r *Registry) New(tag string, client *store.Client, center string) (Handler, bool) {
	factory, ok := r.Lookup(tag)
	if !ok {
		return nil, false
	}
	return factory(client, center), true
}

// 🔎 Classify returns the tag of the first registered type whose handler
// recognizes the file set. Each candidate is a fresh handler bound to the
// client and center; no file is opened.
func (r *Registry) Classify(client *store.Client, files FileSet, center string) (string, bool) {
	if len(files) == 0 {
		return "", false
	}
	for _, e := range r.entries {
		if e.factory(client, center).Recognizes(files) {
			return e.tag, true
		}
	}
	return "", false
}
