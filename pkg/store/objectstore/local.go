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

package objectstore

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/tabgenie/pkg/store"
	"gitlab.com/tozd/go/errors"
)

var _ store.ContainerStore = (*Local)(nil)

// 📂 Local keeps containers as directories below a root. A container id is
// a slash-separated path relative to the root.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, errors.New("local container root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving container root: %w", err)
	}
	return &Local{root: abs}, nil
}

func (l *Local) dir(id string) (string, error) {
	rel := filepath.FromSlash(strings.Trim(id, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", errors.Errorf("container id %q: %w", id, store.ErrNotContainer)
	}
	return filepath.Join(l.root, rel), nil
}

func (l *Local) Stat(ctx context.Context, id string) (store.ContainerInfo, error) {
	dir, err := l.dir(id)
	if err != nil {
		return store.ContainerInfo{}, err
	}
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrPermission):
		return store.ContainerInfo{}, errors.Errorf("%s: %w", id, store.ErrAccessDenied)
	case errors.Is(err, fs.ErrNotExist):
		return store.ContainerInfo{}, errors.Errorf("%s does not exist: %w", id, store.ErrNotContainer)
	case err != nil:
		return store.ContainerInfo{}, errors.WithStack(err)
	case !info.IsDir():
		return store.ContainerInfo{}, errors.Errorf("%s: %w", id, store.ErrNotContainer)
	}
	return store.ContainerInfo{ID: id, Name: info.Name()}, nil
}

func (l *Local) Ensure(ctx context.Context, id string) error {
	dir, err := l.dir(id)
	if err != nil {
		return err
	}
	return errors.WithStack(os.MkdirAll(dir, 0o755))
}

// List returns the regular, non-hidden files directly inside the container
func (l *Local) List(ctx context.Context, id string) ([]string, error) {
	dir, err := l.dir(id)
	if err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(os.DirFS(dir), "*", doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", id, err)
	}
	names := matches[:0]
	for _, m := range matches {
		if !strings.HasPrefix(m, ".") {
			names = append(names, m)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (l *Local) Download(ctx context.Context, id, name, dest string) (string, error) {
	dir, err := l.dir(id)
	if err != nil {
		return "", err
	}
	out := filepath.Join(dest, filepath.Base(name))
	if err := copyFile(filepath.Join(dir, filepath.Base(name)), out); err != nil {
		return "", errors.Errorf("downloading %s from %s: %w", name, id, err)
	}
	return out, nil
}

func (l *Local) Upload(ctx context.Context, id, path string) error {
	dir, err := l.dir(id)
	if err != nil {
		return err
	}
	if err := copyFile(path, filepath.Join(dir, filepath.Base(path))); err != nil {
		return errors.Errorf("uploading %s to %s: %w", path, id, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.WithStack(err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(out.Close())
}
