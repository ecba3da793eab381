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

// Package objectstore implements the container side of the store: center
// input folders, either as prefixes in an S3-compatible bucket or as
// directories on disk.
package objectstore

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"github.com/walteh/tabgenie/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// marker is the object that makes an empty container visible
const marker = ".keep"

// 🔧 MinioConfig reaches the bucket holding every container
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
}

func (c MinioConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.New("object store endpoint is required")
	}
	if c.Bucket == "" {
		return errors.New("object store bucket is required")
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return errors.New("object store access key and secret key must be set together")
	}
	return nil
}

var _ store.ContainerStore = (*Minio)(nil)

// 🪣 Minio keeps containers as key prefixes of one bucket. A container id is
// a slash-separated prefix such as "input/SAGE".
type Minio struct {
	client *minio.Client
	bucket string
	region string
}

func NewMinio(cfg MinioConfig) (*Minio, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	})
	if err != nil {
		return nil, errors.Errorf("creating object store client: %w", err)
	}
	return NewMinioWithClient(client, cfg.Bucket, cfg.Region)
}

func NewMinioWithClient(client *minio.Client, bucket, region string) (*Minio, error) {
	if client == nil {
		return nil, errors.New("object store client is required")
	}
	return &Minio{client: client, bucket: bucket, region: region}, nil
}

// prefix normalizes a container id into a key prefix ending in a slash
func prefix(id string) (string, error) {
	clean := strings.Trim(path.Clean("/"+id), "/")
	if clean == "" {
		return "", errors.Errorf("container id %q: %w", id, store.ErrNotContainer)
	}
	return clean + "/", nil
}

func (m *Minio) Stat(ctx context.Context, id string) (store.ContainerInfo, error) {
	p, err := prefix(id)
	if err != nil {
		return store.ContainerInfo{}, err
	}

	// an object stored under the id itself means the id names a file
	_, err = m.client.StatObject(ctx, m.bucket, strings.TrimSuffix(p, "/"), minio.StatObjectOptions{})
	if err == nil {
		return store.ContainerInfo{}, errors.Errorf("%s: %w", id, store.ErrNotContainer)
	}
	if mapped := mapError(id, err); errors.Is(mapped, store.ErrAccessDenied) {
		return store.ContainerInfo{}, mapped
	}

	// stop the listing goroutine once the first key is seen
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range m.client.ListObjects(listCtx, m.bucket, minio.ListObjectsOptions{Prefix: p, MaxKeys: 1}) {
		if obj.Err != nil {
			return store.ContainerInfo{}, mapError(id, obj.Err)
		}
		return store.ContainerInfo{ID: id, Name: path.Base(strings.TrimSuffix(p, "/"))}, nil
	}
	return store.ContainerInfo{}, errors.Errorf("%s does not exist: %w", id, store.ErrNotContainer)
}

func (m *Minio) Ensure(ctx context.Context, id string) error {
	p, err := prefix(id)
	if err != nil {
		return err
	}

	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return mapError(m.bucket, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
			return errors.Errorf("creating bucket %s: %w", m.bucket, err)
		}
	}

	_, err = m.client.PutObject(ctx, m.bucket, p+marker, bytes.NewReader(nil), 0, minio.PutObjectOptions{})
	if err != nil {
		return errors.Errorf("creating container %s: %w", id, mapError(id, err))
	}
	zerolog.Ctx(ctx).Debug().Str("container", id).Msg("container ensured")
	return nil
}

// List returns the files directly inside the container
func (m *Minio) List(ctx context.Context, id string) ([]string, error) {
	p, err := prefix(id)
	if err != nil {
		return nil, err
	}

	var names []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: p}) {
		if obj.Err != nil {
			return nil, mapError(id, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, p)
		if name == "" || name == marker || strings.HasSuffix(name, "/") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (m *Minio) Download(ctx context.Context, id, name, dir string) (string, error) {
	p, err := prefix(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Errorf("creating download directory: %w", err)
	}
	dest := filepath.Join(dir, filepath.Base(name))
	if err := m.client.FGetObject(ctx, m.bucket, p+name, dest, minio.GetObjectOptions{}); err != nil {
		return "", errors.Errorf("downloading %s from %s: %w", name, id, mapError(id, err))
	}
	return dest, nil
}

func (m *Minio) Upload(ctx context.Context, id, local string) error {
	p, err := prefix(id)
	if err != nil {
		return err
	}
	key := p + filepath.Base(local)
	if _, err := m.client.FPutObject(ctx, m.bucket, key, local, minio.PutObjectOptions{}); err != nil {
		return errors.Errorf("uploading %s to %s: %w", local, id, mapError(id, err))
	}
	return nil
}

func mapError(id string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return errors.Errorf("%s: %w", id, store.ErrAccessDenied)
	case "NoSuchBucket":
		return errors.Errorf("%s: %w", id, store.ErrNotContainer)
	}
	return errors.WithStack(err)
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
