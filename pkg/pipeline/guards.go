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

package pipeline

import (
	"context"
	"slices"
	"strings"

	"github.com/walteh/tabgenie/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// ErrParentIDWithFileType is the cause of the PermissionOrContainerError
// returned when both an upload target and an explicit file type are given
var ErrParentIDWithFileType = errors.Base("If you used --parentid, you must not use --filetype")

// 🏢 UnknownCenterError is returned for a center outside the configured list
type UnknownCenterError struct {
	Center  string
	Centers []string
}

func (e *UnknownCenterError) Error() string {
	return "Must specify one of these centers: " + strings.Join(e.Centers, ", ")
}

// 🔐 PermissionOrContainerError is returned when an upload target cannot be
// used: it is unreadable, it is not a container, or it was combined with an
// explicit file type
type PermissionOrContainerError struct {
	ID  string
	Err error
}

func (e *PermissionOrContainerError) Error() string {
	if errors.Is(e.Err, ErrParentIDWithFileType) {
		return ErrParentIDWithFileType.Error()
	}
	return "Provided id must be your input folder id or the id of a folder inside your input directory"
}

func (e *PermissionOrContainerError) Unwrap() error {
	return e.Err
}

// CheckParentIDInput rejects an upload target combined with an explicit
// file type. Either one alone is fine.
func CheckParentIDInput(parentID, fileType string) error {
	if parentID != "" && fileType != "" {
		return &PermissionOrContainerError{ID: parentID, Err: errors.WithStack(ErrParentIDWithFileType)}
	}
	return nil
}

// CheckCenterInput rejects a center outside centers
func CheckCenterInput(center string, centers []string) error {
	if slices.Contains(centers, center) {
		return nil
	}
	return &UnknownCenterError{Center: center, Centers: centers}
}

// 🔐 CheckParentIDPermissionContainer verifies the upload target is a
// readable container. An empty id is not checked.
func CheckParentIDPermissionContainer(ctx context.Context, containers store.ContainerStore, id string) error {
	if id == "" {
		return nil
	}
	_, err := containers.Stat(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrAccessDenied), errors.Is(err, store.ErrNotContainer):
		return &PermissionOrContainerError{ID: id, Err: err}
	default:
		return errors.Errorf("checking container %s: %w", id, err)
	}
}
