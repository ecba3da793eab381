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
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Validate runs a handler's checks over a file set.
//
// The validation parameters are required before anything is read, and Check
// only ever sees that subset of the bag.
func Validate(ctx context.Context, h Handler, files FileSet, params Params) (Report, error) {
	args, err := params.Require(h.ValidationParams())
	if err != nil {
		return Report{}, err
	}

	zerolog.Ctx(ctx).Info().Str("file_type", h.FileType()).Msgf("validating %s", files)

	tbl, err := h.Load(ctx, files)
	if err != nil {
		return Report{}, errors.WithStack(&LoadError{Files: files, FileType: h.FileType(), Err: err})
	}

	report, err := h.Check(ctx, tbl, args)
	if err != nil {
		return Report{}, errors.Errorf("checking %s: %w", files, err)
	}

	return report, nil
}

// ⚙️ Process turns a valid file set into the normalized output.
//
// Preprocess output is merged over the caller's bag (its keys win), the
// processing parameters are required from the merged bag, then the data is
// loaded and handed to Transform along with that subset only.
func Process(ctx context.Context, h Handler, files FileSet, params Params) (string, error) {
	extra, err := h.Preprocess(ctx, files, params)
	if err != nil {
		return "", errors.Errorf("preprocessing %s: %w", files, err)
	}

	args, err := params.Merge(extra).Require(h.ProcessParams())
	if err != nil {
		return "", err
	}

	zerolog.Ctx(ctx).Info().Str("file_type", h.FileType()).Msgf("processing %s", files)

	tbl, err := h.Load(ctx, files)
	if err != nil {
		return "", errors.WithStack(&LoadError{Files: files, FileType: h.FileType(), Err: err})
	}

	path, err := h.Transform(ctx, tbl, args)
	if err != nil {
		return "", errors.Errorf("transforming %s: %w", files, err)
	}

	return path, nil
}
