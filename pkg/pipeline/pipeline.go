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

	"github.com/rs/zerolog"
	"github.com/walteh/tabgenie/pkg/format"
	"github.com/walteh/tabgenie/pkg/store"
)

// Report banners
const (
	ValidatedBanner = "YOUR FILE IS VALIDATED!\n"
	ErrorsBanner    = "----------------ERRORS----------------\n"
	WarningsBanner  = "-------------WARNINGS-------------\n"
)

// 📋 Result is the outcome of validating one file set
type Result struct {
	Valid    bool
	Message  string
	FileType string
}

// 📝 FormatReport turns accumulated findings into a verdict and the message
// shown to the submitter. Warnings never affect validity.
func FormatReport(errText, warnText string) (bool, string) {
	if errText == "" {
		msg := ValidatedBanner
		if warnText != "" {
			msg += WarningsBanner + warnText
		}
		return true, msg
	}
	return false, ErrorsBanner + errText + WarningsBanner + warnText
}

// resolve picks the handler for a file set. An explicit type bypasses
// recognition entirely.
func resolve(reg *format.Registry, client *store.Client, files format.FileSet, center, fileType string) (format.Handler, error) {
	if fileType == "" {
		tag, ok := reg.Classify(client, files, center)
		if !ok {
			return nil, &format.UnrecognizedFileTypeError{Files: files}
		}
		fileType = tag
	}

	h, ok := reg.New(fileType, client, center)
	if !ok {
		return nil, &format.UnrecognizedFileTypeError{Files: files, FileType: fileType}
	}
	return h, nil
}

// 🔍 ValidateFileSet validates one file set for a center.
//
// With an empty fileType the set is classified by name; otherwise the named
// type is used as is. The report is formatted with FormatReport and logged.
func ValidateFileSet(ctx context.Context, reg *format.Registry, client *store.Client, files format.FileSet, center, fileType string, params format.Params) (Result, error) {
	h, err := resolve(reg, client, files, center, fileType)
	if err != nil {
		return Result{}, err
	}

	rep, err := format.Validate(ctx, h, files, params)
	if err != nil {
		return Result{}, err
	}

	valid, msg := FormatReport(rep.Errors, rep.Warnings)

	logger := zerolog.Ctx(ctx)
	if valid {
		logger.Info().Str("file_type", h.FileType()).Str("files", files.String()).Msg(msg)
	} else {
		logger.Error().Str("file_type", h.FileType()).Str("files", files.String()).Msg(msg)
	}

	return Result{Valid: valid, Message: msg, FileType: h.FileType()}, nil
}

// ⚙️ ProcessFileSet processes a file set that is already known to be valid.
// It resolves the handler exactly like ValidateFileSet, does not validate
// again, and sets the databaseId parameter to destinationID.
func ProcessFileSet(ctx context.Context, reg *format.Registry, client *store.Client, files format.FileSet, center, fileType, destinationID string, params format.Params) (string, error) {
	h, err := resolve(reg, client, files, center, fileType)
	if err != nil {
		return "", err
	}

	bag := params.Merge(format.Params{format.ParamDatabaseID: destinationID})

	return format.Process(ctx, h, files, bag)
}
