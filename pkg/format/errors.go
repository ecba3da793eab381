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

// UnrecognizedFileTypeMessage is shown when no file type applies to a file set
const UnrecognizedFileTypeMessage = "Your filename is incorrect! " +
	"Please change your filename before you run the validator " +
	"or specify --filetype if you are running the validator locally"

var (
	// ErrEmptyFileSet is returned for a file set without paths
	ErrEmptyFileSet = errors.Base("file set is empty")
	// ErrDuplicateFileType is returned when a tag is registered twice
	ErrDuplicateFileType = errors.Base("file type already registered")
)

// ❓ MissingParameterError means the caller and the handler disagree on the
// required-parameter contract
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return e.Name + " not in parameter list"
}

// 🚫 UnrecognizedFileTypeError means no handler claims the file set and no
// usable type was forced by the caller
type UnrecognizedFileTypeError struct {
	Files    FileSet
	FileType string // the explicit type, when one was given
}

func (e *UnrecognizedFileTypeError) Error() string {
	return UnrecognizedFileTypeMessage
}

// 📄 LoadError means a file set could not be read into a table. It concerns
// the submitted data, not the stores.
type LoadError struct {
	Files    FileSet
	FileType string
	Err      error
}

func (e *LoadError) Error() string {
	return "loading " + e.Files.String() + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
