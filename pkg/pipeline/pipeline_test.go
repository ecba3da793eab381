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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tabgenie/pkg/format"
	"github.com/walteh/tabgenie/pkg/formats"
	"github.com/walteh/tabgenie/pkg/store"
	"gitlab.com/tozd/go/errors"
)

const filenameMessage = "Your filename is incorrect! Please change your filename before you run the validator or specify --filetype if you are running the validator locally"

// 🔧 MockContainers is a mock implementation of store.ContainerStore
type MockContainers struct {
	mock.Mock
}

func (m *MockContainers) Stat(ctx context.Context, id string) (store.ContainerInfo, error) {
	result := m.Called(ctx, id)
	return result.Get(0).(store.ContainerInfo), result.Error(1)
}

func (m *MockContainers) Ensure(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContainers) List(ctx context.Context, id string) ([]string, error) {
	result := m.Called(ctx, id)
	return result.Get(0).([]string), result.Error(1)
}

func (m *MockContainers) Download(ctx context.Context, id, name, dir string) (string, error) {
	result := m.Called(ctx, id, name, dir)
	return result.String(0), result.Error(1)
}

func (m *MockContainers) Upload(ctx context.Context, id, path string) error {
	return m.Called(ctx, id, path).Error(0)
}

func TestFormatReport(t *testing.T) {
	tests := []struct {
		name      string
		errText   string
		warnText  string
		wantValid bool
		wantMsg   string
	}{
		{
			name:      "clean",
			wantValid: true,
			wantMsg:   "YOUR FILE IS VALIDATED!\n",
		},
		{
			name:      "errors_and_warnings",
			errText:   "error\nnow",
			warnText:  "warning\nnow",
			wantValid: false,
			wantMsg:   "----------------ERRORS----------------\nerror\nnow-------------WARNINGS-------------\nwarning\nnow",
		},
		{
			name:      "errors_only_keeps_warning_banner",
			errText:   "err\n",
			wantValid: false,
			wantMsg:   "----------------ERRORS----------------\nerr\n-------------WARNINGS-------------\n",
		},
		{
			name:      "warnings_only",
			warnText:  "warning\nnow",
			wantValid: true,
			wantMsg:   "YOUR FILE IS VALIDATED!\n-------------WARNINGS-------------\nwarning\nnow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := FormatReport(tt.errText, tt.warnText)
			assert.Equal(t, tt.wantValid, valid, "validity should match")
			assert.Equal(t, tt.wantMsg, msg, "message should match")
		})
	}
}

func TestValidateFileSet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	reg := formats.Defaults()

	cna := filepath.Join(dir, "data_CNA_SAGE.txt")
	require.NoError(t, os.WriteFile(cna, []byte("Hugo_Symbol\tS1\nTP53\t0\nTP53\t1\n"), 0o644))
	empty := filepath.Join(dir, "clinical.txt")
	require.NoError(t, os.WriteFile(empty, []byte("SAMPLE_ID\tPATIENT_ID\tSEX\n"), 0o644))

	t.Run("classified_with_warnings", func(t *testing.T) {
		res, err := ValidateFileSet(ctx, reg, nil, format.FileSet{cna}, "SAGE", "", format.Params{})
		require.NoError(t, err, "validate should succeed")
		assert.True(t, res.Valid, "warnings do not invalidate")
		assert.Equal(t, formats.CNA, res.FileType, "file type should match")
		assert.Equal(t, ValidatedBanner+WarningsBanner+"cna: Duplicated Hugo_Symbol values: TP53\n", res.Message, "message should match")
	})

	t.Run("explicit_type_bypasses_name", func(t *testing.T) {
		res, err := ValidateFileSet(ctx, reg, nil, format.FileSet{empty}, "SAGE", formats.Clinical, format.Params{})
		require.NoError(t, err, "validate should succeed")
		assert.False(t, res.Valid, "empty file is invalid")
		assert.Equal(t, formats.Clinical, res.FileType, "file type should match")
		assert.Contains(t, res.Message, "clinical: File must not be empty", "message should carry the finding")
	})

	t.Run("unknown_explicit_type", func(t *testing.T) {
		_, err := ValidateFileSet(ctx, reg, nil, format.FileSet{"clinical.txt"}, "SAGE", "foobar", format.Params{})
		var unrec *format.UnrecognizedFileTypeError
		require.True(t, errors.As(err, &unrec), "should be unrecognized")
		assert.Equal(t, "foobar", unrec.FileType, "explicit type should be kept")
		assert.Equal(t, filenameMessage, err.Error(), "message should match")
	})

	t.Run("unclassified", func(t *testing.T) {
		_, err := ValidateFileSet(ctx, reg, nil, format.FileSet{"clinical.txt"}, "SAGE", "", format.Params{})
		var unrec *format.UnrecognizedFileTypeError
		require.True(t, errors.As(err, &unrec), "should be unrecognized")
		assert.Equal(t, filenameMessage, err.Error(), "message should match")
	})
}

func TestProcessFileSet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	reg := formats.Defaults()

	src := filepath.Join(dir, "path.csv")
	require.NoError(t, os.WriteFile(src, []byte("a\tb\n1\t2\n"), 0o644))
	out := filepath.Join(dir, "out.csv")

	t.Run("destination_injected", func(t *testing.T) {
		got, err := ProcessFileSet(ctx, reg, nil, format.FileSet{src}, "SAGE", "", "db9", format.Params{format.ParamNewPath: out})
		require.NoError(t, err, "process should succeed")
		assert.Equal(t, out, got, "output path should match")

		written, err := os.ReadFile(out)
		require.NoError(t, err, "reading output")
		assert.Equal(t, "A\tB\n1\t2\n", string(written), "headers should be upper-cased")
	})

	t.Run("missing_new_path", func(t *testing.T) {
		_, err := ProcessFileSet(ctx, reg, nil, format.FileSet{src}, "SAGE", "", "db9", format.Params{})
		var miss *format.MissingParameterError
		require.True(t, errors.As(err, &miss), "should be missing parameter")
		assert.Equal(t, "newPath not in parameter list", err.Error(), "message should match")
	})

	t.Run("unknown_explicit_type", func(t *testing.T) {
		_, err := ProcessFileSet(ctx, reg, nil, format.FileSet{src}, "SAGE", "foobar", "db9", format.Params{format.ParamNewPath: out})
		var unrec *format.UnrecognizedFileTypeError
		assert.True(t, errors.As(err, &unrec), "should be unrecognized")
	})
}

func TestCheckParentIDInput(t *testing.T) {
	assert.NoError(t, CheckParentIDInput("", "foo"), "file type alone is fine")
	assert.NoError(t, CheckParentIDInput("", ""), "neither is fine")
	assert.NoError(t, CheckParentIDInput("foo", ""), "parent id alone is fine")

	err := CheckParentIDInput("foo", "foo")
	assert.ErrorIs(t, err, ErrParentIDWithFileType, "both should fail")
	assert.EqualError(t, err, "If you used --parentid, you must not use --filetype", "message should match")
	var pce *PermissionOrContainerError
	require.True(t, errors.As(err, &pce), "should be a permission or container error")
	assert.Equal(t, "foo", pce.ID, "parent id should be kept")
}

func TestCheckCenterInput(t *testing.T) {
	centers := []string{"FOO", "WOW"}
	assert.NoError(t, CheckCenterInput("FOO", centers), "known center")

	err := CheckCenterInput("BARFOO", centers)
	assert.EqualError(t, err, "Must specify one of these centers: FOO, WOW", "message should match")
}

func TestCheckParentIDPermissionContainer(t *testing.T) {
	ctx := context.Background()
	const msg = "Provided id must be your input folder id or the id of a folder inside your input directory"

	tests := []struct {
		name    string
		statErr error
		wantMsg string
		wantPCE bool
	}{
		{name: "container"},
		{name: "no_permission", statErr: errors.WithStack(store.ErrAccessDenied), wantMsg: msg, wantPCE: true},
		{name: "not_container", statErr: errors.WithStack(store.ErrNotContainer), wantMsg: msg, wantPCE: true},
		{name: "other_failure", statErr: errors.New("connection reset"), wantMsg: "connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			containers := new(MockContainers)
			containers.On("Stat", ctx, "syn123").Return(store.ContainerInfo{ID: "syn123"}, tt.statErr)

			err := CheckParentIDPermissionContainer(ctx, containers, "syn123")
			containers.AssertExpectations(t)

			if tt.wantMsg == "" {
				assert.NoError(t, err, "container should pass")
				return
			}
			assert.ErrorContains(t, err, tt.wantMsg, "message should match")
			var pce *PermissionOrContainerError
			assert.Equal(t, tt.wantPCE, errors.As(err, &pce), "error type should match")
		})
	}

	t.Run("empty_id_skips", func(t *testing.T) {
		containers := new(MockContainers)
		assert.NoError(t, CheckParentIDPermissionContainer(ctx, containers, ""), "empty id skips the check")
		containers.AssertNotCalled(t, "Stat", mock.Anything, mock.Anything)
	})
}
