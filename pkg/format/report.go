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
	"fmt"
)

// 📋 Report accumulates validation findings. Errors make a file invalid,
// warnings never do.
type Report struct {
	Errors   string
	Warnings string
}

// Errorf appends one error finding
func (r *Report) Errorf(format string, args ...any) {
	r.Errors += fmt.Sprintf(format, args...) + "\n"
}

// Warnf appends one warning finding
func (r *Report) Warnf(format string, args ...any) {
	r.Warnings += fmt.Sprintf(format, args...) + "\n"
}

// Valid reports whether no error was recorded
func (r Report) Valid() bool {
	return r.Errors == ""
}
