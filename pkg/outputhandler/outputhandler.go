// Copyright 2025 venslabs
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

// Package outputhandler renders validation run summaries: a human-readable
// console listing, machine-consumable JSON, or per-document CSV exception
// exports.
package outputhandler

import "github.com/venslabs/sbomcheck/pkg/check"

// OutputHandler consumes a run summary and emits it on Close.
type OutputHandler interface {
	HandleSummary(*check.RunSummary) error
	Close() error
}
