// Copyright 2025 Poiesic Systems
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


package vectorstore

import "errors"

// ErrInvalidLimit is returned when a search limit is zero or negative.
var ErrInvalidLimit = errors.New("search limit must be positive")

// ErrDimensionMismatch is returned when a vector's dimensionality differs
// from the vectors already in the store.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// ErrEmptyVector is returned when a zero-length vector is passed to a
// store operation that requires one.
var ErrEmptyVector = errors.New("vector must not be empty")
