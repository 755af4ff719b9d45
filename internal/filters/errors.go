/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package filters

import "errors"

// Parse errors. A single bad clause invalidates the whole parse; callers
// never receive a partial FilterGroup. Match with errors.Is.
var (
	ErrDecoding        = errors.New("filter string is not valid percent-encoded text")
	ErrEmptyClause     = errors.New("empty filter clause")
	ErrMalformedClause = errors.New("malformed filter clause")
	ErrEmptyGroup      = errors.New("empty filter group")
)
