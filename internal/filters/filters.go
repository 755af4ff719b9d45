/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/

// Package filters implements the URL-safe filter expression grammar used by
// the dashboard: clauses like key=value or key!=value, AND-combined with
// '&' within a group, groups OR-combined with '|'. The whole expression
// travels percent-encoded as a single query parameter.
package filters

import (
	"fmt"
	"net/url"
	"strings"
)

// Parse decodes and parses a raw encoded filter string into a FilterGroup.
// Parsing is all-or-nothing: any malformed clause fails the whole call, so a
// broken filter can never silently match more than intended. An empty input
// yields an empty FilterGroup, meaning no filtering.
func Parse(raw string) (FilterGroup, error) {
	if raw == "" {
		return nil, nil
	}

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrDecoding, raw)
	}
	if decoded == "" {
		return nil, nil
	}

	tokens, err := lex(decoded)
	if err != nil {
		return nil, err
	}

	var groups FilterGroup
	for _, token := range tokens {
		clause, err := buildClause(token.text)
		if err != nil {
			return nil, err
		}
		// Group indices from the lexer increase monotonically, so a new
		// index always starts the next single query.
		if token.group == len(groups) {
			groups = append(groups, SingleQuery{})
		}
		groups[token.group] = append(groups[token.group], clause)
	}

	return groups, nil
}

// buildClause splits one clause token at its operator. The scan checks for
// the negated form before the bare '=': the operator sits at the first '='
// in the token, and a directly preceding '!' makes it a not-match. Without
// this order a negated clause would parse as a match on a key ending in '!'.
func buildClause(token string) (Clause, error) {
	i := strings.IndexByte(token, '=')
	if i < 0 {
		return Clause{}, fmt.Errorf("%w: no operator in %q", ErrMalformedClause, token)
	}

	op := OperatorMatch
	keyEnd := i
	if i > 0 && token[i-1] == '!' {
		op = OperatorNotMatch
		keyEnd = i - 1
	}

	key := strings.TrimSpace(token[:keyEnd])
	if key == "" {
		return Clause{}, fmt.Errorf("%w: empty key in %q", ErrMalformedClause, token)
	}

	return Clause{Key: key, Operator: op, Value: token[i+1:]}, nil
}
