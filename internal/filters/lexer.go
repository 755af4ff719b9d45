/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package filters

import "fmt"

const (
	groupSeparator  byte = '|'
	clauseSeparator byte = '&'
)

// clauseToken is one unsplit key/operator/value span, tagged with the
// index of the OR-group it belongs to.
type clauseToken struct {
	group int
	text  string
}

// lex splits a percent-decoded filter string into clause tokens. Separators
// inside double-quoted value spans are literal text, not structure.
func lex(input string) ([]clauseToken, error) {
	var tokens []clauseToken

	for gi, group := range splitOutsideQuotes(input, groupSeparator) {
		if group == "" {
			return nil, fmt.Errorf("%w: group %d", ErrEmptyGroup, gi+1)
		}
		for _, text := range splitOutsideQuotes(group, clauseSeparator) {
			if text == "" {
				return nil, fmt.Errorf("%w: in group %d", ErrEmptyClause, gi+1)
			}
			tokens = append(tokens, clauseToken{group: gi, text: text})
		}
	}

	return tokens, nil
}

// splitOutsideQuotes splits s on sep, ignoring separators between double
// quotes. A string without separators comes back as a single part.
func splitOutsideQuotes(s string, sep byte) []string {
	var parts []string

	start := 0
	inQuotes := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case sep:
			if inQuotes {
				continue
			}
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}
