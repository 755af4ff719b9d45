/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/

// Package match evaluates a parsed filter group against flow records:
// AND within a single query, OR across single queries.
package match

import (
	"strings"

	"github.com/tschaefer/flowlens/internal/filters"
	"github.com/tschaefer/flowlens/internal/flow"
)

// Matches reports whether a record passes the filter group. An empty group
// matches everything.
func Matches(group filters.FilterGroup, r flow.Record) bool {
	if len(group) == 0 {
		return true
	}

	for _, query := range group {
		if matchesQuery(query, r) {
			return true
		}
	}
	return false
}

func matchesQuery(query filters.SingleQuery, r flow.Record) bool {
	for _, clause := range query {
		if !matchesClause(clause, r) {
			return false
		}
	}
	return true
}

// matchesClause interprets the clause value: a quoted value compares
// exactly against the field, an unquoted one as a case-insensitive
// substring. Not-match negates the outcome, so it also holds for records
// missing the field entirely.
func matchesClause(clause filters.Clause, r flow.Record) bool {
	matched := false
	if field, ok := r.Field(clause.Key); ok {
		if value, quoted := unquote(clause.Value); quoted {
			matched = field == value
		} else {
			matched = strings.Contains(strings.ToLower(field), strings.ToLower(value))
		}
	}

	if clause.Operator == filters.OperatorNotMatch {
		return !matched
	}
	return matched
}

func unquote(value string) (string, bool) {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1], true
	}
	return value, false
}
