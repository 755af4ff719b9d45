/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package filters

import (
	"net/url"
	"strings"
)

// Operator is the comparison asserted by a clause.
type Operator int

const (
	OperatorMatch Operator = iota
	OperatorNotMatch
)

func (o Operator) String() string {
	switch o {
	case OperatorMatch:
		return "match"
	case OperatorNotMatch:
		return "not-match"
	default:
		return "unknown"
	}
}

// Clause is one key/operator/value criterion. Value is kept verbatim,
// including surrounding quotes; interpretation is up to the consumer.
type Clause struct {
	Key      string
	Operator Operator
	Value    string
}

func NewMatch(key, value string) Clause {
	return Clause{Key: key, Operator: OperatorMatch, Value: value}
}

func NewNotMatch(key, value string) Clause {
	return Clause{Key: key, Operator: OperatorNotMatch, Value: value}
}

func (c Clause) encode() string {
	op := "="
	if c.Operator == OperatorNotMatch {
		op = "!="
	}
	return c.Key + op + c.Value
}

// SingleQuery is an ordered, AND-combined list of clauses. Repeated keys
// stay separate clauses, each an independent constraint.
type SingleQuery []Clause

func (q SingleQuery) encode() string {
	parts := make([]string, len(q))
	for i, c := range q {
		parts[i] = c.encode()
	}
	return strings.Join(parts, string(clauseSeparator))
}

// FilterGroup is an ordered, OR-combined list of single queries; the full
// parsed filter. Order is preserved for stable re-encoding and display.
type FilterGroup []SingleQuery

// Encode serializes the group back into the percent-encoded wire form.
// Parsing the result yields an equal FilterGroup.
func (g FilterGroup) Encode() string {
	if len(g) == 0 {
		return ""
	}
	parts := make([]string, len(g))
	for i, q := range g {
		parts[i] = q.encode()
	}
	return url.QueryEscape(strings.Join(parts, string(groupSeparator)))
}
