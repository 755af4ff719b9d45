/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/

// Package loki translates parsed filter groups into LogQL and runs the
// resulting queries against a Loki instance.
package loki

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/prometheus/common/model"

	"github.com/tschaefer/flowlens/internal/filters"
)

// Builder translates a FilterGroup into LogQL queries. LogQL has no OR
// across line filters, so every OR-branch becomes a query of its own and
// the caller merges the results.
type Builder struct {
	// Selector is the static stream selector content, e.g. `app="flowlens"`.
	Selector string
	// Labels lists the flow fields indexed as stream labels; clauses on
	// those fields become selector matchers instead of line filters.
	Labels []string
}

func (b *Builder) BuildQueries(group filters.FilterGroup) ([]string, error) {
	if len(group) == 0 {
		return []string{"{" + b.Selector + "}"}, nil
	}

	queries := make([]string, 0, len(group))
	for _, query := range group {
		built, err := b.buildQuery(query)
		if err != nil {
			return nil, err
		}
		queries = append(queries, built)
	}

	return queries, nil
}

func (b *Builder) buildQuery(query filters.SingleQuery) (string, error) {
	selector := []string{b.Selector}
	var line strings.Builder

	for _, clause := range query {
		// Legacy label charset: Loki stream labels and JSON field names
		// share it, regardless of the UTF-8 name validation scheme.
		if !model.LabelName(clause.Key).IsValidLegacy() {
			return "", fmt.Errorf("invalid field name %q", clause.Key)
		}

		if slices.Contains(b.Labels, clause.Key) {
			selector = append(selector, labelMatcher(clause))
			continue
		}
		line.WriteString(lineFilter(clause))
	}

	return "{" + strings.Join(selector, ",") + "}" + line.String(), nil
}

func labelMatcher(clause filters.Clause) string {
	op := "="
	if clause.Operator == filters.OperatorNotMatch {
		op = "!="
	}
	value, _ := unquote(clause.Value)
	return fmt.Sprintf(`%s%s"%s"`, clause.Key, op, value)
}

// lineFilter renders one clause as a LogQL line filter against the
// JSON-shaped log line. Quoted and numeric values filter on the exact
// field value, unquoted text on a substring of it.
func lineFilter(clause filters.Clause) string {
	value, quoted := unquote(clause.Value)

	if quoted {
		return filterOp(clause, false) + fmt.Sprintf(" `\"%s\":\"%s\"`", clause.Key, value)
	}
	if _, err := strconv.Atoi(value); err == nil {
		return filterOp(clause, false) + fmt.Sprintf(" `\"%s\":%s`", clause.Key, value)
	}
	return filterOp(clause, true) + fmt.Sprintf(" `\"%s\":\"[^\"]*%s`", clause.Key, regexp.QuoteMeta(value))
}

func filterOp(clause filters.Clause, re bool) string {
	switch {
	case clause.Operator == filters.OperatorNotMatch && re:
		return " !~"
	case clause.Operator == filters.OperatorNotMatch:
		return " !="
	case re:
		return " |~"
	default:
		return " |="
	}
}

func unquote(value string) (string, bool) {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1], true
	}
	return value, false
}
