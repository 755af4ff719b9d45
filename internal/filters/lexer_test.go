/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLex_GroupIndices(t *testing.T) {
	tokens, err := lex("foo=a&bar=b|baz=c")
	require.NoError(t, err)

	assert.Equal(t, []clauseToken{
		{group: 0, text: "foo=a"},
		{group: 0, text: "bar=b"},
		{group: 1, text: "baz=c"},
	}, tokens)
}

func TestLex_SingleClause(t *testing.T) {
	tokens, err := lex("foo=a")
	require.NoError(t, err)

	assert.Equal(t, []clauseToken{{group: 0, text: "foo=a"}}, tokens)
}

func TestLex_QuotedSpans(t *testing.T) {
	tokens, err := lex(`foo="a&b"&bar="c|d"`)
	require.NoError(t, err)

	assert.Equal(t, []clauseToken{
		{group: 0, text: `foo="a&b"`},
		{group: 0, text: `bar="c|d"`},
	}, tokens)
}

func TestLex_EmptyTokens(t *testing.T) {
	_, err := lex("foo=a&&bar=b")
	assert.ErrorIs(t, err, ErrEmptyClause)

	_, err = lex("|foo=a")
	assert.ErrorIs(t, err, ErrEmptyGroup)
}

func TestSplitOutsideQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sep      byte
		expected []string
	}{
		{"plain", "a&b&c", '&', []string{"a", "b", "c"}},
		{"no separator", "abc", '&', []string{"abc"}},
		{"quoted separator", `a"x&y"&b`, '&', []string{`a"x&y"`, "b"}},
		{"empty parts", "&a&", '&', []string{"", "a", ""}},
		{"empty input", "", '&', []string{""}},
		{"unterminated quote", `a"x&y`, '&', []string{`a"x&y`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitOutsideQuotes(tt.input, tt.sep))
		})
	}
}

func TestBuildClause(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected Clause
	}{
		{"match", "foo=bar", NewMatch("foo", "bar")},
		{"not match", "foo!=bar", NewNotMatch("foo", "bar")},
		{"quoted value", `foo="bar"`, NewMatch("foo", `"bar"`)},
		{"value with operator char", "foo=a=b", NewMatch("foo", "a=b")},
		{"value with comma", "foo=a,b", NewMatch("foo", "a,b")},
		{"key padding trimmed", " foo =bar", NewMatch("foo", "bar")},
		{"empty value", "foo=", NewMatch("foo", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, err := buildClause(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, clause)
		})
	}
}

func TestBuildClause_Malformed(t *testing.T) {
	for _, token := range []string{"foobar", "=a", "!=a", "  =a"} {
		_, err := buildClause(token)
		assert.ErrorIs(t, err, ErrMalformedClause, "token %q", token)
	}
}
