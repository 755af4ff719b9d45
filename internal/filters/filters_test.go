/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package filters

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Groups(t *testing.T) {
	// 2 groups
	groups, err := Parse(url.QueryEscape("foo=a,b&bar=c|baz=d"))
	require.NoError(t, err)

	assert.Len(t, groups, 2)
	assert.Equal(t, SingleQuery{
		NewMatch("foo", "a,b"),
		NewMatch("bar", "c"),
	}, groups[0])
	assert.Equal(t, SingleQuery{
		NewMatch("baz", "d"),
	}, groups[1])

	// Resource path + port, match all
	groups, err = Parse(url.QueryEscape(`SrcK8S_Type="Pod"&SrcK8S_Namespace="default"&SrcK8S_Name="test"&SrcPort=8080`))
	require.NoError(t, err)

	assert.Len(t, groups, 1)
	assert.Equal(t, SingleQuery{
		NewMatch("SrcK8S_Type", `"Pod"`),
		NewMatch("SrcK8S_Namespace", `"default"`),
		NewMatch("SrcK8S_Name", `"test"`),
		NewMatch("SrcPort", "8080"),
	}, groups[0])

	// Resource path + port, match any
	groups, err = Parse(url.QueryEscape(`SrcK8S_Type="Pod"&SrcK8S_Namespace="default"&SrcK8S_Name="test"|SrcPort=8080`))
	require.NoError(t, err)

	assert.Len(t, groups, 2)
	assert.Equal(t, SingleQuery{
		NewMatch("SrcK8S_Type", `"Pod"`),
		NewMatch("SrcK8S_Namespace", `"default"`),
		NewMatch("SrcK8S_Name", `"test"`),
	}, groups[0])
	assert.Equal(t, SingleQuery{
		NewMatch("SrcPort", "8080"),
	}, groups[1])

	// Repeated key, both clauses retained and AND'd
	groups, err = Parse(url.QueryEscape(`SrcK8S_Type="Pod"&SrcK8S_Namespace="default"&SrcK8S_Name="test"&SrcK8S_Name="nomatch"`))
	require.NoError(t, err)

	assert.Len(t, groups, 1)
	assert.Equal(t, SingleQuery{
		NewMatch("SrcK8S_Type", `"Pod"`),
		NewMatch("SrcK8S_Namespace", `"default"`),
		NewMatch("SrcK8S_Name", `"test"`),
		NewMatch("SrcK8S_Name", `"nomatch"`),
	}, groups[0])
}

func TestParse_Operators(t *testing.T) {
	groups, err := Parse(url.QueryEscape("srcns=a|srcns!=a&dstns=a"))
	require.NoError(t, err)

	assert.Len(t, groups, 2)
	assert.Equal(t, SingleQuery{
		NewMatch("srcns", "a"),
	}, groups[0])
	assert.Equal(t, SingleQuery{
		NewNotMatch("srcns", "a"),
		NewMatch("dstns", "a"),
	}, groups[1])
}

func TestParse_QuotedSeparators(t *testing.T) {
	groups, err := Parse(url.QueryEscape(`name="a&b|c"&port=80`))
	require.NoError(t, err)

	assert.Len(t, groups, 1)
	assert.Equal(t, SingleQuery{
		NewMatch("name", `"a&b|c"`),
		NewMatch("port", "80"),
	}, groups[0])
}

func TestParse_EmptyInput(t *testing.T) {
	groups, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestParse_EmptyValue(t *testing.T) {
	groups, err := Parse(url.QueryEscape("foo=&bar!="))
	require.NoError(t, err)

	assert.Equal(t, FilterGroup{{
		NewMatch("foo", ""),
		NewNotMatch("bar", ""),
	}}, groups)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
	}{
		{"invalid percent encoding", "foo%zz=a", ErrDecoding},
		{"missing operator", url.QueryEscape("foobar&bar=c"), ErrMalformedClause},
		{"empty key", url.QueryEscape("=a"), ErrMalformedClause},
		{"empty negated key", url.QueryEscape("!=a"), ErrMalformedClause},
		{"blank key", url.QueryEscape("  =a"), ErrMalformedClause},
		{"doubled clause separator", url.QueryEscape("foo=a&&bar=b"), ErrEmptyClause},
		{"trailing clause separator", url.QueryEscape("foo=a&"), ErrEmptyClause},
		{"leading clause separator", url.QueryEscape("&foo=a"), ErrEmptyClause},
		{"bare group separator", url.QueryEscape("|"), ErrEmptyGroup},
		{"trailing group separator", url.QueryEscape("foo=a|"), ErrEmptyGroup},
		{"doubled group separator", url.QueryEscape("foo=a||bar=b"), ErrEmptyGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := Parse(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Nil(t, groups, "no partial result on error")
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	input := url.QueryEscape(`SrcK8S_Type="Pod"&SrcPort=8080|dstns!=a`)

	first, err := Parse(input)
	require.NoError(t, err)
	second, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncode_RoundTrip(t *testing.T) {
	inputs := []string{
		"foo=a,b&bar=c|baz=d",
		`SrcK8S_Type="Pod"&SrcK8S_Namespace="default"&SrcK8S_Name="test"&SrcPort=8080`,
		"srcns=a|srcns!=a&dstns=a",
		`name="a&b|c"&port=80`,
	}

	for _, input := range inputs {
		groups, err := Parse(url.QueryEscape(input))
		require.NoError(t, err)

		reparsed, err := Parse(groups.Encode())
		require.NoError(t, err)
		assert.Equal(t, groups, reparsed, "round trip for %q", input)
	}
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "", FilterGroup{}.Encode())
}
