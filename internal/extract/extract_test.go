package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_PlainJSON(t *testing.T) {
	res, err := Object(`{"prospects": [{"name": "Acme"}]}`)
	require.NoError(t, err)
	assert.False(t, res.Repaired)
	assert.Contains(t, res.Object, "prospects")
}

func TestObject_MarkdownFenced(t *testing.T) {
	text := "Here are the results:\n```json\n{\"markets\": [{\"marketName\": \"Ferroviaire\"}]}\n```\nLet me know if you need more."
	res, err := Object(text)
	require.NoError(t, err)
	assert.False(t, res.Repaired)
	assert.Contains(t, res.Object, "markets")
}

func TestObject_SurroundingProse(t *testing.T) {
	text := `Based on my research, I found the following contacts.

{"contacts": [{"lastName": "Durand", "firstName": "Marie"}]}

These were sourced from LinkedIn.`
	res, err := Object(text)
	require.NoError(t, err)

	contacts, ok := res.Object["contacts"].([]any)
	require.True(t, ok)
	assert.Len(t, contacts, 1)
}

func TestObject_DiscriminatorInsideLargerText(t *testing.T) {
	// A brace-bearing preamble before the real object: the naive
	// first-{-to-last-} span is invalid, the discriminator anchor is not.
	text := `Note: use {placeholder} syntax carefully.
{"analysis": {"companySummary": "Fabricant de ressorts"}}`
	res, err := Object(text)
	require.NoError(t, err)
	assert.Contains(t, res.Object, "analysis")
}

func TestObject_NamedArrayFallback(t *testing.T) {
	// No enclosing object anywhere, but the named array is intact: a
	// minimal wrapper is synthesized around it.
	text := `The response was cut short. "contacts": ["Marie Petit", "Jean Durand"] end of output`
	res, err := Object(text)
	require.NoError(t, err)
	contacts, ok := res.Object["contacts"].([]any)
	require.True(t, ok)
	assert.Len(t, contacts, 2)
}

func TestObject_TruncatedMidArray(t *testing.T) {
	text := `{"markets": [{"marketName": "Automobile", "justification": "Forte demande"}, {"marketName": "Aéronau`
	res, err := Object(text)
	require.NoError(t, err)
	assert.True(t, res.Repaired)

	markets, ok := res.Object["markets"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, markets)
	first, ok := markets[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Automobile", first["marketName"])
}

func TestObject_NoJSONAtAll(t *testing.T) {
	_, err := Object("I'm sorry, I could not find any relevant companies for this request.")
	var nje *NoJSONError
	require.ErrorAs(t, err, &nje)
	assert.NotEmpty(t, nje.Snippet)
}

func TestObject_SnippetBounded(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	_, err := Object(string(long))
	var nje *NoJSONError
	require.ErrorAs(t, err, &nje)
	assert.LessOrEqual(t, len(nje.Snippet), snippetLen)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no tag", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"prose around fence", "sure!\n```json\n{\"a\": 1}\n```\nthanks", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestBalancedSpan_StringAware(t *testing.T) {
	text := `{"a": "brace } inside", "b": 2} trailing`
	span, ok := balancedSpan(text, 0)
	require.True(t, ok)
	assert.Equal(t, `{"a": "brace } inside", "b": 2}`, span)
}
