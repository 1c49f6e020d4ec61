package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) map[string]any {
	t.Helper()
	require.NotEmpty(t, s, "repair returned nothing")
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &obj))
	return obj
}

func TestRepair_AlreadyValid(t *testing.T) {
	in := `{"a": 1}`
	assert.Equal(t, in, Repair(in))
}

func TestRepair_TrailingCommaObject(t *testing.T) {
	obj := mustParse(t, Repair(`{"name": "Acme", "size": "PME",}`))
	assert.Equal(t, "Acme", obj["name"])
}

func TestRepair_TrailingCommaArray(t *testing.T) {
	obj := mustParse(t, Repair(`{"sources": ["https://a.fr", "https://b.fr",]}`))
	assert.Len(t, obj["sources"], 2)
}

func TestRepair_TrailingCommaWithNewlines(t *testing.T) {
	obj := mustParse(t, Repair("{\"items\": [1, 2, 3,\n  ]\n,\n}"))
	assert.Len(t, obj["items"], 3)
}

func TestRepair_CommaInsideStringUntouched(t *testing.T) {
	obj := mustParse(t, Repair(`{"desc": "ressorts, clips,}", "n": 1,}`))
	assert.Equal(t, "ressorts, clips,}", obj["desc"])
}

func TestRepair_UnquotedKeys(t *testing.T) {
	obj := mustParse(t, Repair(`{name: "Acme", companySize: "ETI"}`))
	assert.Equal(t, "Acme", obj["name"])
	assert.Equal(t, "ETI", obj["companySize"])
}

func TestRepair_UnquotedKeyAfterNested(t *testing.T) {
	obj := mustParse(t, Repair(`{"a": {inner: 1}, outer: [2]}`))
	nested, ok := obj["a"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), nested["inner"])
}

func TestRepair_MissingClosers(t *testing.T) {
	obj := mustParse(t, Repair(`{"prospects": [{"name": "Acme"`))
	prospects, ok := obj["prospects"].([]any)
	require.True(t, ok)
	require.Len(t, prospects, 1)
}

func TestRepair_ClosersInCorrectNestingOrder(t *testing.T) {
	// A count-based balancer would append "}}]" here; the stack-based one
	// must close the array before the outer objects.
	obj := mustParse(t, Repair(`{"a": {"b": ["c"`))
	a, ok := obj["a"].(map[string]any)
	require.True(t, ok)
	b, ok := a["b"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"c"}, b)
}

func TestRepair_UnterminatedString(t *testing.T) {
	obj := mustParse(t, Repair(`{"justification": "Marché en forte croiss`))
	assert.Equal(t, "Marché en forte croiss", obj["justification"])
}

func TestRepair_DanglingColon(t *testing.T) {
	obj := mustParse(t, Repair(`{"name": "Acme", "website":`))
	assert.Equal(t, "Acme", obj["name"])
	assert.Nil(t, obj["website"])
}

func TestRepair_BadEscapeBeforeAccent(t *testing.T) {
	// Upstream failure mode: stray backslash before an accented character.
	obj := mustParse(t, Repair(`{"desc": "Fabricant de pi\èces m\étalliques"}`))
	desc, ok := obj["desc"].(string)
	require.True(t, ok)
	assert.Contains(t, desc, "ces m")
}

func TestRepair_RawNewlineInString(t *testing.T) {
	obj := mustParse(t, Repair("{\"arg\": \"ligne un\nligne deux\"}"))
	assert.Equal(t, "ligne un\nligne deux", obj["arg"])
}

func TestRepair_ProseAroundObject(t *testing.T) {
	obj := mustParse(t, Repair(`Voici le résultat : {"total": 3} — bonne journée !`))
	assert.Equal(t, float64(3), obj["total"])
}

func TestRepair_TruncatedMidElement(t *testing.T) {
	in := `{"contacts": [{"lastName": "Durand", "verified": true}, {"lastName": "Mar`
	obj := mustParse(t, Repair(in))
	contacts, ok := obj["contacts"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, contacts)
	first, ok := contacts[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Durand", first["lastName"])
}

func TestRepair_Hopeless(t *testing.T) {
	assert.Empty(t, Repair("no json here at all"))
	assert.Empty(t, Repair(""))
}

func TestRepair_ValidUnicodeEscapePreserved(t *testing.T) {
	obj := mustParse(t, Repair(`{"s": "café"}`))
	assert.Equal(t, "café", obj["s"])
}
