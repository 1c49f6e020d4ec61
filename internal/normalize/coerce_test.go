package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStr(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string trimmed", "  Acme  ", "Acme"},
		{"float integral", float64(42), "42"},
		{"float fractional", 3.5, "3.5"},
		{"bool", true, "true"},
		{"nil", nil, ""},
		{"map collapses", map[string]any{"a": 1}, ""},
		{"slice collapses", []any{"a"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Str(tt.in))
		})
	}
}

func TestStrSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, StrSlice([]any{" a ", "b", "", nil}))
	assert.Equal(t, []string{"x"}, StrSlice([]string{"x", " "}))
	// Non-arrays coerce to empty, never nil.
	assert.NotNil(t, StrSlice("not an array"))
	assert.Empty(t, StrSlice("not an array"))
	assert.Empty(t, StrSlice(nil))
}

func TestFloat(t *testing.T) {
	f, ok := Float(float64(0.8))
	assert.True(t, ok)
	assert.Equal(t, 0.8, f)

	f, ok = Float("0.75")
	assert.True(t, ok)
	assert.Equal(t, 0.75, f)

	_, ok = Float("abc")
	assert.False(t, ok)

	_, ok = Float(nil)
	assert.False(t, ok)
}

func TestURLs(t *testing.T) {
	in := []any{
		"https://societe.com/fiche/acme",
		"http://linkedin.com/company/acme",
		"not a url",
		"ftp://files.example.com/x",
		"www.acme.fr", // no scheme
		"",
	}
	assert.Equal(t, []string{
		"https://societe.com/fiche/acme",
		"http://linkedin.com/company/acme",
	}, URLs(in))
}

func TestObj(t *testing.T) {
	assert.Nil(t, Obj("x"))
	assert.Nil(t, Obj(nil))
	assert.Equal(t, map[string]any{"a": 1}, Obj(map[string]any{"a": 1}))
}
