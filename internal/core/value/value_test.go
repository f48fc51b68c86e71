package value

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want Type
	}{
		{"go nil", nil, TypeNull},
		{"null", Null{}, TypeNull},
		{"nil object", (*Object)(nil), TypeNull},
		{"bool", Bool(true), TypeBoolean},
		{"number", Number("1.5"), TypeNumber},
		{"string", String("x"), TypeString},
		{"empty array", Array{}, TypeArray},
		{"object", NewObject(), TypeObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	v, err := Parse(`{"z":1,"a":{"y":true,"b":null},"m":[1,"two",3.50]}`)
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	inner, _ := obj.Get("a")
	assert.Equal(t, []string{"y", "b"}, inner.(*Object).Keys())

	m, _ := obj.Get("m")
	assert.Equal(t, Array{Number("1"), String("two"), Number("3.50")}, m)

	assert.Equal(t, `{"z":1,"a":{"y":true,"b":null},"m":[1,"two",3.50]}`, string(Marshal(v)))
}

func TestParse_Scalars(t *testing.T) {
	tests := map[string]Value{
		`null`:        Null{},
		`true`:        Bool(true),
		` false `:     Bool(false),
		`-12.5e3`:     Number("-12.5e3"),
		`"a\"bA"`: String(`a"bA`),
	}
	for in, want := range tests {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParse_DuplicateKeysLastWins(t *testing.T) {
	v := MustParse(`{"a":1,"b":2,"a":3}`)
	obj := v.(*Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	got, _ := obj.Get("a")
	assert.Equal(t, Number("3"), got)
}

func TestParse_SyntaxError(t *testing.T) {
	for _, in := range []string{"", "not json", `{key: value}`, `{"a":1`, `[1,]`} {
		_, err := Parse(in)
		require.Error(t, err, in)

		var se *SyntaxError
		assert.ErrorAs(t, err, &se, in)
		assert.Contains(t, err.Error(), "invalid JSON")
	}
}

func TestParse_TruncatedInput(t *testing.T) {
	tests := []struct {
		in     string
		offset int64
	}{
		{"1.", 2},
		{"tru", 3},
		{`{"a":1`, 6},
		{`"abc`, 4},
		{"-", 1},
	}
	for _, tt := range tests {
		_, err := Parse(tt.in)
		require.Error(t, err, tt.in)

		var se *SyntaxError
		require.ErrorAs(t, err, &se, tt.in)
		assert.Equal(t, tt.offset, se.Offset, tt.in)
		assert.Equal(t, "unexpected end of JSON input", se.Msg, tt.in)
		assert.NotContains(t, err.Error(), "' '", tt.in)
	}

	// A real trailing space is still named.
	_, err := Parse("1. ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid character ' '")
}

func TestParseOrEmpty(t *testing.T) {
	v, err := ParseOrEmpty("  \n\t ")
	require.NoError(t, err)
	assert.Equal(t, TypeObject, Classify(v))
	assert.Equal(t, 0, v.(*Object).Len())

	_, err = ParseOrEmpty("{")
	assert.Error(t, err)
}

func TestMarshal_EscapesAndEmbeds(t *testing.T) {
	obj := NewObject()
	obj.Set("html", String("<b>&</b>"))
	obj.Set("ctl", String("line\nnext\ttab\x01"))
	obj.Set("list", Array(nil))
	obj.Set("nothing", nil)

	assert.Equal(t, `{"html":"<b>&</b>","ctl":"line\nnext\ttab\u0001","list":[],"nothing":null}`, string(Marshal(obj)))

	// Values embed in ordinary structs through encoding/json.
	payload := struct {
		Data Value `json:"data"`
	}{Data: MustParse(`{"b":1,"a":[true,null]}`)}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"b":1,"a":[true,null]}}`, string(raw))
	assert.True(t, strings.Index(string(raw), `"b"`) < strings.Index(string(raw), `"a"`))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same scalars", `1`, `1.0`, true},
		{"different numbers", `1`, `2`, false},
		{"object key order ignored", `{"a":1,"b":2}`, `{"b":2,"a":1}`, true},
		{"array order matters", `[1,2]`, `[2,1]`, false},
		{"type mismatch", `"1"`, `1`, false},
		{"nested", `{"a":[{"b":null}]}`, `{"a":[{"b":null}]}`, true},
		{"missing key", `{"a":1}`, `{"a":1,"b":1}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(MustParse(tt.a), MustParse(tt.b)))
		})
	}
	assert.True(t, Equal(nil, Null{}))
}

func TestTruthy(t *testing.T) {
	falsy := []Value{nil, Null{}, Bool(false), Number("0"), Number("-0.0"), String("")}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "%#v", v)
	}
	truthy := []Value{Bool(true), Number("0.1"), String("0"), Array{}, NewObject()}
	for _, v := range truthy {
		assert.True(t, Truthy(v), "%#v", v)
	}
}

func TestFormat(t *testing.T) {
	out, ok := Format(`{"name":"test","value":123}`, 2)
	require.True(t, ok)
	assert.Equal(t, "{\n  \"name\": \"test\",\n  \"value\": 123\n}", out)

	out, ok = Format(`{"a":1}`, 4)
	require.True(t, ok)
	assert.Equal(t, "{\n    \"a\": 1\n}", out)

	out, ok = Format(`{}`, 2)
	require.True(t, ok)
	assert.Equal(t, "{}", out)

	_, ok = Format("not valid json", 2)
	assert.False(t, ok)
}

func TestMinify(t *testing.T) {
	out, ok := Minify("{\n  \"name\": \"test\",\n  \"value\": 123\n}")
	require.True(t, ok)
	assert.Equal(t, `{"name":"test","value":123}`, out)

	out, ok = Minify(`{"a":1}`)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, out)

	_, ok = Minify("not valid json")
	assert.False(t, ok)
}

func TestIsValidAndSize(t *testing.T) {
	for _, in := range []string{`{"key": "value"}`, `[1, 2, 3]`, `"string"`, `123`, `true`, `null`} {
		assert.True(t, IsValid(in), in)
	}
	for _, in := range []string{`not json`, `{key: value}`, ``} {
		assert.False(t, IsValid(in), in)
	}

	assert.Equal(t, 7, Size(`{"a":1}`))
	assert.Equal(t, 0, Size(""))
	emoji := `{"emoji":"😀"}`
	assert.Greater(t, Size(emoji), len([]rune(emoji)))
}
