package fieldpath

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	record := map[string]interface{}{
		"a": map[string]interface{}{
			"b": "v",
		},
		"id": json.Number("42"),
	}

	value, err := Resolve(record, "a.b")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	value, err = Resolve(record, "id")
	require.NoError(t, err)
	assert.Equal(t, json.Number("42"), value)

	_, err = Resolve(record, "a.c")
	assert.ErrorIs(t, err, ErrNotFound)

	// Path descending through a scalar.
	_, err = Resolve(record, "a.b.c")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Resolve(record, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveWithDefault(t *testing.T) {
	record := map[string]interface{}{
		"a": map[string]interface{}{
			"b": "v",
		},
	}

	assert.Equal(t, "v", ResolveWithDefault(record, "a.b", "fallback"))
	assert.Equal(t, "fallback", ResolveWithDefault(record, "a.c", "fallback"))
	assert.Equal(t, 0, ResolveWithDefault(record, "nope", 0))
}

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "nil", value: nil, want: ""},
		{name: "json number", value: json.Number("12345678901234567890"), want: "12345678901234567890"},
		{name: "bool", value: true, want: "true"},
		{name: "float", value: 2.5, want: "2.5"},
		{name: "object encodes as JSON", value: map[string]interface{}{"k": "v"}, want: `{"k":"v"}`},
		{name: "array encodes as JSON", value: []interface{}{"a", "b"}, want: `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextEncodeFailure(t *testing.T) {
	_, err := Text(map[string]interface{}{"ch": make(chan int)})
	assert.Error(t, err)
}
