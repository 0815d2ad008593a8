package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupAlias(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  BoundingBox
		found bool
	}{
		{
			name:  "literal box",
			query: "any",
			want:  BoundingBox{West: -180, South: -90, East: 180, North: 90},
			found: true,
		},
		{
			name:  "single indirection",
			query: "all",
			want:  BoundingBox{West: -180, South: -90, East: 180, North: 90},
			found: true,
		},
		{
			name:  "case insensitive with whitespace",
			query: "  GLOBAL ",
			want:  BoundingBox{West: -180, South: -90, East: 180, North: 90},
			found: true,
		},
		{
			name:  "usa",
			query: "usa",
			want:  BoundingBox{West: -124.848974, South: 24.396308, East: -66.885444, North: 49.384358},
			found: true,
		},
		{
			name:  "indirection to usa",
			query: "continental_usa",
			want:  BoundingBox{West: -124.848974, South: 24.396308, East: -66.885444, North: 49.384358},
			found: true,
		},
		{
			name:  "unknown name",
			query: "atlantis",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, found, err := LookupAlias(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, box)
			}
		})
	}
}

func TestLookupAliasCycle(t *testing.T) {
	cyclic := map[string]aliasEntry{
		"a": {ref: "b"},
		"b": {ref: "a"},
		"self": {ref: "self"},
	}

	_, _, err := lookupAlias(cyclic, "a")
	assert.ErrorIs(t, err, ErrAliasDepthExceeded)

	_, _, err = lookupAlias(cyclic, "self")
	assert.ErrorIs(t, err, ErrAliasDepthExceeded)
}

func TestFromCoords(t *testing.T) {
	box, err := FromCoords([]float64{-1, -2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{West: -1, South: -2, East: 3, North: 4}, box)
	assert.Equal(t, []float64{-1, -2, 3, 4}, box.Coords())

	_, err = FromCoords([]float64{1, 2})
	assert.Error(t, err)
}
