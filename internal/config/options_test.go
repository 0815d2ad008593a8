package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureOptionsValidate(t *testing.T) {
	tests := []struct {
		name      string
		opts      CaptureOptions
		wantError bool
	}{
		{
			name: "track keywords only",
			opts: CaptureOptions{Track: []string{"golang"}},
		},
		{
			name: "locations only",
			opts: CaptureOptions{Locations: []float64{-122.75, 36.8, -121.75, 37.8}},
		},
		{
			name: "location query only",
			opts: CaptureOptions{LocationQuery: "usa"},
		},
		{
			name:      "no selector at all",
			opts:      CaptureOptions{},
			wantError: true,
		},
		{
			name:      "locations not a multiple of four",
			opts:      CaptureOptions{Locations: []float64{-122.75, 36.8}},
			wantError: true,
		},
		{
			name:      "negative max records",
			opts:      CaptureOptions{Track: []string{"x"}, MaxRecords: -1},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, SplitCSV(""))
	assert.Nil(t, SplitCSV("   "))
	assert.Equal(t, []string{"a", "b", "c"}, SplitCSV("a, b ,c"))
}

func TestParseLocations(t *testing.T) {
	coords, err := ParseLocations("-122.75,36.8,-121.75,37.8")
	require.NoError(t, err)
	assert.Equal(t, []float64{-122.75, 36.8, -121.75, 37.8}, coords)

	coords, err = ParseLocations("")
	require.NoError(t, err)
	assert.Nil(t, coords)

	_, err = ParseLocations("-122.75,36.8")
	assert.Error(t, err)

	_, err = ParseLocations("a,b,c,d")
	assert.Error(t, err)
}

func TestNormalizeLanguages(t *testing.T) {
	assert.Equal(t, []string{"en", "de"}, NormalizeLanguages([]string{"en", "de"}))
	assert.Nil(t, NormalizeLanguages([]string{"en", "*"}))
	assert.Nil(t, NormalizeLanguages([]string{"*"}))
}
