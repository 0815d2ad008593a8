package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CaptureOptions is the immutable per-run capture configuration assembled
// from command-line flags.
type CaptureOptions struct {
	Track            []string
	Locations        []float64
	LocationQuery    string
	Duration         time.Duration
	MaxRecords       int
	Languages        []string
	NoRetweets       bool
	TerminateOnError bool
	ReportLag        time.Duration
	StallWarnings    bool
	Fields           []string
	FilterExpr       string
}

func (o *CaptureOptions) Validate() error {
	if len(o.Track) == 0 && len(o.Locations) == 0 && o.LocationQuery == "" {
		return &ValidationError{
			Field:   "track",
			Message: "track keywords are required unless --locations or --location-query is provided",
		}
	}

	if len(o.Locations)%4 != 0 {
		return &ValidationError{
			Field:   "locations",
			Message: "must contain a multiple of four floating-point numbers defining the bounding boxes to include",
		}
	}

	if o.MaxRecords < 0 {
		return &ValidationError{
			Field:   "max-records",
			Message: "max record count must be non-negative",
		}
	}

	if o.ReportLag < 0 {
		return &ValidationError{
			Field:   "report-lag",
			Message: "lag threshold must be non-negative",
		}
	}

	return nil
}

// SplitCSV parses a comma-separated flag value; an empty string yields nil.
func SplitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// ParseLocations converts a comma-separated coordinate list into floats and
// enforces the multiple-of-four shape.
func ParseLocations(value string) ([]float64, error) {
	parts := SplitCSV(value)
	if parts == nil {
		return nil, nil
	}

	if len(parts)%4 != 0 {
		return nil, &ValidationError{
			Field:   "locations",
			Message: "must contain a multiple of four floating-point numbers defining the bounding boxes to include",
		}
	}

	coords := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, &ValidationError{
				Field:   "locations",
				Message: fmt.Sprintf("%q is not a floating-point number", p),
			}
		}
		coords = append(coords, f)
	}
	return coords, nil
}

// NormalizeLanguages empties the allow-set when the wildcard '*' appears, so
// downstream filtering treats it as "allow all languages".
func NormalizeLanguages(languages []string) []string {
	for _, lang := range languages {
		if lang == "*" {
			return nil
		}
	}
	return languages
}
