// Package durationspec parses compact capture-duration strings such as
// "30", "90s", "15m", "6h" or "2d" into durations. A bare number means
// seconds.
package durationspec

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidSpec = errors.New("invalid duration spec")

var specPattern = regexp.MustCompile(`^(\d+)([smhd]?)$`)

var unitSeconds = map[string]int64{
	"":  1,
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// ParseSeconds converts a duration spec into a second count.
func ParseSeconds(spec string) (int64, error) {
	m := specPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(spec)))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}

	val, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}

	return val * unitSeconds[m[2]], nil
}

// Parse converts a duration spec into a time.Duration.
func Parse(spec string) (time.Duration, error) {
	secs, err := ParseSeconds(spec)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}
