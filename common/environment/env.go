// Package environment reads typed settings from environment variables.
//
// Every helper returns the parsed value or the supplied default. A variable
// that is set but cannot be parsed falls back to the default as well; callers
// that need to reject bad input should use Required and parse themselves.
package environment

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// parseOr looks up name and converts it with parse. Unset, empty or
// unparsable values yield def.
func parseOr[T any](name string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

// StringOr returns the variable's value, or def when it is unset or empty.
func StringOr(name, def string) string {
	return parseOr(name, def, func(s string) (string, error) { return s, nil })
}

// Required returns the variable's value or an error naming the missing key.
func Required(name string) (string, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return "", fmt.Errorf("environment: %s is required", name)
	}
	return v, nil
}

// BoolOr accepts anything strconv.ParseBool understands.
func BoolOr(name string, def bool) bool {
	return parseOr(name, def, strconv.ParseBool)
}

// IntOr parses a base-10 int.
func IntOr(name string, def int) int {
	return parseOr(name, def, strconv.Atoi)
}

// Int64Or parses a base-10 int64. Used for RNG seeds.
func Int64Or(name string, def int64) int64 {
	return parseOr(name, def, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

// FloatOr parses a float64.
func FloatOr(name string, def float64) float64 {
	return parseOr(name, def, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// DurationOr parses a Go duration string such as "30s" or "15m".
func DurationOr(name string, def time.Duration) time.Duration {
	return parseOr(name, def, time.ParseDuration)
}

// ListOr splits a comma-separated value, dropping blank elements. An empty
// result falls back to def.
func ListOr(name string, def []string) []string {
	out := parseOr(name, nil, func(s string) ([]string, error) {
		var items []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		return items, nil
	})
	if len(out) == 0 {
		return def
	}
	return out
}
