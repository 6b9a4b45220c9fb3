// Package redact strips credentials from strings before they are logged.
// Completion-API errors sometimes echo request headers back, so backend
// errors pass through String before reaching a log handler.
package redact

import "strings"

const placeholder = "[REDACTED]"

// String replaces each sensitive value in s with [REDACTED]. Values shorter
// than 4 characters are ignored so that empty or trivial keys never blank
// out ordinary text.
func String(s string, sensitive ...string) string {
	for _, v := range sensitive {
		if len(v) < 4 {
			continue
		}
		s = strings.ReplaceAll(s, v, placeholder)
	}
	return s
}

// Error is String applied to err.Error(); nil stays "".
func Error(err error, sensitive ...string) string {
	if err == nil {
		return ""
	}
	return String(err.Error(), sensitive...)
}
