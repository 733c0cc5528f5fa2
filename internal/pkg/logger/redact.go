package logger

import "strings"

var secretKeyMarkers = []string{"password", "secret", "token", "credential"}

func redactValue(key, val string) string {
	key = strings.ToLower(key)
	for _, m := range secretKeyMarkers {
		if strings.Contains(key, m) {
			return RedactSecret(val)
		}
	}
	return val
}

// RedactSecret masks a secret for safe logging, keeping only its length class.
// "" → "", "ceirr123" → "********", anything longer than 8 → "********…"
func RedactSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return strings.Repeat("*", len(s))
	default:
		return "********…"
	}
}
