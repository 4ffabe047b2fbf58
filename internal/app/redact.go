package app

import (
	"os"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

var secretEnvSuffixes = []string{"_API_KEY", "_TOKEN", "_SECRET"}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func secretEnvValues() []string {
	var values []string
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		for _, suffix := range secretEnvSuffixes {
			if strings.HasSuffix(key, suffix) {
				values = append(values, value)
				break
			}
		}
	}
	return values
}

// RedactSecrets replaces known secret values with a placeholder.
// Keep this conservative: we only replace provided values and the values of
// key-like environment variables (*_API_KEY, *_TOKEN, *_SECRET).
func RedactSecrets(input string, secrets ...string) string {
	if strings.TrimSpace(input) == "" {
		return input
	}

	known := append([]string{}, secrets...)
	known = append(known, secretEnvValues()...)
	known = uniqueNonEmpty(known)
	if len(known) == 0 {
		return input
	}

	out := input
	for _, s := range known {
		out = strings.ReplaceAll(out, s, redactedPlaceholder)
	}
	return out
}

// RedactArgs applies RedactSecrets to every element of an argument vector.
// Anything persisted or logged goes through here first.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = RedactSecrets(a)
	}
	return out
}
