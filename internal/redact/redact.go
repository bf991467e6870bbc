// Package redact strips credentials from log lines and error strings before
// they leave the process.
package redact

import (
	"io"
	"regexp"
	"strings"
)

var (
	// Matches "Bearer <token>" (JWTs and opaque tokens).
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)

	// key=value and key: value forms that show up in Google API errors and URLs.
	secretKVRe = regexp.MustCompile(`(?i)\b(access_token|refresh_token|client_secret|api[_-]?key|password)\b(["']?\s*[:=]\s*["']?)[^\s"'&]+`)
)

// minKnown is the shortest known value Secrets replaces verbatim.
const minKnown = 4

// Secrets removes obvious secret-bearing substrings from s, plus every
// occurrence of the given known values.
func Secrets(s string, known ...string) string {
	if s == "" {
		return ""
	}
	out := s
	for _, k := range known {
		if len(strings.TrimSpace(k)) < minKnown {
			continue
		}
		out = strings.ReplaceAll(out, k, "<redacted>")
	}
	out = bearerTokenRe.ReplaceAllString(out, "Bearer <redacted>")
	out = secretKVRe.ReplaceAllString(out, "$1$2<redacted>")
	return out
}

// Writer returns an io.Writer that passes each write through Secrets.
// A log.Logger issues one write per line, so tokens are never split.
func Writer(w io.Writer, known ...string) io.Writer {
	return &writer{w: w, known: known}
}

type writer struct {
	w     io.Writer
	known []string
}

func (r *writer) Write(p []byte) (int, error) {
	if _, err := io.WriteString(r.w, Secrets(string(p), r.known...)); err != nil {
		return 0, err
	}
	return len(p), nil
}
