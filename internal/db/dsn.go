package db

import (
	"os"
	"regexp"
	"strings"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// NormalizeDSN accepts a URL style DSN (postgres://... or sqlite file:...), a
// lib/pq key=value list, or a bare sqlite path. It trims quotes and
// whitespace and, if given key=value form, returns it cleaned.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") || strings.HasPrefix(lower, "file:") {
		return s
	}
	if !kvPairRegex.MatchString(s) {
		// probably a sqlite path; hand it to the driver unchanged
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// IsSQLiteDSN reports whether the DSN targets sqlite rather than postgres.
func IsSQLiteDSN(dsn string) bool {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return false
	}
	if kvPairRegex.MatchString(dsn) {
		return false
	}
	return strings.HasPrefix(lower, "file:") || strings.HasSuffix(lower, ".db") || lower == ":memory:"
}

// GetNormalizedDSN fetches the DATABASE_DSN env var and normalizes it.
func GetNormalizedDSN() string { return NormalizeDSN(os.Getenv("DATABASE_DSN")) }
