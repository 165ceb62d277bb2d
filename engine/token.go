package engine

import "strings"

// NormalizeToken canonicalizes a decoded site token: trim, lowercase,
// collapse internal whitespace runs to single spaces. The result is the
// lookup key against the site directory.
func NormalizeToken(token string) string {
	fields := strings.Fields(strings.ToLower(token))
	return strings.Join(fields, " ")
}
