package common

import "strings"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ContainsPattern builds a lowercase LIKE pattern matching value as a literal
// substring. Queries must use ESCAPE '!' since backslash literals differ
// between dialects.
func ContainsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}
