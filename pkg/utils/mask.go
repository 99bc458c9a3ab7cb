package utils

import "strings"

const visiblePrefix = 4

// MaskToken hides all but the first few characters of a credential so it can be logged.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= visiblePrefix*2 {
		return strings.Repeat("*", len(token))
	}
	return token[:visiblePrefix] + "***"
}
