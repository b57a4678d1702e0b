package utils

import "strings"

// TrimAll returns a copy of ss with every element trimmed of surrounding space.
func TrimAll(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
