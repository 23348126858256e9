package middleware

import "strings"

// matchPath checks if a request path matches a pattern.
// * and :param match one segment, ** matches the rest of the path.
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	pi := 0
	for i := 0; i < len(pathParts); i++ {
		if pi >= len(patternParts) {
			return false
		}

		patternPart := patternParts[pi]
		if patternPart == "**" {
			return true
		}
		if patternPart == "*" || strings.HasPrefix(patternPart, ":") {
			pi++
			continue
		}
		if patternPart != pathParts[i] {
			return false
		}
		pi++
	}

	return pi == len(patternParts)
}
