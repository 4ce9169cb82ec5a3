package catalog

import (
	"regexp"
	"strings"
)

// encodedNameRegex matches any character that's not alphanumeric or hyphen.
// Claude Code replaces all such characters with hyphens when it derives a
// project directory name from a workspace path.
var encodedNameRegex = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// EncodeWorkspacePath converts a filesystem path to the on-disk project
// directory name. Example: /Users/me/Code cloud → -Users-me-Code-cloud
func EncodeWorkspacePath(path string) string {
	return encodedNameRegex.ReplaceAllString(path, "-")
}

// DecodeWorkspaceName recovers a readable path from an encoded directory
// name. The encoding is lossy (a literal hyphen in a path segment is
// indistinguishable from a replaced separator), so the result is
// display-only and must never be used to open files.
func DecodeWorkspaceName(name string) string {
	return strings.ReplaceAll(name, "-", "/")
}

// ShortWorkspace returns the last segment of a decoded workspace path, used
// for the PROJECT column.
func ShortWorkspace(decoded string) string {
	decoded = strings.TrimSuffix(decoded, "/")
	if i := strings.LastIndex(decoded, "/"); i >= 0 {
		return decoded[i+1:]
	}
	return decoded
}
