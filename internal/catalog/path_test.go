package catalog

import "testing"

func TestEncodeWorkspacePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/Users/me/projects/devops", "-Users-me-projects-devops"},
		{"/home/me/Code cloud/!Project", "-home-me-Code-cloud--Project"},
		{"/srv/data", "-srv-data"},
	}
	for _, tt := range tests {
		if got := EncodeWorkspacePath(tt.path); got != tt.want {
			t.Errorf("EncodeWorkspacePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDecodeIsLeftInverseOfEncode(t *testing.T) {
	// Holds for any path with no literal hyphen in its segments.
	paths := []string{
		"/home/user/project",
		"/Users/me/src/tool",
		"/srv/www",
	}
	for _, p := range paths {
		if got := DecodeWorkspaceName(EncodeWorkspacePath(p)); got != p {
			t.Errorf("decode(encode(%q)) = %q", p, got)
		}
	}
}

func TestShortWorkspace(t *testing.T) {
	tests := []struct {
		decoded string
		want    string
	}{
		{"/home/user/project", "project"},
		{"project", "project"},
		{"/home/user/project/", "project"},
	}
	for _, tt := range tests {
		if got := ShortWorkspace(tt.decoded); got != tt.want {
			t.Errorf("ShortWorkspace(%q) = %q, want %q", tt.decoded, got, tt.want)
		}
	}
}
