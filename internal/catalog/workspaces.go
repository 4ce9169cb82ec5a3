package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WorkspaceInfo summarizes one workspace directory for the listing mode.
type WorkspaceInfo struct {
	Name   string // encoded directory name
	Path   string // decoded form, display-only
	Chats  int    // primary conversation files
	Agents int    // agent-* files at the workspace root
}

// ListWorkspaces enumerates workspace directories under the projects root
// with per-workspace conversation counts, sorted by decoded path.
func ListWorkspaces(root string) ([]WorkspaceInfo, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading projects root %s: %w", root, err)
	}

	var out []WorkspaceInfo
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		info := WorkspaceInfo{Name: d.Name(), Path: DecodeWorkspaceName(d.Name())}

		files, err := os.ReadDir(filepath.Join(root, d.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), conversationExt) {
				continue
			}
			if strings.HasPrefix(f.Name(), agentPrefix) {
				info.Agents++
			} else {
				info.Chats++
			}
		}
		out = append(out, info)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out, nil
}
