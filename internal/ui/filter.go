package ui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/asheshgoplani/chat-sweep/internal/catalog"
)

// entrySource adapts the catalog for fuzzy matching over title and
// workspace path.
type entrySource []*catalog.Entry

func (s entrySource) String(i int) string {
	return s[i].DisplayTitle() + " " + s[i].WorkspacePath
}

func (s entrySource) Len() int {
	return len(s)
}

// filterEntries returns the entries matching the query, best matches first.
// An empty query returns the catalog unchanged.
func filterEntries(entries []*catalog.Entry, query string) []*catalog.Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}
	matches := fuzzy.FindFrom(query, entrySource(entries))
	out := make([]*catalog.Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}
