package catalog

import "time"

// Kind classifies a conversation file.
type Kind int

const (
	// KindNormal is a regular conversation with user content.
	KindNormal Kind = iota
	// KindEmpty is a zero-byte file, regardless of name.
	KindEmpty
	// KindWarmup holds only cache-warming noise, no user-authored text.
	KindWarmup
	// KindAgent is a subagent transcript (agent-* file name).
	KindAgent
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindEmpty:
		return "empty"
	case KindWarmup:
		return "warmup"
	case KindAgent:
		return "agent"
	}
	return "unknown"
}

// Key identifies an entry across re-scans and re-sorts.
type Key struct {
	Workspace string // encoded workspace directory name
	ID        string // session id (file name without extension)
}

// Entry is one conversation record produced by Scan. Entries are never
// mutated after classification; deletion drops the record and triggers a
// fresh scan.
type Entry struct {
	ID            string
	Workspace     string // encoded directory name
	WorkspacePath string // decoded form, display-only
	Kind          Kind
	Title         string
	LastActive    time.Time
	SizeBytes     int64
	Path          string // absolute path to the conversation file

	// RelatedFolder is the session's auxiliary directory (same name as the
	// session id), empty when absent. Never set for agent entries.
	RelatedFolder string

	// LegacyAgentRefs are old-format agent-*.jsonl files at the workspace
	// root whose content references this session. Deleting the entry
	// cascades to them.
	LegacyAgentRefs []string

	// Active means the last activity falls inside the configured recency
	// window; the file is likely still being written.
	Active bool
}

// Key returns the catalog primary key for the entry.
func (e *Entry) Key() Key {
	return Key{Workspace: e.Workspace, ID: e.ID}
}

// DisplayTitle renders the title with the placeholders that distinguish
// empty, warmup-only and untitled conversations.
func (e *Entry) DisplayTitle() string {
	switch {
	case e.Kind == KindEmpty:
		return "[Empty]"
	case e.Kind == KindWarmup:
		return "[Warmup]"
	case e.Title == "":
		return "[No title]"
	}
	return e.Title
}

// Project returns the short workspace name for display.
func (e *Entry) Project() string {
	return ShortWorkspace(e.WorkspacePath)
}
