package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/asheshgoplani/chat-sweep/internal/logging"
)

var scanLog = logging.ForComponent(logging.CompCatalog)

const (
	conversationExt  = ".jsonl"
	agentPrefix      = "agent-"
	subagentsDirName = "subagents"
)

// DefaultActiveWindow flags conversations that were written to recently
// enough that another process is probably still holding them.
const DefaultActiveWindow = 5 * time.Minute

// Options controls a scan.
type Options struct {
	// WorkspaceFilter is a case-insensitive substring matched against both
	// the encoded and decoded workspace name. Empty matches everything;
	// non-matching workspaces are skipped before any file I/O.
	WorkspaceFilter string

	// IncludeAgents keeps Agent and Warmup entries in the returned sequence.
	IncludeAgents bool

	// ActiveWindow marks entries whose last activity is within the window.
	// Zero means DefaultActiveWindow.
	ActiveWindow time.Duration

	// Now overrides the reference time for the active check. Zero means
	// time.Now().
	Now time.Time
}

// Result is a freshly built catalog plus the number of unreadable files and
// directories that were skipped along the way.
type Result struct {
	Entries  []*Entry
	Warnings int
}

// legacyAgent pairs a root-level agent file with the session id its content
// references. Legacy file names do not encode the parent session, so linking
// is content-based.
type legacyAgent struct {
	entry  *Entry
	linked string
}

// Scan walks the projects root and builds the conversation catalog. An
// unreadable root is the only fatal condition; unreadable workspaces and
// files are skipped and counted in Result.Warnings.
func Scan(root string, opts Options) (*Result, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading projects root %s: %w", root, err)
	}

	window := opts.ActiveWindow
	if window <= 0 {
		window = DefaultActiveWindow
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	filter := strings.ToLower(opts.WorkspaceFilter)

	res := &Result{}
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		name := d.Name()
		decoded := DecodeWorkspaceName(name)
		if filter != "" &&
			!strings.Contains(strings.ToLower(decoded), filter) &&
			!strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		scanWorkspace(res, filepath.Join(root, name), name, decoded, opts.IncludeAgents)
	}

	sortEntries(res.Entries)

	for _, e := range res.Entries {
		e.Active = !e.LastActive.IsZero() && now.Sub(e.LastActive) < window
	}

	return res, nil
}

// scanWorkspace classifies one workspace directory and appends its entries.
func scanWorkspace(res *Result, dir, wsName, decoded string, includeAgents bool) {
	files, err := os.ReadDir(dir)
	if err != nil {
		scanLog.Warn("workspace_unreadable", slog.String("path", dir), slog.String("error", err.Error()))
		res.Warnings++
		return
	}

	var primaries []*Entry
	var legacy []legacyAgent
	var nested []*Entry

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), conversationExt) {
			continue
		}

		entry, linked, err := buildEntry(dir, wsName, decoded, f.Name())
		if err != nil {
			scanLog.Warn("conversation_unreadable",
				slog.String("path", filepath.Join(dir, f.Name())),
				slog.String("error", err.Error()))
			res.Warnings++
			continue
		}

		if strings.HasPrefix(f.Name(), agentPrefix) {
			legacy = append(legacy, legacyAgent{entry: entry, linked: linked})
			continue
		}

		folder := filepath.Join(dir, entry.ID)
		if info, err := os.Stat(folder); err == nil && info.IsDir() {
			entry.RelatedFolder = folder
			nested = append(nested, scanSubagents(res, folder, wsName, decoded)...)
		}
		primaries = append(primaries, entry)
	}

	// Two-pass legacy linking: index primaries by session id first, then
	// resolve every legacy agent file against the index.
	byID := make(map[string]*Entry, len(primaries))
	for _, p := range primaries {
		byID[p.ID] = p
	}
	for _, la := range legacy {
		if parent, ok := byID[la.linked]; ok && la.linked != "" {
			// Recorded regardless of the agent filter: the cascade must
			// reach these files even when they are hidden from the list.
			parent.LegacyAgentRefs = append(parent.LegacyAgentRefs, la.entry.Path)
			if includeAgents {
				res.Entries = append(res.Entries, la.entry)
			}
			continue
		}
		// Unmatched legacy agents stay as independent entries. Zero-byte
		// agent files classify Empty and are always listed.
		if includeAgents || (la.entry.Kind != KindAgent && la.entry.Kind != KindWarmup) {
			res.Entries = append(res.Entries, la.entry)
		}
	}

	for _, p := range primaries {
		if p.Kind == KindWarmup && !includeAgents {
			continue
		}
		res.Entries = append(res.Entries, p)
	}
	if includeAgents {
		res.Entries = append(res.Entries, nested...)
	}
}

// scanSubagents collects current-format agent files under a session folder's
// subagents directory.
func scanSubagents(res *Result, folder, wsName, decoded string) []*Entry {
	subDir := filepath.Join(folder, subagentsDirName)
	files, err := os.ReadDir(subDir)
	if err != nil {
		if !os.IsNotExist(err) {
			scanLog.Warn("subagents_unreadable", slog.String("path", subDir), slog.String("error", err.Error()))
			res.Warnings++
		}
		return nil
	}

	var out []*Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), conversationExt) {
			continue
		}
		entry, _, err := buildEntry(subDir, wsName, decoded, f.Name())
		if err != nil {
			scanLog.Warn("subagent_unreadable",
				slog.String("path", filepath.Join(subDir, f.Name())),
				slog.String("error", err.Error()))
			res.Warnings++
			continue
		}
		out = append(out, entry)
	}
	return out
}

// buildEntry stats and classifies a single conversation file. The returned
// linked session id is non-empty when the file content references a session,
// which is how legacy agent files name their parent.
func buildEntry(dir, wsName, decoded, fileName string) (*Entry, string, error) {
	path := filepath.Join(dir, fileName)
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}

	e := &Entry{
		ID:            strings.TrimSuffix(fileName, conversationExt),
		Workspace:     wsName,
		WorkspacePath: decoded,
		SizeBytes:     info.Size(),
		Path:          path,
		LastActive:    info.ModTime(),
	}

	// Zero-byte files are Empty no matter what they are called.
	if info.Size() == 0 {
		e.Kind = KindEmpty
		return e, "", nil
	}

	meta, err := readConversationMeta(path)
	if err != nil {
		return nil, "", err
	}
	if !meta.LastActive.IsZero() {
		e.LastActive = meta.LastActive
	}
	e.Title = meta.Title

	switch {
	case meta.WarmupOnly():
		e.Kind = KindWarmup
	case strings.HasPrefix(fileName, agentPrefix):
		e.Kind = KindAgent
	default:
		e.Kind = KindNormal
	}

	return e, meta.LinkedSession, nil
}

// sortEntries orders the catalog: conversations with real content first,
// Empty and Warmup entries last, each group newest first. Ties break on
// workspace name, then id.
func sortEntries(entries []*Entry) {
	group := func(e *Entry) int {
		if e.Kind == KindEmpty || e.Kind == KindWarmup {
			return 1
		}
		return 0
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if ga, gb := group(a), group(b); ga != gb {
			return ga < gb
		}
		if !a.LastActive.Equal(b.LastActive) {
			return a.LastActive.After(b.LastActive)
		}
		if a.Workspace != b.Workspace {
			return a.Workspace < b.Workspace
		}
		return a.ID < b.ID
	})
}
