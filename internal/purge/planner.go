// Package purge computes and executes deletion closures for selected
// conversations: the primary file, its auxiliary folder, and any legacy
// agent files linked to it.
package purge

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/asheshgoplani/chat-sweep/internal/catalog"
	"github.com/asheshgoplani/chat-sweep/internal/logging"
)

var purgeLog = logging.ForComponent(logging.CompPurge)

// ActiveEntriesError is returned by Plan when the selection contains
// conversations still inside the recency window and the batch does not carry
// the explicit active acknowledgment.
type ActiveEntriesError struct {
	Keys []catalog.Key
}

func (e *ActiveEntriesError) Error() string {
	return fmt.Sprintf("%d selected conversation(s) look active", len(e.Keys))
}

// EntryPlan is the file closure for one selected conversation.
type EntryPlan struct {
	Key     catalog.Key
	Title   string
	Files   []string // removed with os.Remove
	Folders []string // removed recursively
}

// Plan computes the deletion closure for each selected entry. When ackActive
// is false and any entry is flagged active, Plan refuses with an
// ActiveEntriesError and nothing is deleted.
func Plan(entries []*catalog.Entry, ackActive bool) ([]EntryPlan, error) {
	var active []catalog.Key
	for _, e := range entries {
		if e.Active {
			active = append(active, e.Key())
		}
	}
	if len(active) > 0 && !ackActive {
		return nil, &ActiveEntriesError{Keys: active}
	}

	plans := make([]EntryPlan, 0, len(entries))
	for _, e := range entries {
		p := EntryPlan{
			Key:   e.Key(),
			Title: e.DisplayTitle(),
			Files: []string{e.Path},
		}
		if e.RelatedFolder != "" {
			p.Folders = append(p.Folders, e.RelatedFolder)
		}
		for _, ref := range e.LegacyAgentRefs {
			p.Files = append(p.Files, ref)
			// Old-format agents can carry a session folder of their own
			// next to the file.
			folder := strings.TrimSuffix(ref, ".jsonl")
			if info, err := os.Stat(folder); err == nil && info.IsDir() {
				p.Folders = append(p.Folders, folder)
			}
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// Failure records one path that could not be removed.
type Failure struct {
	Path   string
	Reason string
}

// EntryOutcome is the per-entry deletion result.
type EntryOutcome struct {
	Key     catalog.Key
	Title   string
	Deleted []string
	Failed  []Failure
}

// Outcome is the result of executing a deletion batch.
type Outcome struct {
	Entries []EntryOutcome
}

// DeletedCount returns the total number of removed paths.
func (o *Outcome) DeletedCount() int {
	n := 0
	for _, e := range o.Entries {
		n += len(e.Deleted)
	}
	return n
}

// Failures collects every failed path across the batch.
func (o *Outcome) Failures() []Failure {
	var out []Failure
	for _, e := range o.Entries {
		out = append(out, e.Failed...)
	}
	return out
}

// Execute removes every path in the plans, best effort. A failure in one
// entry's closure never blocks the rest of that closure or the other
// entries. A target that already vanished counts as deleted.
func Execute(plans []EntryPlan) *Outcome {
	out := &Outcome{}
	for _, p := range plans {
		eo := EntryOutcome{Key: p.Key, Title: p.Title}
		for _, f := range p.Files {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				purgeLog.Warn("delete_failed", slog.String("path", f), slog.String("error", err.Error()))
				eo.Failed = append(eo.Failed, Failure{Path: f, Reason: err.Error()})
				continue
			}
			eo.Deleted = append(eo.Deleted, f)
		}
		for _, d := range p.Folders {
			if err := os.RemoveAll(d); err != nil {
				purgeLog.Warn("delete_folder_failed", slog.String("path", d), slog.String("error", err.Error()))
				eo.Failed = append(eo.Failed, Failure{Path: d, Reason: err.Error()})
				continue
			}
			eo.Deleted = append(eo.Deleted, d)
		}
		out.Entries = append(out.Entries, eo)
	}
	return out
}
