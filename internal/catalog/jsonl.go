package catalog

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"
)

// warmupSignature is the message text Claude Code writes into cache-warming
// sessions. isWarmupText is the single place the heuristic lives; the
// upstream tool's internal messages change from time to time.
const warmupSignature = "Warmup"

// isWarmupText reports whether a user message is internal warmup/IDE noise
// rather than something the user typed.
func isWarmupText(s string) bool {
	return s == warmupSignature || strings.HasPrefix(s, "<ide_")
}

// record is one line of a conversation file. Only these fields are parsed;
// everything else is opaque and stays on disk untouched.
type record struct {
	SessionID string          `json:"sessionId"`
	Type      string          `json:"type"`
	Message   json.RawMessage `json:"message"`
	Timestamp string          `json:"timestamp"`
}

// message is the message field of a record.
type message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// contentBlock is one element of an array-form message content.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// titleRunes is the display length titles are truncated to.
const titleRunes = 50

// fileMeta is what a single pass over a conversation file yields.
type fileMeta struct {
	// Title is the first real user message, truncated for display.
	// Empty when the file holds no user-authored text.
	Title string

	// LastActive is the timestamp of the last parseable line; zero when no
	// line carries a usable timestamp.
	LastActive time.Time

	// LinkedSession is the session id the file's records reference. Legacy
	// agent files carry their parent session here.
	LinkedSession string

	sawWarmup bool
}

// WarmupOnly reports whether the file contains warmup noise and nothing
// user-authored.
func (m fileMeta) WarmupOnly() bool {
	return m.sawWarmup && m.Title == ""
}

// readConversationMeta scans a JSONL conversation file once, extracting the
// title, the last timestamp, the owning session id, and whether the content
// is warmup-only. Malformed lines are skipped.
func readConversationMeta(path string) (fileMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileMeta{}, err
	}
	defer f.Close()

	var meta fileMeta

	scanner := bufio.NewScanner(f)
	// Tool results can produce very large lines.
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue // skip malformed lines
		}

		if meta.LinkedSession == "" && rec.SessionID != "" {
			meta.LinkedSession = rec.SessionID
		}

		// Last parseable timestamp wins; external tools rewrite mtimes
		// inconsistently, so content is the source of truth.
		if rec.Timestamp != "" {
			if ts, err := time.Parse(time.RFC3339, rec.Timestamp); err == nil {
				meta.LastActive = ts
			}
		}

		if rec.Type != "user" || len(rec.Message) == 0 {
			continue
		}
		var msg message
		if err := json.Unmarshal(rec.Message, &msg); err != nil {
			continue
		}

		text := extractText(msg.Content)
		if text == "" {
			continue
		}
		if isWarmupText(text) {
			meta.sawWarmup = true
			continue
		}
		if meta.Title == "" {
			meta.Title = truncateTitle(text)
		}
	}
	if err := scanner.Err(); err != nil {
		return meta, err
	}

	return meta, nil
}

// extractText pulls the user-visible text out of a message content value,
// which is either a plain string or an array of typed blocks. Only the first
// line is kept.
func extractText(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var raw string
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		raw = s
	} else {
		var blocks []contentBlock
		if err := json.Unmarshal(content, &blocks); err != nil {
			return ""
		}
		for _, b := range blocks {
			if b.Type == "text" && b.Text != "" && !strings.HasPrefix(b.Text, "<ide_") {
				raw = b.Text
				break
			}
		}
	}

	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(strings.ReplaceAll(raw, "\t", " "))
}

func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= titleRunes {
		return s
	}
	return string(runes[:titleRunes]) + "..."
}
