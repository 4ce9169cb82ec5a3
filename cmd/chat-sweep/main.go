package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/asheshgoplani/chat-sweep/internal/catalog"
	"github.com/asheshgoplani/chat-sweep/internal/config"
	"github.com/asheshgoplani/chat-sweep/internal/logging"
	"github.com/asheshgoplani/chat-sweep/internal/purge"
	"github.com/asheshgoplani/chat-sweep/internal/ui"
)

const Version = "0.3.1"

var (
	okLabel   = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorGreen).Render("OK")
	errLabel  = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorRed).Render("ERR")
	warnLabel = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorYellow).Render("WARN")
	dim       = lipgloss.NewStyle().Foreground(ui.ColorTextDim)
	bold      = lipgloss.NewStyle().Bold(true)
)

func init() {
	initColorProfile()
}

// initColorProfile configures lipgloss based on terminal capabilities, with
// a CHAT_SWEEP_COLOR override for scripts and odd terminals.
func initColorProfile() {
	switch strings.ToLower(os.Getenv("CHAT_SWEEP_COLOR")) {
	case "truecolor", "24bit":
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	case "256":
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	case "16", "ansi":
		lipgloss.SetColorProfile(termenv.ANSI)
		return
	case "none", "off":
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	if ct := os.Getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		workspaceFilter string
		emptyOnly       bool
		deleteEmpty     bool
		deleteWarmup    bool
		listWorkspaces  bool
		includeAgents   bool
		showVersion     bool
		debug           bool
	)

	flag.StringVar(&workspaceFilter, "workspace", "", "filter by workspace substring (e.g. myproject)")
	flag.StringVar(&workspaceFilter, "w", "", "shorthand for -workspace")
	flag.BoolVar(&emptyOnly, "empty-only", false, "only show empty conversations")
	flag.BoolVar(&emptyOnly, "e", false, "shorthand for -empty-only")
	flag.BoolVar(&deleteEmpty, "delete-empty", false, "delete all empty (0-byte) conversations")
	flag.BoolVar(&deleteWarmup, "delete-warmup", false, "also delete warmup agent files (use with caution)")
	flag.BoolVar(&listWorkspaces, "list-workspaces", false, "list all workspaces")
	flag.BoolVar(&listWorkspaces, "l", false, "shorthand for -list-workspaces")
	flag.BoolVar(&includeAgents, "include-agents", false, "include warmup/subagent conversations")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	if showVersion {
		fmt.Printf("chat-sweep v%s\n", Version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", warnLabel, err)
	}

	logDir := cfg.Logs.Dir
	if logDir != "" {
		logDir = config.ExpandTilde(logDir)
	}
	logging.Init(logging.Config{
		LogDir:     logDir,
		Level:      cfg.Logs.Level,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		Debug:      debug,
	})
	defer logging.Shutdown()

	root, err := cfg.ProjectsRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errLabel, err)
		return 1
	}
	if _, err := os.Stat(root); err != nil {
		fmt.Fprintf(os.Stderr, "%s projects directory not found at: %s\n", errLabel, root)
		return 1
	}

	if listWorkspaces {
		return printWorkspaces(root)
	}

	if deleteEmpty || deleteWarmup {
		return runBatchDelete(root, cfg, workspaceFilter, deleteEmpty, deleteWarmup)
	}

	return runInteractive(root, cfg, workspaceFilter, emptyOnly, includeAgents)
}

// printWorkspaces lists every workspace with its conversation counts.
func printWorkspaces(root string) int {
	infos, err := catalog.ListWorkspaces(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errLabel, err)
		return 1
	}

	width := terminalWidth()

	fmt.Println(bold.Foreground(ui.ColorCyan).Render("Available workspaces:"))
	fmt.Println()
	for _, ws := range infos {
		line := fmt.Sprintf("  -> %s (%d chats, %d agents)", ws.Path, ws.Chats, ws.Agents)
		fmt.Println(clip(line, width))
		fmt.Println(dim.Render(clip("     -w "+ws.Name, width)))
	}
	return 0
}

// runBatchDelete handles the non-interactive -delete-empty / -delete-warmup
// modes. The matching entries are always listed and confirmed before
// anything is removed.
func runBatchDelete(root string, cfg *config.Config, workspaceFilter string, delEmpty, delWarmup bool) int {
	res, err := catalog.Scan(root, catalog.Options{
		WorkspaceFilter: workspaceFilter,
		IncludeAgents:   true,
		ActiveWindow:    cfg.ActiveWindow(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errLabel, err)
		return 1
	}

	targets, skipped := selectBatchTargets(res.Entries, delEmpty, delWarmup)

	if len(targets) == 0 {
		fmt.Println("No matching conversations found.")
		return 0
	}

	width := terminalWidth()
	fmt.Printf("%s\n\n", batchHeader(len(targets), skipped, res.Warnings))
	for _, e := range targets {
		fmt.Println(clip(fmt.Sprintf("  - %s %s (%s)",
			dim.Render(e.DisplayTitle()), dim.Render(e.ID), e.Project()), width))
	}
	fmt.Println()

	if !confirm(fmt.Sprintf("Delete %d conversations? [y/N]: ", len(targets))) {
		fmt.Println("Cancelled.")
		return 0
	}

	plans, err := purge.Plan(targets, false)
	if err != nil {
		var activeErr *purge.ActiveEntriesError
		if !errors.As(err, &activeErr) {
			fmt.Fprintf(os.Stderr, "%s %v\n", errLabel, err)
			return 1
		}
		fmt.Printf("%s %d of these conversations were written within the last %d minutes and may be in use.\n",
			warnLabel, len(activeErr.Keys), int(cfg.ActiveWindow().Minutes()))
		if !confirm("Delete them anyway? [y/N]: ") {
			fmt.Println("Cancelled.")
			return 0
		}
		plans, err = purge.Plan(targets, true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errLabel, err)
			return 1
		}
	}

	outcome := purge.Execute(plans)
	printOutcome(outcome)
	return 0
}

// selectBatchTargets partitions a scan into the entries a batch delete will
// remove and the count it leaves alone.
func selectBatchTargets(entries []*catalog.Entry, delEmpty, delWarmup bool) (targets []*catalog.Entry, skipped int) {
	for _, e := range entries {
		switch {
		case delEmpty && e.Kind == catalog.KindEmpty:
			targets = append(targets, e)
		case delWarmup && e.Kind == catalog.KindWarmup:
			targets = append(targets, e)
		default:
			skipped++
		}
	}
	return targets, skipped
}

// batchHeader summarizes a batch-delete scan before the target listing,
// including any unreadable files the scan had to skip.
func batchHeader(targets, skipped, warnings int) string {
	h := fmt.Sprintf("Found %s conversations to delete (%d skipped):",
		bold.Foreground(ui.ColorRed).Render(fmt.Sprintf("%d", targets)), skipped)
	if warnings > 0 {
		h = fmt.Sprintf("%s %d unreadable conversation(s) skipped\n%s", warnLabel, warnings, h)
	}
	return h
}

// runInteractive scans and hands off to the list UI. After every deletion
// batch the UI re-scans through the callback so the list always reflects
// the disk.
func runInteractive(root string, cfg *config.Config, workspaceFilter string, emptyOnly, includeAgents bool) int {
	opts := catalog.Options{
		WorkspaceFilter: workspaceFilter,
		IncludeAgents:   includeAgents,
		ActiveWindow:    cfg.ActiveWindow(),
	}

	scan := func() (*catalog.Result, error) {
		res, err := catalog.Scan(root, opts)
		if err != nil {
			return nil, err
		}
		if emptyOnly {
			var kept []*catalog.Entry
			for _, e := range res.Entries {
				if e.Kind == catalog.KindEmpty {
					kept = append(kept, e)
				}
			}
			res.Entries = kept
		}
		return res, nil
	}

	res, err := scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errLabel, err)
		return 1
	}
	if len(res.Entries) == 0 {
		fmt.Println("No conversations found.")
		return 0
	}

	model := ui.New(res, cfg.ListTitleWidth(), cfg.ActiveWindow(), scan)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errLabel, err)
		return 1
	}
	return 0
}

// printOutcome renders the per-file deletion report. Every failed path is
// listed with its reason.
func printOutcome(outcome *purge.Outcome) {
	fmt.Println()
	for _, eo := range outcome.Entries {
		if len(eo.Failed) == 0 {
			fmt.Printf("  %s %s\n", okLabel, dim.Render(eo.Title))
			continue
		}
		fmt.Printf("  %s %s\n", errLabel, eo.Title)
		for _, f := range eo.Failed {
			fmt.Printf("      %s: %s\n", f.Path, f.Reason)
		}
	}
	fmt.Println()

	failures := outcome.Failures()
	if len(failures) > 0 {
		fmt.Printf("%s Deleted %d path(s), %d failed\n", warnLabel, outcome.DeletedCount(), len(failures))
	} else {
		fmt.Printf("%s Deleted %d path(s)\n", okLabel, outcome.DeletedCount())
	}
}

// confirm reads one y/N answer from stdin. Anything but an explicit yes is no.
func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// terminalWidth returns the stdout width, or a sane default when stdout is
// not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

// clip truncates a possibly styled line to the terminal width. Width is
// measured and cut on display cells, never inside an escape sequence.
func clip(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	// Truncate counts the tail inside width.
	return ansi.Truncate(s, width, "…")
}
