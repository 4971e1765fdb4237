package app

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jakejx/gitu/internal/config"
	"github.com/jakejx/gitu/internal/diff"
	"github.com/jakejx/gitu/internal/git"
	"github.com/jakejx/gitu/internal/logger"
	"github.com/jakejx/gitu/internal/screen"
)

func testModel(t *testing.T, cfg *config.Config, sections ...screen.Section) Model {
	t.Helper()

	log, err := logger.New("")
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}

	root, err := screen.New(80, 24, func() ([]screen.Section, error) {
		out := make([]screen.Section, len(sections))
		copy(out, sections)
		return out, nil
	})
	if err != nil {
		t.Fatalf("creating screen: %v", err)
	}

	m := New(cfg, log, git.NewRunner(t.TempDir()), root)

	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return sized.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func sampleHunk() diff.Hunk {
	return diff.Hunk{
		OldFile:  "a.txt",
		NewFile:  "a.txt",
		OldStart: 9,
		NewStart: 10,
		NewCount: 2,
		Lines: []diff.DiffLine{
			{Origin: diff.Addition, Text: "first"},
			{Origin: diff.Addition, Text: "second"},
		},
	}
}

func hunkSection() screen.Section {
	return screen.Section{
		Title: "Unstaged changes",
		Items: []screen.Item{
			{Display: "hunk", Depth: 2, Target: screen.HunkTarget{Hunk: sampleHunk()}},
		},
	}
}

func TestUpdate_QuitOnRootScreen(t *testing.T) {
	m := testModel(t, &config.Config{})

	_, cmd := press(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatalf("quitting the last screen should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("quitting the last screen should quit the program, got %T", cmd())
	}
}

func TestQuit_RefreshesRevealedScreen(t *testing.T) {
	rootCalls := 0
	log, err := logger.New("")
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}

	root, err := screen.New(80, 24, func() ([]screen.Section, error) {
		rootCalls++
		return []screen.Section{{Items: []screen.Item{{Display: "head"}}}}, nil
	})
	if err != nil {
		t.Fatalf("creating screen: %v", err)
	}

	m := New(&config.Config{}, log, git.NewRunner(t.TempDir()), root)
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = sized.(Model)

	child, err := screen.New(80, 24, func() ([]screen.Section, error) {
		return []screen.Section{{Items: []screen.Item{{Display: "commit abc"}}}}, nil
	})
	if err != nil {
		t.Fatalf("creating screen: %v", err)
	}
	m.stack.Push(child)

	before := rootCalls
	m, cmd := press(t, m, runeKey('q'))

	if cmd != nil {
		t.Errorf("popping with screens left must not quit the program")
	}
	if m.stack.Len() != 1 || m.stack.Top() != root {
		t.Fatalf("q should reveal the screen beneath")
	}
	if rootCalls != before+1 {
		t.Errorf("the revealed screen should be refreshed, collector ran %d times", rootCalls-before)
	}
}

func TestQuit_ClosesWatcher(t *testing.T) {
	m := testModel(t, &config.Config{})

	repo := t.TempDir()
	if err := os.Mkdir(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("creating .git: %v", err)
	}
	log, err := logger.New("")
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}
	w, err := git.NewWatcher(repo, log)
	if err != nil {
		t.Fatalf("creating watcher: %v", err)
	}
	m.watcher = w

	_, cmd := press(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatalf("quitting the last screen should quit the program")
	}

	// A buffered event may still drain; the channel must close after it.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-w.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("event channel should close after quit")
		}
	}
}

func TestUpdate_UnknownKeyChangesNothing(t *testing.T) {
	m := testModel(t, &config.Config{}, screen.Section{
		Items: []screen.Item{{Display: "a"}, {Display: "b"}},
	})

	m, cmd := press(t, m, runeKey('x'))
	if cmd != nil {
		t.Errorf("unbound key should produce no command")
	}
	if m.stack.Top().Cursor() != 0 {
		t.Errorf("unbound key should not move the cursor")
	}
}

func TestUpdate_Navigation(t *testing.T) {
	m := testModel(t, &config.Config{}, screen.Section{
		Items: []screen.Item{{Display: "a"}, {Display: "b"}},
	})

	m, _ = press(t, m, runeKey('j'))
	if got := m.stack.Top().Cursor(); got != 1 {
		t.Errorf("j should move down, cursor at %d", got)
	}

	m, _ = press(t, m, runeKey('k'))
	if got := m.stack.Top().Cursor(); got != 0 {
		t.Errorf("k should move up, cursor at %d", got)
	}
}

func TestStageHunk_IssuesApplyWithPatch(t *testing.T) {
	m := testModel(t, &config.Config{}, hunkSection())

	// Cursor starts on the section header; move onto the hunk.
	m, _ = press(t, m, runeKey('j'))
	m, cmd := press(t, m, runeKey('s'))

	if cmd == nil {
		t.Fatalf("staging a hunk should produce a command")
	}

	ic := m.stack.Top().Command()
	if ic == nil {
		t.Fatalf("the screen should record the issued command")
	}
	if ic.Args != "git apply --cached" {
		t.Errorf("expected an apply invocation, got %q", ic.Args)
	}
	if !strings.HasPrefix(string(ic.Input), "--- a/a.txt\n+++ b/a.txt\n@@ -9,0 +10,2 @@\n") {
		t.Errorf("the synthesized patch should be fed on stdin, got:\n%s", ic.Input)
	}
}

func TestUnstageHunk_ReversesSamePatch(t *testing.T) {
	m := testModel(t, &config.Config{}, hunkSection())

	m, _ = press(t, m, runeKey('j'))
	m, _ = press(t, m, runeKey('u'))

	ic := m.stack.Top().Command()
	if ic == nil {
		t.Fatalf("unstaging a hunk should record a command")
	}
	if ic.Args != "git apply --cached --reverse" {
		t.Errorf("unstage should reverse the apply, got %q", ic.Args)
	}
	if !strings.Contains(string(ic.Input), "+first\n+second\n") {
		t.Errorf("unstage should feed the same patch bytes, got:\n%s", ic.Input)
	}
}

func TestTargetNoOps(t *testing.T) {
	tests := []struct {
		name   string
		target screen.Actionable
		key    tea.KeyMsg
	}{
		{"stage a ref", screen.Ref{Name: "abc1234"}, runeKey('s')},
		{"unstage a ref", screen.Ref{Name: "abc1234"}, runeKey('u')},
		{"unstage untracked", screen.Untracked{Path: "a.txt"}, runeKey('u')},
		{"stage a line", screen.LineTarget{Line: diff.DiffLine{Origin: diff.Addition}}, runeKey('s')},
		{"edit a line", screen.LineTarget{Line: diff.DiffLine{Origin: diff.Addition}}, tea.KeyMsg{Type: tea.KeyEnter}},
		{"stage without target", nil, runeKey('s')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t, &config.Config{Editor: "vi"}, screen.Section{
				Items: []screen.Item{{Display: "item", Target: tt.target}},
			})

			m, cmd := press(t, m, tt.key)
			if cmd != nil {
				t.Errorf("undefined pair should be a silent no-op")
			}
			if m.stack.Top().Command() != nil {
				t.Errorf("no command should be recorded")
			}
			if m.errText != "" {
				t.Errorf("no error should be reported, got %q", m.errText)
			}
		})
	}
}

func TestEdit_WithoutEditorAborts(t *testing.T) {
	m := testModel(t, &config.Config{}, screen.Section{
		Items: []screen.Item{{Display: "a.txt", Target: screen.Untracked{Path: "a.txt"}}},
	})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Errorf("nothing should be spawned without an editor")
	}
	if !strings.Contains(m.errText, "no editor configured") {
		t.Errorf("unexpected error text %q", m.errText)
	}
}

func TestSecondCommandRejectedWhilePending(t *testing.T) {
	m := testModel(t, &config.Config{}, hunkSection())

	m, _ = press(t, m, runeKey('j'))
	m, cmd := press(t, m, runeKey('s'))
	if cmd == nil {
		t.Fatalf("first stage should issue")
	}
	first := m.stack.Top().Command()

	m, cmd = press(t, m, runeKey('s'))
	if cmd != nil {
		t.Errorf("second issue should be rejected without a command")
	}
	if m.stack.Top().Command() != first {
		t.Errorf("the pending command must not be replaced")
	}
	if !strings.Contains(m.errText, "already running") {
		t.Errorf("rejection should be reported, got %q", m.errText)
	}
}

func TestCommandDone_AcknowledgeAndDismiss(t *testing.T) {
	m := testModel(t, &config.Config{}, hunkSection())

	m, _ = press(t, m, runeKey('j'))
	m, _ = press(t, m, runeKey('s'))

	top := m.stack.Top()
	ic := top.Command()

	next, _ := m.Update(commandDoneMsg{scr: top, cmd: ic, res: git.Result{Output: []byte("ok\n")}})
	m = next.(Model)

	if !ic.Finished || !ic.Acknowledged {
		t.Fatalf("completion should finish and acknowledge the command")
	}
	if string(ic.Output) != "ok\n" {
		t.Errorf("output should be recorded, got %q", ic.Output)
	}

	// The next keypress dismisses the popup.
	m, _ = press(t, m, runeKey('j'))
	if m.stack.Top().Command() != nil {
		t.Errorf("a keypress after acknowledgement should dismiss the popup")
	}
}

func TestMenu_OpenRenderExecute(t *testing.T) {
	m := testModel(t, &config.Config{}, screen.Section{
		Items: []screen.Item{{Display: "head"}},
	})

	m, cmd := press(t, m, runeKey('c'))
	if cmd != nil {
		t.Errorf("opening a menu should not execute anything")
	}
	if m.menu != MenuCommit {
		t.Fatalf("c should open the commit menu, got %v", m.menu)
	}
	if !strings.Contains(m.View(), "Commit") {
		t.Errorf("the open menu should render its title")
	}

	m, cmd = press(t, m, runeKey('c'))
	if m.menu != MenuNone {
		t.Errorf("executing should close the menu")
	}
	if cmd == nil {
		t.Errorf("commit should hand the terminal to a foreground process")
	}
}

func TestMenu_Cancel(t *testing.T) {
	m := testModel(t, &config.Config{}, screen.Section{
		Items: []screen.Item{{Display: "head"}},
	})

	m, _ = press(t, m, runeKey('f'))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.menu != MenuNone {
		t.Errorf("esc should cancel the menu")
	}
	if cmd != nil {
		t.Errorf("cancel should not execute anything")
	}
	if m.stack.Len() != 1 {
		t.Errorf("cancel must not pop the screen")
	}
}

func TestExecDone_ReportsFailureAndRefreshes(t *testing.T) {
	m := testModel(t, &config.Config{}, screen.Section{
		Items: []screen.Item{{Display: "head"}},
	})

	next, _ := m.Update(execDoneMsg{err: errors.New("exit status 1")})
	m = next.(Model)

	if m.errText == "" {
		t.Errorf("a failed foreground command should be reported")
	}
}

func TestEditorArgs(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		line   int
		want   []string
	}{
		{"vi with line", "vi", 5, []string{"+5", "f.go"}},
		{"nvim by path", "/usr/bin/nvim", 12, []string{"+12", "f.go"}},
		{"gui editor", "code", 5, []string{"f.go:5"}},
		{"no line", "vi", 0, []string{"f.go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editorArgs(tt.editor, "f.go", tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
