// Package app owns the interaction engine: the screen stack, the modal key
// dispatch, and the execution of operations as background or foreground
// invocations of the external git tool.
package app

import (
	"os/exec"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jakejx/gitu/internal/config"
	"github.com/jakejx/gitu/internal/git"
	"github.com/jakejx/gitu/internal/logger"
	"github.com/jakejx/gitu/internal/screen"
	"github.com/jakejx/gitu/internal/ui"
)

// terminalEditors accept a "+<line>" argument before the path. Anything
// else is assumed to take a single "path:line" argument, the convention of
// GUI editors.
var terminalEditors = map[string]bool{
	"vi":   true,
	"vim":  true,
	"nvim": true,
	"nano": true,
}

// Model is the bubbletea model for the whole client.
type Model struct {
	cfg    *config.Config
	log    *logger.Logger
	keys   KeyMap
	runner *git.Runner
	format screen.HunkFormatter

	stack *screen.Stack
	menu  Menu

	watcher *git.Watcher
	errText string

	width  int
	height int
}

// New creates the application model around an already-built root screen.
func New(cfg *config.Config, log *logger.Logger, runner *git.Runner, root *screen.Screen) Model {
	return Model{
		cfg:    cfg,
		log:    log,
		keys:   DefaultKeyMap(),
		runner: runner,
		format: ui.HunkFormatter(cfg.DeltaPath),
		stack:  screen.NewStack(root),
	}
}

// Init starts the repository watcher.
func (m Model) Init() tea.Cmd {
	return m.startWatcher()
}

// Message types.

type commandDoneMsg struct {
	scr *screen.Screen
	cmd *screen.IssuedCommand
	res git.Result
}

type execDoneMsg struct {
	err error
}

type watcherStartedMsg struct {
	watcher *git.Watcher
	err     error
}

type repoChangedMsg struct{}

// Update handles messages. The cursor of the active screen is clamped after
// every message that could have changed the visible item list.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.stack.Resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case commandDoneMsg:
		msg.scr.FinishCommand(msg.cmd, msg.res)
		msg.scr.AcknowledgeFinished()
		m.log.Info("command finished", "cmd", msg.cmd.Args, "exit", msg.res.ExitCode)
		m.refresh(msg.scr)
		return m, nil

	case execDoneMsg:
		// The terminal has been reclaimed from the foreground child; the
		// active screen is refreshed regardless of how the child exited.
		if msg.err != nil {
			m.errText = msg.err.Error()
			m.log.Warn("foreground command failed", "err", msg.err)
		}
		if top := m.stack.Top(); top != nil {
			m.refresh(top)
		}
		return m, nil

	case watcherStartedMsg:
		if msg.err != nil {
			// Auto-refresh is an enhancement; run without it.
			m.log.Warn("watcher unavailable", "err", msg.err)
			return m, nil
		}
		m.watcher = msg.watcher
		return m, m.waitForChange()

	case repoChangedMsg:
		if top := m.stack.Top(); top != nil {
			m.refresh(top)
		}
		return m, m.waitForChange()
	}

	return m, nil
}

// handleKey dismisses any acknowledged command popup, resolves the chord
// through the keymap, and applies the resulting operation.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.stack.Top()
	if active == nil {
		// Unreachable by construction: the stack emptying quits the
		// program before another event is handled.
		return m, tea.Quit
	}

	m.errText = ""
	active.DismissFinished()

	op, menu := m.keys.Resolve(msg, m.menu)
	m.menu = menu

	newModel, cmd := m.apply(op)

	if top := newModel.stack.Top(); top != nil {
		top.ClampCursor()
	}

	return newModel, cmd
}

// apply executes one operation against the active screen.
func (m Model) apply(op Op) (Model, tea.Cmd) {
	active := m.stack.Top()

	switch op {
	case OpQuit:
		next := m.stack.Pop()
		if next == nil {
			if m.watcher != nil {
				if err := m.watcher.Close(); err != nil {
					m.log.Warn("watcher close failed", "err", err)
				}
			}
			m.log.Info("quit")
			return m, tea.Quit
		}
		m.log.Debug("screen popped", "depth", m.stack.Len())
		m.refresh(next)

	case OpRefresh:
		m.refresh(active)

	case OpToggleSection:
		active.ToggleSection()

	case OpSelectPrevious:
		active.SelectPrevious()

	case OpSelectNext:
		active.SelectNext()

	case OpHalfPageUp:
		active.HalfPageUp()

	case OpHalfPageDown:
		active.HalfPageDown()

	case OpLog:
		m.stack.TruncateToRoot()
		m.pushScreen(screen.LogCollector(m.runner))

	// Commands are evaluated into a local before m is returned: issueCommand
	// and friends mutate m through a pointer receiver, and the evaluation
	// order between the two return operands is not specified.
	case OpFetchAll:
		cmd := m.issueCommand(git.FetchAllCmd(m.runner.RepoRoot()), nil)
		return m, cmd

	case OpPush:
		cmd := m.issueCommand(git.PushCmd(m.runner.RepoRoot()), nil)
		return m, cmd

	case OpPull:
		cmd := m.issueCommand(git.PullCmd(m.runner.RepoRoot()), nil)
		return m, cmd

	case OpCommit:
		cmd := m.execForeground(git.CommitCmd(m.runner.RepoRoot()))
		return m, cmd

	case OpShowOrEdit, OpStage, OpUnstage:
		return m.applyTarget(op)
	}

	return m, nil
}

// applyTarget executes a target-scoped operation against the selected
// item's Actionable. A missing Actionable, or a variant with no behavior
// defined for the operation, is a silent no-op.
func (m Model) applyTarget(op Op) (Model, tea.Cmd) {
	active := m.stack.Top()
	target := active.Selected().Target
	if target == nil {
		return m, nil
	}

	root := m.runner.RepoRoot()

	switch op {
	case OpShowOrEdit:
		switch t := target.(type) {
		case screen.Ref:
			m.pushScreen(screen.ShowCollector(m.runner, m.format, t.Name))
		case screen.Untracked:
			cmd := m.editFile(t.Path, 0)
			return m, cmd
		case screen.DeltaTarget:
			cmd := m.editFile(t.Delta.NewFile, 0)
			return m, cmd
		case screen.HunkTarget:
			cmd := m.editFile(t.Hunk.NewFile, t.Hunk.NewStart)
			return m, cmd
		}

	case OpStage:
		switch t := target.(type) {
		case screen.Untracked:
			cmd := m.issueCommand(git.StageFileCmd(root, t.Path), nil)
			return m, cmd
		case screen.DeltaTarget:
			cmd := m.issueCommand(git.StageFileCmd(root, t.Delta.NewFile), nil)
			return m, cmd
		case screen.HunkTarget:
			cmd := m.issueCommand(git.ApplyCachedCmd(root, false), []byte(t.Hunk.FormatPatch()))
			return m, cmd
		}

	case OpUnstage:
		switch t := target.(type) {
		case screen.DeltaTarget:
			cmd := m.issueCommand(git.UnstageFileCmd(root, t.Delta.NewFile), nil)
			return m, cmd
		case screen.HunkTarget:
			cmd := m.issueCommand(git.ApplyCachedCmd(root, true), []byte(t.Hunk.FormatPatch()))
			return m, cmd
		}
	}

	return m, nil
}

// issueCommand records a background command on the active screen and
// returns the tea.Cmd that runs it. The screen rejecting the command (one
// already pending) surfaces as a status message, not an overwrite.
func (m *Model) issueCommand(c *exec.Cmd, input []byte) tea.Cmd {
	active := m.stack.Top()

	ic, err := active.IssueCommand(c, input)
	if err != nil {
		m.errText = err.Error()
		m.log.Warn("command rejected", "cmd", git.Describe(c), "err", err)
		return nil
	}

	m.log.Info("command issued", "cmd", ic.Args, "stdin_bytes", len(input))

	scr := active
	return func() tea.Msg {
		res, err := git.Capture(ic.Cmd, ic.Input)
		if err != nil {
			res = git.Result{Output: []byte(err.Error()), ExitCode: -1}
		}
		return commandDoneMsg{scr: scr, cmd: ic, res: res}
	}
}

// execForeground hands the terminal to a child process. bubbletea releases
// the terminal for the child's lifetime and unconditionally restores it on
// every exit path before execDoneMsg is delivered.
func (m *Model) execForeground(c *exec.Cmd) tea.Cmd {
	m.log.Info("foreground command", "cmd", git.Describe(c))
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return execDoneMsg{err: err}
	})
}

// editFile opens the configured editor on path, jumping to line when
// non-zero. An unresolvable editor aborts the operation before anything is
// spawned.
func (m *Model) editFile(path string, line int) tea.Cmd {
	editor, err := m.cfg.ResolveEditor()
	if err != nil {
		m.errText = err.Error()
		m.log.Error("edit aborted", "path", path, "err", err)
		return nil
	}

	c := exec.Command(editor, editorArgs(editor, path, line)...)
	c.Dir = m.runner.RepoRoot()

	return m.execForeground(c)
}

// editorArgs shapes the argument list by editor identity: terminal editors
// take "+<line> <path>", GUI-style editors take a single "path:line".
func editorArgs(editor, path string, line int) []string {
	if line <= 0 {
		return []string{path}
	}

	if terminalEditors[filepath.Base(editor)] {
		return []string{"+" + strconv.Itoa(line), path}
	}

	return []string{path + ":" + strconv.Itoa(line)}
}

// pushScreen builds a screen for the collector and makes it active. A
// collector failure leaves the stack unchanged and reports the error.
func (m *Model) pushScreen(collect screen.Collector) {
	s, err := screen.New(m.width, m.height, collect)
	if err != nil {
		m.errText = err.Error()
		m.log.Warn("screen push failed", "err", err)
		return
	}

	m.stack.Push(s)
	m.log.Debug("screen pushed", "depth", m.stack.Len())
}

// refresh rebuilds a screen's items, reporting but not escalating failure.
func (m *Model) refresh(s *screen.Screen) {
	if err := s.Refresh(); err != nil {
		m.errText = err.Error()
		m.log.Warn("refresh failed", "err", err)
	}
}

// startWatcher creates the filesystem watcher off the event loop.
func (m Model) startWatcher() tea.Cmd {
	return func() tea.Msg {
		w, err := git.NewWatcher(m.runner.RepoRoot(), m.log)
		return watcherStartedMsg{watcher: w, err: err}
	}
}

// waitForChange blocks (in a command goroutine) until the repository
// changes.
func (m Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}

	return func() tea.Msg {
		if _, ok := <-m.watcher.Events(); !ok {
			return nil
		}
		return repoChangedMsg{}
	}
}

// View renders the active screen with the transient menu or command popup
// beneath it, mirroring the screen/popup split of the terminal.
func (m Model) View() string {
	top := m.stack.Top()
	if top == nil || m.width == 0 {
		return ""
	}

	var popup string
	if m.menu != MenuNone {
		popup = ui.RenderMenu(m.menu.Title(), menuEntries(m.keys.MenuBinds(m.menu)))
	} else if c := top.Command(); c != nil {
		popup = ui.RenderCommand(c.Args, c.Output, c.Finished)
	}

	if m.errText != "" {
		popup = ui.RenderError(m.errText, popup)
	}

	return ui.Layout(top, m.width, m.height, popup)
}

func menuEntries(binds []Bind) []ui.MenuEntry {
	entries := make([]ui.MenuEntry, 0, len(binds))
	for _, b := range binds {
		h := b.Key.Help()
		entries = append(entries, ui.MenuEntry{Key: h.Key, Desc: h.Desc})
	}
	return entries
}
