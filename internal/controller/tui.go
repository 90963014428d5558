package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// header and footer lines around the viewport.
	chromeHeight = 4
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	fileStyle    = lipgloss.NewStyle().Bold(true)
)

// TUI implements UI for terminals. Tables are printed like SimpleUI while
// dry-run diffs are collected and browsed in a pager when the run ends.
type TUI struct {
	*SimpleUI
	output io.Writer

	mu     sync.Mutex
	config StartConfig
	diffs  []string
}

// NewTUI creates a new TUI writing to the command's output.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd), output: cmd.OutOrStdout()}
}

// Start records the mode and clears collected diffs.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.config = newStartConfig(options)
	t.diffs = nil

	return nil
}

// DisplayFileChange collects diffs for the pager. In watch sessions they are
// printed colored right away.
func (t *TUI) DisplayFileChange(ctx context.Context, change m.FileChange, diff string) {
	if diff == "" || change.Err != nil {
		t.SimpleUI.DisplayFileChange(ctx, change, diff)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.config.watch {
		_, _ = fmt.Fprint(t.output, colorizeDiff(diff))
		return
	}

	t.diffs = append(t.diffs, diff)
}

// Wait opens the diff pager when diffs were collected and blocks until the
// user quits it.
func (t *TUI) Wait(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	t.mu.Lock()
	diffs := t.diffs
	t.diffs = nil
	t.mu.Unlock()

	if len(diffs) == 0 {
		return
	}

	content := colorizeDiff(strings.Join(diffs, ""))

	program := tea.NewProgram(
		newDiffModel(content, len(diffs)),
		tea.WithOutput(t.output),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		// fall back to plain output
		_, _ = fmt.Fprint(t.output, content)
	}
}

// colorizeDiff styles unified diff lines.
func colorizeDiff(diff string) string {
	lines := strings.Split(diff, "\n")

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			lines[i] = fileStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = addedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removedStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

// diffModel is a scrollable pager over the collected diffs.
type diffModel struct {
	viewport viewport.Model
	content  string
	files    int
	ready    bool
}

func newDiffModel(content string, files int) diffModel {
	vp := viewport.New(defaultWidth, defaultHeight-chromeHeight)
	vp.SetContent(content)

	return diffModel{viewport: vp, content: content, files: files}
}

func (dm diffModel) Init() tea.Cmd {
	return nil
}

func (dm diffModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		dm.viewport.Width = msg.Width
		dm.viewport.Height = max(msg.Height-chromeHeight, 1)

		if !dm.ready {
			dm.viewport.SetContent(dm.content)
			dm.ready = true
		}

		return dm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return dm, tea.Quit
		case "g", "home":
			dm.viewport.GotoTop()
			return dm, nil
		case "G", "end":
			dm.viewport.GotoBottom()
			return dm, nil
		}
	}

	var cmd tea.Cmd
	dm.viewport, cmd = dm.viewport.Update(msg)

	return dm, cmd
}

func (dm diffModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("bundlekit dry run: %d file(s) would change", dm.files)))
	b.WriteString("\n\n")
	b.WriteString(dm.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll  g/G top/bottom  q quit", dm.viewport.ScrollPercent()*100)))

	return b.String()
}
