package termui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const closeGlyph = "✕"

// drainMsg asks the model to run posted functions.
type drainMsg struct{}

// pulseMsg advances indeterminate progress bars.
type pulseMsg struct{}

// KeyMap defines the key bindings of a splash in the terminal.
type KeyMap struct {
	Close key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Close: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// model is the BubbleTea model. Windows are kept in stacking order, the
// last one on top; only the topmost presented window is drawn.
type model struct {
	tk       *Toolkit
	keys     KeyMap
	windows  []*window
	nextID   int
	cols     int
	rows     int
	quitting bool
}

func newModel(tk *Toolkit) *model {
	return &model{tk: tk, keys: DefaultKeyMap()}
}

func (m *model) add(top bool) *window {
	m.nextID++
	if top {
		m.quitting = false
	}
	w := &window{tk: m.tk, id: m.nextID, top: top, inputEnabled: true}
	m.windows = append(m.windows, w)
	return w
}

func (m *model) remove(w *window) {
	for i, other := range m.windows {
		if other == w {
			m.windows = append(m.windows[:i], m.windows[i+1:]...)
			return
		}
	}
}

func (m *model) raise(w *window) {
	m.remove(w)
	m.windows = append(m.windows, w)
}

func (m *model) root() *window {
	for _, w := range m.windows {
		if w.top && !w.destroyed {
			return w
		}
	}
	return nil
}

// topmost returns the window drawn on screen.
func (m *model) topmost() *window {
	for i := len(m.windows) - 1; i >= 0; i-- {
		if w := m.windows[i]; w.presented && !w.destroyed {
			return w
		}
	}
	return nil
}

func (m *model) Init() tea.Cmd {
	return func() tea.Msg { return drainMsg{} }
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case drainMsg:
		for _, fn := range m.tk.drain() {
			fn()
		}
	case pulseMsg:
		for _, w := range m.windows {
			if p := w.progress; p != nil && p.done != nil {
				p.pos++
			}
		}
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}

	if m.quitting {
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		for _, w := range append([]*window(nil), m.windows...) {
			if !w.destroyed {
				w.requestClose()
			}
		}
		m.quitting = true
	case key.Matches(msg, m.keys.Close):
		if w := m.topmost(); w != nil && w.inputEnabled {
			w.requestClose()
		}
	}
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	w := m.topmost()
	if w == nil || w.closeBtn == nil || !w.inputEnabled {
		return
	}
	col, row := m.closeCell(w)
	inside := msg.Y == row && msg.X >= col-1 && msg.X <= col+1
	switch msg.Action {
	case tea.MouseActionMotion:
		w.closeBtn.hover(inside)
	case tea.MouseActionRelease:
		if inside && w.closeBtn.onClick != nil {
			w.closeBtn.onClick()
		}
	}
}

// origin returns the top left cell of w.
func (m *model) origin(w *window) (col, row int) {
	if !w.placed {
		return 0, 0
	}
	return w.geometry.X / CellWidth, w.geometry.Y / CellHeight
}

func (m *model) closeCell(w *window) (col, row int) {
	col, row = m.origin(w)
	cols := cells(w.geometry.Width, CellWidth)
	return col + cols - 2, row
}

// measure returns the natural size of w's content in cells.
func (m *model) measure(w *window) (cols, rows int) {
	box := m.box(w, 0, 0)
	return lipgloss.Width(box), lipgloss.Height(box)
}

func (m *model) View() string {
	w := m.topmost()
	if w == nil || m.quitting {
		return ""
	}
	cols := cells(w.geometry.Width, CellWidth)
	rows := cells(w.geometry.Height, CellHeight)
	col, row := m.origin(w)
	return lipgloss.NewStyle().MarginLeft(col).MarginTop(row).Render(m.box(w, cols, rows))
}

// box renders w. Zero cols or rows means natural size.
func (m *model) box(w *window, cols, rows int) string {
	bg := m.color(w.bg)
	fg := m.color(w.fg)
	inner := cols - 2
	text := lipgloss.NewStyle().Foreground(fg).Background(bg)
	if w.font.Bold() {
		text = text.Bold(true)
	}

	var parts []string
	if w.title != nil || w.closeBtn != nil {
		parts = append(parts, m.header(w, text, inner))
	}
	if w.message != nil {
		msg := text
		width := min(lipgloss.Width(w.message.text), w.wrapCols)
		if inner > 0 {
			width = inner
		}
		parts = append(parts, msg.Width(width).Render(w.message.text))
	}
	if p := w.progress; p != nil {
		width := w.wrapCols
		if inner > 0 {
			width = inner
		}
		parts = append(parts, m.progressView(p, width))
	}

	frame := lipgloss.NewStyle().Background(bg).Foreground(fg).Padding(0, 1)
	if cols > 0 {
		frame = frame.Width(cols)
	}
	if rows > 0 {
		frame = frame.Height(rows)
	}
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m *model) header(w *window, text lipgloss.Style, inner int) string {
	title := ""
	if w.title != nil {
		title = text.Bold(true).Render(w.title.text)
	}
	if w.closeBtn == nil {
		return title
	}
	btn := lipgloss.NewStyle().Foreground(text.GetForeground()).Background(m.color(w.closeBtn.bg))
	if w.closeBtn.width > 2 {
		btn = btn.Bold(true)
	}
	cross := btn.Render(closeGlyph)
	gap := 1
	if inner > 0 {
		gap = max(1, inner-lipgloss.Width(title)-lipgloss.Width(cross))
	}
	return title + text.Render(strings.Repeat(" ", gap)) + cross
}

func (m *model) progressView(p *progressBar, width int) string {
	if !p.indeterminate {
		p.bar.Width = width
		return p.bar.ViewAs(p.fraction())
	}
	seg := max(1, width/5)
	span := max(1, width-seg)
	// bounce back and forth
	pos := p.pos % (2 * span)
	if pos >= span {
		pos = 2*span - pos
	}
	return strings.Repeat("░", pos) + strings.Repeat("█", seg) + strings.Repeat("░", max(0, width-pos-seg))
}

// color maps a color name or hex string to a terminal color.
func (m *model) color(c string) lipgloss.Color {
	if rgb, ok := m.tk.Colors().Lookup(c); ok {
		return lipgloss.Color(rgb.Hex())
	}
	return lipgloss.Color(c)
}
