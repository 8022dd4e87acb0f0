package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sumnatarya/Synapse/pkg/highlight"
	"github.com/sumnatarya/Synapse/pkg/interact"
	"github.com/sumnatarya/Synapse/pkg/layout"
	"github.com/sumnatarya/Synapse/pkg/render"
	"github.com/sumnatarya/Synapse/pkg/tree"
	"github.com/sumnatarya/Synapse/pkg/viewport"
)

// Viewer styles
var (
	viewerStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewerSearchStyle = lipgloss.NewStyle().Foreground(colorYellow)
	viewerDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	viewerEdgeStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

// statusBarLines is the vertical space reserved below the canvas.
const statusBarLines = 2

// arrowPanStep is the pan distance in cells per arrow key press.
const arrowPanStep = 3.0

// tickInterval drives transition animation frames.
const tickInterval = 50 * time.Millisecond

// frameTickMsg advances the centering transition.
type frameTickMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// =============================================================================
// ViewerModel - Interactive map viewer
// =============================================================================

// ViewerModel is the bubbletea model for the interactive tree viewer.
// The terminal cell grid is the render surface: layout coordinates map
// 1:1 onto cells before the viewport transform is applied.
type ViewerModel struct {
	Title string

	hier *tree.Hierarchy
	lay  *layout.Layout
	view *viewport.Viewport
	disp *interact.Dispatcher

	search highlight.State

	cfg ViewerConfig

	width  int
	height int

	searching bool
	queryBuf  string

	selected string
	err      error
}

// NewViewerModel creates a viewer for the given hierarchy.
func NewViewerModel(title string, h *tree.Hierarchy, cfg ViewerConfig) *ViewerModel {
	view := viewport.New(cfg.Scale)
	m := &ViewerModel{
		Title:  title,
		hier:   h,
		view:   view,
		search: highlight.Empty(),
		cfg:    cfg,
	}
	m.disp = interact.New(view, interact.Callbacks{
		OnNodeSelected: func(name string) { m.selected = name },
		OnRelayout:     m.relayout,
	})
	// Hit testing works in cell units, so a generous pixel radius would
	// make neighboring nodes unpickable.
	m.disp.HitRadius = 2
	return m
}

// SetQuery applies a search highlight before the viewer starts.
func (m *ViewerModel) SetQuery(q string) {
	m.search = highlight.Compute(m.hier, q)
}

// relayout recomputes positions for new surface bounds. The viewport keeps
// its pan and zoom so resizing does not yank the view around.
func (m *ViewerModel) relayout(bounds layout.Bounds) {
	lay, err := layout.Compute(m.hier, bounds, layout.Options{})
	if err != nil {
		// Zero-size surface; keep the previous layout until the next resize.
		return
	}
	m.lay = lay
	m.disp.SetScene(m.hier, lay)
}

func (m *ViewerModel) Init() tea.Cmd {
	return frameTick()
}

func (m *ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := m.lay == nil
		m.width = msg.Width
		m.height = msg.Height - statusBarLines
		if m.height < 1 {
			m.height = 1
		}
		m.disp.Resize(float64(m.width), float64(m.height))
		if first && m.lay != nil {
			m.startEntry()
		}

	case frameTickMsg:
		m.view.Tick(time.Time(msg))
		return m, frameTick()

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// startEntry plays the initial centering transition: the view settles from
// a zoomed-out overview onto the identity transform.
func (m *ViewerModel) startEntry() {
	m.view.Reset(viewport.State{
		Scale:      0.5,
		TranslateX: float64(m.width) * 0.25,
		TranslateY: float64(m.height) * 0.25,
	})
	m.view.StartTransition(viewport.Identity, m.cfg.TransitionDuration(), time.Now())
}

func (m *ViewerModel) handleMouse(msg tea.MouseMsg) {
	x, y := float64(msg.X), float64(msg.Y)
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.disp.Wheel(1, x, y)
		return
	case tea.MouseButtonWheelDown:
		m.disp.Wheel(-1, x, y)
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.disp.PointerDown(x, y)
		}
	case tea.MouseActionMotion:
		m.disp.PointerMove(x, y)
	case tea.MouseActionRelease:
		m.disp.PointerUp(x, y)
	}
}

func (m *ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.queryBuf = m.search.Query
	case "esc":
		m.search = highlight.Empty()
	case "r":
		m.view.StartTransition(viewport.Identity, m.cfg.TransitionDuration(), time.Now())
	case "+", "=":
		m.disp.Wheel(1, float64(m.width)/2, float64(m.height)/2)
	case "-", "_":
		m.disp.Wheel(-1, float64(m.width)/2, float64(m.height)/2)
	case "left", "h":
		m.view.Pan(arrowPanStep, 0)
	case "right", "l":
		m.view.Pan(-arrowPanStep, 0)
	case "up", "k":
		m.view.Pan(0, arrowPanStep)
	case "down", "j":
		m.view.Pan(0, -arrowPanStep)
	}
	return m, nil
}

func (m *ViewerModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.search = highlight.Empty()
		return m, nil
	case "enter":
		m.searching = false
		return m, nil
	case "backspace":
		if m.queryBuf != "" {
			m.queryBuf = m.queryBuf[:len(m.queryBuf)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.queryBuf += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.queryBuf += " "
		} else {
			return m, nil
		}
	}
	// Live highlight: every keystroke recomputes the match set.
	m.search = highlight.Compute(m.hier, m.queryBuf)
	return m, nil
}

// =============================================================================
// View - terminal rasterization
// =============================================================================

type viewerCell struct {
	ch    rune
	style lipgloss.Style
	edge  bool
}

func (m *ViewerModel) View() string {
	if m.width == 0 || m.lay == nil {
		return "loading..."
	}

	frame := render.Build(m.hier, m.lay, m.view.State(), m.search, m.disp.Hover(), render.Options{
		Palette: m.cfg.Palette,
	})

	grid := make([][]viewerCell, m.height)
	for i := range grid {
		grid[i] = make([]viewerCell, m.width)
	}

	// Edges first: node markers and labels paint over connector glyphs.
	for _, e := range frame.Edges {
		m.plotEdge(grid, e)
	}
	for _, n := range frame.Nodes {
		m.plotNode(grid, n)
	}

	var b strings.Builder
	for _, row := range grid {
		for _, cell := range row {
			if cell.ch == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(cell.style.Render(string(cell.ch)))
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.statusBar())
	return b.String()
}

// plotEdge rasterizes one parent-child connector as an elbow: out of the
// parent along its row, a vertical run at the midpoint column, then into
// the child along its row. Edges on a match path keep the highlight color
// so the path from root to match stays continuous; off-path edges dim with
// their nodes while a search is active.
func (m *ViewerModel) plotEdge(grid [][]viewerCell, e render.EdgePaint) {
	style := viewerEdgeStyle
	if e.Opacity < 1 {
		style = viewerDimStyle
	}
	if e.OnPath {
		style = viewerSearchStyle
	}

	set := func(x, y int, ch rune) {
		if y < 0 || y >= m.height || x < 0 || x >= m.width {
			return
		}
		grid[y][x] = viewerCell{ch: ch, style: style, edge: true}
	}

	x1, y1 := int(e.X1), int(e.Y1)
	x2, y2 := int(e.X2), int(e.Y2)
	if y1 == y2 {
		for x := min(x1, x2) + 1; x < max(x1, x2); x++ {
			set(x, y1, '─')
		}
		return
	}

	midX := (x1 + x2) / 2
	for x := min(x1, midX) + 1; x < max(x1, midX); x++ {
		set(x, y1, '─')
	}
	for x := min(midX, x2) + 1; x < max(midX, x2); x++ {
		set(x, y2, '─')
	}
	for y := min(y1, y2) + 1; y < max(y1, y2); y++ {
		set(midX, y, '│')
	}
	if y2 > y1 {
		set(midX, y1, '╮')
		set(midX, y2, '╰')
	} else {
		set(midX, y1, '╯')
		set(midX, y2, '╭')
	}
}

// plotNode draws one node marker plus as much of its label as fits.
func (m *ViewerModel) plotNode(grid [][]viewerCell, n render.NodePaint) {
	x, y := int(n.X), int(n.Y)
	if y < 0 || y >= m.height || x < 0 || x >= m.width {
		return
	}

	marker := '●'
	if n.Leaf {
		marker = '○'
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color))
	dimmed := n.Opacity < 1
	if dimmed {
		style = viewerDimStyle
	}
	if n.Matched || n.Hovered {
		style = style.Bold(true)
	}

	grid[y][x] = viewerCell{ch: marker, style: style}

	labelStyle := style
	if dimmed {
		labelStyle = viewerDimStyle
	}
	// Labels may paint over connector glyphs but never over another
	// node's marker or label.
	for i, r := range []rune(" " + n.Label) {
		cx := x + 1 + i
		if cx >= m.width {
			break
		}
		if grid[y][cx].ch != 0 && !grid[y][cx].edge {
			break
		}
		grid[y][cx] = viewerCell{ch: r, style: labelStyle}
	}
}

func (m *ViewerModel) statusBar() string {
	var left string
	if m.searching {
		left = viewerSearchStyle.Render("/" + m.queryBuf + "▌")
	} else if m.search.Active() {
		left = viewerSearchStyle.Render(fmt.Sprintf("/%s (%d matches, esc clears)", m.search.Query, len(m.search.Matched)))
	} else if m.selected != "" {
		left = viewerStatusStyle.Render("selected: " + m.selected)
	} else {
		left = viewerStatusStyle.Render(m.Title)
	}

	right := viewerStatusStyle.Render(fmt.Sprintf("%d nodes · %.0f%%", m.hier.Len(), m.view.State().Scale*100))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	help := viewerDimStyle.Render("drag pan · wheel zoom · / search · r reset · q quit")
	return left + strings.Repeat(" ", gap) + right + "\n" + help
}
