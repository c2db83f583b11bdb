package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/viewer"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	columnStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	columnActiveStyle = columnStyle.BorderForeground(colorCyan)
)

const (
	opacityStep = 5
	splitStep   = 5
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var sel selectionFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse drawings interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.Close()

			v := viewer.New(e.meta, e.viewerOptions())
			if err := v.Apply(sel.update(cmd)); err != nil {
				return err
			}

			p := tea.NewProgram(newBrowseModel(v), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(browseModel); ok {
				printView(m.view)
			}
			return nil
		},
	}

	sel.register(cmd)
	return cmd
}

// =============================================================================
// browseModel - Interactive drawing selection
// =============================================================================

type column int

const (
	colDrawings column = iota
	colDisciplines
	colRegions
	colRevisions
	numColumns
)

var columnTitles = [numColumns]string{"Drawing", "Discipline", "Region", "Revision"}

// browseModel is the bubbletea model of the browse command. Moving the cursor
// selects immediately, so the summary always shows the highlighted entry.
type browseModel struct {
	v      *viewer.Viewer
	view   viewer.View
	focus  column
	cursor [numColumns]int
}

func newBrowseModel(v *viewer.Viewer) browseModel {
	m := browseModel{v: v}
	m.refresh()
	return m
}

func (m *browseModel) refresh() {
	m.view = m.v.View()
	for col := colDrawings; col < numColumns; col++ {
		m.cursor[col] = 0
		for i, item := range m.items(col) {
			if item.Value == m.selected(col) {
				m.cursor[col] = i
			}
		}
	}
}

func (m browseModel) items(col column) []viewer.Choice {
	names := func(ss []string) []viewer.Choice {
		out := make([]viewer.Choice, len(ss))
		for i, s := range ss {
			out[i] = viewer.Choice{Value: s, Label: s}
		}
		return out
	}
	switch col {
	case colDrawings:
		return m.view.Drawings
	case colDisciplines:
		return names(m.view.Disciplines)
	case colRegions:
		return names(m.view.Regions)
	case colRevisions:
		return m.view.Revisions
	}
	return nil
}

func (m browseModel) selected(col column) string {
	s := m.view.State
	switch col {
	case colDrawings:
		return s.Drawing
	case colDisciplines:
		return s.Discipline
	case colRegions:
		return s.Region
	case colRevisions:
		return s.Revision
	}
	return ""
}

func (m *browseModel) choose(col column, value string) {
	switch col {
	case colDrawings:
		m.v.SelectDrawing(value)
	case colDisciplines:
		m.v.SelectDiscipline(value)
	case colRegions:
		m.v.SelectRegion(value)
	case colRevisions:
		m.v.SelectRevision(value)
	}
}

func (m *browseModel) move(delta int) {
	items := m.items(m.focus)
	i := m.cursor[m.focus] + delta
	if i < 0 || i >= len(items) {
		return
	}
	m.choose(m.focus, items[i].Value)
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	s := m.view.State
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "right", "l":
		m.focus = (m.focus + 1) % numColumns
	case "shift+tab", "left", "h":
		m.focus = (m.focus + numColumns - 1) % numColumns
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "c":
		m.v.SetCompare(!s.Compare)
	case "s":
		m.v.SetBeforeAfter(!s.BeforeAfter)
	case "p":
		m.v.SetShowComparePolygon(!s.ShowComparePolygon)
	case "+", "=":
		m.v.SetOpacity(s.Opacity + opacityStep)
	case "-":
		m.v.SetOpacity(s.Opacity - opacityStep)
	case "]":
		m.v.SetSplit(s.Split + splitStep)
	case "[":
		m.v.SetSplit(s.Split - splitStep)
	case "x":
		m.v.ResetCalibration()
	}
	m.refresh()
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.view.Project))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(strings.Join(m.view.Breadcrumb, " "+iconArrow+" ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ column  ↑/↓ select  c compare  s split  +/- opacity  [/] split  p polygon  x reset  q quit"))
	b.WriteString("\n\n")

	cols := make([]string, 0, numColumns)
	for col := colDrawings; col < numColumns; col++ {
		cols = append(cols, m.renderColumn(col))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n\n")
	b.WriteString(m.renderSummary())
	return b.String()
}

func (m browseModel) renderColumn(col column) string {
	var b strings.Builder
	b.WriteString(listDimStyle.Render(columnTitles[col]))
	b.WriteString("\n")

	items := m.items(col)
	if len(items) == 0 {
		b.WriteString(listDimStyle.Render("-"))
	}
	for i, item := range items {
		line := "  " + item.Label
		switch {
		case i == m.cursor[col] && col == m.focus:
			line = listSelectedStyle.Render("▸ " + item.Label)
		case i == m.cursor[col]:
			line = listNormalStyle.Bold(true).Render("• " + item.Label)
		default:
			line = listNormalStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	style := columnStyle
	if col == m.focus {
		style = columnActiveStyle
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func (m browseModel) renderSummary() string {
	v := m.view
	if v.Image == nil {
		return StyleWarning.Render(v.Message)
	}

	rows := [][]string{
		{"Image", v.Image.Name},
		{"Size", sizeLabel(v.Image)},
	}
	if v.Details != nil {
		rows = append(rows, []string{"Changes", v.Details.Summary})
	}
	if v.Polygon != nil {
		rows = append(rows, []string{"Polygon", v.Polygon.Points})
	}
	if c := v.Compare; c != nil {
		overlay := "-"
		if c.Image != nil {
			overlay = c.Image.Name
		}
		rows = append(rows,
			[]string{"Compare", fmt.Sprintf("%s with %s (%s)", v.State.SecondaryDiscipline, overlay, c.Mode)},
			[]string{"Style", c.CSS},
		)
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorGray)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

func sizeLabel(img *viewer.Image) string {
	if img.Known {
		return img.Size.String()
	}
	return img.Size.String() + " (placeholder)"
}
