package monitor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mdouchement/bedlink/hdlc"
	"github.com/mdouchement/bedlink/hexbyte"
)

const history = 256

type frameMsg struct {
	n     int
	at    time.Time
	frame hdlc.Frame
}

type model struct {
	table  table.Model
	title  string
	frames []frameMsg
	last   time.Time
}

func newTUI(title string) *model {
	columns := []table.Column{
		{Title: "#", Width: 6},
		{Title: "Time", Width: 12},
		{Title: "Gap", Width: 8},
		{Title: "Len", Width: 4},
		{Title: "Status", Width: 13},
		{Title: "Bytes", Width: 80},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		Foreground(lipgloss.Color("#00afff")).
		BorderForeground(lipgloss.Color("#00afff")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Bold(false)
	t.SetStyles(s)

	return &model{
		table: t,
		title: title,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(msg.Height - 1) // Title line
	case frameMsg:
		m.update(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00afff")).Bold(true)

func (m *model) View() string {
	return titleStyle.Render(fmt.Sprintf("%s - %d frames", m.title, len(m.frames))) + "\n" + m.table.View()
}

// update adds f on top of the table, only the latest frames are kept.
func (m *model) update(f frameMsg) {
	gap := "-"
	if !m.last.IsZero() {
		gap = fmt.Sprintf("%.3fs", f.at.Sub(m.last).Seconds())
	}
	m.last = f.at

	m.frames = append(m.frames, f)
	if len(m.frames) > history {
		m.frames = m.frames[len(m.frames)-history:]
	}

	row := table.Row{
		fmt.Sprint(f.n),
		f.at.Format("15:04:05.000"),
		gap,
		fmt.Sprint(len(f.frame.Bytes)),
		f.frame.Status.String(),
		hexbyte.FormatCompact(f.frame.Bytes),
	}

	rows := append([]table.Row{row}, m.table.Rows()...)
	if len(rows) > history {
		rows = rows[:history]
	}
	m.table.SetRows(rows)
}
