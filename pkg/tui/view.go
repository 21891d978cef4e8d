package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/drugnet/pkg/visualization"
)

func (m Model) View() string {
	if m.term == nil {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderStats())
	s.WriteString("\n")

	e := m.explorer
	canvas := m.term.Render(e.Scene(), e.Transform())
	lines, _ := m.panelLines()
	panel := panelStyle.
		Width(panelWidth - 2).
		Height(m.rows - 2).
		Render(strings.Join(lines, "\n"))
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, canvas, " ", panel))
	s.WriteString("\n")

	switch {
	case m.searching:
		s.WriteString(m.searchInput.View())
	case m.message != "" && m.messageErr:
		s.WriteString(errorStyle.Render("✗ " + m.message))
	case m.message != "":
		s.WriteString(successStyle.Render("✓ " + m.message))
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return s.String()
}

func (m Model) renderHeader() string {
	e := m.explorer
	mode := "overview"
	if e.Mode() == visualization.ModeFocal {
		mode = "focus: " + m.drugName(e.Focus())
	}
	header := titleStyle.Render("drugnet") + "  " + modeStyle.Render(mode)
	if scale := e.Transform().Scale; scale != 1 {
		header += dimStyle.Render(fmt.Sprintf("  zoom %.0f%%", scale*100))
	}
	if m.loading {
		header += dimStyle.Render("  loading…")
	}
	return header
}

// renderStats is the stats bar: drug and connection counts, the threshold and
// the mean similarity of the drawn edges.
func (m Model) renderStats() string {
	st := m.explorer.Snapshot().Stats()
	// Until the reload lands, show the threshold being fetched.
	st.Threshold = m.threshold

	item := func(label, value string) string {
		return statsStyle.Render(label+" ") + statValueStyle.Render(value)
	}
	sep := dimStyle.Render("  │  ")
	return strings.Join([]string{
		item("Drugs", fmt.Sprint(st.Nodes)),
		item("Connections", fmt.Sprint(st.Edges)),
		item("Threshold", st.ThresholdLabel()),
		item("Avg similarity", st.AvgSimilarityLabel()),
	}, sep)
}

// panelLines builds the side panel content. first is the line index of the
// first similar-drug entry, or -1 when no list is shown.
func (m Model) panelLines() (lines []string, first int) {
	width := panelWidth - 4
	maxLines := max(m.rows-2, 1)
	first = -1
	e := m.explorer

	switch {
	case m.searching:
		lines = append(lines, headerStyle.Render("Search"))
		if len(m.results) == 0 && m.searchInput.Value() != "" {
			lines = append(lines, dimStyle.Render("no matches"))
		}
		for i, d := range m.results {
			line := truncate(fmt.Sprintf("%-14s %s", d.Name, d.Mechanism), width)
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			lines = append(lines, line)
		}

	case e.Focus() != "" && e.Mode() == visualization.ModeFocal:
		id := e.Focus()
		d, ok := m.catalog.Get(id)
		if !ok {
			d.ID, d.Name = id, m.drugName(id)
		}
		lines = append(lines,
			headerStyle.Render(truncate(d.Name, width)),
			truncate("id         "+d.ID, width),
		)
		if d.CellLine != "" {
			lines = append(lines, truncate("cell line  "+d.CellLine, width))
		}
		if d.Mechanism != "" {
			lines = append(lines, truncate("mechanism  "+d.Mechanism, width))
		}
		if d.SamplesAggregated > 0 {
			lines = append(lines, fmt.Sprintf("samples    %d", d.SamplesAggregated))
		}
		if link := d.PubChemURL(); link != "" {
			lines = append(lines, "pubchem")
			for _, part := range chunk(link, width) {
				lines = append(lines, dimStyle.Render(part))
			}
		}

		neighbors := e.Neighbors()
		lines = append(lines, "", headerStyle.Render(fmt.Sprintf("Similar drugs (%d)", len(neighbors))))
		if len(neighbors) == 0 {
			lines = append(lines, dimStyle.Render("none above threshold"))
			break
		}
		first = len(lines)
		for i, n := range neighbors {
			badge := visualization.FormatSimilarity(n.Similarity)
			name := truncate(m.drugName(n.ID), width-len(badge)-1)
			line := fmt.Sprintf("%-*s %s", width-len(badge)-1, name, badgeStyle.Render(badge))
			if i == m.cursor {
				line = selectedStyle.Render(fmt.Sprintf("%-*s %s", width-len(badge)-1, name, badge))
			}
			lines = append(lines, line)
		}

	case e.Focus() != "":
		lines = append(lines,
			headerStyle.Render(truncate(m.drugName(e.Focus()), width)),
			dimStyle.Render("not in the current network"),
			dimStyle.Render("lower the threshold or esc"),
		)

	default:
		lines = append(lines,
			headerStyle.Render("Overview"),
			dimStyle.Render("click a drug to focus it"),
			dimStyle.Render("/ searches by name"),
		)
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines, first
}

// drugName prefers the catalog name, then the snapshot label, then the id.
func (m Model) drugName(id string) string {
	if d, ok := m.catalog.Get(id); ok && d.Name != "" {
		return d.Name
	}
	if n, ok := m.explorer.Snapshot().Node(id); ok {
		return n.Label()
	}
	return id
}

// chunk splits s into pieces of at most n runes so a long value can span
// panel lines without wrapping inside the border.
func chunk(s string, n int) []string {
	r := []rune(s)
	if n <= 0 || len(r) == 0 {
		return nil
	}
	out := make([]string, 0, (len(r)+n-1)/n)
	for len(r) > n {
		out = append(out, string(r[:n]))
		r = r[n:]
	}
	return append(out, string(r))
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
